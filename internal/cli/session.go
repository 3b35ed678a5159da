package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kaustubhkharvi/stock-trader/internal/config"
	"github.com/kaustubhkharvi/stock-trader/internal/display"
	"github.com/kaustubhkharvi/stock-trader/internal/engine"
	"github.com/kaustubhkharvi/stock-trader/internal/ledger"
	"github.com/kaustubhkharvi/stock-trader/internal/models"
	"github.com/kaustubhkharvi/stock-trader/internal/quotes"
	"github.com/kaustubhkharvi/stock-trader/internal/storage/sqlite"
	"github.com/kaustubhkharvi/stock-trader/internal/store"
)

// trackedSymbols is the NIFTY 50 universe shown on the price board.
var trackedSymbols = []string{
	"ADANIENT", "ADANIPORTS", "APOLLOHOSP", "ASIANPAINT", "AXISBANK",
	"BAJAJ-AUTO", "BAJFINANCE", "BAJAJFINSV", "BPCL", "BHARTIARTL",
	"BRITANNIA", "CIPLA", "COALINDIA", "DIVISLAB", "DRREDDY",
	"EICHERMOT", "GRASIM", "HCLTECH", "HDFCBANK", "HDFCLIFE",
	"HEROMOTOCO", "HINDALCO", "HINDUNILVR", "ICICIBANK", "ITC",
	"INDUSINDBK", "INFY", "JSWSTEEL", "KOTAKBANK", "LT",
	"M&M", "MARUTI", "NTPC", "NESTLEIND", "ONGC",
	"POWERGRID", "RELIANCE", "SBILIFE", "SBIN", "SUNPHARMA",
	"TCS", "TATACONSUM", "TATAMOTORS", "TATASTEEL", "TECHM",
	"TITAN", "TRENT", "ULTRACEMCO", "UPL", "WIPRO",
}

// adminUsers have access to the administration commands.
var adminUsers = map[string]bool{
	"admin":         true,
	"administrator": true,
	"root":          true,
	"superuser":     true,
}

type tradingSession struct {
	cfg      *config.Config
	render   *display.Renderer
	accounts *store.AccountStore
	orders   *store.OrderStore
	engine   *engine.Engine
	quotes   quotes.Source
	history  *quotes.YahooSource
	db       *sqlite.Store
	reader   *bufio.Reader
	username string
	board    []models.Quote
}

// runTradingSession loads persisted state, authenticates the trader and
// runs the command loop. Conditional orders are evaluated once per loop
// iteration, before the next command is read.
func runTradingSession(cfg *config.Config) error {
	ctx := context.Background()

	db, err := sqlite.Open(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("open state database: %w", err)
	}
	defer db.Close()

	accounts := store.NewAccountStore(cfg.StartingCash)
	saved, err := db.LoadAccounts(ctx)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	for _, acct := range saved {
		if err := accounts.Put(acct); err != nil {
			return fmt.Errorf("restore account %s: %w", acct.Username, err)
		}
	}

	orders := store.NewOrderStore()
	savedOrders, err := db.LoadOrders(ctx)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	for _, o := range savedOrders {
		if err := orders.Restore(o); err != nil {
			return fmt.Errorf("restore order %s: %w", o.ID, err)
		}
	}

	src := buildQuoteSource(cfg)

	s := &tradingSession{
		cfg:      cfg,
		render:   display.NewRenderer(cfg.CurrencySymbol),
		accounts: accounts,
		orders:   orders,
		engine:   engine.New(accounts, orders, src),
		quotes:   src,
		history:  buildHistorySource(cfg),
		db:       db,
		reader:   bufio.NewReader(os.Stdin),
	}

	s.render.Banner()

	username, err := PromptForUsername()
	if err != nil {
		return fmt.Errorf("read username: %w", err)
	}
	s.username = username

	acct, created := accounts.GetOrCreate(username)
	if created {
		s.render.Success("Welcome! New trader account created with %s%s starting capital!",
			cfg.CurrencySymbol, cfg.StartingCash.StringFixed(2))
	} else {
		fmt.Printf("👋 Welcome back, %s!\n", username)
	}

	s.render.AccountStatus(acct, s.quotes)
	s.render.Info("Type 'help' to see all available commands")

	return s.loop(ctx)
}

func (s *tradingSession) account() *models.Account {
	return s.accounts.Get(s.username)
}

func (s *tradingSession) isAdmin() bool {
	return adminUsers[strings.ToLower(s.username)]
}

func (s *tradingSession) loop(ctx context.Context) error {
	for {
		// Evaluate conditional orders before handling the next command.
		res := s.engine.Tick(s.account())
		s.render.StopExecutions(res.StopExecutions)
		s.render.LimitExecutions(res.LimitExecutions, s.username)
		if len(res.StopExecutions) > 0 || len(res.LimitExecutions) > 0 {
			s.persist(ctx)
		}

		fmt.Print("\n🎯 trader> ")
		line, err := s.reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return nil
		}

		parts := strings.Fields(strings.TrimSpace(line))
		if len(parts) == 0 {
			continue
		}

		if strings.ToLower(parts[0]) == "quit" || strings.ToLower(parts[0]) == "exit" {
			s.persist(ctx)
			fmt.Println("👋 Thank you for trading. Your session has been saved!")
			return nil
		}

		s.dispatch(ctx, strings.ToLower(parts[0]), parts[1:])
		s.persist(ctx)
	}
}

func (s *tradingSession) dispatch(ctx context.Context, cmd string, args []string) {
	switch cmd {
	case "help":
		s.showHelp()
	case "prices":
		s.handlePrices(args)
	case "top10":
		s.handleTopMovers()
	case "history":
		s.handleHistory(args)
	case "buy":
		s.handleBuy(args)
	case "sell":
		s.handleSell(args)
	case "sellpct":
		s.handleSellPercent(args)
	case "limitbuy":
		s.handleLimitOrder(args, models.SideBuy)
	case "limitsell":
		s.handleLimitOrder(args, models.SideSell)
	case "stoploss":
		s.handleStopLoss(args)
	case "trailstop":
		s.handleTrailingStop(args)
	case "orders":
		s.handleOrders()
	case "cancel":
		s.handleCancel(args)
	case "portfolio":
		s.render.Portfolio(s.account(), s.quotes)
	case "networth":
		s.handleNetWorth()
	case "leaderboard":
		s.handleLeaderboard(ctx)
	case "refresh":
		s.refreshBoard(true)
	default:
		if s.isAdmin() && s.dispatchAdmin(ctx, cmd, args) {
			return
		}
		s.render.Error("Unknown command: '%s'. Type 'help' to see all available commands.", cmd)
	}
}

func (s *tradingSession) showHelp() {
	fmt.Println("💡 Commands:")
	fmt.Println("  Market data")
	fmt.Println("    prices [symbol]                    live prices / single quote")
	fmt.Println("    top10                              top gainers and losers")
	fmt.Println("    history <symbol> [days]            daily price history")
	fmt.Println("    refresh                            refetch market data")
	fmt.Println("  Trading")
	fmt.Println("    buy <symbol> <shares>              market buy")
	fmt.Println("    sell <symbol> <shares>             market sell")
	fmt.Println("    sellpct <symbol> <percent>         sell a percentage of a position")
	fmt.Println("    limitbuy <symbol> <shares> <price> buy when price drops to target")
	fmt.Println("    limitsell <symbol> <shares> <price> sell when price rises to target")
	fmt.Println("  Risk management")
	fmt.Println("    stoploss <symbol> <shares> <price> fixed stop loss")
	fmt.Println("    trailstop <symbol> <shares> <pct>  trailing stop loss")
	fmt.Println("    orders                             show active orders")
	fmt.Println("    cancel stoploss|limit [symbol]     cancel orders")
	fmt.Println("  Portfolio")
	fmt.Println("    portfolio                          holdings with P/L")
	fmt.Println("    networth                           account valuation")
	fmt.Println("    leaderboard                        top traders")
	fmt.Println("    quit                               save and exit")
	if s.isAdmin() {
		fmt.Println("  Admin")
		fmt.Println("    listusers | userinfo <user> | resetuser <user> | deleteuser <user>")
		fmt.Println("    setbalance <user> <amount> | stats | clearorders")
	}
}

// refreshBoard fetches quotes for the tracked universe. Failures are
// skipped; the board simply shows what could be priced.
func (s *tradingSession) refreshBoard(verbose bool) {
	var board []models.Quote
	for _, sym := range trackedSymbols {
		q, err := s.quotes.GetQuote(sym)
		if err != nil {
			continue
		}
		board = append(board, q)
	}
	s.board = board
	if verbose {
		if len(board) == 0 {
			s.render.Warn("Market data unavailable. Some features may be limited.")
		} else {
			s.render.Success("Market data refreshed (%d symbols)", len(board))
		}
	}
}

func (s *tradingSession) handlePrices(args []string) {
	if len(args) >= 1 {
		sym := quotes.NormalizeSymbol(args[0])
		q, err := s.quotes.GetQuote(sym)
		if err != nil {
			s.render.Error("No quote available for %s", sym)
			return
		}
		s.render.Quote(q)
		return
	}
	if len(s.board) == 0 {
		s.refreshBoard(false)
	}
	s.render.PriceBoard(s.board)
}

func (s *tradingSession) handleHistory(args []string) {
	if len(args) < 1 || len(args) > 2 {
		s.render.Warn("Usage: history <symbol> [days] (e.g., history RELIANCE 30)")
		return
	}
	if s.history == nil {
		s.render.Warn("Historical data is not available in offline mode.")
		return
	}
	sym := quotes.NormalizeSymbol(args[0])
	days := 30
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 || n > 365 {
			s.render.Error("Invalid number of days: %s", args[1])
			return
		}
		days = n
	}

	bars, err := s.history.History(sym, days)
	if err != nil {
		s.render.Error("No historical data for %s", sym)
		return
	}
	s.render.History(sym, bars)
}

func (s *tradingSession) handleTopMovers() {
	if len(s.board) == 0 {
		s.refreshBoard(false)
	}
	s.render.TopMovers(s.board, 10)
}

func parseShares(arg string) (int64, error) {
	shares, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || shares <= 0 {
		return 0, fmt.Errorf("invalid number of shares: %s", arg)
	}
	return shares, nil
}

func parsePrice(arg string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(arg)
	if err != nil || !price.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("invalid price: %s", arg)
	}
	return price, nil
}

func (s *tradingSession) handleBuy(args []string) {
	if len(args) != 2 {
		s.render.Warn("Usage: buy <symbol> <shares> (e.g., buy RELIANCE 10)")
		return
	}
	sym := quotes.NormalizeSymbol(args[0])
	shares, err := parseShares(args[1])
	if err != nil {
		s.render.Error("%v", err)
		return
	}

	q, err := s.quotes.GetQuote(sym)
	if err != nil {
		s.render.Error("Stock data unavailable for %s", sym)
		return
	}

	cost := q.Price.Mul(decimal.NewFromInt(shares))
	if !Confirm(fmt.Sprintf("Buy %d %s at %s%s each (total %s%s)?",
		shares, sym, s.cfg.CurrencySymbol, q.Price.StringFixed(2),
		s.cfg.CurrencySymbol, cost.StringFixed(2))) {
		s.render.Info("Transaction cancelled.")
		return
	}

	if err := ledger.Buy(s.account(), sym, shares, q.Price); err != nil {
		s.render.Error("%v", err)
		return
	}
	s.render.Success("Bought %d shares of %s for %s%s",
		shares, sym, s.cfg.CurrencySymbol, cost.StringFixed(2))
}

func (s *tradingSession) handleSell(args []string) {
	if len(args) != 2 {
		s.render.Warn("Usage: sell <symbol> <shares> (e.g., sell RELIANCE 10)")
		return
	}
	sym := quotes.NormalizeSymbol(args[0])
	shares, err := parseShares(args[1])
	if err != nil {
		s.render.Error("%v", err)
		return
	}

	q, err := s.quotes.GetQuote(sym)
	if err != nil {
		s.render.Error("Stock data unavailable for %s", sym)
		return
	}

	revenue := q.Price.Mul(decimal.NewFromInt(shares))
	if !Confirm(fmt.Sprintf("Sell %d %s at %s%s each (total %s%s)?",
		shares, sym, s.cfg.CurrencySymbol, q.Price.StringFixed(2),
		s.cfg.CurrencySymbol, revenue.StringFixed(2))) {
		s.render.Info("Transaction cancelled.")
		return
	}

	if err := ledger.Sell(s.account(), sym, shares, q.Price); err != nil {
		s.render.Error("%v", err)
		return
	}
	s.render.Success("Sold %d shares of %s for %s%s",
		shares, sym, s.cfg.CurrencySymbol, revenue.StringFixed(2))
}

func (s *tradingSession) handleSellPercent(args []string) {
	if len(args) != 2 {
		s.render.Warn("Usage: sellpct <symbol> <percent> (e.g., sellpct RELIANCE 50)")
		return
	}
	sym := quotes.NormalizeSymbol(args[0])
	percent, err := decimal.NewFromString(args[1])
	if err != nil {
		s.render.Error("Invalid percentage: %s", args[1])
		return
	}

	q, err := s.quotes.GetQuote(sym)
	if err != nil {
		s.render.Error("Stock data unavailable for %s", sym)
		return
	}

	sold, err := ledger.SellPercent(s.account(), sym, percent, q.Price)
	if err != nil {
		s.render.Error("%v", err)
		return
	}
	revenue := q.Price.Mul(decimal.NewFromInt(sold))
	s.render.Success("Sold %d shares (%s%%) of %s for %s%s",
		sold, percent.StringFixed(0), sym, s.cfg.CurrencySymbol, revenue.StringFixed(2))
}

func (s *tradingSession) handleLimitOrder(args []string, side models.Side) {
	usage := "limitbuy"
	if side == models.SideSell {
		usage = "limitsell"
	}
	if len(args) != 3 {
		s.render.Warn("Usage: %s <symbol> <shares> <price>", usage)
		return
	}
	sym := quotes.NormalizeSymbol(args[0])
	shares, err := parseShares(args[1])
	if err != nil {
		s.render.Error("%v", err)
		return
	}
	target, err := parsePrice(args[2])
	if err != nil {
		s.render.Error("%v", err)
		return
	}

	acct := s.account()
	if side == models.SideBuy {
		estimated := target.Mul(decimal.NewFromInt(shares))
		if acct.Cash.LessThan(estimated) {
			s.render.Error("Insufficient balance. Need %s%s but have %s%s",
				s.cfg.CurrencySymbol, estimated.StringFixed(2),
				s.cfg.CurrencySymbol, acct.Cash.StringFixed(2))
			return
		}
	} else if acct.HeldShares(sym) < shares {
		s.render.Error("Insufficient shares. You have %d shares of %s", acct.HeldShares(sym), sym)
		return
	}

	order, err := s.orders.Add(s.username, sym, shares, target, side)
	if err != nil {
		s.render.Error("%v", err)
		return
	}
	s.render.Success("Limit order placed: %s %d %s at target %s%s (id %s)",
		side, shares, sym, s.cfg.CurrencySymbol, target.StringFixed(2), order.ID)
}

func (s *tradingSession) handleStopLoss(args []string) {
	if len(args) != 3 {
		s.render.Warn("Usage: stoploss <symbol> <shares> <price> (e.g., stoploss RELIANCE 10 2400)")
		return
	}
	sym := quotes.NormalizeSymbol(args[0])
	shares, err := parseShares(args[1])
	if err != nil {
		s.render.Error("%v", err)
		return
	}
	stopPrice, err := parsePrice(args[2])
	if err != nil {
		s.render.Error("%v", err)
		return
	}

	if err := engine.SetStopLoss(s.account(), sym, shares, stopPrice); err != nil {
		s.render.Error("%v", err)
		return
	}
	s.render.Success("Stop loss set: %d shares of %s at %s%s",
		shares, sym, s.cfg.CurrencySymbol, stopPrice.StringFixed(2))
}

func (s *tradingSession) handleTrailingStop(args []string) {
	if len(args) != 3 {
		s.render.Warn("Usage: trailstop <symbol> <shares> <percent> (e.g., trailstop RELIANCE 10 5)")
		return
	}
	sym := quotes.NormalizeSymbol(args[0])
	shares, err := parseShares(args[1])
	if err != nil {
		s.render.Error("%v", err)
		return
	}
	percent, err := decimal.NewFromString(args[2])
	if err != nil {
		s.render.Error("Invalid percentage: %s", args[2])
		return
	}

	if err := engine.SetTrailingStop(s.account(), sym, shares, percent, s.quotes); err != nil {
		s.render.Error("%v", err)
		return
	}
	so := s.account().StopOrders[sym]
	s.render.Success("Trailing stop set: %d shares of %s, %s%% below highs (initial stop %s%s)",
		shares, sym, percent.StringFixed(0), s.cfg.CurrencySymbol, so.StopPrice.StringFixed(2))
}

func (s *tradingSession) handleOrders() {
	s.render.Orders(s.account(), s.orders.ForAccount(s.username))
}

func (s *tradingSession) handleCancel(args []string) {
	if len(args) < 1 {
		s.render.Warn("Usage: cancel stoploss|limit [symbol]")
		return
	}
	symbol := ""
	if len(args) > 1 {
		symbol = quotes.NormalizeSymbol(args[1])
	}

	switch args[0] {
	case "stoploss":
		n := engine.CancelStopLoss(s.account(), symbol)
		if n == 0 {
			s.render.Error("No matching stop loss orders found.")
			return
		}
		s.render.Success("%d stop loss order(s) cancelled.", n)
	case "limit":
		n := s.orders.Cancel(s.username, symbol)
		if n == 0 {
			s.render.Error("No matching limit orders found.")
			return
		}
		s.render.Success("%d limit order(s) cancelled.", n)
	default:
		s.render.Warn("Usage: cancel stoploss|limit [symbol]")
	}
}

func (s *tradingSession) handleNetWorth() {
	s.render.AccountStatus(s.account(), s.quotes)
}

func (s *tradingSession) handleLeaderboard(ctx context.Context) {
	worth := ledger.NetWorth(s.account(), s.quotes)
	if err := s.db.UpdateLeaderboard(ctx, s.username, worth); err != nil {
		s.render.Error("Update leaderboard: %v", err)
		return
	}
	entries, err := s.db.TopTraders(ctx, 10)
	if err != nil {
		s.render.Error("Load leaderboard: %v", err)
		return
	}
	s.render.Leaderboard(entries, s.username)
}

// persist snapshots all accounts and pending orders after each command.
func (s *tradingSession) persist(ctx context.Context) {
	for _, name := range s.accounts.Usernames() {
		if err := s.db.SaveAccount(ctx, s.accounts.Get(name)); err != nil {
			s.render.Error("Save account %s: %v", name, err)
		}
	}
	if err := s.db.SaveOrders(ctx, s.orders.Pending()); err != nil {
		s.render.Error("Save orders: %v", err)
	}
}
