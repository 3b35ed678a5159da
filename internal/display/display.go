// Package display renders account and market state for the terminal. It
// only reads core structs; nothing here mutates trading state.
package display

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/kaustubhkharvi/stock-trader/internal/ledger"
	"github.com/kaustubhkharvi/stock-trader/internal/models"
	"github.com/kaustubhkharvi/stock-trader/internal/quotes"
	"github.com/kaustubhkharvi/stock-trader/internal/storage/sqlite"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	gainStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)
)

// Renderer formats amounts with the configured currency symbol.
type Renderer struct {
	Currency string
}

// NewRenderer creates a display renderer.
func NewRenderer(currency string) *Renderer {
	return &Renderer{Currency: currency}
}

func (r *Renderer) money(d decimal.Decimal) string {
	return r.Currency + d.StringFixed(2)
}

func (r *Renderer) signedMoney(d decimal.Decimal) string {
	s := r.Currency + d.Abs().StringFixed(2)
	switch {
	case d.IsPositive():
		return gainStyle.Render("+" + s)
	case d.IsNegative():
		return lossStyle.Render("-" + s)
	default:
		return s
	}
}

func (r *Renderer) signedPercent(d decimal.Decimal) string {
	s := d.Abs().StringFixed(1) + "%"
	switch {
	case d.IsPositive():
		return gainStyle.Render("+" + s)
	case d.IsNegative():
		return lossStyle.Render("-" + s)
	default:
		return s
	}
}

// Banner prints the startup banner.
func (r *Renderer) Banner() {
	banner := `
 ____  _             _    _____              _
/ ___|| |_ ___   ___| | _|_   _| __ __ _  __| | ___ _ __
\___ \| __/ _ \ / __| |/ / | || '__/ _` + "`" + ` |/ _` + "`" + ` |/ _ \ '__|
 ___) | || (_) | (__|   <  | || | | (_| | (_| |  __/ |
|____/ \__\___/ \___|_|\_\ |_||_|  \__,_|\__,_|\___|_|
`
	fmt.Println(titleStyle.Render(banner))
	fmt.Println(mutedStyle.Render("  paper trading • stop losses • trailing stops • limit orders"))
	fmt.Println()
}

// AccountStatus prints the cash / portfolio / net worth summary panel.
func (r *Renderer) AccountStatus(acct *models.Account, src quotes.Source) {
	netWorth := ledger.NetWorth(acct, src)
	portfolio := netWorth.Sub(acct.Cash)

	lines := []string{
		fmt.Sprintf("💰 Cash Balance:    %s", r.money(acct.Cash)),
		fmt.Sprintf("📊 Portfolio Value: %s", r.money(portfolio)),
		fmt.Sprintf("💎 Net Worth:       %s", r.money(netWorth)),
		fmt.Sprintf("📈 Holdings:        %d stocks", len(acct.Holdings)),
		fmt.Sprintf("🛡️ Stop Losses:     %d active", len(acct.StopOrders)),
	}
	fmt.Println(panelStyle.Render(strings.Join(lines, "\n")))
}

// Portfolio prints the priced position table with P/L per row.
func (r *Renderer) Portfolio(acct *models.Account, src quotes.Source) {
	rows := ledger.Positions(acct, src)
	if len(rows) == 0 {
		fmt.Println(mutedStyle.Render("Portfolio is empty. Use 'buy <symbol> <shares>' to get started."))
		return
	}

	fmt.Println(headerStyle.Render("💼 Your Investment Portfolio"))
	fmt.Printf("%-10s %8s %12s %14s %14s %14s %9s\n",
		"Stock", "Shares", "Avg Cost", "Price", "Value", "P/L", "P/L %")

	totalInvested := decimal.Zero
	totalValue := decimal.Zero
	for _, row := range rows {
		price := r.money(row.CurrentPrice)
		if !row.Priced {
			price = warnStyle.Render(price + "*")
		}
		plPct := decimal.Zero
		if row.Invested.IsPositive() {
			plPct = row.ProfitLoss.Div(row.Invested).Mul(decimal.NewFromInt(100))
		}
		fmt.Printf("%-10s %8d %12s %14s %14s %14s %9s\n",
			row.Symbol, row.Shares, r.money(row.AvgCost), price,
			r.money(row.MarketValue), r.signedMoney(row.ProfitLoss), r.signedPercent(plPct))

		totalInvested = totalInvested.Add(row.Invested)
		totalValue = totalValue.Add(row.MarketValue)
	}

	totalPL := totalValue.Sub(totalInvested)
	fmt.Println()
	fmt.Printf("Invested %s • Market value %s • Total P/L %s\n",
		r.money(totalInvested), r.money(totalValue), r.signedMoney(totalPL))

	for _, row := range rows {
		if !row.Priced {
			fmt.Println(mutedStyle.Render("* no live quote, valued at average cost"))
			break
		}
	}
}

// PriceBoard prints gainers and losers sorted by day change.
func (r *Renderer) PriceBoard(board []models.Quote) {
	if len(board) == 0 {
		fmt.Println(mutedStyle.Render("No market data available."))
		return
	}

	sorted := make([]models.Quote, len(board))
	copy(sorted, board)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ChangePercent().GreaterThan(sorted[j].ChangePercent())
	})

	fmt.Println(headerStyle.Render("📊 Market Prices"))
	fmt.Printf("%-12s %14s %14s %9s\n", "Symbol", "Price", "Prev Close", "Change")
	for _, q := range sorted {
		fmt.Printf("%-12s %14s %14s %9s\n",
			q.Symbol, r.money(q.Price), r.money(q.PrevClose), r.signedPercent(q.ChangePercent()))
	}

	gaining, losing := 0, 0
	for _, q := range sorted {
		switch {
		case q.ChangePercent().IsPositive():
			gaining++
		case q.ChangePercent().IsNegative():
			losing++
		}
	}
	fmt.Println(mutedStyle.Render(fmt.Sprintf(
		"%d gaining • %d declining • %d unchanged", gaining, losing, len(sorted)-gaining-losing)))
}

// TopMovers prints the n best and worst performers of the board.
func (r *Renderer) TopMovers(board []models.Quote, n int) {
	if len(board) == 0 {
		fmt.Println(mutedStyle.Render("No market data available."))
		return
	}

	sorted := make([]models.Quote, len(board))
	copy(sorted, board)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ChangePercent().GreaterThan(sorted[j].ChangePercent())
	})

	if n > len(sorted) {
		n = len(sorted)
	}

	fmt.Println(gainStyle.Render(fmt.Sprintf("🚀 Top %d Gainers", n)))
	for i := 0; i < n; i++ {
		q := sorted[i]
		fmt.Printf("%2d. %-12s %14s %9s\n", i+1, q.Symbol, r.money(q.Price), r.signedPercent(q.ChangePercent()))
	}

	fmt.Println(lossStyle.Render(fmt.Sprintf("📉 Top %d Losers", n)))
	for i := 0; i < n; i++ {
		q := sorted[len(sorted)-1-i]
		fmt.Printf("%2d. %-12s %14s %9s\n", i+1, q.Symbol, r.money(q.Price), r.signedPercent(q.ChangePercent()))
	}
}

// Orders prints the account's active stop losses and limit orders.
func (r *Renderer) Orders(acct *models.Account, limitOrders []*models.LimitOrder) {
	if len(acct.StopOrders) == 0 && len(limitOrders) == 0 {
		fmt.Println(mutedStyle.Render("No active orders."))
		return
	}

	if len(acct.StopOrders) > 0 {
		fmt.Println(headerStyle.Render("🛡️ Active Stop Loss Orders"))
		fmt.Printf("%-10s %8s %14s %10s %12s\n", "Symbol", "Shares", "Stop Price", "Type", "Set")

		syms := make([]string, 0, len(acct.StopOrders))
		for sym := range acct.StopOrders {
			syms = append(syms, sym)
		}
		sort.Strings(syms)
		for _, sym := range syms {
			so := acct.StopOrders[sym]
			kind := "fixed"
			if so.Trailing {
				kind = fmt.Sprintf("trail %s%%", so.TrailingPercent.StringFixed(0))
			}
			fmt.Printf("%-10s %8d %14s %10s %12s\n",
				sym, so.Shares, r.money(so.StopPrice), kind, so.SetAt.Format("01/02 15:04"))
		}
		fmt.Println()
	}

	if len(limitOrders) > 0 {
		fmt.Println(headerStyle.Render("📋 Active Limit Orders"))
		fmt.Printf("%-6s %-10s %8s %14s %12s\n", "Side", "Symbol", "Shares", "Target", "Placed")
		for _, o := range limitOrders {
			side := gainStyle.Render("BUY ")
			if o.Side == models.SideSell {
				side = lossStyle.Render("SELL")
			}
			fmt.Printf("%-6s %-10s %8d %14s %12s\n",
				side, o.Symbol, o.Shares, r.money(o.TargetPrice), o.CreatedAt.Format("01/02 15:04"))
		}
	}
}

// StopExecutions announces triggered stop losses.
func (r *Renderer) StopExecutions(execs []models.StopExecution) {
	for _, ex := range execs {
		kind := "🛡️ STOP LOSS"
		if ex.Trailing {
			kind = "🚂 TRAILING STOP"
		}
		lines := []string{
			lossStyle.Render(kind + " EXECUTED"),
			fmt.Sprintf("Symbol: %s", ex.Symbol),
			fmt.Sprintf("Shares Sold: %d", ex.Shares),
			fmt.Sprintf("Stop Price: %s", r.money(ex.StopPrice)),
			fmt.Sprintf("Execution Price: %s", r.money(ex.ExecPrice)),
			fmt.Sprintf("Revenue: %s", r.money(ex.Revenue)),
		}
		fmt.Println(panelStyle.BorderForeground(lipgloss.Color("#EF4444")).Render(strings.Join(lines, "\n")))
	}
}

// LimitExecutions announces filled limit orders.
func (r *Renderer) LimitExecutions(execs []models.LimitExecution, account string) {
	for _, ex := range execs {
		if account != "" && ex.Account != account {
			continue
		}
		verb := "bought"
		if ex.Side == models.SideSell {
			verb = "sold"
		}
		fmt.Println(gainStyle.Render(fmt.Sprintf(
			"✅ Limit order filled: %s %d %s at %s (target %s)",
			verb, ex.Shares, ex.Symbol, r.money(ex.ExecPrice), r.money(ex.TargetPrice))))
	}
}

// Leaderboard prints the ranked traders.
func (r *Renderer) Leaderboard(entries []sqlite.LeaderboardEntry, you string) {
	if len(entries) == 0 {
		fmt.Println(mutedStyle.Render("Leaderboard is empty."))
		return
	}

	fmt.Println(headerStyle.Render("🏆 Top Traders"))
	for i, e := range entries {
		marker := "⭐"
		switch i {
		case 0:
			marker = "👑"
		case 1:
			marker = "🥈"
		case 2:
			marker = "🥉"
		}
		name := e.Username
		if name == you {
			name = name + " (you)"
		}
		fmt.Printf("%2d. %s %-20s %14s\n", i+1, marker, name, r.money(e.NetWorth))
	}
}

// History prints daily bars, oldest first.
func (r *Renderer) History(symbol string, bars []quotes.Bar) {
	if len(bars) == 0 {
		fmt.Println(mutedStyle.Render("No historical data for " + symbol + "."))
		return
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("📅 %s Daily History", symbol)))
	fmt.Printf("%-12s %12s %12s %12s %12s %12s\n", "Date", "Open", "High", "Low", "Close", "Volume")
	for _, bar := range bars {
		fmt.Printf("%-12s %12s %12s %12s %12s %12d\n",
			bar.Date.Format("2006-01-02"),
			bar.Open.StringFixed(2), bar.High.StringFixed(2),
			bar.Low.StringFixed(2), bar.Close.StringFixed(2), bar.Volume)
	}

	first, last := bars[0].Close, bars[len(bars)-1].Close
	if first.IsPositive() {
		change := last.Sub(first).Div(first).Mul(decimal.NewFromInt(100))
		fmt.Printf("Period change: %s\n", r.signedPercent(change))
	}
}

// Quote prints a single-symbol live quote view.
func (r *Renderer) Quote(q models.Quote) {
	lines := []string{
		headerStyle.Render(fmt.Sprintf("📊 %s Live Price", q.Symbol)),
		fmt.Sprintf("💰 Current Price:  %s", r.money(q.Price)),
		fmt.Sprintf("📊 Previous Close: %s", r.money(q.PrevClose)),
		fmt.Sprintf("📈 Change:         %s", r.signedPercent(q.ChangePercent())),
	}
	fmt.Println(panelStyle.Render(strings.Join(lines, "\n")))
}

// Success prints a green confirmation line.
func (r *Renderer) Success(format string, args ...interface{}) {
	fmt.Println(gainStyle.Render("✅ " + fmt.Sprintf(format, args...)))
}

// Error prints a red error line.
func (r *Renderer) Error(format string, args ...interface{}) {
	fmt.Println(lossStyle.Render("❌ " + fmt.Sprintf(format, args...)))
}

// Warn prints a yellow warning line.
func (r *Renderer) Warn(format string, args ...interface{}) {
	fmt.Println(warnStyle.Render("⚠️ " + fmt.Sprintf(format, args...)))
}

// Info prints a muted info line.
func (r *Renderer) Info(format string, args ...interface{}) {
	fmt.Println(mutedStyle.Render(fmt.Sprintf(format, args...)))
}
