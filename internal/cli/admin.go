package cli

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kaustubhkharvi/stock-trader/internal/ledger"
)

// dispatchAdmin handles administration commands. It returns false when cmd
// is not an admin command so the caller can report it as unknown.
func (s *tradingSession) dispatchAdmin(ctx context.Context, cmd string, args []string) bool {
	switch cmd {
	case "listusers":
		s.adminListUsers()
	case "userinfo":
		s.adminUserInfo(args)
	case "resetuser":
		s.adminResetUser(ctx, args)
	case "deleteuser":
		s.adminDeleteUser(ctx, args)
	case "setbalance":
		s.adminSetBalance(args)
	case "stats":
		s.adminStats()
	case "clearorders":
		s.adminClearOrders(ctx)
	default:
		return false
	}
	return true
}

func (s *tradingSession) adminListUsers() {
	names := s.accounts.Usernames()
	if len(names) == 0 {
		s.render.Info("No registered traders.")
		return
	}
	fmt.Printf("👥 Registered traders (%d):\n", len(names))
	for _, name := range names {
		acct := s.accounts.Get(name)
		fmt.Printf("  %-20s cash %s, %d holdings, %d stop orders\n",
			name, s.render.Currency+acct.Cash.StringFixed(2), len(acct.Holdings), len(acct.StopOrders))
	}
}

func (s *tradingSession) adminUserInfo(args []string) {
	if len(args) != 1 {
		s.render.Warn("Usage: userinfo <username>")
		return
	}
	acct := s.accounts.Get(args[0])
	if acct == nil {
		s.render.Error("User '%s' not found.", args[0])
		return
	}

	fmt.Printf("👤 %s\n", acct.Username)
	fmt.Printf("  Cash: %s%s\n", s.cfg.CurrencySymbol, acct.Cash.StringFixed(2))
	for _, row := range ledger.Positions(acct, nil) {
		fmt.Printf("  %-10s %6d shares @ avg %s%s\n",
			row.Symbol, row.Shares, s.cfg.CurrencySymbol, row.AvgCost.StringFixed(2))
	}
	for sym, so := range acct.StopOrders {
		kind := "fixed"
		if so.Trailing {
			kind = fmt.Sprintf("trailing %s%%", so.TrailingPercent.StringFixed(0))
		}
		fmt.Printf("  stop on %-10s %6d shares at %s%s (%s)\n",
			sym, so.Shares, s.cfg.CurrencySymbol, so.StopPrice.StringFixed(2), kind)
	}
	fmt.Printf("  Pending limit orders: %d\n", len(s.orders.ForAccount(acct.Username)))
}

func (s *tradingSession) adminResetUser(ctx context.Context, args []string) {
	if len(args) != 1 {
		s.render.Warn("Usage: resetuser <username>")
		return
	}
	if !Confirm(fmt.Sprintf("Reset %s to a fresh account with %s%s?",
		args[0], s.cfg.CurrencySymbol, s.accounts.StartingCash().StringFixed(2))) {
		s.render.Info("Reset cancelled.")
		return
	}
	if !s.accounts.Reset(args[0]) {
		s.render.Error("User '%s' not found.", args[0])
		return
	}
	s.orders.Cancel(args[0], "")
	s.render.Success("User '%s' reset to starting state.", args[0])
}

func (s *tradingSession) adminDeleteUser(ctx context.Context, args []string) {
	if len(args) != 1 {
		s.render.Warn("Usage: deleteuser <username>")
		return
	}
	if args[0] == s.username {
		s.render.Error("You cannot delete the account you are logged in as.")
		return
	}
	if !Confirm(fmt.Sprintf("Permanently delete user '%s'?", args[0])) {
		s.render.Info("Deletion cancelled.")
		return
	}
	if !s.accounts.Delete(args[0]) {
		s.render.Error("User '%s' not found.", args[0])
		return
	}
	s.orders.Cancel(args[0], "")
	if err := s.db.DeleteAccount(ctx, args[0]); err != nil {
		s.render.Error("Delete persisted state: %v", err)
		return
	}
	s.render.Success("User '%s' deleted.", args[0])
}

func (s *tradingSession) adminSetBalance(args []string) {
	if len(args) != 2 {
		s.render.Warn("Usage: setbalance <username> <amount>")
		return
	}
	acct := s.accounts.Get(args[0])
	if acct == nil {
		s.render.Error("User '%s' not found.", args[0])
		return
	}
	amount, err := decimal.NewFromString(args[1])
	if err != nil || amount.IsNegative() {
		s.render.Error("Invalid amount: %s", args[1])
		return
	}
	acct.Cash = amount
	s.render.Success("Balance of '%s' set to %s%s.", args[0], s.cfg.CurrencySymbol, amount.StringFixed(2))
}

func (s *tradingSession) adminStats() {
	totalStops := 0
	totalHoldings := 0
	for _, name := range s.accounts.Usernames() {
		acct := s.accounts.Get(name)
		totalStops += len(acct.StopOrders)
		totalHoldings += len(acct.Holdings)
	}

	fmt.Println("📊 System statistics")
	fmt.Printf("  Traders:          %d\n", s.accounts.Len())
	fmt.Printf("  Total cash:       %s%s\n", s.cfg.CurrencySymbol, s.accounts.TotalCash().StringFixed(2))
	fmt.Printf("  Open positions:   %d\n", totalHoldings)
	fmt.Printf("  Stop orders:      %d\n", totalStops)
	fmt.Printf("  Limit orders:     %d\n", s.orders.Len())
}

func (s *tradingSession) adminClearOrders(ctx context.Context) {
	if !Confirm("Clear ALL pending limit orders for every trader?") {
		s.render.Info("Clear cancelled.")
		return
	}
	n := s.orders.Clear()
	if err := s.db.ClearOrders(ctx); err != nil {
		s.render.Error("Clear persisted orders: %v", err)
		return
	}
	s.render.Success("%d limit order(s) cleared.", n)
}
