// Package sqlite snapshots trader state to durable storage. The core works
// on plain structs; this store is the only component doing database I/O and
// is invoked by the command driver after each command.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/kaustubhkharvi/stock-trader/internal/models"
)

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("db path is required")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=3000;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma %s: %w", p, err)
		}
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS accounts (
    username TEXT PRIMARY KEY,
    cash TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS holdings (
    username TEXT NOT NULL REFERENCES accounts(username) ON DELETE CASCADE,
    symbol TEXT NOT NULL,
    shares INTEGER NOT NULL,
    avg_cost TEXT NOT NULL,
    PRIMARY KEY (username, symbol)
);

CREATE TABLE IF NOT EXISTS stop_orders (
    username TEXT NOT NULL REFERENCES accounts(username) ON DELETE CASCADE,
    symbol TEXT NOT NULL,
    shares INTEGER NOT NULL,
    stop_price TEXT NOT NULL,
    trailing INTEGER NOT NULL DEFAULT 0,
    trailing_percent TEXT,
    highest_seen TEXT,
    set_at DATETIME NOT NULL,
    PRIMARY KEY (username, symbol)
);

CREATE TABLE IF NOT EXISTS limit_orders (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL,
    symbol TEXT NOT NULL,
    shares INTEGER NOT NULL,
    target_price TEXT NOT NULL,
    side TEXT NOT NULL,
    created_at DATETIME NOT NULL,
    seq INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS leaderboard (
    username TEXT PRIMARY KEY,
    net_worth TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_limit_orders_seq ON limit_orders(seq);
`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// SaveAccount writes the account, its holdings and its stop orders in one
// transaction, replacing any previous snapshot rows for the same user.
func (s *Store) SaveAccount(ctx context.Context, acct *models.Account) error {
	if acct == nil || strings.TrimSpace(acct.Username) == "" {
		return fmt.Errorf("account username is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save account: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO accounts (username, cash)
VALUES (?, ?)
ON CONFLICT(username) DO UPDATE SET
    cash=excluded.cash,
    updated_at=CURRENT_TIMESTAMP
`, acct.Username, acct.Cash.String())
	if err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM holdings WHERE username = ?`, acct.Username); err != nil {
		return fmt.Errorf("clear holdings: %w", err)
	}
	for symbol, h := range acct.Holdings {
		_, err := tx.ExecContext(ctx, `
INSERT INTO holdings (username, symbol, shares, avg_cost)
VALUES (?, ?, ?, ?)
`, acct.Username, symbol, h.Shares, h.AvgCost.String())
		if err != nil {
			return fmt.Errorf("insert holding %s: %w", symbol, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM stop_orders WHERE username = ?`, acct.Username); err != nil {
		return fmt.Errorf("clear stop orders: %w", err)
	}
	for symbol, so := range acct.StopOrders {
		_, err := tx.ExecContext(ctx, `
INSERT INTO stop_orders (username, symbol, shares, stop_price, trailing, trailing_percent, highest_seen, set_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, acct.Username, symbol, so.Shares, so.StopPrice.String(), boolToInt(so.Trailing),
			so.TrailingPercent.String(), so.HighestSeen.String(), so.SetAt.UTC())
		if err != nil {
			return fmt.Errorf("insert stop order %s: %w", symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save account: %w", err)
	}
	return nil
}

// DeleteAccount removes the account and its dependent rows.
func (s *Store) DeleteAccount(ctx context.Context, username string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE username = ?`, username); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM limit_orders WHERE username = ?`, username); err != nil {
		return fmt.Errorf("delete account orders: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM leaderboard WHERE username = ?`, username); err != nil {
		return fmt.Errorf("delete leaderboard entry: %w", err)
	}
	return nil
}

// LoadAccounts reads every account snapshot.
func (s *Store) LoadAccounts(ctx context.Context) ([]*models.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT username, cash FROM accounts ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	defer rows.Close()

	byUser := make(map[string]*models.Account)
	var accounts []*models.Account
	for rows.Next() {
		var username, cash string
		if err := rows.Scan(&username, &cash); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		cashDec, err := decimal.NewFromString(cash)
		if err != nil {
			return nil, fmt.Errorf("parse cash for %s: %w", username, err)
		}
		acct := models.NewAccount(username, cashDec)
		byUser[username] = acct
		accounts = append(accounts, acct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load accounts rows: %w", err)
	}

	if err := s.loadHoldings(ctx, byUser); err != nil {
		return nil, err
	}
	if err := s.loadStopOrders(ctx, byUser); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *Store) loadHoldings(ctx context.Context, byUser map[string]*models.Account) error {
	rows, err := s.db.QueryContext(ctx, `SELECT username, symbol, shares, avg_cost FROM holdings`)
	if err != nil {
		return fmt.Errorf("load holdings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var username, symbol, avgCost string
		var shares int64
		if err := rows.Scan(&username, &symbol, &shares, &avgCost); err != nil {
			return fmt.Errorf("scan holding: %w", err)
		}
		acct, ok := byUser[username]
		if !ok || shares <= 0 {
			continue
		}
		avg, err := decimal.NewFromString(avgCost)
		if err != nil {
			return fmt.Errorf("parse avg cost for %s/%s: %w", username, symbol, err)
		}
		acct.Holdings[symbol] = &models.Holding{Shares: shares, AvgCost: avg}
	}
	return rows.Err()
}

func (s *Store) loadStopOrders(ctx context.Context, byUser map[string]*models.Account) error {
	rows, err := s.db.QueryContext(ctx, `
SELECT username, symbol, shares, stop_price, trailing, trailing_percent, highest_seen, set_at
FROM stop_orders`)
	if err != nil {
		return fmt.Errorf("load stop orders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var username, symbol, stopPrice, trailingPercent, highestSeen string
		var shares int64
		var trailing int
		var setAt time.Time
		if err := rows.Scan(&username, &symbol, &shares, &stopPrice, &trailing, &trailingPercent, &highestSeen, &setAt); err != nil {
			return fmt.Errorf("scan stop order: %w", err)
		}
		acct, ok := byUser[username]
		if !ok {
			continue
		}
		// Orphaned stops are not restored; the holding rules them.
		if _, held := acct.Holdings[symbol]; !held {
			continue
		}

		order := &models.StopOrder{Shares: shares, Trailing: trailing != 0, SetAt: setAt}
		if order.StopPrice, err = decimal.NewFromString(stopPrice); err != nil {
			return fmt.Errorf("parse stop price for %s/%s: %w", username, symbol, err)
		}
		if trailingPercent != "" {
			if order.TrailingPercent, err = decimal.NewFromString(trailingPercent); err != nil {
				return fmt.Errorf("parse trailing percent for %s/%s: %w", username, symbol, err)
			}
		}
		if highestSeen != "" {
			if order.HighestSeen, err = decimal.NewFromString(highestSeen); err != nil {
				return fmt.Errorf("parse highest seen for %s/%s: %w", username, symbol, err)
			}
		}
		acct.StopOrders[symbol] = order
	}
	return rows.Err()
}

// SaveOrders replaces the persisted limit-order set with the given one.
func (s *Store) SaveOrders(ctx context.Context, orders []*models.LimitOrder) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save orders: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM limit_orders`); err != nil {
		return fmt.Errorf("clear limit orders: %w", err)
	}
	for _, o := range orders {
		_, err := tx.ExecContext(ctx, `
INSERT INTO limit_orders (id, username, symbol, shares, target_price, side, created_at, seq)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, o.ID, o.Account, o.Symbol, o.Shares, o.TargetPrice.String(), string(o.Side), o.CreatedAt.UTC(), o.Seq)
		if err != nil {
			return fmt.Errorf("insert limit order %s: %w", o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save orders: %w", err)
	}
	return nil
}

// LoadOrders reads the persisted limit orders in FIFO order.
func (s *Store) LoadOrders(ctx context.Context) ([]*models.LimitOrder, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, username, symbol, shares, target_price, side, created_at, seq
FROM limit_orders
ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("load limit orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.LimitOrder
	for rows.Next() {
		var o models.LimitOrder
		var target, side string
		if err := rows.Scan(&o.ID, &o.Account, &o.Symbol, &o.Shares, &target, &side, &o.CreatedAt, &o.Seq); err != nil {
			return nil, fmt.Errorf("scan limit order: %w", err)
		}
		if o.TargetPrice, err = decimal.NewFromString(target); err != nil {
			return nil, fmt.Errorf("parse target price for %s: %w", o.ID, err)
		}
		o.Side = models.Side(side)
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load limit orders rows: %w", err)
	}
	return orders, nil
}

// UpdateLeaderboard records the user's latest net worth.
func (s *Store) UpdateLeaderboard(ctx context.Context, username string, netWorth decimal.Decimal) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO leaderboard (username, net_worth)
VALUES (?, ?)
ON CONFLICT(username) DO UPDATE SET
    net_worth=excluded.net_worth,
    updated_at=CURRENT_TIMESTAMP
`, username, netWorth.String())
	if err != nil {
		return fmt.Errorf("update leaderboard: %w", err)
	}
	return nil
}

// LeaderboardEntry is one ranked trader.
type LeaderboardEntry struct {
	Username string
	NetWorth decimal.Decimal
}

// TopTraders returns up to limit traders ordered by net worth descending.
func (s *Store) TopTraders(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT username, net_worth
FROM leaderboard
ORDER BY CAST(net_worth AS REAL) DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("top traders: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var entry LeaderboardEntry
		var worth string
		if err := rows.Scan(&entry.Username, &worth); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		if entry.NetWorth, err = decimal.NewFromString(worth); err != nil {
			return nil, fmt.Errorf("parse net worth for %s: %w", entry.Username, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top traders rows: %w", err)
	}
	return entries, nil
}

// ClearOrders drops all persisted limit orders.
func (s *Store) ClearOrders(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM limit_orders`); err != nil {
		return fmt.Errorf("clear limit orders: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
