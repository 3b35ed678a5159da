// Package store owns the in-memory collections of accounts and pending
// limit orders. Evaluators receive these stores explicitly instead of
// reaching into ambient state.
package store

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kaustubhkharvi/stock-trader/internal/models"
)

// AccountStore maps usernames to accounts.
type AccountStore struct {
	accounts     map[string]*models.Account
	startingCash decimal.Decimal
}

// NewAccountStore creates an empty account store. startingCash is granted to
// every newly created account.
func NewAccountStore(startingCash decimal.Decimal) *AccountStore {
	return &AccountStore{
		accounts:     make(map[string]*models.Account),
		startingCash: startingCash,
	}
}

// Get returns the account for username, nil when absent.
func (s *AccountStore) Get(username string) *models.Account {
	return s.accounts[username]
}

// Exists reports whether username has an account.
func (s *AccountStore) Exists(username string) bool {
	_, ok := s.accounts[username]
	return ok
}

// GetOrCreate returns the existing account or creates one with the starting
// cash. The second return reports whether the account was just created.
func (s *AccountStore) GetOrCreate(username string) (*models.Account, bool) {
	if acct, ok := s.accounts[username]; ok {
		return acct, false
	}
	acct := models.NewAccount(username, s.startingCash)
	s.accounts[username] = acct
	return acct, true
}

// Put installs an account, replacing any existing one for the same username.
func (s *AccountStore) Put(acct *models.Account) error {
	if acct == nil || acct.Username == "" {
		return fmt.Errorf("account must have a username")
	}
	if acct.Holdings == nil {
		acct.Holdings = make(map[string]*models.Holding)
	}
	if acct.StopOrders == nil {
		acct.StopOrders = make(map[string]*models.StopOrder)
	}
	s.accounts[acct.Username] = acct
	return nil
}

// Delete removes an account. Pending limit orders owned by it are left to
// the limit-order evaluator's orphan cleanup.
func (s *AccountStore) Delete(username string) bool {
	if _, ok := s.accounts[username]; !ok {
		return false
	}
	delete(s.accounts, username)
	return true
}

// Reset restores an account to a fresh state with the starting cash.
func (s *AccountStore) Reset(username string) bool {
	if _, ok := s.accounts[username]; !ok {
		return false
	}
	s.accounts[username] = models.NewAccount(username, s.startingCash)
	return true
}

// Usernames returns all usernames sorted ascending.
func (s *AccountStore) Usernames() []string {
	names := make([]string, 0, len(s.accounts))
	for name := range s.accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of accounts.
func (s *AccountStore) Len() int { return len(s.accounts) }

// StartingCash returns the configured starting balance.
func (s *AccountStore) StartingCash() decimal.Decimal { return s.startingCash }

// TotalCash sums the cash balances across all accounts.
func (s *AccountStore) TotalCash() decimal.Decimal {
	total := decimal.Zero
	for _, acct := range s.accounts {
		total = total.Add(acct.Cash)
	}
	return total
}
