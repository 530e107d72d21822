package journal

import (
	"fmt"
	"slices"

	"github.com/rustyeddy/odyssey/pkg/id"
)

// Account is one independent collection of transactions.
type Account struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Selector holds the accounts and which one is active.
type Selector struct {
	accounts []Account
	active   string
}

// Accounts returns the accounts in creation order.
func (s *Selector) Accounts() []Account {
	return slices.Clone(s.accounts)
}

// Find returns the account with the given id.
func (s *Selector) Find(accountID string) (Account, bool) {
	i := slices.IndexFunc(s.accounts, func(a Account) bool { return a.ID == accountID })
	if i < 0 {
		return Account{}, false
	}
	return s.accounts[i], true
}

// Add creates an account. The first account becomes the active one.
func (s *Selector) Add(name string) Account {
	if name == "" {
		name = fmt.Sprintf("Account %d", len(s.accounts)+1)
	}
	a := Account{ID: id.Account(), Name: name}
	s.accounts = append(s.accounts, a)
	if s.active == "" {
		s.active = a.ID
	}
	return a
}

// Active returns the active account.
func (s *Selector) Active() (Account, error) {
	if s.active == "" {
		return Account{}, ErrNoActiveAccount
	}
	a, ok := s.Find(s.active)
	if !ok {
		return Account{}, fmt.Errorf("%w: active account %q is gone", ErrNoActiveAccount, s.active)
	}
	return a, nil
}

// ActiveID returns the active account id, or "" if none.
func (s *Selector) ActiveID() string { return s.active }

// SetActive switches the active account. Unknown ids are rejected and the
// active account is left unchanged.
func (s *Selector) SetActive(accountID string) error {
	if _, ok := s.Find(accountID); !ok {
		return fmt.Errorf("%w: %q", ErrAccountNotFound, accountID)
	}
	s.active = accountID
	return nil
}

// Rename changes an account's display name.
func (s *Selector) Rename(accountID, name string) error {
	i := slices.IndexFunc(s.accounts, func(a Account) bool { return a.ID == accountID })
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrAccountNotFound, accountID)
	}
	s.accounts[i].Name = name
	return nil
}
