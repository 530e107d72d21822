package journal

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/rustyeddy/odyssey/pkg/money"
)

// DefaultCommission is the per-contract rate suggested for new trades.
const DefaultCommission = 0.65

// ErrInvalidDocument is returned when a persisted document cannot be loaded.
var ErrInvalidDocument = errors.New("invalid document")

// Settings are display preferences. DefaultCommission only prefills new
// trades; the calculators always use the rate stored on the trade.
type Settings struct {
	Currency          string  `json:"currency"`
	DefaultCommission float64 `json:"defaultCommission"`
}

// DefaultSettings returns "$" and a 0.65 per-contract commission.
func DefaultSettings() Settings {
	return Settings{Currency: money.DefaultSymbol, DefaultCommission: DefaultCommission}
}

func (s Settings) Validate() error {
	if s.Currency == "" {
		return errors.New("currency is required")
	}
	if math.IsNaN(s.DefaultCommission) || math.IsInf(s.DefaultCommission, 0) || s.DefaultCommission < 0 {
		return fmt.Errorf("defaultCommission must be a non-negative number, got %v", s.DefaultCommission)
	}
	return nil
}

// Format renders an amount with the configured currency symbol.
func (s Settings) Format(v float64) string {
	return money.Format(v, s.Currency)
}

// Book is the whole journal state: accounts, the active one, every
// account's transactions and the settings.
type Book struct {
	sel         Selector
	collections map[string][]Transaction
	settings    Settings
}

// NewBook returns a book with a single, active account.
func NewBook(accountName string) *Book {
	if accountName == "" {
		accountName = "Account 1"
	}
	b := &Book{
		collections: make(map[string][]Transaction),
		settings:    DefaultSettings(),
	}
	b.AddAccount(accountName)
	return b
}

// Selector returns the book's account selector.
func (b *Book) Selector() *Selector { return &b.sel }

// Ledger returns the ledger of the active account.
func (b *Book) Ledger() *Ledger { return &Ledger{book: b} }

// AddAccount creates an account with an empty collection.
func (b *Book) AddAccount(name string) Account {
	a := b.sel.Add(name)
	b.collections[a.ID] = nil
	return a
}

func (b *Book) Settings() Settings { return b.settings }

func (b *Book) SetSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	b.settings = s
	return nil
}

// Document is the persisted shape of a Book.
type Document struct {
	Accounts        []Account           `json:"accounts"`
	ActiveAccountID string              `json:"activeAccountId"`
	Transactions    map[string][]Record `json:"transactions"`
	Settings        *Settings           `json:"settings,omitempty"`
}

// Document returns the persisted form of b.
func (b *Book) Document() Document {
	s := b.settings
	doc := Document{
		Accounts:        b.sel.Accounts(),
		ActiveAccountID: b.sel.active,
		Transactions:    make(map[string][]Record, len(b.collections)),
		Settings:        &s,
	}
	if doc.Accounts == nil {
		doc.Accounts = []Account{}
	}
	for acc, txs := range b.collections {
		recs := make([]Record, len(txs))
		for i, t := range txs {
			recs[i] = t.Record()
		}
		doc.Transactions[acc] = recs
	}
	return doc
}

// FromDocument rebuilds a Book. Every transaction is validated and its
// P&L recomputed; stored pnl values are not trusted.
func FromDocument(doc Document) (*Book, error) {
	b := &Book{
		sel:         Selector{accounts: append([]Account(nil), doc.Accounts...)},
		collections: make(map[string][]Transaction, len(doc.Transactions)),
		settings:    DefaultSettings(),
	}
	if doc.Settings != nil {
		if err := b.SetSettings(*doc.Settings); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
	}

	seen := make(map[string]bool, len(doc.Accounts))
	for _, a := range doc.Accounts {
		if a.ID == "" || seen[a.ID] {
			return nil, fmt.Errorf("%w: duplicate or empty account id %q", ErrInvalidDocument, a.ID)
		}
		seen[a.ID] = true
		b.collections[a.ID] = nil
	}

	if doc.ActiveAccountID != "" {
		if err := b.sel.SetActive(doc.ActiveAccountID); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
	}

	for acc, recs := range doc.Transactions {
		txs := make([]Transaction, 0, len(recs))
		ids := make(map[int]bool, len(recs))
		for i, r := range recs {
			if r.ID == nil || *r.ID < 0 || ids[*r.ID] {
				return nil, fmt.Errorf("%w: account %s entry %d: missing, negative or duplicate id", ErrInvalidDocument, acc, i)
			}
			tx, err := r.build()
			if err != nil {
				return nil, fmt.Errorf("%w: account %s transaction %d: %w", ErrInvalidDocument, acc, *r.ID, err)
			}
			tx.ID = *r.ID
			ids[tx.ID] = true
			txs = append(txs, tx)
		}
		b.collections[acc] = txs
	}
	return b, nil
}

// ActiveDocument is Document limited to the active account's collection,
// for saving after a ledger change.
func (b *Book) ActiveDocument() Document {
	doc := b.Document()
	acc := b.sel.active
	recs := doc.Transactions[acc]
	doc.Transactions = map[string][]Record{}
	if acc != "" {
		doc.Transactions[acc] = recs
	}
	return doc
}

// Snapshot returns a deep copy of b.
func (b *Book) Snapshot() *Book {
	c := &Book{
		sel:         Selector{accounts: slices.Clone(b.sel.accounts), active: b.sel.active},
		collections: make(map[string][]Transaction, len(b.collections)),
		settings:    b.settings,
	}
	for acc, txs := range b.collections {
		out := make([]Transaction, len(txs))
		for i, t := range txs {
			out[i] = t.clone()
		}
		c.collections[acc] = out
	}
	return c
}

// Restore puts b back to the state captured by snap.
func (b *Book) Restore(snap *Book) {
	*b = *snap.Snapshot()
}
