package journal

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"sync"
)

// ErrNoDocument is returned by Load when nothing has been saved yet.
var ErrNoDocument = errors.New("no journal document")

// Store persists a Document.
//
// Save merges: accounts, the active account and settings are replaced,
// while transactions are replaced per account present in the saved
// document. Collections of accounts the document does not mention are
// kept.
type Store interface {
	Load(ctx context.Context) (Document, error)
	Save(ctx context.Context, doc Document) error
	Close() error
}

// Load reads the book from st, or bootstraps a new one with a single
// account when st is empty. A bootstrapped book is saved right away.
func Load(ctx context.Context, st Store, defaults Settings) (b *Book, created bool, err error) {
	doc, err := st.Load(ctx)
	if errors.Is(err, ErrNoDocument) {
		b = NewBook("")
		if err := b.SetSettings(defaults); err != nil {
			return nil, false, err
		}
		if err := st.Save(ctx, b.Document()); err != nil {
			return nil, false, err
		}
		return b, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	b, err = FromDocument(doc)
	return b, false, err
}

func merge(base, doc Document) Document {
	out := Document{
		Accounts:        doc.Accounts,
		ActiveAccountID: doc.ActiveAccountID,
		Transactions:    make(map[string][]Record, len(base.Transactions)+len(doc.Transactions)),
		Settings:        doc.Settings,
	}
	if out.Settings == nil {
		out.Settings = base.Settings
	}
	maps.Copy(out.Transactions, base.Transactions)
	maps.Copy(out.Transactions, doc.Transactions)
	return out
}

// MemoryStore keeps the document in memory. It round-trips through JSON
// so callers never share state with it.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return Document{}, ErrNoDocument
	}
	var doc Document
	if err := json.Unmarshal(m.data, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (m *MemoryStore) Save(ctx context.Context, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data != nil {
		var base Document
		if err := json.Unmarshal(m.data, &base); err != nil {
			return err
		}
		doc = merge(base, doc)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.data = b
	return nil
}

func (m *MemoryStore) Close() error { return nil }
