package journal

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// Ledger reads and writes the collection of the book's active account.
// Every call resolves the active account afresh and fails with
// ErrNoActiveAccount when there is none.
type Ledger struct {
	book *Book
}

func (l *Ledger) active() (string, error) {
	a, err := l.book.sel.Active()
	if err != nil {
		return "", err
	}
	return a.ID, nil
}

// List returns the active account's transactions in insertion order.
func (l *Ledger) List() ([]Transaction, error) {
	acc, err := l.active()
	if err != nil {
		return nil, err
	}
	txs := l.book.collections[acc]
	out := make([]Transaction, len(txs))
	for i, t := range txs {
		out[i] = t.clone()
	}
	return out, nil
}

// Get returns the transaction with the given id.
func (l *Ledger) Get(txID int) (Transaction, bool, error) {
	acc, err := l.active()
	if err != nil {
		return Transaction{}, false, err
	}
	txs := l.book.collections[acc]
	i := indexOf(txs, txID)
	if i < 0 {
		return Transaction{}, false, nil
	}
	return txs[i].clone(), true, nil
}

// AddOrUpdate stores r.
//
// Without an id, r must be a complete transaction; it is appended with the
// next id (one past the largest in use, or 0). With the id of a stored
// transaction, the fields set in r replace the stored ones and the rest are
// kept. Either way the result is validated and its P&L recomputed before
// it is stored. An id that matches nothing is a no-op and applied is false.
func (l *Ledger) AddOrUpdate(r Record) (tx Transaction, applied bool, err error) {
	acc, err := l.active()
	if err != nil {
		return Transaction{}, false, err
	}
	txs := l.book.collections[acc]

	if r.ID != nil {
		i := indexOf(txs, *r.ID)
		if i < 0 {
			return Transaction{}, false, nil
		}
		kind := txs[i].Kind
		if r.TransactionType != nil {
			kind = *r.TransactionType
		}
		if err := r.checkFields(kind); err != nil {
			return Transaction{}, false, err
		}
		merged, err := txs[i].Record().overlay(r).build()
		if err != nil {
			return Transaction{}, false, err
		}
		merged.ID = txs[i].ID
		txs[i] = merged
		return merged.clone(), true, nil
	}

	if r.TransactionType != nil {
		if err := r.checkFields(*r.TransactionType); err != nil {
			return Transaction{}, false, err
		}
	}
	tx, err = r.build()
	if err != nil {
		return Transaction{}, false, err
	}
	if tx.ID, err = nextID(txs); err != nil {
		return Transaction{}, false, fmt.Errorf("account %s: %w", acc, err)
	}
	l.book.collections[acc] = append(txs, tx)
	return tx.clone(), true, nil
}

// Delete removes the transaction with the given id. Deleting an unknown
// id is a no-op and reports false.
func (l *Ledger) Delete(txID int) (bool, error) {
	acc, err := l.active()
	if err != nil {
		return false, err
	}
	txs := l.book.collections[acc]
	i := indexOf(txs, txID)
	if i < 0 {
		return false, nil
	}
	l.book.collections[acc] = slices.Delete(txs, i, i+1)
	return true, nil
}

func indexOf(txs []Transaction, txID int) int {
	return slices.IndexFunc(txs, func(t Transaction) bool { return t.ID == txID })
}

func nextID(txs []Transaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}
	last := slices.MaxFunc(txs, func(a, b Transaction) int { return cmp.Compare(a.ID, b.ID) }).ID
	if last == math.MaxInt {
		return 0, ErrIDsExhausted
	}
	return last + 1, nil
}
