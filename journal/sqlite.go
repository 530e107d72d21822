package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

const (
	keyActiveAccount     = "activeAccountId"
	keyCurrency          = "currency"
	keyDefaultCommission = "defaultCommission"
)

// SQLiteStore keeps the document in a SQLite database. Each transaction
// is stored as its JSON record, keyed by account and id.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (Document, error) {
	doc := Document{Transactions: make(map[string][]Record)}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM accounts ORDER BY position`)
	if err != nil {
		return Document{}, err
	}
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			rows.Close()
			return Document{}, err
		}
		doc.Accounts = append(doc.Accounts, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Document{}, err
	}

	kv, err := s.settings(ctx)
	if err != nil {
		return Document{}, err
	}
	if len(doc.Accounts) == 0 && len(kv) == 0 {
		return Document{}, ErrNoDocument
	}
	if doc.Accounts == nil {
		doc.Accounts = []Account{}
	}
	doc.ActiveAccountID = kv[keyActiveAccount]
	if cur, ok := kv[keyCurrency]; ok {
		st := DefaultSettings()
		st.Currency = cur
		if v, ok := kv[keyDefaultCommission]; ok {
			if st.DefaultCommission, err = strconv.ParseFloat(v, 64); err != nil {
				return Document{}, fmt.Errorf("%w: defaultCommission %q", ErrInvalidDocument, v)
			}
		}
		doc.Settings = &st
	}

	rows, err = s.db.QueryContext(ctx, `SELECT account_id, body FROM transactions ORDER BY account_id, position`)
	if err != nil {
		return Document{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var acc, body string
		if err := rows.Scan(&acc, &body); err != nil {
			return Document{}, err
		}
		var r Record
		if err := json.Unmarshal([]byte(body), &r); err != nil {
			return Document{}, fmt.Errorf("%w: account %s: %w", ErrInvalidDocument, acc, err)
		}
		doc.Transactions[acc] = append(doc.Transactions[acc], r)
	}
	return doc, rows.Err()
}

func (s *SQLiteStore) settings(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	kv := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		kv[k] = v
	}
	return kv, rows.Err()
}

// Save writes doc in a single database transaction.
func (s *SQLiteStore) Save(ctx context.Context, doc Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
		return err
	}
	for i, a := range doc.Accounts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (id, name, position) VALUES (?, ?, ?)`,
			a.ID, a.Name, i,
		); err != nil {
			return err
		}
	}

	kv := map[string]string{keyActiveAccount: doc.ActiveAccountID}
	if doc.Settings != nil {
		kv[keyCurrency] = doc.Settings.Currency
		kv[keyDefaultCommission] = strconv.FormatFloat(doc.Settings.DefaultCommission, 'f', -1, 64)
	}
	for k, v := range kv {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO settings (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			k, v,
		); err != nil {
			return err
		}
	}

	for acc, recs := range doc.Transactions {
		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE account_id = ?`, acc); err != nil {
			return err
		}
		for i, r := range recs {
			if r.ID == nil || r.TransactionType == nil {
				return fmt.Errorf("%w: account %s entry %d: missing id or transaction_type", ErrInvalidDocument, acc, i)
			}
			body, err := json.Marshal(r)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO transactions (account_id, id, position, transaction_type, body)
				 VALUES (?, ?, ?, ?, ?)`,
				acc, *r.ID, i, string(*r.TransactionType), string(body),
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
