package journal

const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	position INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
	account_id TEXT NOT NULL,
	id INTEGER NOT NULL,
	position INTEGER NOT NULL,
	transaction_type TEXT NOT NULL,
	body TEXT NOT NULL,
	PRIMARY KEY (account_id, id)
);

CREATE INDEX IF NOT EXISTS idx_transactions_position ON transactions(account_id, position);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`
