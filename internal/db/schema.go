package db

import "database/sql"

func Migrate(db *sql.DB) {
	db.Exec(`
	CREATE TABLE IF NOT EXISTS deposits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id TEXT,
		order_id TEXT UNIQUE,
		track_id TEXT UNIQUE,
		address TEXT,
		status TEXT DEFAULT 'pending',
		amount REAL DEFAULT 0,
		paid_amount REAL DEFAULT 0,
		created_at INTEGER
	);`)

	db.Exec(`
	CREATE TABLE IF NOT EXISTS audit_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ref TEXT,
		action TEXT,
		metadata TEXT,
		created_at INTEGER
	);`)
}
