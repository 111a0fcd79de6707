// Package sqlite implements the repository interfaces on SQLite.
//
// The driver is modernc.org/sqlite — a pure-Go translation of the SQLite C
// sources, so builds need no C toolchain and cross-compile cleanly. It
// registers itself with database/sql under the name "sqlite" via the blank
// import below.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the sql.DB pool and carries all repository methods.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" in tests for a throwaway database.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// One connection only. SQLite allows a single writer anyway, and a
	// pool of one keeps writes strictly sequential. It also makes
	// ":memory:" behave: every pooled connection would otherwise get its
	// own empty in-memory database.
	conn.SetMaxOpenConns(1)

	// Surface bad paths/permissions now rather than on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight — important for a
	// web server where list requests race against uploads.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// SQLite ships with foreign keys OFF. The schema relies on ON DELETE
	// CASCADE (deleting a set removes its cards), so this must be on for
	// every connection.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool, flushing the WAL.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this safe to
// run on every start.
//
// Cascading deletes are declared here rather than sequenced manually in the
// delete handlers: deleting a user removes their sets, deleting a set
// removes its cards. That makes "no orphan cards" a property of the schema
// instead of a property every handler must remember.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL,
			updated_at    DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS card_sets (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id            INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title              TEXT NOT NULL,
			preview_image_blob BLOB,
			created_at         DATETIME NOT NULL,
			updated_at         DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_card_sets_user_id ON card_sets(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating card_sets table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS cards (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			card_set_id   INTEGER NOT NULL REFERENCES card_sets(id) ON DELETE CASCADE,
			front_content TEXT NOT NULL DEFAULT '',
			back_content  TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL,
			updated_at    DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_cards_card_set_id ON cards(card_set_id);
	`)
	if err != nil {
		return fmt.Errorf("creating cards table: %w", err)
	}

	return nil
}
