// Package sqlite implements the repository ports over a single sqlite
// database. It is the opt-in alternative to the text-file backend for
// standalone use; the legacy front ends read the text files directly and
// cannot see this store.
package sqlite

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the shared connection the per-concern stores hang off.
type DB struct {
	db *sql.DB
}

func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Ledger returns the transaction repository for one user.
func (d *DB) Ledger(user string, notices io.Writer) *LedgerStore {
	if notices == nil {
		notices = io.Discard
	}
	return &LedgerStore{db: d.db, user: user, notices: notices}
}

// Recurring returns the template repository for one user.
func (d *DB) Recurring(user string) *RecurringStore {
	return &RecurringStore{db: d.db, user: user}
}

// Undo returns the undo-slot repository for one user.
func (d *DB) Undo(user string) *UndoStore {
	return &UndoStore{db: d.db, user: user}
}

// Mailbox returns the shared suggestion and reply repository.
func (d *DB) Mailbox() *MailboxStore {
	return &MailboxStore{db: d.db}
}
