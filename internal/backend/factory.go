// Package backend selects and assembles a storage backend from configuration.
package backend

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"fintrack/internal/config"
	"fintrack/internal/store"
	storefile "fintrack/internal/store/file"
	storesqlite "fintrack/internal/store/sqlite"
)

const (
	FileBackend   Type = "file"
	SQLiteBackend Type = "sqlite"
)

// Type identifies a storage backend.
type Type string

func (t Type) IsValid() bool {
	switch t {
	case FileBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Repos bundles the repositories one invocation operates on, all bound to
// the user derived from the ledger-file argument. The lock paths are empty
// when the backend serializes access itself.
type Repos struct {
	User      string
	Ledger    store.LedgerRepository
	Recurring store.RecurringRepository
	Undo      store.UndoRepository
	Mailbox   store.MailboxRepository

	LedgerLockPath  string
	MailboxLockPath string

	Cleanup CleanupFunc
}

// Factory creates repositories for a ledger-file argument.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Create builds the repository set for the configured backend. The notices
// writer receives the load/save announcement lines callers pattern-match.
func (f *Factory) Create(ctx context.Context, cfg *config.Config, ledgerPath string, notices io.Writer) (*Repos, error) {
	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch t {
	case SQLiteBackend:
		return f.createSQLite(ctx, cfg, ledgerPath, notices)
	default:
		return f.createFile(cfg, ledgerPath, notices)
	}
}

func (f *Factory) createFile(cfg *config.Config, ledgerPath string, notices io.Writer) (*Repos, error) {
	paths := storefile.NewPaths(ledgerPath, cfg.DataDir)

	f.logger.Debug("Initialized file backend",
		"user", paths.User,
		"ledger", paths.Ledger,
		"shared_dir", paths.SharedDir)

	return &Repos{
		User:            paths.User,
		Ledger:          storefile.NewLedgerStore(paths.Ledger, notices),
		Recurring:       storefile.NewRecurringStore(paths.Recurring),
		Undo:            storefile.NewUndoStore(paths.Undo),
		Mailbox:         storefile.NewMailboxStore(paths),
		LedgerLockPath:  paths.LedgerLock(),
		MailboxLockPath: paths.MailboxLock(),
		Cleanup:         nil,
	}, nil
}

func (f *Factory) createSQLite(ctx context.Context, cfg *config.Config, ledgerPath string, notices io.Writer) (*Repos, error) {
	db, err := storesqlite.Open(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite backend: %w", err)
	}

	user := store.UserFromLedgerPath(ledgerPath)
	f.logger.Debug("Initialized sqlite backend",
		"user", user,
		"db_path", cfg.SQLiteDBPath)

	// sqlite serializes writers on its own; no advisory lock files
	return &Repos{
		User:      user,
		Ledger:    db.Ledger(user, notices),
		Recurring: db.Recurring(user),
		Undo:      db.Undo(user),
		Mailbox:   db.Mailbox(),
		Cleanup:   db.Close,
	}, nil
}
