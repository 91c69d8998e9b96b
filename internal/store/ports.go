// Package store defines the repository ports the engine's services operate
// on. State is durable only through these interfaces: the engine is a
// one-shot process and keeps nothing in memory between invocations.
package store

import (
	"context"
	"path/filepath"
	"strings"

	"fintrack/internal/core"
)

// LedgerRepository owns one user's ordered transaction list. Save must be
// atomic: a crash mid-write leaves the previous content intact.
type LedgerRepository interface {
	Load(ctx context.Context) ([]core.Transaction, error)
	Save(ctx context.Context, txs []core.Transaction) error
}

// RecurringRepository owns one user's recurring-payment templates. Storage
// order carries no meaning; due-date selection is a read-time concern.
type RecurringRepository interface {
	Load(ctx context.Context) ([]core.RecurringTemplate, error)
	Save(ctx context.Context, templates []core.RecurringTemplate) error
}

// UndoRepository holds at most one pending inverse operation per user.
// Load returns nil when the slot is empty.
type UndoRepository interface {
	Load(ctx context.Context) (*core.UndoEntry, error)
	Save(ctx context.Context, entry core.UndoEntry) error
	Clear(ctx context.Context) error
}

// MailboxRepository holds the shared suggestion list and the per-user reply
// inboxes, independent of any ledger. DeleteSuggestion addresses the 1-based
// position of the current listing and reports whether it existed.
type MailboxRepository interface {
	AppendSuggestion(ctx context.Context, author, text string) error
	ListSuggestions(ctx context.Context) ([]core.Suggestion, error)
	DeleteSuggestion(ctx context.Context, index int) (bool, error)
	AppendReply(ctx context.Context, user, text string) error
	ListReplies(ctx context.Context, user string) ([]string, error)
}

// UserFromLedgerPath derives the user name from a ledger file argument.
// The front ends name ledgers transactions_<user>.txt; anything else falls
// back to the file's base name without extension.
func UserFromLedgerPath(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if u, ok := strings.CutPrefix(name, "transactions_"); ok && u != "" {
		return u
	}
	return name
}
