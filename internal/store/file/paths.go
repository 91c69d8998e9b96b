// Package file implements the repository ports over newline-delimited,
// whitespace-field text files, the layout the front ends read directly.
// All rewrites go through an atomic temp-write + rename.
package file

import (
	"path/filepath"

	"fintrack/internal/store"
)

// Paths resolves every file belonging to one invocation from the ledger-file
// argument. Recurring templates and the undo slot are per-user siblings of
// the ledger; the suggestion list and reply inboxes live in the shared
// directory (the ledger's directory unless overridden).
type Paths struct {
	User      string
	Ledger    string
	Recurring string
	Undo      string
	SharedDir string
}

func NewPaths(ledgerPath, sharedDir string) Paths {
	user := store.UserFromLedgerPath(ledgerPath)
	dir := filepath.Dir(ledgerPath)
	if sharedDir == "" {
		sharedDir = dir
	}
	return Paths{
		User:      user,
		Ledger:    ledgerPath,
		Recurring: filepath.Join(dir, "recurring_"+user+".txt"),
		Undo:      filepath.Join(dir, "undo_"+user+".txt"),
		SharedDir: sharedDir,
	}
}

func (p Paths) Suggestions() string {
	return filepath.Join(p.SharedDir, "suggestions.txt")
}

func (p Paths) Replies(user string) string {
	return filepath.Join(p.SharedDir, "replies_"+user+".txt")
}

// LedgerLock is the advisory lock guarding the ledger's read-mutate-write
// cycle, covering the recurring and undo files as well.
func (p Paths) LedgerLock() string {
	return p.Ledger + ".lock"
}

// MailboxLock guards the shared suggestion file.
func (p Paths) MailboxLock() string {
	return p.Suggestions() + ".lock"
}
