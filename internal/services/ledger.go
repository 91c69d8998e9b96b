// Package services provides the business logic the command dispatcher drives:
// ledger mutations, the undo engine, the recurring-payment scheduler, and
// the suggestion mailbox. Services print nothing; every user-visible line is
// rendered by the caller from the values returned here.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/store"
)

// Summary is the income/expense rollup behind the analysis verb. Net can go
// negative; the totals cannot.
type Summary struct {
	IncomeCents  int64
	ExpenseCents int64
}

func (s Summary) NetCents() int64 {
	return s.IncomeCents - s.ExpenseCents
}

// LedgerService orchestrates one user's transaction list: every mutation is
// load, change, persist, then record its inverse in the undo slot.
type LedgerService struct {
	repo   store.LedgerRepository
	undo   store.UndoRepository
	events *events.Client
	user   string
}

func NewLedgerService(repo store.LedgerRepository, undo store.UndoRepository, ev *events.Client, user string) *LedgerService {
	return &LedgerService{
		repo:   repo,
		undo:   undo,
		events: ev,
		user:   user,
	}
}

// Add validates and appends a new transaction, allocating the next free ID.
// IDs referenced by the pending undo slot stay reserved so undoing a delete
// cannot collide with a fresh add.
func (s *LedgerService) Add(ctx context.Context, date core.Date, amount core.Money, typ core.TxType, category, description string) (core.Transaction, error) {
	txs, err := s.repo.Load(ctx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load ledger: %w", err)
	}
	pending, err := s.undo.Load(ctx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load undo slot: %w", err)
	}

	tx := core.Transaction{
		ID:          core.NextID(txs, pending),
		Date:        date,
		Amount:      amount,
		Type:        typ,
		Category:    category,
		Description: description,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	txs = append(txs, tx)
	if err := s.repo.Save(ctx, txs); err != nil {
		return core.Transaction{}, fmt.Errorf("save ledger: %w", err)
	}

	s.recordUndo(ctx, core.UndoEntry{Op: core.UndoAdd, TxID: tx.ID})
	s.publish(ctx, "add", tx.ID)
	return tx, nil
}

// Delete removes the transaction with the given ID and records the full row
// plus its list position, so undo can restore the file byte for byte.
// Returns core.ErrNotFound when no row carries the ID.
func (s *LedgerService) Delete(ctx context.Context, id int) (core.Transaction, error) {
	txs, err := s.repo.Load(ctx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load ledger: %w", err)
	}

	pos := -1
	for i, t := range txs {
		if t.ID == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		return core.Transaction{}, core.ErrNotFound
	}

	removed := txs[pos]
	txs = append(txs[:pos], txs[pos+1:]...)
	if err := s.repo.Save(ctx, txs); err != nil {
		return core.Transaction{}, fmt.Errorf("save ledger: %w", err)
	}

	s.recordUndo(ctx, core.UndoEntry{Op: core.UndoDelete, Tx: removed, Pos: pos})
	s.publish(ctx, "delete", id)
	return removed, nil
}

// SortByAmount reorders the ledger ascending by amount and persists it. The
// pre-sort ID order goes into the undo slot. Equal amounts keep their
// relative order.
func (s *LedgerService) SortByAmount(ctx context.Context) error {
	return s.sortAndSave(ctx, "sort_amount", func(txs []core.Transaction) {
		sort.SliceStable(txs, func(i, j int) bool {
			return txs[i].Amount.Cents < txs[j].Amount.Cents
		})
	})
}

// SortByDate reorders the ledger chronologically and persists it.
func (s *LedgerService) SortByDate(ctx context.Context) error {
	return s.sortAndSave(ctx, "sort_date", func(txs []core.Transaction) {
		sort.SliceStable(txs, func(i, j int) bool {
			return txs[i].Date.Key() < txs[j].Date.Key()
		})
	})
}

func (s *LedgerService) sortAndSave(ctx context.Context, op string, reorder func([]core.Transaction)) error {
	txs, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	order := make([]int, len(txs))
	for i, t := range txs {
		order[i] = t.ID
	}

	reorder(txs)
	if err := s.repo.Save(ctx, txs); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}

	s.recordUndo(ctx, core.UndoEntry{Op: core.UndoSort, Order: order})
	s.publish(ctx, op, 0)
	return nil
}

// SearchAmount returns every transaction whose amount matches exactly, in
// ledger order.
func (s *LedgerService) SearchAmount(ctx context.Context, amount core.Money) ([]core.Transaction, error) {
	txs, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	var out []core.Transaction
	for _, t := range txs {
		if t.Amount.Cents == amount.Cents {
			out = append(out, t)
		}
	}
	return out, nil
}

// SearchID returns the transaction with the given ID or core.ErrNotFound.
func (s *LedgerService) SearchID(ctx context.Context, id int) (core.Transaction, error) {
	txs, err := s.repo.Load(ctx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load ledger: %w", err)
	}
	for _, t := range txs {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, core.ErrNotFound
}

// SearchDescription returns every transaction whose description contains the
// query, case-insensitively, in ledger order.
func (s *LedgerService) SearchDescription(ctx context.Context, query string) ([]core.Transaction, error) {
	txs, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	q := strings.ToLower(query)
	var out []core.Transaction
	for _, t := range txs {
		if strings.Contains(strings.ToLower(t.Description), q) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Analyze totals income and expense over the whole ledger.
func (s *LedgerService) Analyze(ctx context.Context) (Summary, error) {
	txs, err := s.repo.Load(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load ledger: %w", err)
	}
	var sum Summary
	for _, t := range txs {
		switch t.Type {
		case core.Income:
			sum.IncomeCents += t.Amount.Cents
		case core.Expense:
			sum.ExpenseCents += t.Amount.Cents
		}
	}
	return sum, nil
}

// recordUndo overwrites the single pending slot. A slot write failure leaves
// the mutation committed, so it is logged rather than surfaced.
func (s *LedgerService) recordUndo(ctx context.Context, entry core.UndoEntry) {
	if err := s.undo.Save(ctx, entry); err != nil {
		slog.WarnContext(ctx, "Failed to record undo entry",
			"user", s.user, "op", entry.Op, "error", err)
	}
}

func (s *LedgerService) publish(ctx context.Context, op string, txID int) {
	if s.events == nil {
		return
	}
	event := events.NewMutationEvent(s.user, op, txID)
	if err := s.events.PublishMutation(ctx, event); err != nil {
		slog.WarnContext(ctx, "Failed to publish mutation event",
			"user", s.user, "op", op, "error", err)
	}
}
