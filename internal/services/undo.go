package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/store"
)

// UndoResult tells the caller which inverse ran. TxID is meaningful for the
// add and delete ops only.
type UndoResult struct {
	Op   core.UndoOp
	TxID int
}

// UndoService consumes the single pending undo slot and applies its inverse
// to the ledger. Undo is one level deep: applying it clears the slot and is
// itself not undoable.
type UndoService struct {
	ledger store.LedgerRepository
	undo   store.UndoRepository
	events *events.Client
	user   string
}

func NewUndoService(ledger store.LedgerRepository, undo store.UndoRepository, ev *events.Client, user string) *UndoService {
	return &UndoService{
		ledger: ledger,
		undo:   undo,
		events: ev,
		user:   user,
	}
}

// Undo applies the pending inverse, persists the ledger, and clears the
// slot. Returns (nil, nil) when there is nothing to undo.
func (s *UndoService) Undo(ctx context.Context) (*UndoResult, error) {
	entry, err := s.undo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load undo slot: %w", err)
	}
	if entry == nil {
		return nil, nil
	}

	txs, err := s.ledger.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	result := &UndoResult{Op: entry.Op}
	switch entry.Op {
	case core.UndoAdd:
		txs = removeByID(txs, entry.TxID)
		result.TxID = entry.TxID
	case core.UndoDelete:
		txs = insertAt(txs, entry.Tx, entry.Pos)
		result.TxID = entry.Tx.ID
	case core.UndoSort:
		txs = reorderByIDs(txs, entry.Order)
	default:
		return nil, fmt.Errorf("unknown undo op %q", entry.Op)
	}

	if err := s.ledger.Save(ctx, txs); err != nil {
		return nil, fmt.Errorf("save ledger: %w", err)
	}
	if err := s.undo.Clear(ctx); err != nil {
		return nil, fmt.Errorf("clear undo slot: %w", err)
	}

	s.publish(ctx, result.TxID)
	return result, nil
}

func (s *UndoService) publish(ctx context.Context, txID int) {
	if s.events == nil {
		return
	}
	event := events.NewMutationEvent(s.user, "undo", txID)
	if err := s.events.PublishMutation(ctx, event); err != nil {
		slog.WarnContext(ctx, "Failed to publish mutation event",
			"user", s.user, "op", "undo", "error", err)
	}
}

func removeByID(txs []core.Transaction, id int) []core.Transaction {
	for i, t := range txs {
		if t.ID == id {
			return append(txs[:i], txs[i+1:]...)
		}
	}
	return txs
}

// insertAt puts tx back at its recorded list position, clamped in case the
// ledger shrank since the delete was recorded.
func insertAt(txs []core.Transaction, tx core.Transaction, pos int) []core.Transaction {
	if pos < 0 {
		pos = 0
	}
	if pos > len(txs) {
		pos = len(txs)
	}
	txs = append(txs, core.Transaction{})
	copy(txs[pos+1:], txs[pos:])
	txs[pos] = tx
	return txs
}

// reorderByIDs restores the recorded ID order. Rows whose ID is missing from
// the record keep their current relative order at the tail.
func reorderByIDs(txs []core.Transaction, order []int) []core.Transaction {
	byID := make(map[int]core.Transaction, len(txs))
	for _, t := range txs {
		byID[t.ID] = t
	}

	out := make([]core.Transaction, 0, len(txs))
	seen := make(map[int]bool, len(order))
	for _, id := range order {
		if t, ok := byID[id]; ok && !seen[id] {
			out = append(out, t)
			seen[id] = true
		}
	}
	for _, t := range txs {
		if !seen[t.ID] {
			out = append(out, t)
		}
	}
	return out
}
