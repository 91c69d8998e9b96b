package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/codec"
	"fintrack/internal/core"
)

// UndoStore persists the single-entry undo slot, one row per user, encoded
// with the same line codec the file backend writes.
type UndoStore struct {
	db   *sql.DB
	user string
}

func (s *UndoStore) Load(ctx context.Context) (*core.UndoEntry, error) {
	var line string
	err := s.db.QueryRowContext(ctx,
		`SELECT entry FROM undo_slots WHERE user = ?`, s.user).Scan(&line)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query undo slot: %w", err)
	}

	entry, err := codec.DecodeUndoEntry(line)
	if err != nil {
		// A corrupt slot degrades to "nothing to undo"
		slog.WarnContext(ctx, "Discarding malformed undo slot",
			"user", s.user, "error", err)
		return nil, nil
	}
	return &entry, nil
}

func (s *UndoStore) Save(ctx context.Context, entry core.UndoEntry) error {
	line, err := codec.EncodeUndoEntry(entry)
	if err != nil {
		return fmt.Errorf("encode undo slot: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO undo_slots (user, entry) VALUES (?, ?)
		 ON CONFLICT(user) DO UPDATE SET entry = excluded.entry`,
		s.user, line); err != nil {
		return fmt.Errorf("save undo slot: %w", err)
	}
	return nil
}

func (s *UndoStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM undo_slots WHERE user = ?`, s.user); err != nil {
		return fmt.Errorf("clear undo slot: %w", err)
	}
	return nil
}
