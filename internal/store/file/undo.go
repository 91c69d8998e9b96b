package file

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"fintrack/internal/codec"
	"fintrack/internal/core"
)

// UndoStore persists the single-entry undo slot as a one-line file.
// An absent or empty file means nothing is pending.
type UndoStore struct {
	path string
}

func NewUndoStore(path string) *UndoStore {
	return &UndoStore{path: path}
}

func (s *UndoStore) Load(ctx context.Context) (*core.UndoEntry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open undo slot %s: %w", s.path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		entry, err := codec.DecodeUndoEntry(line)
		if err != nil {
			// A corrupt slot degrades to "nothing to undo"
			slog.WarnContext(ctx, "Discarding malformed undo slot",
				"path", s.path, "error", err)
			return nil, nil
		}
		return &entry, nil
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read undo slot %s: %w", s.path, err)
	}
	return nil, nil
}

func (s *UndoStore) Save(ctx context.Context, entry core.UndoEntry) error {
	line, err := codec.EncodeUndoEntry(entry)
	if err != nil {
		return fmt.Errorf("encode undo slot: %w", err)
	}
	if err := writeFileAtomic(s.path, []byte(line+"\n")); err != nil {
		return fmt.Errorf("save undo slot %s: %w", s.path, err)
	}
	slog.DebugContext(ctx, "Undo slot saved", "path", s.path, "op", string(entry.Op))
	return nil
}

func (s *UndoStore) Clear(ctx context.Context) error {
	if err := writeFileAtomic(s.path, nil); err != nil {
		return fmt.Errorf("clear undo slot %s: %w", s.path, err)
	}
	slog.DebugContext(ctx, "Undo slot cleared", "path", s.path)
	return nil
}
