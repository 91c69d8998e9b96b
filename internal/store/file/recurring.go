package file

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"fintrack/internal/codec"
	"fintrack/internal/core"
)

// RecurringStore persists one user's recurring-payment templates. Unlike the
// ledger, loads and saves are silent: the scheduler output is the contract.
type RecurringStore struct {
	path string
}

func NewRecurringStore(path string) *RecurringStore {
	return &RecurringStore{path: path}
}

func (s *RecurringStore) Load(ctx context.Context) ([]core.RecurringTemplate, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open recurring store %s: %w", s.path, err)
	}
	defer f.Close()

	var templates []core.RecurringTemplate
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		rt, err := codec.DecodeTemplate(line)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed recurring line",
				"path", s.path, "error", err)
			continue
		}
		templates = append(templates, rt)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read recurring store %s: %w", s.path, err)
	}
	return templates, nil
}

func (s *RecurringStore) Save(ctx context.Context, templates []core.RecurringTemplate) error {
	var b strings.Builder
	for _, rt := range templates {
		b.WriteString(codec.EncodeTemplate(rt))
		b.WriteByte('\n')
	}
	if err := writeFileAtomic(s.path, []byte(b.String())); err != nil {
		return fmt.Errorf("save recurring store %s: %w", s.path, err)
	}
	slog.DebugContext(ctx, "Recurring templates saved", "path", s.path, "count", len(templates))
	return nil
}
