package file

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"fintrack/internal/codec"
	"fintrack/internal/core"
)

// LedgerStore persists one user's transactions, one codec line per row.
// Load and Save announce themselves on the notices writer because callers
// pattern-match those lines; the load notice appears once per store, no
// matter how often the engine re-reads the file during one invocation.
type LedgerStore struct {
	path      string
	notices   io.Writer
	announced bool
}

func NewLedgerStore(path string, notices io.Writer) *LedgerStore {
	if notices == nil {
		notices = io.Discard
	}
	return &LedgerStore{path: path, notices: notices}
}

func (s *LedgerStore) Load(ctx context.Context) ([]core.Transaction, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			if !s.announced {
				s.announced = true
				fmt.Fprintln(s.notices, "No existing data found. Starting fresh.")
			}
			return nil, nil
		}
		return nil, fmt.Errorf("open ledger %s: %w", s.path, err)
	}
	defer f.Close()

	var txs []core.Transaction
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		tx, err := codec.DecodeTransaction(line)
		if err != nil {
			// Corrupt rows never abort the load
			slog.WarnContext(ctx, "Skipping malformed ledger line",
				"path", s.path, "error", err)
			continue
		}
		txs = append(txs, tx)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", s.path, err)
	}

	if !s.announced {
		s.announced = true
		fmt.Fprintf(s.notices, "Data loaded successfully from %s\n", s.path)
	}
	return txs, nil
}

func (s *LedgerStore) Save(ctx context.Context, txs []core.Transaction) error {
	var b strings.Builder
	for _, tx := range txs {
		b.WriteString(codec.EncodeTransaction(tx))
		b.WriteByte('\n')
	}
	if err := writeFileAtomic(s.path, []byte(b.String())); err != nil {
		return fmt.Errorf("save ledger %s: %w", s.path, err)
	}

	slog.DebugContext(ctx, "Ledger saved", "path", s.path, "rows", len(txs))
	fmt.Fprintf(s.notices, "Data saved successfully to %s\n", s.path)
	return nil
}
