package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"fintrack/internal/core"
)

// LedgerStore persists one user's transactions. The position column keeps
// the row order the text-file backend gets for free, so sort commands
// survive a round trip.
type LedgerStore struct {
	db        *sql.DB
	user      string
	notices   io.Writer
	announced bool
}

func (s *LedgerStore) Load(ctx context.Context) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, day, month, year, amount_cents, type, category, description
		 FROM transactions WHERE user = ? ORDER BY position`, s.user)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var tx core.Transaction
		var typ string
		if err := rows.Scan(&tx.ID, &tx.Date.Day, &tx.Date.Month, &tx.Date.Year,
			&tx.Amount.Cents, &typ, &tx.Category, &tx.Description); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Type = core.TxType(typ)
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	if !s.announced {
		s.announced = true
		if len(txs) == 0 {
			fmt.Fprintln(s.notices, "No existing data found. Starting fresh.")
		} else {
			fmt.Fprintf(s.notices, "Data loaded successfully from %s\n", s.user)
		}
	}
	return txs, nil
}

func (s *LedgerStore) Save(ctx context.Context, txs []core.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx,
		`DELETE FROM transactions WHERE user = ?`, s.user); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	for i, tx := range txs {
		if _, err := dbTx.ExecContext(ctx,
			`INSERT INTO transactions
			 (user, id, position, day, month, year, amount_cents, type, category, description)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.user, tx.ID, i, tx.Date.Day, tx.Date.Month, tx.Date.Year,
			tx.Amount.Cents, string(tx.Type), tx.Category, tx.Description); err != nil {
			return fmt.Errorf("insert transaction %d: %w", tx.ID, err)
		}
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit transactions: %w", err)
	}

	slog.DebugContext(ctx, "Ledger saved", "user", s.user, "rows", len(txs))
	fmt.Fprintf(s.notices, "Data saved successfully to %s\n", s.user)
	return nil
}
