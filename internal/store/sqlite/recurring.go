package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"fintrack/internal/core"
)

// RecurringStore persists one user's recurring-payment templates.
type RecurringStore struct {
	db   *sql.DB
	user string
}

func (s *RecurringStore) Load(ctx context.Context) ([]core.RecurringTemplate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT day, month, year, amount_cents, type, category, description
		 FROM recurring_templates WHERE user = ? ORDER BY position`, s.user)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	defer rows.Close()

	var templates []core.RecurringTemplate
	for rows.Next() {
		var rt core.RecurringTemplate
		var typ string
		if err := rows.Scan(&rt.NextDue.Day, &rt.NextDue.Month, &rt.NextDue.Year,
			&rt.Amount.Cents, &typ, &rt.Category, &rt.Description); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		rt.Type = core.TxType(typ)
		templates = append(templates, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return templates, nil
}

func (s *RecurringStore) Save(ctx context.Context, templates []core.RecurringTemplate) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx,
		`DELETE FROM recurring_templates WHERE user = ?`, s.user); err != nil {
		return fmt.Errorf("clear templates: %w", err)
	}
	for i, rt := range templates {
		if _, err := dbTx.ExecContext(ctx,
			`INSERT INTO recurring_templates
			 (user, position, day, month, year, amount_cents, type, category, description)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.user, i, rt.NextDue.Day, rt.NextDue.Month, rt.NextDue.Year,
			rt.Amount.Cents, string(rt.Type), rt.Category, rt.Description); err != nil {
			return fmt.Errorf("insert template %d: %w", i, err)
		}
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit templates: %w", err)
	}
	return nil
}
