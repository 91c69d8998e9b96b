package services

import (
	"context"
	"fmt"
	"sort"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// SchedulerService manages recurring-payment templates. Processing a
// template routes through the ledger service, so the materialized
// transaction gets a fresh ID and lands in the undo slot like any add.
type SchedulerService struct {
	repo   store.RecurringRepository
	ledger *LedgerService
}

func NewSchedulerService(repo store.RecurringRepository, ledger *LedgerService) *SchedulerService {
	return &SchedulerService{repo: repo, ledger: ledger}
}

// Schedule validates and stores a new template. Templates carry no ID; one
// is allocated only when the template is processed.
func (s *SchedulerService) Schedule(ctx context.Context, tmpl core.RecurringTemplate) error {
	if err := tmpl.Validate(); err != nil {
		return err
	}
	templates, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	templates = append(templates, tmpl)
	if err := s.repo.Save(ctx, templates); err != nil {
		return fmt.Errorf("save templates: %w", err)
	}
	return nil
}

// Templates returns the pending templates sorted by due date. Ties keep
// their scheduling order. The stored order is untouched.
func (s *SchedulerService) Templates(ctx context.Context) ([]core.RecurringTemplate, error) {
	templates, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	sort.SliceStable(templates, func(i, j int) bool {
		return templates[i].NextDue.Key() < templates[j].NextDue.Key()
	})
	return templates, nil
}

// ProcessNext materializes the template with the earliest due date into a
// ledger transaction and removes it from the schedule. Ties go to the
// template scheduled first. Returns ok=false when no templates are pending.
func (s *SchedulerService) ProcessNext(ctx context.Context) (core.Transaction, bool, error) {
	templates, err := s.repo.Load(ctx)
	if err != nil {
		return core.Transaction{}, false, fmt.Errorf("load templates: %w", err)
	}
	if len(templates) == 0 {
		return core.Transaction{}, false, nil
	}

	next := 0
	for i, t := range templates {
		if t.NextDue.Key() < templates[next].NextDue.Key() {
			next = i
		}
	}
	tmpl := templates[next]

	tx, err := s.ledger.Add(ctx, tmpl.NextDue, tmpl.Amount, tmpl.Type, tmpl.Category, tmpl.Description)
	if err != nil {
		return core.Transaction{}, false, fmt.Errorf("materialize template: %w", err)
	}

	// Template removal after the ledger commit: a crash in between leaves a
	// duplicate charge rather than a lost one.
	templates = append(templates[:next], templates[next+1:]...)
	if err := s.repo.Save(ctx, templates); err != nil {
		return tx, true, fmt.Errorf("save templates: %w", err)
	}
	return tx, true, nil
}
