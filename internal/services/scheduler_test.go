package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"fintrack/internal/core"
	storefile "fintrack/internal/store/file"
)

func newTestScheduler(t *testing.T) (*SchedulerService, *LedgerService) {
	t.Helper()
	paths := storefile.NewPaths(filepath.Join(t.TempDir(), "transactions_mario.txt"), "")
	ledgerRepo := storefile.NewLedgerStore(paths.Ledger, io.Discard)
	undoRepo := storefile.NewUndoStore(paths.Undo)
	ledger := NewLedgerService(ledgerRepo, undoRepo, nil, paths.User)
	recurring := storefile.NewRecurringStore(paths.Recurring)
	return NewSchedulerService(recurring, ledger), ledger
}

func template(day, month, year int, cents int64, desc string) core.RecurringTemplate {
	return core.RecurringTemplate{
		NextDue:     core.NewDate(day, month, year),
		Amount:      core.Money{Cents: cents},
		Type:        core.Expense,
		Category:    "bills",
		Description: desc,
	}
}

func TestScheduleValidates(t *testing.T) {
	sched, _ := newTestScheduler(t)
	ctx := context.Background()

	if err := sched.Schedule(ctx, template(1, 4, 2025, 4500, "internet")); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if err := sched.Schedule(ctx, template(40, 4, 2025, 4500, "bad day")); !errors.Is(err, core.ErrInvalidDay) {
		t.Errorf("Schedule(bad day) error = %v, want ErrInvalidDay", err)
	}

	templates, err := sched.Templates(ctx)
	if err != nil {
		t.Fatalf("Templates() error = %v", err)
	}
	if len(templates) != 1 {
		t.Errorf("Templates() has %d entries after rejected schedule, want 1", len(templates))
	}
}

func TestTemplatesSortedByDueDate(t *testing.T) {
	sched, _ := newTestScheduler(t)
	ctx := context.Background()

	for _, tmpl := range []core.RecurringTemplate{
		template(15, 6, 2025, 100, "june"),
		template(1, 5, 2025, 200, "may"),
		template(31, 12, 2024, 300, "december"),
	} {
		if err := sched.Schedule(ctx, tmpl); err != nil {
			t.Fatalf("Schedule() error = %v", err)
		}
	}

	templates, err := sched.Templates(ctx)
	if err != nil {
		t.Fatalf("Templates() error = %v", err)
	}
	want := []string{"december", "may", "june"}
	for i, desc := range want {
		if templates[i].Description != desc {
			t.Fatalf("Templates()[%d] = %q, want %q", i, templates[i].Description, desc)
		}
	}
}

func TestProcessNextTakesEarliestDue(t *testing.T) {
	sched, ledger := newTestScheduler(t)
	ctx := context.Background()

	for _, tmpl := range []core.RecurringTemplate{
		template(15, 6, 2025, 100, "later"),
		template(1, 5, 2025, 200, "earliest"),
		template(1, 5, 2025, 300, "same day, scheduled after"),
	} {
		if err := sched.Schedule(ctx, tmpl); err != nil {
			t.Fatalf("Schedule() error = %v", err)
		}
	}

	tx, ok, err := sched.ProcessNext(ctx)
	if err != nil {
		t.Fatalf("ProcessNext() error = %v", err)
	}
	if !ok {
		t.Fatal("ProcessNext() ok = false, want true")
	}
	if tx.Description != "earliest" {
		t.Errorf("processed %q, want %q", tx.Description, "earliest")
	}
	if tx.ID != 1 {
		t.Errorf("materialized ID = %d, want 1", tx.ID)
	}

	// the tie partner survives and goes next
	tx, ok, err = sched.ProcessNext(ctx)
	if err != nil {
		t.Fatalf("second ProcessNext() error = %v", err)
	}
	if !ok || tx.Description != "same day, scheduled after" {
		t.Errorf("second processed = %q ok=%v, want tie partner", tx.Description, ok)
	}

	txs, err := ledger.SearchDescription(ctx, "")
	if err != nil {
		t.Fatalf("SearchDescription() error = %v", err)
	}
	if len(txs) != 2 {
		t.Errorf("ledger has %d rows after two processes, want 2", len(txs))
	}
}

func TestProcessNextEmpty(t *testing.T) {
	sched, _ := newTestScheduler(t)

	_, ok, err := sched.ProcessNext(context.Background())
	if err != nil {
		t.Fatalf("ProcessNext() error = %v", err)
	}
	if ok {
		t.Error("ProcessNext() on empty schedule ok = true, want false")
	}
}

func TestProcessedTemplateIsUndoable(t *testing.T) {
	paths := storefile.NewPaths(filepath.Join(t.TempDir(), "transactions_mario.txt"), "")
	ledgerRepo := storefile.NewLedgerStore(paths.Ledger, io.Discard)
	undoRepo := storefile.NewUndoStore(paths.Undo)
	ledger := NewLedgerService(ledgerRepo, undoRepo, nil, paths.User)
	sched := NewSchedulerService(storefile.NewRecurringStore(paths.Recurring), ledger)
	undoSvc := NewUndoService(ledgerRepo, undoRepo, nil, paths.User)
	ctx := context.Background()

	if err := sched.Schedule(ctx, template(1, 5, 2025, 4500, "internet")); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	tx, ok, err := sched.ProcessNext(ctx)
	if err != nil || !ok {
		t.Fatalf("ProcessNext() = ok=%v err=%v", ok, err)
	}

	res, err := undoSvc.Undo(ctx)
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if res == nil || res.Op != core.UndoAdd || res.TxID != tx.ID {
		t.Errorf("Undo() = %+v, want add of %d", res, tx.ID)
	}
}
