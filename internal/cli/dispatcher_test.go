package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fintrack/internal/config"
)

type runner struct {
	app        *App
	ledgerPath string
	out        *bytes.Buffer
}

func newRunner(t *testing.T) *runner {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		DataBackend: "file",
		LockTimeout: 5 * time.Second,
	}
	out := &bytes.Buffer{}
	return &runner{
		app:        NewApp(cfg, nil, out),
		ledgerPath: filepath.Join(dir, "transactions_mario.txt"),
		out:        out,
	}
}

// run executes one verb against the same ledger and returns its output,
// resetting the capture buffer and the per-invocation load notice in
// between, like separate processes would.
func (r *runner) run(t *testing.T, args ...string) (string, int) {
	t.Helper()
	r.out.Reset()
	app := NewApp(r.app.cfg, nil, r.out)
	code := app.Run(context.Background(), append([]string{r.ledgerPath}, args...))
	return r.out.String(), code
}

func wantContains(t *testing.T, out string, subs ...string) {
	t.Helper()
	for _, sub := range subs {
		if !strings.Contains(out, sub) {
			t.Errorf("output missing %q:\n%s", sub, out)
		}
	}
}

func TestUsageAndUnknownCommand(t *testing.T) {
	r := newRunner(t)

	out, code := r.run(t)
	if code != 1 {
		t.Errorf("no verb exit = %d, want 1", code)
	}
	wantContains(t, out, "Usage: fintrack <filename> <command> [args...]", "Commands:")

	out, code = r.run(t, "frobnicate")
	if code != 1 {
		t.Errorf("unknown verb exit = %d, want 1", code)
	}
	wantContains(t, out, "Unknown command: frobnicate", "Usage: fintrack")
}

func TestAddDeleteLifecycle(t *testing.T) {
	r := newRunner(t)

	out, code := r.run(t, "add", "15", "3", "2025", "12.50", "Expense", "food", "groceries")
	if code != 0 {
		t.Fatalf("add exit = %d:\n%s", code, out)
	}
	wantContains(t, out,
		"No existing data found. Starting fresh.",
		"Data saved successfully to "+r.ledgerPath,
		"Transaction added successfully. ID: 1")

	out, _ = r.run(t, "add", "1", "4", "2025", "3000", "Income", "salary", "april", "pay")
	wantContains(t, out,
		"Data loaded successfully from "+r.ledgerPath,
		"Transaction added successfully. ID: 2")

	// multi-word description joined into the stored row
	data, err := os.ReadFile(r.ledgerPath)
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	wantContains(t, string(data), "2 1 4 2025 3000.00 Income salary april pay")

	out, code = r.run(t, "delete", "1")
	if code != 0 {
		t.Fatalf("delete exit = %d:\n%s", code, out)
	}
	wantContains(t, out, "Transaction 1 deleted successfully.")

	out, code = r.run(t, "delete", "99")
	if code != 0 {
		t.Errorf("delete missing exit = %d, want 0", code)
	}
	wantContains(t, out, "Error: Transaction 99 not found.")
}

func TestAddArgErrors(t *testing.T) {
	r := newRunner(t)

	out, code := r.run(t, "add", "15", "3")
	if code != 1 {
		t.Errorf("short add exit = %d, want 1", code)
	}
	wantContains(t, out, "Error: Missing arguments for add.")

	out, code = r.run(t, "add", "45", "3", "2025", "10", "Expense", "food", "x")
	if code != 1 {
		t.Errorf("bad day exit = %d, want 1", code)
	}
	wantContains(t, out, "Error: invalid day.")

	out, code = r.run(t, "delete")
	if code != 1 {
		t.Errorf("bare delete exit = %d, want 1", code)
	}
	wantContains(t, out, "Error: Missing ID for delete.")
}

func TestSortAndUndoOrder(t *testing.T) {
	r := newRunner(t)

	r.run(t, "add", "20", "1", "2025", "500.00", "Expense", "c", "late")
	r.run(t, "add", "5", "1", "2025", "20.00", "Expense", "a", "early")

	out, code := r.run(t, "sort_amount")
	if code != 0 {
		t.Fatalf("sort exit = %d:\n%s", code, out)
	}
	// outcome line, then persistence, then confirmation
	iSorted := strings.Index(out, "Transactions sorted by Amount.")
	iSaved := strings.Index(out, "Data saved successfully to ")
	iDone := strings.Index(out, "Sorted by amount and saved.")
	if iSorted < 0 || iSaved < 0 || iDone < 0 || !(iSorted < iSaved && iSaved < iDone) {
		t.Errorf("sort output out of order:\n%s", out)
	}

	out, _ = r.run(t, "undo")
	wantContains(t, out, "Undo: Restored previous order.")

	out, _ = r.run(t, "undo")
	wantContains(t, out, "Nothing to undo.")

	out, _ = r.run(t, "sort_date")
	wantContains(t, out, "Transactions sorted by Date.", "Sorted by date and saved.")
}

func TestUndoAddAndDelete(t *testing.T) {
	r := newRunner(t)

	r.run(t, "add", "1", "1", "2025", "10", "Expense", "a", "one")
	out, _ := r.run(t, "undo")
	wantContains(t, out, "Undo: Removed transaction 1.")

	r.run(t, "add", "1", "1", "2025", "10", "Expense", "a", "one")
	r.run(t, "delete", "1")
	out, _ = r.run(t, "undo")
	wantContains(t, out, "Undo: Restored transaction 1.")
}

func TestSearchVariants(t *testing.T) {
	r := newRunner(t)

	r.run(t, "add", "15", "3", "2025", "12.50", "Expense", "food", "Groceries")
	r.run(t, "add", "16", "3", "2025", "99.00", "Expense", "tech", "keyboard")

	out, code := r.run(t, "search")
	if code != 1 {
		t.Errorf("bare search exit = %d, want 1", code)
	}
	wantContains(t, out, "Error: Usage: search <type> <value>")

	out, _ = r.run(t, "search", "amount", "12.50")
	wantContains(t, out, "12.50", "Groceries")
	if strings.Contains(out, "keyboard") {
		t.Errorf("amount search matched wrong row:\n%s", out)
	}

	out, _ = r.run(t, "search", "id", "2")
	wantContains(t, out, "Found: ID: 2, Amount: 99.00, Desc: keyboard")
	out, _ = r.run(t, "search", "id", "42")
	wantContains(t, out, "Transaction with ID 42 not found.")

	out, _ = r.run(t, "search", "description", "groc")
	wantContains(t, out, "Found: ID: 1, Amount: 12.50, Desc: Groceries")
	out, _ = r.run(t, "search", "description", "yacht")
	wantContains(t, out, "No transactions found matching 'yacht'.")

	out, code = r.run(t, "search", "color", "red")
	if code != 0 {
		t.Errorf("unknown search type exit = %d, want 0", code)
	}
	wantContains(t, out, "Error: Unknown search type 'color'. Supported: amount, id, description.")
}

func TestAnalysis(t *testing.T) {
	r := newRunner(t)

	r.run(t, "add", "1", "3", "2025", "3000", "Income", "salary", "pay")
	r.run(t, "add", "2", "3", "2025", "512.50", "Expense", "rent", "march")

	out, code := r.run(t, "analysis")
	if code != 0 {
		t.Fatalf("analysis exit = %d:\n%s", code, out)
	}
	wantContains(t, out,
		"--- Financial Summary ---",
		"Total Income:  3000.00",
		"Total Expense: 512.50",
		"Net Savings:   2487.50")
}

func TestRecurringLifecycle(t *testing.T) {
	r := newRunner(t)

	out, code := r.run(t, "process_recurring")
	if code != 0 {
		t.Fatalf("process empty exit = %d:\n%s", code, out)
	}
	wantContains(t, out, "No recurring payments to process.")

	out, _ = r.run(t, "view_recurring")
	wantContains(t, out, "No upcoming recurring payments.")

	out, code = r.run(t, "recurring", "1", "6", "2025", "45.00", "Expense", "bills", "internet")
	if code != 0 {
		t.Fatalf("recurring exit = %d:\n%s", code, out)
	}
	wantContains(t, out, "Recurring payment scheduled.")

	out, _ = r.run(t, "recurring", "1", "5", "2025", "9.99", "Expense", "bills", "streaming")
	wantContains(t, out, "Recurring payment scheduled.")

	out, _ = r.run(t, "view_recurring")
	wantContains(t, out,
		"--- Upcoming Recurring Payments ---",
		"01/05/2025", "streaming",
		"01/06/2025", "internet")
	// earliest due first in the listing
	if strings.Index(out, "streaming") > strings.Index(out, "internet") {
		t.Errorf("recurring listing not in due-date order:\n%s", out)
	}

	out, code = r.run(t, "process_recurring")
	if code != 0 {
		t.Fatalf("process exit = %d:\n%s", code, out)
	}
	wantContains(t, out,
		"Transaction added successfully. ID: 1",
		"Processed recurring payment: streaming - 9.99")

	out, _ = r.run(t, "process_recurring")
	wantContains(t, out, "Processed recurring payment: internet - 45.00")

	out, _ = r.run(t, "process_recurring")
	wantContains(t, out, "No recurring payments to process.")

	out, code = r.run(t, "recurring", "1")
	if code != 1 {
		t.Errorf("short recurring exit = %d, want 1", code)
	}
	wantContains(t, out, "Error: Missing arguments for recurring.")
}

func TestMailboxVerbs(t *testing.T) {
	r := newRunner(t)

	out, _ := r.run(t, "view_suggestions")
	wantContains(t, out, "No suggestions found.")

	out, code := r.run(t, "suggest", "mario", "dark", "mode", "please")
	if code != 0 {
		t.Fatalf("suggest exit = %d:\n%s", code, out)
	}
	wantContains(t, out, "Suggestion submitted successfully.")

	r.run(t, "suggest", "luigi", "csv export")
	out, _ = r.run(t, "view_suggestions")
	wantContains(t, out, "1. mario: dark mode please", "2. luigi: csv export")

	out, _ = r.run(t, "delete_suggestion", "1")
	wantContains(t, out, "Suggestion deleted successfully.")
	out, _ = r.run(t, "delete_suggestion", "7")
	wantContains(t, out, "Suggestion line 7 not found.")

	out, _ = r.run(t, "view_suggestions")
	wantContains(t, out, "1. luigi: csv export")

	out, _ = r.run(t, "view_replies", "mario")
	wantContains(t, out, "No new messages.")

	out, code = r.run(t, "reply_user", "mario", "shipping", "next", "week")
	if code != 0 {
		t.Fatalf("reply exit = %d:\n%s", code, out)
	}
	wantContains(t, out, "Reply sent to mario.")

	out, _ = r.run(t, "view_replies", "mario")
	wantContains(t, out, "Admin Reply: shipping next week")

	out, code = r.run(t, "suggest", "mario")
	if code != 1 {
		t.Errorf("short suggest exit = %d, want 1", code)
	}
	wantContains(t, out, "Error: Usage: suggest <username> <text>")

	out, code = r.run(t, "delete_suggestion")
	if code != 1 {
		t.Errorf("bare delete_suggestion exit = %d, want 1", code)
	}
	wantContains(t, out, "Error: Usage: delete_suggestion <line_number>")

	out, code = r.run(t, "reply_user", "mario")
	if code != 1 {
		t.Errorf("short reply_user exit = %d, want 1", code)
	}
	wantContains(t, out, "Error: Usage: reply_user <username> <text>")

	out, code = r.run(t, "view_replies")
	if code != 1 {
		t.Errorf("bare view_replies exit = %d, want 1", code)
	}
	wantContains(t, out, "Error: Usage: view_replies <username>")
}
