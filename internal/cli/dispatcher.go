// Package cli parses the one-shot command line and drives the services.
// Everything written to the out writer is contract output the front ends
// pattern-match; diagnostics go through slog.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/lock"
	"fintrack/internal/services"
)

// App wires configuration, backend selection, and the optional event
// publisher into a runnable dispatcher.
type App struct {
	cfg     *config.Config
	factory *backend.Factory
	events  *events.Client
	out     io.Writer
}

func NewApp(cfg *config.Config, ev *events.Client, out io.Writer) *App {
	return &App{
		cfg:     cfg,
		factory: backend.NewFactory(slog.Default()),
		events:  ev,
		out:     out,
	}
}

// session carries the per-invocation services a handler works with.
type session struct {
	out     io.Writer
	repos   *backend.Repos
	ledger  *services.LedgerService
	undoer  *services.UndoService
	sched   *services.SchedulerService
	mailbox *services.MailboxService
}

type handlerFunc func(ctx context.Context, s *session, args []string) int

type command struct {
	run         handlerFunc
	lockLedger  bool
	lockMailbox bool
}

var commands = map[string]command{
	"add":               {run: cmdAdd, lockLedger: true},
	"delete":            {run: cmdDelete, lockLedger: true},
	"sort_amount":       {run: cmdSortAmount, lockLedger: true},
	"sort_date":         {run: cmdSortDate, lockLedger: true},
	"search":            {run: cmdSearch},
	"analysis":          {run: cmdAnalysis},
	"undo":              {run: cmdUndo, lockLedger: true},
	"recurring":         {run: cmdRecurring, lockLedger: true},
	"process_recurring": {run: cmdProcessRecurring, lockLedger: true},
	"view_recurring":    {run: cmdViewRecurring},
	"suggest":           {run: cmdSuggest, lockMailbox: true},
	"view_suggestions":  {run: cmdViewSuggestions},
	"delete_suggestion": {run: cmdDeleteSuggestion, lockMailbox: true},
	"reply_user":        {run: cmdReplyUser, lockMailbox: true},
	"view_replies":      {run: cmdViewReplies},
}

// Run executes one command line (without the program name) and returns the
// process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) < 2 {
		printUsage(a.out)
		return 1
	}
	ledgerPath := args[0]
	verb := args[1]

	repos, err := a.factory.Create(ctx, a.cfg, ledgerPath, a.out)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to initialize storage backend", "error", err)
		return 1
	}
	if repos.Cleanup != nil {
		defer func() {
			if err := repos.Cleanup(); err != nil {
				slog.WarnContext(ctx, "Backend cleanup failed", "error", err)
			}
		}()
	}

	cmd, ok := commands[verb]
	if !ok {
		// The ledger still announces itself before the rejection.
		if _, err := repos.Ledger.Load(ctx); err != nil {
			slog.ErrorContext(ctx, "Failed to load ledger", "error", err)
			return 1
		}
		fmt.Fprintf(a.out, "Unknown command: %s\n", verb)
		printUsage(a.out)
		return 1
	}

	if cmd.lockLedger && repos.LedgerLockPath != "" {
		guard, err := lock.Acquire(ctx, repos.LedgerLockPath, a.cfg.LockTimeout)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to acquire ledger lock",
				"path", repos.LedgerLockPath, "error", err)
			return 1
		}
		defer guard.Release()
	}
	if cmd.lockMailbox && repos.MailboxLockPath != "" {
		guard, err := lock.Acquire(ctx, repos.MailboxLockPath, a.cfg.LockTimeout)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to acquire mailbox lock",
				"path", repos.MailboxLockPath, "error", err)
			return 1
		}
		defer guard.Release()
	}

	// Every invocation opens with the ledger load notice, whatever the verb.
	if _, err := repos.Ledger.Load(ctx); err != nil {
		slog.ErrorContext(ctx, "Failed to load ledger", "error", err)
		return 1
	}

	ledger := services.NewLedgerService(repos.Ledger, repos.Undo, a.events, repos.User)
	s := &session{
		out:     a.out,
		repos:   repos,
		ledger:  ledger,
		undoer:  services.NewUndoService(repos.Ledger, repos.Undo, a.events, repos.User),
		sched:   services.NewSchedulerService(repos.Recurring, ledger),
		mailbox: services.NewMailboxService(repos.Mailbox),
	}
	return cmd.run(ctx, s, args[2:])
}

// parseTxArgs reads the shared day/month/year/amount/type/category tail of
// the add and recurring verbs. The description is everything after the
// category, joined by single spaces.
func parseTxArgs(args []string) (core.Date, core.Money, core.TxType, string, string, error) {
	day := atoi(args[0])
	month := atoi(args[1])
	year := atoi(args[2])
	amount, err := core.ParseAmount(args[3])
	if err != nil {
		return core.Date{}, core.Money{}, "", "", "", err
	}
	typ := core.TxType(args[4])
	category := args[5]
	description := strings.Join(args[6:], " ")
	return core.NewDate(day, month, year), amount, typ, category, description, nil
}

func cmdAdd(ctx context.Context, s *session, args []string) int {
	if len(args) < 7 {
		fmt.Fprintln(s.out, "Error: Missing arguments for add.")
		return 1
	}
	date, amount, typ, category, description, err := parseTxArgs(args)
	if err == nil {
		var tx core.Transaction
		tx, err = s.ledger.Add(ctx, date, amount, typ, category, description)
		if err == nil {
			fmt.Fprintf(s.out, "Transaction added successfully. ID: %d\n", tx.ID)
			return 0
		}
	}
	return rejectOrFail(ctx, s.out, err, "add transaction")
}

func cmdDelete(ctx context.Context, s *session, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Error: Missing ID for delete.")
		return 1
	}
	id := atoi(args[0])
	if _, err := s.ledger.Delete(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			fmt.Fprintf(s.out, "Error: Transaction %d not found.\n", id)
			return 0
		}
		slog.ErrorContext(ctx, "Failed to delete transaction", "id", id, "error", err)
		return 1
	}
	fmt.Fprintf(s.out, "Transaction %d deleted successfully.\n", id)
	return 0
}

func cmdSortAmount(ctx context.Context, s *session, _ []string) int {
	fmt.Fprintln(s.out, "Transactions sorted by Amount.")
	if err := s.ledger.SortByAmount(ctx); err != nil {
		slog.ErrorContext(ctx, "Failed to sort ledger", "by", "amount", "error", err)
		return 1
	}
	fmt.Fprintln(s.out, "Sorted by amount and saved.")
	return 0
}

func cmdSortDate(ctx context.Context, s *session, _ []string) int {
	fmt.Fprintln(s.out, "Transactions sorted by Date.")
	if err := s.ledger.SortByDate(ctx); err != nil {
		slog.ErrorContext(ctx, "Failed to sort ledger", "by", "date", "error", err)
		return 1
	}
	fmt.Fprintln(s.out, "Sorted by date and saved.")
	return 0
}

func cmdSearch(ctx context.Context, s *session, args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Error: Usage: search <type> <value>")
		return 1
	}
	kind, value := args[0], args[1]

	switch kind {
	case "amount":
		amount, err := core.ParseAmount(value)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v.\n", err)
			return 1
		}
		txs, err := s.ledger.SearchAmount(ctx, amount)
		if err != nil {
			slog.ErrorContext(ctx, "Search failed", "kind", kind, "error", err)
			return 1
		}
		for _, tx := range txs {
			renderRow(s.out, tx)
		}
	case "id":
		id := atoi(value)
		tx, err := s.ledger.SearchID(ctx, id)
		switch {
		case err == nil:
			renderFound(s.out, tx)
		case errors.Is(err, core.ErrNotFound):
			fmt.Fprintf(s.out, "Transaction with ID %d not found.\n", id)
		default:
			slog.ErrorContext(ctx, "Search failed", "kind", kind, "error", err)
			return 1
		}
	case "description":
		txs, err := s.ledger.SearchDescription(ctx, value)
		if err != nil {
			slog.ErrorContext(ctx, "Search failed", "kind", kind, "error", err)
			return 1
		}
		if len(txs) == 0 {
			fmt.Fprintf(s.out, "No transactions found matching '%s'.\n", value)
			return 0
		}
		for _, tx := range txs {
			renderFound(s.out, tx)
		}
	default:
		fmt.Fprintf(s.out, "Error: Unknown search type '%s'. Supported: amount, id, description.\n", kind)
	}
	return 0
}

func cmdAnalysis(ctx context.Context, s *session, _ []string) int {
	sum, err := s.ledger.Analyze(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Analysis failed", "error", err)
		return 1
	}
	renderSummary(s.out, sum)
	return 0
}

func cmdUndo(ctx context.Context, s *session, _ []string) int {
	// Peek first: the outcome line precedes the save notice the undo emits.
	entry, err := s.repos.Undo.Load(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load undo slot", "error", err)
		return 1
	}
	if entry == nil {
		fmt.Fprintln(s.out, "Nothing to undo.")
		return 0
	}

	switch entry.Op {
	case core.UndoAdd:
		fmt.Fprintf(s.out, "Undo: Removed transaction %d.\n", entry.TxID)
	case core.UndoDelete:
		fmt.Fprintf(s.out, "Undo: Restored transaction %d.\n", entry.Tx.ID)
	case core.UndoSort:
		fmt.Fprintln(s.out, "Undo: Restored previous order.")
	}

	if _, err := s.undoer.Undo(ctx); err != nil {
		slog.ErrorContext(ctx, "Undo failed", "op", entry.Op, "error", err)
		return 1
	}
	return 0
}

func cmdRecurring(ctx context.Context, s *session, args []string) int {
	if len(args) < 7 {
		fmt.Fprintln(s.out, "Error: Missing arguments for recurring.")
		return 1
	}
	date, amount, typ, category, description, err := parseTxArgs(args)
	if err == nil {
		err = s.sched.Schedule(ctx, core.RecurringTemplate{
			NextDue:     date,
			Amount:      amount,
			Type:        typ,
			Category:    category,
			Description: description,
		})
		if err == nil {
			fmt.Fprintln(s.out, "Recurring payment scheduled.")
			return 0
		}
	}
	return rejectOrFail(ctx, s.out, err, "schedule recurring payment")
}

func cmdProcessRecurring(ctx context.Context, s *session, _ []string) int {
	tx, ok, err := s.sched.ProcessNext(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to process recurring payment", "error", err)
		return 1
	}
	if !ok {
		fmt.Fprintln(s.out, "No recurring payments to process.")
		return 0
	}
	fmt.Fprintf(s.out, "Transaction added successfully. ID: %d\n", tx.ID)
	fmt.Fprintf(s.out, "Processed recurring payment: %s - %s\n", tx.Description, tx.Amount.String())
	return 0
}

func cmdViewRecurring(ctx context.Context, s *session, _ []string) int {
	templates, err := s.sched.Templates(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load recurring payments", "error", err)
		return 1
	}
	renderRecurring(s.out, templates)
	return 0
}

func cmdSuggest(ctx context.Context, s *session, args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Error: Usage: suggest <username> <text>")
		return 1
	}
	if err := s.mailbox.Suggest(ctx, args[0], strings.Join(args[1:], " ")); err != nil {
		return rejectOrFail(ctx, s.out, err, "submit suggestion")
	}
	fmt.Fprintln(s.out, "Suggestion submitted successfully.")
	return 0
}

func cmdViewSuggestions(ctx context.Context, s *session, _ []string) int {
	suggestions, err := s.mailbox.Suggestions(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list suggestions", "error", err)
		return 1
	}
	if len(suggestions) == 0 {
		fmt.Fprintln(s.out, "No suggestions found.")
		return 0
	}
	for _, sg := range suggestions {
		fmt.Fprintf(s.out, "%d. %s: %s\n", sg.Index, sg.Author, sg.Text)
	}
	return 0
}

func cmdDeleteSuggestion(ctx context.Context, s *session, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Error: Usage: delete_suggestion <line_number>")
		return 1
	}
	n := atoi(args[0])
	deleted, err := s.mailbox.DeleteSuggestion(ctx, n)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to delete suggestion", "line", n, "error", err)
		return 1
	}
	if deleted {
		fmt.Fprintln(s.out, "Suggestion deleted successfully.")
	} else {
		fmt.Fprintf(s.out, "Suggestion line %d not found.\n", n)
	}
	return 0
}

func cmdReplyUser(ctx context.Context, s *session, args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Error: Usage: reply_user <username> <text>")
		return 1
	}
	user := args[0]
	if err := s.mailbox.Reply(ctx, user, strings.Join(args[1:], " ")); err != nil {
		return rejectOrFail(ctx, s.out, err, "send reply")
	}
	fmt.Fprintf(s.out, "Reply sent to %s.\n", user)
	return 0
}

func cmdViewReplies(ctx context.Context, s *session, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Error: Usage: view_replies <username>")
		return 1
	}
	lines, err := s.mailbox.Replies(ctx, args[0])
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list replies", "user", args[0], "error", err)
		return 1
	}
	if len(lines) == 0 {
		fmt.Fprintln(s.out, "No new messages.")
		return 0
	}
	for _, line := range lines {
		fmt.Fprintln(s.out, line)
	}
	return 0
}

// rejectOrFail distinguishes rejected input, reported on the contract
// stream, from storage failures, which are diagnostics only.
func rejectOrFail(ctx context.Context, out io.Writer, err error, action string) int {
	if isDomainError(err) {
		fmt.Fprintf(out, "Error: %v.\n", err)
		return 1
	}
	slog.ErrorContext(ctx, "Command failed", "action", action, "error", err)
	return 1
}

func isDomainError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidDay, core.ErrInvalidMonth, core.ErrInvalidType,
		core.ErrInvalidAmount, core.ErrEmptyCategory, core.ErrEmptyDescription,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// atoi mirrors the lenient C-style parse the file formats assume: garbage
// reads as zero, which then fails validation or lookup downstream.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
