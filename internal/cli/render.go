package cli

import (
	"fmt"
	"io"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

// The front ends scrape these fixed-width layouts, so the widths and
// separators are part of the contract.
var (
	recurringSeparator = strings.Repeat("-", 58)
	summarySeparator   = strings.Repeat("-", 25)
)

// renderRow writes one transaction in the standard listing layout.
func renderRow(w io.Writer, tx core.Transaction) {
	fmt.Fprintf(w, "%-5d %02d/%02d/%04d   %-10s %-10s %-15s %-20s\n",
		tx.ID,
		tx.Date.Day, tx.Date.Month, tx.Date.Year,
		tx.Amount.String(),
		string(tx.Type),
		tx.Category,
		tx.Description)
}

func renderFound(w io.Writer, tx core.Transaction) {
	fmt.Fprintf(w, "Found: ID: %d, Amount: %s, Desc: %s\n",
		tx.ID, tx.Amount.String(), tx.Description)
}

func renderSummary(w io.Writer, sum services.Summary) {
	fmt.Fprintf(w, "\n--- Financial Summary ---\n")
	fmt.Fprintf(w, "Total Income:  %s\n", core.FormatCents(sum.IncomeCents))
	fmt.Fprintf(w, "Total Expense: %s\n", core.FormatCents(sum.ExpenseCents))
	fmt.Fprintf(w, "Net Savings:   %s\n", core.FormatCents(sum.NetCents()))
	fmt.Fprintln(w, summarySeparator)
}

func renderRecurring(w io.Writer, templates []core.RecurringTemplate) {
	if len(templates) == 0 {
		fmt.Fprintln(w, "No upcoming recurring payments.")
		return
	}
	fmt.Fprintf(w, "\n--- Upcoming Recurring Payments ---\n")
	fmt.Fprintf(w, "%-12s %-10s %-15s %-20s\n", "Date", "Amount", "Category", "Description")
	fmt.Fprintln(w, recurringSeparator)
	for _, tmpl := range templates {
		fmt.Fprintf(w, "%02d/%02d/%04d   %-10s %-15s %-20s\n",
			tmpl.NextDue.Day, tmpl.NextDue.Month, tmpl.NextDue.Year,
			tmpl.Amount.String(),
			tmpl.Category,
			tmpl.Description)
	}
	fmt.Fprintln(w, recurringSeparator)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: fintrack <filename> <command> [args...]")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <day> <month> <year> <amount> <type> <category> <description>")
	fmt.Fprintln(w, "  delete <id>")
	fmt.Fprintln(w, "  sort_amount")
	fmt.Fprintln(w, "  sort_date")
	fmt.Fprintln(w, "  search <type> <value>")
	fmt.Fprintln(w, "  analysis")
	fmt.Fprintln(w, "  suggest <username> <text>")
	fmt.Fprintln(w, "  view_suggestions")
	fmt.Fprintln(w, "  delete_suggestion <line_number>")
	fmt.Fprintln(w, "  reply_user <username> <text>")
	fmt.Fprintln(w, "  view_replies <username>")
	fmt.Fprintln(w, "  undo")
	fmt.Fprintln(w, "  recurring <day> <month> <year> <amount> <type> <category> <description>")
	fmt.Fprintln(w, "  process_recurring")
	fmt.Fprintln(w, "  view_recurring")
}
