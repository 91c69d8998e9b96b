package core

import (
	"errors"
	"strings"
)

const (
	Income  TxType = "Income"
	Expense TxType = "Expense"
)

type (
	// TxType marks a transaction as money coming in or going out.
	TxType string

	// Date is a caller-supplied calendar triple. It is range-checked but not
	// validated against month lengths, matching the ledger file contract.
	Date struct {
		Day   int
		Month int
		Year  int
	}

	// Transaction is one persisted ledger row. IDs are unique within a user's
	// ledger and strictly increasing as allocated.
	Transaction struct {
		ID          int
		Date        Date
		Amount      Money
		Type        TxType
		Category    string
		Description string
	}

	// RecurringTemplate is a pending obligation, not yet a ledger entry.
	// It carries no ID; one is allocated when the template is materialized.
	RecurringTemplate struct {
		NextDue     Date
		Amount      Money
		Type        TxType
		Category    string
		Description string
	}

	// Suggestion is one entry of the shared suggestion list. Index is the
	// 1-based position at read time, valid only within the same listing.
	Suggestion struct {
		Index  int
		Author string
		Text   string
	}
)

var (
	ErrNotFound         = errors.New("transaction not found")
	ErrInvalidDay       = errors.New("invalid day")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidType      = errors.New("type must be Income or Expense")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyDescription = errors.New("empty description")
)

func (t TxType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

// Key collapses the date into a sortable yyyymmdd integer.
func (d Date) Key() int {
	return d.Year*10000 + d.Month*100 + d.Day
}

func (d Date) Validate() error {
	if d.Day < 1 || d.Day > 31 {
		return ErrInvalidDay
	}
	if d.Month < 1 || d.Month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// NewDate creates a Date from day, month, year.
func NewDate(day, month, year int) Date {
	return Date{Day: day, Month: month, Year: year}
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	return nil
}

// Template converts the transaction's fields into a recurring template due on
// the transaction's date.
func (t Transaction) Template() RecurringTemplate {
	return RecurringTemplate{
		NextDue:     t.Date,
		Amount:      t.Amount,
		Type:        t.Type,
		Category:    t.Category,
		Description: t.Description,
	}
}

func (rt RecurringTemplate) Validate() error {
	if err := rt.NextDue.Validate(); err != nil {
		return err
	}
	if err := rt.Amount.Validate(); err != nil {
		return err
	}
	if err := rt.Type.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(rt.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(rt.Description) == "" {
		return ErrEmptyDescription
	}
	return nil
}

// Materialize promotes the template into a concrete transaction with the
// given freshly allocated ID; the due date becomes the transaction's date.
func (rt RecurringTemplate) Materialize(id int) Transaction {
	return Transaction{
		ID:          id,
		Date:        rt.NextDue,
		Amount:      rt.Amount,
		Type:        rt.Type,
		Category:    rt.Category,
		Description: rt.Description,
	}
}
