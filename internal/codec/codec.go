// Package codec parses and serializes single ledger records to and from
// whitespace-separated text lines. Fixed fields lead each line; the trailing
// free-text description absorbs the remaining tokens, rejoined with single
// spaces. Readers skip malformed lines instead of aborting, so one corrupt
// row never prevents loading the rest of a file.
package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fintrack/internal/core"
)

var ErrMalformed = errors.New("malformed record line")

// EncodeTransaction renders one ledger row:
//
//	id day month year amount type category description
func EncodeTransaction(t core.Transaction) string {
	return fmt.Sprintf("%d %d %d %d %s %s %s %s",
		t.ID, t.Date.Day, t.Date.Month, t.Date.Year,
		t.Amount, t.Type, t.Category, t.Description)
}

// DecodeTransaction parses one ledger row. The first seven tokens are fixed
// fields; everything after the category is the description.
func DecodeTransaction(line string) (core.Transaction, error) {
	fields := strings.Fields(line)
	if len(fields) < 8 {
		return core.Transaction{}, fmt.Errorf("%w: expected at least 8 fields, got %d", ErrMalformed, len(fields))
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil || id <= 0 {
		return core.Transaction{}, fmt.Errorf("%w: bad id %q", ErrMalformed, fields[0])
	}
	date, err := decodeDate(fields[1], fields[2], fields[3])
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := core.ParseAmount(fields[4])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: bad amount %q", ErrMalformed, fields[4])
	}
	return core.Transaction{
		ID:          id,
		Date:        date,
		Amount:      amount,
		Type:        core.TxType(fields[5]),
		Category:    fields[6],
		Description: strings.Join(fields[7:], " "),
	}, nil
}

// EncodeTemplate renders one recurring-template row. Templates carry no ID;
// the due date leads the line:
//
//	day month year amount type category description
func EncodeTemplate(rt core.RecurringTemplate) string {
	return fmt.Sprintf("%d %d %d %s %s %s %s",
		rt.NextDue.Day, rt.NextDue.Month, rt.NextDue.Year,
		rt.Amount, rt.Type, rt.Category, rt.Description)
}

// DecodeTemplate parses one recurring-template row.
func DecodeTemplate(line string) (core.RecurringTemplate, error) {
	fields := strings.Fields(line)
	if len(fields) < 7 {
		return core.RecurringTemplate{}, fmt.Errorf("%w: expected at least 7 fields, got %d", ErrMalformed, len(fields))
	}
	due, err := decodeDate(fields[0], fields[1], fields[2])
	if err != nil {
		return core.RecurringTemplate{}, err
	}
	amount, err := core.ParseAmount(fields[3])
	if err != nil {
		return core.RecurringTemplate{}, fmt.Errorf("%w: bad amount %q", ErrMalformed, fields[3])
	}
	return core.RecurringTemplate{
		NextDue:     due,
		Amount:      amount,
		Type:        core.TxType(fields[4]),
		Category:    fields[5],
		Description: strings.Join(fields[6:], " "),
	}, nil
}

// EncodeUndoEntry renders the single-line undo slot:
//
//	add <id>
//	delete <position> <transaction row>
//	sort <id> <id> ...
func EncodeUndoEntry(e core.UndoEntry) (string, error) {
	switch e.Op {
	case core.UndoAdd:
		return fmt.Sprintf("%s %d", e.Op, e.TxID), nil
	case core.UndoDelete:
		return fmt.Sprintf("%s %d %s", e.Op, e.Pos, EncodeTransaction(e.Tx)), nil
	case core.UndoSort:
		parts := make([]string, 0, len(e.Order)+1)
		parts = append(parts, string(e.Op))
		for _, id := range e.Order {
			parts = append(parts, strconv.Itoa(id))
		}
		return strings.Join(parts, " "), nil
	default:
		return "", fmt.Errorf("%w: unknown undo op %q", ErrMalformed, e.Op)
	}
}

// DecodeUndoEntry parses the undo slot line written by EncodeUndoEntry.
func DecodeUndoEntry(line string) (core.UndoEntry, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return core.UndoEntry{}, fmt.Errorf("%w: expected op and payload", ErrMalformed)
	}
	op := core.UndoOp(fields[0])
	switch op {
	case core.UndoAdd:
		id, err := strconv.Atoi(fields[1])
		if err != nil || id <= 0 {
			return core.UndoEntry{}, fmt.Errorf("%w: bad id %q", ErrMalformed, fields[1])
		}
		return core.UndoEntry{Op: op, TxID: id}, nil
	case core.UndoDelete:
		if len(fields) < 3 {
			return core.UndoEntry{}, fmt.Errorf("%w: delete entry needs position and row", ErrMalformed)
		}
		pos, err := strconv.Atoi(fields[1])
		if err != nil || pos < 0 {
			return core.UndoEntry{}, fmt.Errorf("%w: bad position %q", ErrMalformed, fields[1])
		}
		tx, err := DecodeTransaction(strings.Join(fields[2:], " "))
		if err != nil {
			return core.UndoEntry{}, err
		}
		return core.UndoEntry{Op: op, Tx: tx, Pos: pos}, nil
	case core.UndoSort:
		order := make([]int, 0, len(fields)-1)
		for _, f := range fields[1:] {
			id, err := strconv.Atoi(f)
			if err != nil || id <= 0 {
				return core.UndoEntry{}, fmt.Errorf("%w: bad id %q in sort order", ErrMalformed, f)
			}
			order = append(order, id)
		}
		return core.UndoEntry{Op: op, Order: order}, nil
	default:
		return core.UndoEntry{}, fmt.Errorf("%w: unknown undo op %q", ErrMalformed, fields[0])
	}
}

func decodeDate(d, m, y string) (core.Date, error) {
	day, err := strconv.Atoi(d)
	if err != nil {
		return core.Date{}, fmt.Errorf("%w: bad day %q", ErrMalformed, d)
	}
	month, err := strconv.Atoi(m)
	if err != nil {
		return core.Date{}, fmt.Errorf("%w: bad month %q", ErrMalformed, m)
	}
	year, err := strconv.Atoi(y)
	if err != nil {
		return core.Date{}, fmt.Errorf("%w: bad year %q", ErrMalformed, y)
	}
	return core.NewDate(day, month, year), nil
}
