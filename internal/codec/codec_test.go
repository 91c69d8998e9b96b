package codec

import (
	"errors"
	"testing"

	"fintrack/internal/core"
)

func TestDecodeTransaction(t *testing.T) {
	tests := []struct {
		name string
		line string
		want core.Transaction
		ok   bool
	}{
		{
			name: "single word description",
			line: "1 15 6 2024 500.00 Income Salary pay",
			want: core.Transaction{
				ID: 1, Date: core.NewDate(15, 6, 2024),
				Amount: core.Money{Cents: 50000}, Type: core.Income,
				Category: "Salary", Description: "pay",
			},
			ok: true,
		},
		{
			name: "multi word description rejoined",
			line: "2 1 1 2024 12.34 Expense Rent monthly rent for flat",
			want: core.Transaction{
				ID: 2, Date: core.NewDate(1, 1, 2024),
				Amount: core.Money{Cents: 1234}, Type: core.Expense,
				Category: "Rent", Description: "monthly rent for flat",
			},
			ok: true,
		},
		{
			name: "extra whitespace collapsed",
			line: "  3  2 3 2024   7.50 Expense Food   lunch  out ",
			want: core.Transaction{
				ID: 3, Date: core.NewDate(2, 3, 2024),
				Amount: core.Money{Cents: 750}, Type: core.Expense,
				Category: "Food", Description: "lunch out",
			},
			ok: true,
		},
		{name: "too few fields", line: "1 15 6 2024 500.00 Income Salary", ok: false},
		{name: "non numeric id", line: "x 15 6 2024 500.00 Income Salary pay", ok: false},
		{name: "non numeric amount", line: "1 15 6 2024 abc Income Salary pay", ok: false},
		{name: "empty line", line: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeTransaction(tt.line)
			if !tt.ok {
				if err == nil {
					t.Fatalf("expected error for %q", tt.line)
				}
				if !errors.Is(err, ErrMalformed) {
					t.Fatalf("expected ErrMalformed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEncodeTransactionInverse(t *testing.T) {
	tx := core.Transaction{
		ID: 7, Date: core.NewDate(3, 12, 2023),
		Amount: core.Money{Cents: 1999}, Type: core.Expense,
		Category: "Books", Description: "two novels",
	}
	line := EncodeTransaction(tx)
	if line != "7 3 12 2023 19.99 Expense Books two novels" {
		t.Fatalf("unexpected encoding %q", line)
	}
	back, err := DecodeTransaction(line)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back != tx {
		t.Fatalf("round trip diverged: %+v", back)
	}
}

func TestTemplateCodec(t *testing.T) {
	rt := core.RecurringTemplate{
		NextDue: core.NewDate(1, 1, 2024),
		Amount:  core.Money{Cents: 100000}, Type: core.Expense,
		Category: "Rent", Description: "monthly rent",
	}
	line := EncodeTemplate(rt)
	if line != "1 1 2024 1000.00 Expense Rent monthly rent" {
		t.Fatalf("unexpected encoding %q", line)
	}
	back, err := DecodeTemplate(line)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back != rt {
		t.Fatalf("round trip diverged: %+v", back)
	}
	if _, err := DecodeTemplate("1 1 2024 1000.00 Expense Rent"); err == nil {
		t.Fatal("expected error for missing description")
	}
}

func TestUndoEntryCodec(t *testing.T) {
	entries := []core.UndoEntry{
		{Op: core.UndoAdd, TxID: 12},
		{Op: core.UndoDelete, Pos: 2, Tx: core.Transaction{
			ID: 4, Date: core.NewDate(9, 9, 2024),
			Amount: core.Money{Cents: 250}, Type: core.Income,
			Category: "Gift", Description: "birthday money",
		}},
		{Op: core.UndoSort, Order: []int{3, 1, 2}},
	}
	for _, e := range entries {
		line, err := EncodeUndoEntry(e)
		if err != nil {
			t.Fatalf("encode %s: %v", e.Op, err)
		}
		back, err := DecodeUndoEntry(line)
		if err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		if back.Op != e.Op || back.TxID != e.TxID || back.Tx != e.Tx || back.Pos != e.Pos || len(back.Order) != len(e.Order) {
			t.Fatalf("round trip diverged: %+v vs %+v", back, e)
		}
		for i := range e.Order {
			if back.Order[i] != e.Order[i] {
				t.Fatalf("order diverged at %d", i)
			}
		}
	}

	if _, err := DecodeUndoEntry("rotate 1 2 3"); err == nil {
		t.Fatal("expected error for unknown op")
	}
	if _, err := DecodeUndoEntry("add"); err == nil {
		t.Fatal("expected error for missing payload")
	}
}
