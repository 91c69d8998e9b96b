package core

const (
	UndoAdd    UndoOp = "add"
	UndoDelete UndoOp = "delete"
	UndoSort   UndoOp = "sort"
)

type (
	// UndoOp tags which mutating command the pending entry can invert.
	UndoOp string

	// UndoEntry is the single pending inverse-operation record, selected by
	// Op: the added ID for UndoAdd; the full removed row plus its list
	// position for UndoDelete, so re-insertion restores the exact prior
	// content; the pre-sort ID order for UndoSort.
	UndoEntry struct {
		Op    UndoOp
		TxID  int
		Tx    Transaction
		Pos   int
		Order []int
	}
)

func (op UndoOp) Valid() bool {
	switch op {
	case UndoAdd, UndoDelete, UndoSort:
		return true
	default:
		return false
	}
}

// ReferencedIDs lists every transaction ID the entry's payload mentions.
// Used by ID allocation so pending inverses keep their IDs reserved.
func (e *UndoEntry) ReferencedIDs() []int {
	switch e.Op {
	case UndoAdd:
		return []int{e.TxID}
	case UndoDelete:
		return []int{e.Tx.ID}
	case UndoSort:
		return e.Order
	default:
		return nil
	}
}
