package core

// NextID returns one plus the highest ID visible to the engine: the ledger
// rows plus any IDs still referenced by the pending undo entry. Counting the
// undo payload keeps a freshly deleted maximum from being reissued by the
// next add. Returns 1 for an empty ledger. IDs are never reallocated
// downward even when the maximum row has been deleted.
func NextID(txs []Transaction, pending *UndoEntry) int {
	maxID := 0
	for _, t := range txs {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	if pending != nil {
		for _, id := range pending.ReferencedIDs() {
			if id > maxID {
				maxID = id
			}
		}
	}
	return maxID + 1
}
