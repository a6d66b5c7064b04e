package book

// entry is one priced-index slot. It references the order record directly so
// a cancelled order can be recognized and discarded when it surfaces at the
// top; the book never walks the index to remove entries eagerly.
type entry struct {
	key float64 // price for asks, negated price for bids
	seq uint64
	ord *Order
}

// priceIndex implements heap.Interface as a min-heap over (key, seq), so one
// ordering serves both sides: bids negate the price to get a highest-first
// view, and equal prices fall back to insertion order.
type priceIndex struct {
	entries []entry
}

func (ix priceIndex) Len() int { return len(ix.entries) }

func (ix priceIndex) Less(i, j int) bool {
	if ix.entries[i].key != ix.entries[j].key {
		return ix.entries[i].key < ix.entries[j].key
	}
	return ix.entries[i].seq < ix.entries[j].seq
}

func (ix priceIndex) Swap(i, j int) {
	ix.entries[i], ix.entries[j] = ix.entries[j], ix.entries[i]
}

func (ix *priceIndex) Push(x any) {
	ix.entries = append(ix.entries, x.(entry))
}

func (ix *priceIndex) Pop() any {
	n := len(ix.entries)
	e := ix.entries[n-1]
	ix.entries = ix.entries[:n-1]
	return e
}

func (ix *priceIndex) peek() (entry, bool) {
	if len(ix.entries) == 0 {
		return entry{}, false
	}
	return ix.entries[0], true
}
