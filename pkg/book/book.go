// Package book holds the concurrent order book: an arena of order records
// keyed by identifier plus a per-symbol price-priority index on each side.
// Cancellation is lazy: records flip a flag immediately and stale index
// entries are discarded only when they surface at the top of a lookup.
package book

import (
	"container/heap"
	"sync"
)

type Book struct {
	orders map[string]*Order
	bids   map[string]*priceIndex
	asks   map[string]*priceIndex
	seq    uint64

	// One critical section for the whole book. Mutations from the update
	// path and queries from the decision path must see each other fully
	// applied, even across symbols; sharding can come later if it hurts.
	mu sync.Mutex
}

func New() *Book {
	return &Book{
		orders: make(map[string]*Order),
		bids:   make(map[string]*priceIndex),
		asks:   make(map[string]*priceIndex),
	}
}

// Add admits a new order, assigns it the next insertion sequence number and
// indexes it on its side. An unknown side is rejected with ErrInvalidSide and
// leaves no partial state behind.
func (b *Book) Add(o Order) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.add(o)
}

// Amend cancels the existing order with the same identifier, if any, and
// admits the replacement as a brand-new order. The replacement gets a fresh
// sequence number, so an amended order loses its time priority.
func (b *Book) Amend(o Order) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cur, ok := b.orders[o.ID]; ok && !cur.cancelled {
		cur.cancelled = true
	}
	return b.add(o)
}

// Cancel marks the order cancelled. The record stays in the arena and its
// index entry stays put until a best-price lookup walks past it.
func (b *Book) Cancel(orderID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.orders[orderID]
	if !ok || o.cancelled {
		return ErrOrderNotFound
	}
	o.cancelled = true
	return nil
}

func (b *Book) add(o Order) error {
	if o.Side != Buy && o.Side != Sell {
		return ErrInvalidSide
	}

	b.seq++
	o.seq = b.seq
	rec := &o
	b.orders[o.ID] = rec

	sides := b.asks
	key := o.Price.InexactFloat64()
	if o.Side == Buy {
		sides = b.bids
		key = -key
	}
	ix, ok := sides[o.Symbol]
	if !ok {
		ix = &priceIndex{}
		sides[o.Symbol] = ix
	}
	heap.Push(ix, entry{key: key, seq: rec.seq, ord: rec})
	return nil
}

// BestBid returns the highest-priced live buy order for the symbol across all
// exchanges. Price ties resolve to the earliest admitted order.
func (b *Book) BestBid(symbol string) (Quote, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.best(b.bids[symbol])
}

// BestAsk returns the lowest-priced live sell order for the symbol across all
// exchanges.
func (b *Book) BestAsk(symbol string) (Quote, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.best(b.asks[symbol])
}

func (b *Book) best(ix *priceIndex) (Quote, bool) {
	if ix == nil {
		return Quote{}, false
	}
	for {
		top, ok := ix.peek()
		if !ok {
			return Quote{}, false
		}
		if top.ord.cancelled {
			heap.Pop(ix)
			continue
		}
		return Quote{
			OrderID:  top.ord.ID,
			Price:    top.ord.Price,
			Quantity: top.ord.Quantity,
			Exchange: top.ord.Exchange,
		}, true
	}
}

// LiquiditySignal compares total live buy quantity against total live sell
// quantity for the symbol: +1 when buys dominate, -1 when sells dominate,
// 0 otherwise (including an empty book).
func (b *Book) LiquiditySignal(symbol string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	var buyVol, sellVol float64
	for _, o := range b.orders {
		if o.Symbol != symbol || o.cancelled {
			continue
		}
		qty := o.Quantity.InexactFloat64()
		if o.Side == Buy {
			buyVol += qty
		} else {
			sellVol += qty
		}
	}

	switch {
	case buyVol > sellVol:
		return 1
	case sellVol > buyVol:
		return -1
	default:
		return 0
	}
}
