package book

import "github.com/shopspring/decimal"

type Side string

const (
	Buy  Side = "B"
	Sell Side = "S"
)

// Order is a resting order admitted to the book. The book owns the record
// once Add returns; callers must not hold on to it. seq and cancelled are
// managed by the book only.
type Order struct {
	ID       string
	Symbol   string
	Side     Side
	Price    decimal.Decimal
	Quantity decimal.Decimal
	Exchange string

	seq       uint64
	cancelled bool
}

// Quote is a point-in-time view of the best resting order on one side.
type Quote struct {
	OrderID  string
	Price    decimal.Decimal
	Quantity decimal.Decimal
	Exchange string
}
