// Package engine turns a signal consensus into at most one order intent and
// pushes it through a single-flight dispatch gate.
package engine

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/quangdm/votebook-dev/pkg/book"
	"github.com/quangdm/votebook-dev/pkg/signal"
)

const orderTypeMarket = "MARKET"

type Engine struct {
	book *book.Book
	log  *zap.SugaredLogger
}

func NewEngine(b *book.Book, log *zap.SugaredLogger) *Engine {
	return &Engine{book: b, log: log}
}

// Decide builds the order intent for a voted direction. A buy takes the full
// quantity resting at the best ask, a sell the full quantity at the best bid.
// When the required side is empty there is nothing to trade and Decide
// returns nil; fallbackPrice is used for that log line only, never for the
// emitted order.
func (e *Engine) Decide(dir signal.Direction, symbol string, fallbackPrice decimal.Decimal) *Decision {
	var q book.Quote
	var ok bool
	var side string

	switch dir {
	case signal.DirectionBuy:
		q, ok = e.book.BestAsk(symbol)
		side = string(book.Buy)
	case signal.DirectionSell:
		q, ok = e.book.BestBid(symbol)
		side = string(book.Sell)
	default:
		return nil
	}

	if !ok {
		e.log.Infow("no liquidity for decision",
			"symbol", symbol,
			"direction", dir,
			"last_price", fallbackPrice.StringFixed(2),
		)
		return nil
	}

	return &Decision{
		Symbol:   symbol,
		Exchange: q.Exchange,
		Quantity: q.Quantity.String(),
		Side:     side,
		Price:    q.Price.StringFixed(2),
		Type:     orderTypeMarket,
	}
}
