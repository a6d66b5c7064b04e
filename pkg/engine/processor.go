package engine

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/quangdm/votebook-dev/pkg/book"
	"github.com/quangdm/votebook-dev/pkg/ingest"
	"github.com/quangdm/votebook-dev/pkg/logging"
	"github.com/quangdm/votebook-dev/pkg/signal"
)

// Processor drives one market update end to end: book mutation, signal
// recomputation, majority vote, decision, dispatch. A failure anywhere
// affects only the update at hand; the book keeps whatever was already
// committed and the feed moves on.
type Processor struct {
	book      *book.Book
	sentiment signal.SentimentSource
	meanRev   *signal.MeanReversion
	engine    *Engine
	gate      *Gate
}

func NewProcessor(b *book.Book, sentiment signal.SentimentSource, meanRev *signal.MeanReversion, eng *Engine, gate *Gate) *Processor {
	return &Processor{
		book:      b,
		sentiment: sentiment,
		meanRev:   meanRev,
		engine:    eng,
		gate:      gate,
	}
}

// OnUpdate implements ingest.Handler.
func (p *Processor) OnUpdate(ctx context.Context, u *ingest.Update) {
	ctx = logging.WithUpdateID(ctx)
	log := logging.For(ctx)

	defer func() {
		if r := recover(); r != nil {
			log.Errorw("panic while processing update, skipping", "order_id", u.OrderID, "panic", r)
		}
	}()

	if !p.applyToBook(u, log) {
		return
	}

	price, havePrice := parsePrice(u.Price)
	if !havePrice {
		// Only cancels get this far without a price; the book mutation is
		// done and there is no sample to feed the signal sources.
		log.Debugw("no price on update, skipping signal cycle", "order_id", u.OrderID)
		return
	}

	p.meanRev.Update(u.Symbol, price.InexactFloat64())
	meanSig := p.meanRev.Signal(u.Symbol, price.InexactFloat64())

	sentSig, err := p.sentiment.Signal(ctx, u.Description, u.NewsCode())
	if err != nil {
		log.Errorw("sentiment source failed, skipping update", "symbol", u.Symbol, "err", err)
		return
	}

	liqSig := signal.Signal(p.book.LiquiditySignal(u.Symbol))

	dir := signal.Vote(sentSig, liqSig, meanSig)
	log.Infow("signals computed",
		"symbol", u.Symbol,
		"sentiment", sentSig,
		"liquidity", liqSig,
		"mean_reversion", meanSig,
		"direction", dir,
	)
	if dir == signal.DirectionNone {
		return
	}

	d := p.engine.Decide(dir, u.Symbol, price)
	if d == nil {
		return
	}
	// Dispatch outcomes are logged and reported by the gate itself.
	_, _ = p.gate.Dispatch(ctx, d)
}

// applyToBook routes the update's action to the book. It reports whether the
// signal cycle should run: malformed records stop here, a not-found cancel
// does not.
func (p *Processor) applyToBook(u *ingest.Update, log *zap.SugaredLogger) bool {
	switch u.Action {
	case ingest.ActionAdd, ingest.ActionAmend:
		ord, err := u.Order()
		if err != nil {
			log.Warnw("rejecting update", "order_id", u.OrderID, "err", err)
			return false
		}
		if u.Action == ingest.ActionAdd {
			err = p.book.Add(ord)
		} else {
			err = p.book.Amend(ord)
		}
		if err != nil {
			log.Warnw("rejecting update", "order_id", u.OrderID, "err", err)
			return false
		}
	case ingest.ActionCancel:
		if err := p.book.Cancel(u.OrderID); errors.Is(err, book.ErrOrderNotFound) {
			log.Warnw("cancel for unknown order", "order_id", u.OrderID)
		}
	default:
		// ParseUpdate screens actions already; a stray value still must not
		// touch the book.
		log.Warnw("rejecting update", "order_id", u.OrderID, "action", u.Action)
		return false
	}
	return true
}

func parsePrice(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
