package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/quangdm/votebook-dev/pkg/book"
	"github.com/quangdm/votebook-dev/pkg/ingest"
	"github.com/quangdm/votebook-dev/pkg/signal"
)

// fixedSentiment always votes the same way, standing in for the external
// scoring service.
type fixedSentiment struct {
	sig signal.Signal
	err error
}

func (f fixedSentiment) Signal(context.Context, string, int) (signal.Signal, error) {
	return f.sig, f.err
}

type captureGateway struct {
	mu        sync.Mutex
	decisions []*Decision
}

func (g *captureGateway) Start(context.Context) error { return nil }

func (g *captureGateway) Submit(_ context.Context, d *Decision) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.decisions = append(g.decisions, d)
	return nil
}

func (g *captureGateway) all() []*Decision {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*Decision(nil), g.decisions...)
}

func newTestProcessor(sentiment signal.SentimentSource, gw ExecutionGateway) (*Processor, *book.Book) {
	b := book.New()
	log := zap.NewNop().Sugar()
	eng := NewEngine(b, log)
	gate := NewGate(gw, nil, log)
	return NewProcessor(b, sentiment, NewMeanReversionForTest(), eng, gate), b
}

// NewMeanReversionForTest returns an estimator that has seen nothing; with
// fewer than five samples per symbol it always votes neutral.
func NewMeanReversionForTest() *signal.MeanReversion {
	return signal.NewMeanReversion(10)
}

func TestProcessorEndToEndBuy(t *testing.T) {
	gw := &captureGateway{}
	p, _ := newTestProcessor(fixedSentiment{sig: signal.SignalBuy}, gw)
	ctx := context.Background()

	// A resting bid of 50 against an ask of 30: liquidity says buy. The ask
	// arrives second so the decision fires on a book holding both sides.
	p.OnUpdate(ctx, &ingest.Update{
		OrderID: "B1", Symbol: "AAPL", Side: "B", Action: "A",
		Price: "100.00", Quantity: "50", Exchange: "NYSE",
	})
	p.OnUpdate(ctx, &ingest.Update{
		OrderID: "S1", Symbol: "AAPL", Side: "S", Action: "A",
		Price: "101.00", Quantity: "30", Exchange: "NASDAQ",
	})

	got := gw.all()
	if len(got) == 0 {
		t.Fatal("expected at least one dispatched decision")
	}
	last := got[len(got)-1]
	want := Decision{Symbol: "AAPL", Exchange: "NASDAQ", Quantity: "30", Side: "B", Price: "101.00", Type: "MARKET"}
	if *last != want {
		t.Errorf("got %+v, want %+v", *last, want)
	}
}

func TestProcessorNoLiquidityNoDispatch(t *testing.T) {
	gw := &captureGateway{}
	p, _ := newTestProcessor(fixedSentiment{sig: signal.SignalSell}, gw)

	// Sell consensus (sentiment -1, liquidity -1 from the lone ask) but no
	// resting bid to hit: nothing may reach the sink.
	p.OnUpdate(context.Background(), &ingest.Update{
		OrderID: "S1", Symbol: "AAPL", Side: "S", Action: "A",
		Price: "101.00", Quantity: "30", Exchange: "NYSE",
	})

	if got := gw.all(); len(got) != 0 {
		t.Errorf("expected no dispatch, got %v", got)
	}
}

func TestProcessorSentimentFailureSkipsUpdate(t *testing.T) {
	gw := &captureGateway{}
	p, b := newTestProcessor(fixedSentiment{err: errors.New("scoring service down")}, gw)

	p.OnUpdate(context.Background(), &ingest.Update{
		OrderID: "B1", Symbol: "AAPL", Side: "B", Action: "A",
		Price: "100.00", Quantity: "50", Exchange: "NYSE",
	})

	// The book mutation already committed; only the decision leg is skipped.
	if _, ok := b.BestBid("AAPL"); !ok {
		t.Error("book mutation should survive a collaborator failure")
	}
	if got := gw.all(); len(got) != 0 {
		t.Errorf("expected no dispatch, got %v", got)
	}
}

func TestProcessorInvalidSideRejectsRecord(t *testing.T) {
	gw := &captureGateway{}
	p, b := newTestProcessor(fixedSentiment{sig: signal.SignalBuy}, gw)

	p.OnUpdate(context.Background(), &ingest.Update{
		OrderID: "X1", Symbol: "AAPL", Side: "Q", Action: "A",
		Price: "100.00", Quantity: "50",
	})

	if _, ok := b.BestBid("AAPL"); ok {
		t.Error("rejected record must leave no book state")
	}
	if got := gw.all(); len(got) != 0 {
		t.Errorf("expected no dispatch, got %v", got)
	}
}

func TestProcessorCancelFlow(t *testing.T) {
	gw := &captureGateway{}
	p, b := newTestProcessor(fixedSentiment{sig: signal.SignalNeutral}, gw)
	ctx := context.Background()

	p.OnUpdate(ctx, &ingest.Update{
		OrderID: "B1", Symbol: "AAPL", Side: "B", Action: "A",
		Price: "100.00", Quantity: "50", Exchange: "NYSE",
	})
	// Cancel without a price: legal, mutates the book, no signal cycle.
	p.OnUpdate(ctx, &ingest.Update{OrderID: "B1", Symbol: "AAPL", Action: "C"})

	if _, ok := b.BestBid("AAPL"); ok {
		t.Error("cancelled order still surfacing as best bid")
	}

	// Cancel of an unknown id is a logged no-op, never a crash.
	p.OnUpdate(ctx, &ingest.Update{OrderID: "ghost", Symbol: "AAPL", Action: "C"})
}
