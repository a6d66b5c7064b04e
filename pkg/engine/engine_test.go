package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/quangdm/votebook-dev/pkg/book"
	"github.com/quangdm/votebook-dev/pkg/signal"
)

func testBook(t *testing.T) *book.Book {
	t.Helper()
	b := book.New()
	orders := []book.Order{
		{ID: "B1", Symbol: "AAPL", Side: book.Buy, Price: decimal.RequireFromString("100.00"), Quantity: decimal.NewFromInt(50), Exchange: "NYSE"},
		{ID: "S1", Symbol: "AAPL", Side: book.Sell, Price: decimal.RequireFromString("101.00"), Quantity: decimal.NewFromInt(30), Exchange: "NASDAQ"},
	}
	for _, o := range orders {
		if err := b.Add(o); err != nil {
			t.Fatalf("add %s: %v", o.ID, err)
		}
	}
	return b
}

func TestDecideBuyTakesBestAsk(t *testing.T) {
	e := NewEngine(testBook(t), zap.NewNop().Sugar())

	d := e.Decide(signal.DirectionBuy, "AAPL", decimal.RequireFromString("100.50"))
	if d == nil {
		t.Fatal("expected a decision")
	}
	want := Decision{Symbol: "AAPL", Exchange: "NASDAQ", Quantity: "30", Side: "B", Price: "101.00", Type: "MARKET"}
	if *d != want {
		t.Errorf("got %+v, want %+v", *d, want)
	}
}

func TestDecideSellTakesBestBid(t *testing.T) {
	e := NewEngine(testBook(t), zap.NewNop().Sugar())

	d := e.Decide(signal.DirectionSell, "AAPL", decimal.RequireFromString("100.50"))
	if d == nil {
		t.Fatal("expected a decision")
	}
	want := Decision{Symbol: "AAPL", Exchange: "NYSE", Quantity: "50", Side: "S", Price: "100.00", Type: "MARKET"}
	if *d != want {
		t.Errorf("got %+v, want %+v", *d, want)
	}
}

func TestDecideNoLiquidityEmitsNothing(t *testing.T) {
	b := book.New()
	e := NewEngine(b, zap.NewNop().Sugar())

	if d := e.Decide(signal.DirectionSell, "AAPL", decimal.RequireFromString("99.00")); d != nil {
		t.Errorf("empty book: expected no decision, got %+v", d)
	}

	// The fallback price must never leak into an emitted order.
	if d := e.Decide(signal.DirectionBuy, "AAPL", decimal.RequireFromString("99.00")); d != nil {
		t.Errorf("no ask side: expected no decision, got %+v", d)
	}
}

func TestDecideNoneDirection(t *testing.T) {
	e := NewEngine(testBook(t), zap.NewNop().Sugar())
	if d := e.Decide(signal.DirectionNone, "AAPL", decimal.Zero); d != nil {
		t.Errorf("expected no decision for DirectionNone, got %+v", d)
	}
}

func TestDecidePriceAlwaysTwoDecimals(t *testing.T) {
	b := book.New()
	_ = b.Add(book.Order{ID: "S1", Symbol: "AAPL", Side: book.Sell, Price: decimal.RequireFromString("101.5"), Quantity: decimal.NewFromInt(5), Exchange: "NYSE"})
	e := NewEngine(b, zap.NewNop().Sugar())

	d := e.Decide(signal.DirectionBuy, "AAPL", decimal.Zero)
	if d == nil || d.Price != "101.50" {
		t.Errorf("expected price \"101.50\", got %+v", d)
	}
}

// blockingGateway holds every Submit until released, so tests can pin a
// dispatch in flight.
type blockingGateway struct {
	entered chan struct{}
	release chan struct{}

	mu        sync.Mutex
	submitted []*Decision
}

func newBlockingGateway() *blockingGateway {
	return &blockingGateway{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (g *blockingGateway) Start(context.Context) error { return nil }

func (g *blockingGateway) Submit(_ context.Context, d *Decision) error {
	g.mu.Lock()
	g.submitted = append(g.submitted, d)
	g.mu.Unlock()
	g.entered <- struct{}{}
	<-g.release
	return nil
}

func (g *blockingGateway) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.submitted)
}

func TestGateSingleFlight(t *testing.T) {
	gw := newBlockingGateway()
	gate := NewGate(gw, nil, zap.NewNop().Sugar())
	ctx := context.Background()

	first := &Decision{Symbol: "AAPL", Side: "B", Price: "101.00", Quantity: "30", Type: "MARKET"}
	second := &Decision{Symbol: "AAPL", Side: "S", Price: "100.00", Quantity: "50", Type: "MARKET"}

	done := make(chan struct{})
	go func() {
		defer close(done)
		admitted, err := gate.Dispatch(ctx, first)
		if !admitted || err != nil {
			t.Errorf("first dispatch: admitted=%v err=%v", admitted, err)
		}
	}()

	<-gw.entered // first dispatch is now in flight

	// The second decision must be turned away immediately, not queued.
	admitted, err := gate.Dispatch(ctx, second)
	if admitted || err != nil {
		t.Errorf("second dispatch: admitted=%v err=%v, want dropped", admitted, err)
	}

	close(gw.release)
	<-done

	if got := gw.count(); got != 1 {
		t.Errorf("exactly one decision should reach the sink, got %d", got)
	}

	// Once the first completes the gate is open again.
	admitted, err = gate.Dispatch(ctx, second)
	if !admitted || err != nil {
		t.Errorf("post-release dispatch: admitted=%v err=%v", admitted, err)
	}
}

type recordingReporter struct {
	mu      sync.Mutex
	statuses []DecisionStatus
}

func (r *recordingReporter) OnDecision(_ context.Context, _ *Decision, status DecisionStatus, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

func TestGateReportsOutcomes(t *testing.T) {
	gw := newBlockingGateway()
	close(gw.release) // let submits pass straight through
	rep := &recordingReporter{}
	gate := NewGate(gw, rep, zap.NewNop().Sugar())

	d := &Decision{Symbol: "AAPL", Side: "B", Price: "101.00", Quantity: "30", Type: "MARKET"}
	if _, err := gate.Dispatch(context.Background(), d); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	rep.mu.Lock()
	defer rep.mu.Unlock()
	if len(rep.statuses) != 1 || rep.statuses[0] != DecisionSubmitted {
		t.Errorf("expected [Submitted], got %v", rep.statuses)
	}
}
