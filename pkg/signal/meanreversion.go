package signal

import (
	"sync"

	"github.com/gammazero/deque"
	"github.com/montanaflynn/stats"
)

const minSamples = 5

// MeanReversion tracks a rolling price window per symbol and signals when the
// latest price breaks out of the two-sigma band around the window mean.
type MeanReversion struct {
	window  int
	history map[string]*deque.Deque[float64]
	mu      sync.Mutex
}

func NewMeanReversion(window int) *MeanReversion {
	if window <= 0 {
		window = 10
	}
	return &MeanReversion{
		window:  window,
		history: make(map[string]*deque.Deque[float64]),
	}
}

// Update appends a price sample to the symbol's window, evicting the oldest
// sample once the window is full.
func (m *MeanReversion) Update(symbol string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.history[symbol]
	if !ok {
		q = &deque.Deque[float64]{}
		m.history[symbol] = q
	}
	q.PushBack(price)
	for q.Len() > m.window {
		q.PopFront()
	}
}

// Signal returns SignalBuy when price sits below the lower band, SignalSell
// above the upper band, and SignalNeutral inside the bands or while fewer
// than five samples have been observed for the symbol.
func (m *MeanReversion) Signal(symbol string, price float64) Signal {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.history[symbol]
	if !ok || q.Len() < minSamples {
		return SignalNeutral
	}

	samples := make([]float64, 0, q.Len())
	for i := 0; i < q.Len(); i++ {
		samples = append(samples, q.At(i))
	}

	mean, err := stats.Mean(samples)
	if err != nil {
		return SignalNeutral
	}
	sd, err := stats.StandardDeviation(samples)
	if err != nil {
		return SignalNeutral
	}

	lower := mean - 2*sd
	upper := mean + 2*sd
	switch {
	case price < lower:
		return SignalBuy
	case price > upper:
		return SignalSell
	default:
		return SignalNeutral
	}
}
