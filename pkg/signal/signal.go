// Package signal defines the three-valued trading signals and combines them
// by majority vote into a trade direction.
package signal

type Signal int

const (
	SignalSell    Signal = -1
	SignalNeutral Signal = 0
	SignalBuy     Signal = 1
)

type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
	DirectionNone Direction = "NONE"
)

// Vote combines the sentiment, liquidity and mean-reversion signals. Two or
// more buy votes win, else two or more sell votes; anything short of a 2-of-3
// consensus yields DirectionNone. The threshold is fixed.
func Vote(sentiment, liquidity, meanRev Signal) Direction {
	var buyVotes, sellVotes int
	for _, s := range [3]Signal{sentiment, liquidity, meanRev} {
		switch s {
		case SignalBuy:
			buyVotes++
		case SignalSell:
			sellVotes++
		}
	}

	switch {
	case buyVotes >= 2:
		return DirectionBuy
	case sellVotes >= 2:
		return DirectionSell
	default:
		return DirectionNone
	}
}
