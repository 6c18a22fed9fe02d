package domain

import (
	"math"
	"sync"
)

// Magnitude bounds on positions. With prices capped at MaxPriceCents,
// quantities capped at MaxQuantity, and at most MaxHoldings symbols
// per ledger, no trade or valuation arithmetic can overflow int64.
const (
	MaxQuantity int64 = 1_000_000
	MaxHoldings       = 1_000
)

// Holding represents a position in a single stock symbol. Quantity is
// always positive: a holding that reaches zero shares is deleted from
// the ledger, never retained.
type Holding struct {
	Quantity       int64
	AvgCostCents   int64 // quantity-weighted mean of all buy fills
	LastPriceCents int64 // most recent observed price, 0 when never observed
}

// Ledger is one session's portfolio: a cash balance plus holdings
// keyed by uppercase symbol. Cash moves by exactly price*quantity on
// every accepted trade and never goes negative.
type Ledger struct {
	mu        sync.Mutex // serializes check-then-mutate per ledger
	CashCents int64
	Holdings  map[string]*Holding
}

// NewLedger creates a ledger with the given starting cash and no
// holdings.
func NewLedger(cashCents int64) *Ledger {
	return &Ledger{
		CashCents: cashCents,
		Holdings:  make(map[string]*Holding),
	}
}

// Buy purchases quantity shares of symbol at priceCents each.
// It returns ErrInvalidQuantity for a quantity outside (0, MaxQuantity],
// ErrValueOutOfRange for a price outside (0, MaxPriceCents] or a
// position that would grow past MaxQuantity, and ErrInsufficientFunds
// when the total cost exceeds cash; in every case the ledger is left
// unmodified. On success cash decreases by exactly priceCents*quantity
// and the holding's average cost becomes the quantity-weighted mean of
// all fills.
func (l *Ledger) Buy(symbol string, quantity, priceCents int64) error {
	if quantity <= 0 || quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	if priceCents <= 0 || priceCents > MaxPriceCents {
		return ErrValueOutOfRange
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	total := priceCents * quantity
	if total > l.CashCents {
		return ErrInsufficientFunds
	}

	h, ok := l.Holdings[symbol]
	if ok && h.Quantity > MaxQuantity-quantity {
		return ErrValueOutOfRange
	}

	l.CashCents -= total

	if !ok {
		l.Holdings[symbol] = &Holding{
			Quantity:       quantity,
			AvgCostCents:   priceCents,
			LastPriceCents: priceCents,
		}
		return nil
	}

	h.AvgCostCents = weightedAverage(h.Quantity, h.AvgCostCents, quantity, priceCents)
	h.Quantity += quantity
	h.LastPriceCents = priceCents
	return nil
}

// Sell disposes of quantity shares of symbol at priceCents each.
// It returns ErrInvalidQuantity for a quantity outside (0, MaxQuantity],
// ErrValueOutOfRange for a price outside (0, MaxPriceCents] or
// proceeds that cash cannot absorb, and ErrInsufficientShares when
// the symbol is not held or held in a smaller quantity; in every case
// the ledger is left unmodified. The average cost never changes on a
// sell. A sell that exhausts the holding removes the symbol from the
// ledger entirely.
func (l *Ledger) Sell(symbol string, quantity, priceCents int64) error {
	if quantity <= 0 || quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	if priceCents <= 0 || priceCents > MaxPriceCents {
		return ErrValueOutOfRange
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	h, ok := l.Holdings[symbol]
	if !ok || h.Quantity < quantity {
		return ErrInsufficientShares
	}

	proceeds := priceCents * quantity
	if l.CashCents > math.MaxInt64-proceeds {
		return ErrValueOutOfRange
	}

	l.CashCents += proceeds
	h.Quantity -= quantity
	h.LastPriceCents = priceCents

	if h.Quantity == 0 {
		delete(l.Holdings, symbol)
	}
	return nil
}

// weightedAverage returns the quantity-weighted mean of an existing
// position and a new fill, rounded to the nearest cent. All inputs
// are positive.
func weightedAverage(oldQty, oldAvg, qty, price int64) int64 {
	num := oldQty*oldAvg + qty*price
	den := oldQty + qty
	return (num + den/2) / den
}
