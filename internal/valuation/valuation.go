// Package valuation converts a ledger plus current prices into a
// single monetary total and records it in a performance history.
package valuation

import (
	"time"

	"github.com/quantsim/papertrader/internal/domain"
	"github.com/quantsim/papertrader/internal/history"
)

// PriceLookup returns the current price in cents for a symbol and
// whether a price was available.
type PriceLookup func(symbol string) (int64, bool)

// TotalValue computes cash plus the market value of every holding,
// in cents. A holding whose price is unavailable is valued at its
// average cost rather than zero, so a transient lookup failure cannot
// collapse the valuation to cash only. TotalValue never fails.
func TotalValue(l *domain.Ledger, lookup PriceLookup) int64 {
	total := l.CashCents
	for symbol, h := range l.Holdings {
		price, ok := lookup(symbol)
		if !ok {
			price = h.AvgCostCents
		}
		total += price * h.Quantity
	}
	return total
}

// Sample computes the ledger's current total value, appends it to the
// given history, and returns the recorded sample. Exactly one sample
// is appended per call; the history is never re-sorted or
// de-duplicated.
func Sample(l *domain.Ledger, lookup PriceLookup, now time.Time, h *history.History) domain.HistorySample {
	return h.Append(now, TotalValue(l, lookup))
}
