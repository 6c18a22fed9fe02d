package domain

import "time"

// HistorySample is one point of a portfolio performance history:
// the total portfolio value observed at a moment in time. Samples are
// created once and never mutated afterwards.
type HistorySample struct {
	At              time.Time
	TotalValueCents int64
}
