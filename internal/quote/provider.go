package quote

import (
	"context"
	"time"
)

// ClosePrice is one daily close in a historical price series.
type ClosePrice struct {
	Date       time.Time
	PriceCents int64
}

// PriceProvider supplies market-derived prices for real symbols.
// Implementations must honor the context deadline. Faults are
// reported as errors; the Resolver normalizes them so callers never
// see a raw provider error.
type PriceProvider interface {
	// LatestClose returns the most recent daily close, in cents.
	LatestClose(ctx context.Context, symbol string) (int64, error)

	// DailyCloses returns the configured range of daily closes in
	// chronological order.
	DailyCloses(ctx context.Context, symbol string) ([]ClosePrice, error)
}
