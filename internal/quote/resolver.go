package quote

import (
	"context"
	"log/slog"
	"strings"

	"github.com/quantsim/papertrader/internal/domain"
)

// Resolver turns symbols into current quotes. It normalizes symbol
// casing, routes the reserved synthetic ticker to the local generator,
// and maps every provider fault to an unavailable quote so callers
// never see a raw provider error.
type Resolver struct {
	provider PriceProvider
	synth    *Synthetic
	logger   *slog.Logger
}

// NewResolver creates a Resolver with the given dependencies.
func NewResolver(provider PriceProvider, synth *Synthetic, logger *slog.Logger) *Resolver {
	return &Resolver{
		provider: provider,
		synth:    synth,
		logger:   logger,
	}
}

// Normalize returns the canonical uppercase form of a symbol.
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Resolve returns the current quote for a symbol. The synthetic
// ticker always resolves to a fresh draw. Any provider fault or
// absent data resolves to a zero-price, not-found quote.
func (r *Resolver) Resolve(ctx context.Context, symbol string) domain.Quote {
	symbol = Normalize(symbol)

	if symbol == SyntheticTicker {
		return domain.Quote{Symbol: symbol, PriceCents: r.synth.Price(), Found: true}
	}

	price, err := r.provider.LatestClose(ctx, symbol)
	if err != nil {
		r.logger.Warn("price lookup failed",
			slog.String("symbol", symbol),
			slog.String("error", err.Error()),
		)
		return domain.Quote{Symbol: symbol}
	}
	return domain.Quote{Symbol: symbol, PriceCents: price, Found: true}
}

// Series returns daily closes for charting, in chronological order.
// The synthetic ticker has no meaningful history (each quote is an
// independent draw), so it yields an empty series; provider faults
// also degrade to empty.
func (r *Resolver) Series(ctx context.Context, symbol string) []ClosePrice {
	symbol = Normalize(symbol)

	if symbol == SyntheticTicker {
		return nil
	}

	closes, err := r.provider.DailyCloses(ctx, symbol)
	if err != nil {
		r.logger.Warn("history lookup failed",
			slog.String("symbol", symbol),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return closes
}
