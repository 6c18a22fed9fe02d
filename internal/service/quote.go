package service

import (
	"context"

	"github.com/quantsim/papertrader/internal/domain"
	"github.com/quantsim/papertrader/internal/quote"
	"github.com/quantsim/papertrader/internal/render"
)

// QuoteService handles quote resolution and price-history charts.
type QuoteService struct {
	resolver *quote.Resolver
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(resolver *quote.Resolver) *QuoteService {
	return &QuoteService{resolver: resolver}
}

// GetQuote resolves the current price for a symbol. An unavailable
// price is reported as a zero-price quote, not an error.
func (s *QuoteService) GetQuote(ctx context.Context, symbol string) domain.Quote {
	return s.resolver.Resolve(ctx, symbol)
}

// HistoryChartPNG renders the close-price chart for a symbol.
// It returns nil bytes when the symbol has no usable history: the
// synthetic ticker, unknown symbols, and provider faults all degrade
// to an empty artifact.
func (s *QuoteService) HistoryChartPNG(ctx context.Context, symbol string) ([]byte, error) {
	closes := s.resolver.Series(ctx, symbol)
	return render.PriceHistoryPNG(quote.Normalize(symbol), closes)
}
