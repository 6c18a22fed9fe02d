package service

import (
	"context"

	"github.com/quantsim/papertrader/internal/domain"
	"github.com/quantsim/papertrader/internal/quote"
)

// TradeRequest is a buy or sell order against a submitted ledger.
// The execution price is always the currently resolved quote, never a
// client-supplied price.
type TradeRequest struct {
	Portfolio PortfolioRequest
	Symbol    string
	Quantity  int64
}

// TradeResult is the outcome of an accepted trade: the mutated ledger
// and the price the order filled at.
type TradeResult struct {
	Ledger     *domain.Ledger
	Symbol     string
	Quantity   int64
	PriceCents int64
}

// TradeService executes buys and sells against client-held ledgers at
// the currently quoted price.
type TradeService struct {
	resolver *quote.Resolver
}

// NewTradeService creates a new TradeService.
func NewTradeService(resolver *quote.Resolver) *TradeService {
	return &TradeService{resolver: resolver}
}

// Buy resolves the symbol's current quote and purchases the requested
// quantity. An unavailable quote refuses the trade with
// ErrQuoteUnavailable before any ledger mutation.
func (s *TradeService) Buy(ctx context.Context, req TradeRequest) (*TradeResult, error) {
	if quote.Normalize(req.Symbol) == "" {
		return nil, &domain.ValidationError{Message: "symbol is required"}
	}

	l, _, err := parsePortfolio(req.Portfolio)
	if err != nil {
		return nil, err
	}

	q := s.resolver.Resolve(ctx, req.Symbol)
	if !q.Available() {
		return nil, domain.ErrQuoteUnavailable
	}

	if err := l.Buy(q.Symbol, req.Quantity, q.PriceCents); err != nil {
		return nil, err
	}

	return &TradeResult{
		Ledger:     l,
		Symbol:     q.Symbol,
		Quantity:   req.Quantity,
		PriceCents: q.PriceCents,
	}, nil
}

// Sell resolves the symbol's current quote and disposes of the
// requested quantity. An unavailable quote refuses the trade with
// ErrQuoteUnavailable before any ledger mutation.
func (s *TradeService) Sell(ctx context.Context, req TradeRequest) (*TradeResult, error) {
	if quote.Normalize(req.Symbol) == "" {
		return nil, &domain.ValidationError{Message: "symbol is required"}
	}

	l, _, err := parsePortfolio(req.Portfolio)
	if err != nil {
		return nil, err
	}

	q := s.resolver.Resolve(ctx, req.Symbol)
	if !q.Available() {
		return nil, domain.ErrQuoteUnavailable
	}

	if err := l.Sell(q.Symbol, req.Quantity, q.PriceCents); err != nil {
		return nil, err
	}

	return &TradeResult{
		Ledger:     l,
		Symbol:     q.Symbol,
		Quantity:   req.Quantity,
		PriceCents: q.PriceCents,
	}, nil
}
