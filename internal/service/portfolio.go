package service

import (
	"fmt"
	"time"

	"github.com/quantsim/papertrader/internal/domain"
	"github.com/quantsim/papertrader/internal/history"
	"github.com/quantsim/papertrader/internal/quote"
	"github.com/quantsim/papertrader/internal/render"
	"github.com/quantsim/papertrader/internal/valuation"
)

// PortfolioRequest is the client-held ledger submitted with a
// valuation or trade call. The server never stores it: the ledger
// travels as a value with every request and only the performance
// history persists server-side.
type PortfolioRequest struct {
	Cash   float64
	Stocks map[string]StockPosition
}

// StockPosition is one holding as submitted by the client.
// CurrentPrice is the client's last observed price and feeds the
// valuation's price lookup; when absent the holding is valued at its
// average cost.
type StockPosition struct {
	Quantity     int64
	AvgPrice     float64
	CurrentPrice *float64
}

// ValuationResult is the outcome of one valuation call: the sample
// just recorded and the performance chart rendered from the session's
// full history.
type ValuationResult struct {
	Sample   domain.HistorySample
	ChartPNG []byte
}

// PortfolioService values submitted ledgers and maintains per-session
// performance histories.
type PortfolioService struct {
	sessions *history.Store
	now      func() time.Time
}

// NewPortfolioService creates a PortfolioService backed by the given
// session store.
func NewPortfolioService(sessions *history.Store) *PortfolioService {
	return &PortfolioService{
		sessions: sessions,
		now:      time.Now,
	}
}

// Valuation values the submitted ledger, appends exactly one sample
// to the session's history, and renders the performance chart from a
// snapshot of that history. The ledger is used only for this call;
// nothing about it is retained between requests.
func (s *PortfolioService) Valuation(req PortfolioRequest, sessionID string) (*ValuationResult, error) {
	l, lookup, err := parsePortfolio(req)
	if err != nil {
		return nil, err
	}

	hist := s.sessions.GetOrCreate(sessionID)
	sample := valuation.Sample(l, lookup, s.now(), hist)

	png, err := render.PerformancePNG(hist.Snapshot())
	if err != nil {
		return nil, err
	}

	return &ValuationResult{Sample: sample, ChartPNG: png}, nil
}

// parsePortfolio strictly converts a submitted portfolio into a
// domain ledger plus a price lookup built from the client's observed
// prices. Malformed shapes are rejected with a ValidationError;
// nothing is defaulted silently.
func parsePortfolio(req PortfolioRequest) (*domain.Ledger, valuation.PriceLookup, error) {
	if req.Cash < 0 {
		return nil, nil, &domain.ValidationError{Message: "cash must be non-negative"}
	}
	cashCents, err := domain.DollarsToCents(req.Cash)
	if err != nil {
		return nil, nil, &domain.ValidationError{Message: "cash " + err.Error()}
	}

	l := domain.NewLedger(cashCents)
	prices := make(map[string]int64, len(req.Stocks))

	if len(req.Stocks) > domain.MaxHoldings {
		return nil, nil, &domain.ValidationError{
			Message: fmt.Sprintf("at most %d stock symbols are supported", domain.MaxHoldings),
		}
	}

	for rawSymbol, pos := range req.Stocks {
		symbol := quote.Normalize(rawSymbol)
		if symbol == "" {
			return nil, nil, &domain.ValidationError{Message: "stock symbols must be non-empty"}
		}
		if _, dup := l.Holdings[symbol]; dup {
			return nil, nil, &domain.ValidationError{Message: "duplicate stock symbol: " + symbol}
		}
		if pos.Quantity <= 0 {
			return nil, nil, &domain.ValidationError{Message: symbol + ": quantity must be a positive integer"}
		}
		if pos.Quantity > domain.MaxQuantity {
			return nil, nil, &domain.ValidationError{Message: symbol + ": quantity exceeds the supported maximum"}
		}
		if pos.AvgPrice <= 0 {
			return nil, nil, &domain.ValidationError{Message: symbol + ": avg_price must be positive"}
		}
		avgCents, err := domain.DollarsToCents(pos.AvgPrice)
		if err != nil {
			return nil, nil, &domain.ValidationError{Message: symbol + ": avg_price " + err.Error()}
		}
		if avgCents > domain.MaxPriceCents {
			return nil, nil, &domain.ValidationError{Message: symbol + ": avg_price exceeds the supported maximum"}
		}

		holding := &domain.Holding{
			Quantity:     pos.Quantity,
			AvgCostCents: avgCents,
		}

		if pos.CurrentPrice != nil {
			if *pos.CurrentPrice < 0 {
				return nil, nil, &domain.ValidationError{Message: symbol + ": currentPrice must be non-negative"}
			}
			priceCents, err := domain.DollarsToCents(*pos.CurrentPrice)
			if err != nil {
				return nil, nil, &domain.ValidationError{Message: symbol + ": currentPrice " + err.Error()}
			}
			if priceCents > domain.MaxPriceCents {
				return nil, nil, &domain.ValidationError{Message: symbol + ": currentPrice exceeds the supported maximum"}
			}
			holding.LastPriceCents = priceCents
			if priceCents > 0 {
				prices[symbol] = priceCents
			}
		}

		l.Holdings[symbol] = holding
	}

	lookup := func(symbol string) (int64, bool) {
		p, ok := prices[symbol]
		return p, ok
	}
	return l, lookup, nil
}
