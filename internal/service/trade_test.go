package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/quantsim/papertrader/internal/domain"
	"github.com/quantsim/papertrader/internal/quote"
)

// stubProvider returns a fixed price or a fixed error.
type stubProvider struct {
	priceCents int64
	err        error
}

func (s *stubProvider) LatestClose(context.Context, string) (int64, error) {
	return s.priceCents, s.err
}

func (s *stubProvider) DailyCloses(context.Context, string) ([]quote.ClosePrice, error) {
	return nil, s.err
}

func newTestTradeService(provider quote.PriceProvider) *TradeService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := quote.NewResolver(provider, quote.NewSyntheticWithSource(func() float64 { return 0.5 }), logger)
	return NewTradeService(resolver)
}

func TestBuy_ExecutesAtResolvedQuote(t *testing.T) {
	svc := newTestTradeService(&stubProvider{priceCents: 10_000}) // $100.00

	result, err := svc.Buy(context.Background(), TradeRequest{
		Portfolio: PortfolioRequest{Cash: 10000},
		Symbol:    "aapl",
		Quantity:  5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Symbol != "AAPL" {
		t.Fatalf("symbol = %q, want AAPL", result.Symbol)
	}
	if result.PriceCents != 10_000 {
		t.Fatalf("price = %d, want 10000", result.PriceCents)
	}
	if result.Ledger.CashCents != 950_000 {
		t.Fatalf("cash = %d, want 950000", result.Ledger.CashCents)
	}
	h := result.Ledger.Holdings["AAPL"]
	if h == nil || h.Quantity != 5 || h.AvgCostCents != 10_000 {
		t.Fatalf("holding = %+v", h)
	}
}

func TestBuy_QuoteUnavailableBlocksTrade(t *testing.T) {
	svc := newTestTradeService(&stubProvider{err: errors.New("provider down")})

	_, err := svc.Buy(context.Background(), TradeRequest{
		Portfolio: PortfolioRequest{Cash: 10000},
		Symbol:    "AAPL",
		Quantity:  1,
	})
	if !errors.Is(err, domain.ErrQuoteUnavailable) {
		t.Fatalf("expected ErrQuoteUnavailable, got %v", err)
	}
}

func TestBuy_InsufficientFundsSurfaces(t *testing.T) {
	svc := newTestTradeService(&stubProvider{priceCents: 10_000})

	_, err := svc.Buy(context.Background(), TradeRequest{
		Portfolio: PortfolioRequest{Cash: 100},
		Symbol:    "AAPL",
		Quantity:  5,
	})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestBuy_InvalidQuantitySurfaces(t *testing.T) {
	svc := newTestTradeService(&stubProvider{priceCents: 10_000})

	_, err := svc.Buy(context.Background(), TradeRequest{
		Portfolio: PortfolioRequest{Cash: 10000},
		Symbol:    "AAPL",
		Quantity:  0,
	})
	if !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestTrade_EmptySymbolRejected(t *testing.T) {
	svc := newTestTradeService(&stubProvider{priceCents: 10_000})

	req := TradeRequest{
		Portfolio: PortfolioRequest{Cash: 10000},
		Symbol:    "   ",
		Quantity:  1,
	}

	var vErr *domain.ValidationError
	if _, err := svc.Buy(context.Background(), req); !errors.As(err, &vErr) {
		t.Fatalf("Buy: expected ValidationError, got %v", err)
	}
	if _, err := svc.Sell(context.Background(), req); !errors.As(err, &vErr) {
		t.Fatalf("Sell: expected ValidationError, got %v", err)
	}
}

func TestBuy_SyntheticTickerUsesLocalDraw(t *testing.T) {
	// Provider errors must not matter for the synthetic ticker.
	svc := newTestTradeService(&stubProvider{err: errors.New("provider down")})

	result, err := svc.Buy(context.Background(), TradeRequest{
		Portfolio: PortfolioRequest{Cash: 10000},
		Symbol:    "random",
		Quantity:  2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PriceCents != 10_000 { // pinned midpoint draw
		t.Fatalf("price = %d, want 10000", result.PriceCents)
	}
	if result.Ledger.Holdings["RANDOM"] == nil {
		t.Fatal("expected RANDOM holding")
	}
}

func TestSell_ExecutesAndUpdatesLedger(t *testing.T) {
	svc := newTestTradeService(&stubProvider{priceCents: 11_000}) // $110.00

	result, err := svc.Sell(context.Background(), TradeRequest{
		Portfolio: PortfolioRequest{
			Cash: 1000,
			Stocks: map[string]StockPosition{
				"AAPL": {Quantity: 10, AvgPrice: 100},
			},
		},
		Symbol:   "AAPL",
		Quantity: 4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 1000 + 4*110 = 1440.00
	if result.Ledger.CashCents != 144_000 {
		t.Fatalf("cash = %d, want 144000", result.Ledger.CashCents)
	}
	h := result.Ledger.Holdings["AAPL"]
	if h.Quantity != 6 {
		t.Fatalf("quantity = %d, want 6", h.Quantity)
	}
	if h.AvgCostCents != 10_000 {
		t.Fatalf("avg cost changed on sell: %d", h.AvgCostCents)
	}
}

func TestSell_ExhaustingRemovesHolding(t *testing.T) {
	svc := newTestTradeService(&stubProvider{priceCents: 11_000})

	result, err := svc.Sell(context.Background(), TradeRequest{
		Portfolio: PortfolioRequest{
			Cash: 0,
			Stocks: map[string]StockPosition{
				"AAPL": {Quantity: 3, AvgPrice: 100},
			},
		},
		Symbol:   "AAPL",
		Quantity: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := result.Ledger.Holdings["AAPL"]; ok {
		t.Fatal("holding should be removed when fully sold")
	}
}

func TestSell_InsufficientSharesSurfaces(t *testing.T) {
	svc := newTestTradeService(&stubProvider{priceCents: 11_000})

	_, err := svc.Sell(context.Background(), TradeRequest{
		Portfolio: PortfolioRequest{
			Cash: 0,
			Stocks: map[string]StockPosition{
				"AAPL": {Quantity: 3, AvgPrice: 100},
			},
		},
		Symbol:   "AAPL",
		Quantity: 4,
	})
	if !errors.Is(err, domain.ErrInsufficientShares) {
		t.Fatalf("expected ErrInsufficientShares, got %v", err)
	}
}

func TestSell_UnheldSymbolSurfaces(t *testing.T) {
	svc := newTestTradeService(&stubProvider{priceCents: 11_000})

	_, err := svc.Sell(context.Background(), TradeRequest{
		Portfolio: PortfolioRequest{Cash: 1000},
		Symbol:    "MSFT",
		Quantity:  1,
	})
	if !errors.Is(err, domain.ErrInsufficientShares) {
		t.Fatalf("expected ErrInsufficientShares, got %v", err)
	}
}
