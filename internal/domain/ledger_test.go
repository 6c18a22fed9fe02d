package domain

import (
	"math"
	"testing"
)

// snapshotLedger captures cash and holdings for byte-for-byte
// comparison after a rejected operation.
func snapshotLedger(l *Ledger) (int64, map[string]Holding) {
	holdings := make(map[string]Holding, len(l.Holdings))
	for sym, h := range l.Holdings {
		holdings[sym] = *h
	}
	return l.CashCents, holdings
}

func assertUnchanged(t *testing.T, l *Ledger, cash int64, holdings map[string]Holding) {
	t.Helper()
	if l.CashCents != cash {
		t.Fatalf("cash changed: got %d, want %d", l.CashCents, cash)
	}
	if len(l.Holdings) != len(holdings) {
		t.Fatalf("holdings count changed: got %d, want %d", len(l.Holdings), len(holdings))
	}
	for sym, want := range holdings {
		got, ok := l.Holdings[sym]
		if !ok {
			t.Fatalf("holding %s disappeared", sym)
		}
		if *got != want {
			t.Fatalf("holding %s changed: got %+v, want %+v", sym, *got, want)
		}
	}
}

// --- Buy tests ---

func TestBuy_NewHolding(t *testing.T) {
	l := NewLedger(1_000_000) // $10,000.00

	if err := l.Buy("AAPL", 10, 10_000); err != nil { // 10 @ $100.00
		t.Fatalf("unexpected error: %v", err)
	}

	if l.CashCents != 900_000 {
		t.Fatalf("cash = %d, want 900000", l.CashCents)
	}
	h := l.Holdings["AAPL"]
	if h == nil {
		t.Fatal("expected AAPL holding")
	}
	if h.Quantity != 10 || h.AvgCostCents != 10_000 || h.LastPriceCents != 10_000 {
		t.Fatalf("holding = %+v", *h)
	}
}

func TestBuy_AccumulatesWeightedAverage(t *testing.T) {
	l := NewLedger(1_000_000)

	if err := l.Buy("AAPL", 10, 10_000); err != nil { // 10 @ $100
		t.Fatalf("first buy: %v", err)
	}
	if err := l.Buy("AAPL", 30, 12_000); err != nil { // 30 @ $120
		t.Fatalf("second buy: %v", err)
	}

	h := l.Holdings["AAPL"]
	if h.Quantity != 40 {
		t.Fatalf("quantity = %d, want 40", h.Quantity)
	}
	// (10*10000 + 30*12000) / 40 = 11500
	if h.AvgCostCents != 11_500 {
		t.Fatalf("avg cost = %d, want 11500", h.AvgCostCents)
	}
	if h.LastPriceCents != 12_000 {
		t.Fatalf("last price = %d, want 12000", h.LastPriceCents)
	}
	// 1,000,000 - 100,000 - 360,000
	if l.CashCents != 540_000 {
		t.Fatalf("cash = %d, want 540000", l.CashCents)
	}
}

func TestBuy_WeightedAverageRoundsToNearestCent(t *testing.T) {
	l := NewLedger(1_000_000)

	if err := l.Buy("TSLA", 1, 10_000); err != nil {
		t.Fatalf("first buy: %v", err)
	}
	if err := l.Buy("TSLA", 2, 10_001); err != nil {
		t.Fatalf("second buy: %v", err)
	}

	// (1*10000 + 2*10001) / 3 = 10000.666... -> 10001
	if got := l.Holdings["TSLA"].AvgCostCents; got != 10_001 {
		t.Fatalf("avg cost = %d, want 10001", got)
	}
}

func TestBuy_InvalidQuantity(t *testing.T) {
	l := NewLedger(1_000_000)
	cash, holdings := snapshotLedger(l)

	for _, qty := range []int64{0, -1, -100} {
		if err := l.Buy("AAPL", qty, 10_000); err != ErrInvalidQuantity {
			t.Fatalf("Buy(qty=%d) = %v, want ErrInvalidQuantity", qty, err)
		}
	}
	assertUnchanged(t, l, cash, holdings)
}

func TestBuy_InsufficientFunds(t *testing.T) {
	l := NewLedger(100_000) // $1,000.00
	if err := l.Buy("AAPL", 5, 10_000); err != nil {
		t.Fatalf("setup buy: %v", err)
	}
	cash, holdings := snapshotLedger(l)

	// 6 more @ $100 needs $600 but only $500 remains.
	if err := l.Buy("AAPL", 6, 10_000); err != ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	assertUnchanged(t, l, cash, holdings)
}

func TestBuy_OverflowingQuantityRejected(t *testing.T) {
	l := NewLedger(100_000) // $1,000.00
	cash, holdings := snapshotLedger(l)

	// Large enough that price*quantity wraps int64 if unchecked; the
	// cap must refuse it before any arithmetic.
	if err := l.Buy("AAPL", 1_000_000_000_000_000, 10_000); err != ErrInvalidQuantity {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	assertUnchanged(t, l, cash, holdings)
	if l.CashCents < 0 {
		t.Fatalf("cash went negative: %d", l.CashCents)
	}
}

func TestBuy_PriceBeyondBoundRejected(t *testing.T) {
	l := NewLedger(MaxCashCents)
	cash, holdings := snapshotLedger(l)

	if err := l.Buy("AAPL", 1, MaxPriceCents+1); err != ErrValueOutOfRange {
		t.Fatalf("expected ErrValueOutOfRange, got %v", err)
	}
	if err := l.Buy("AAPL", 1, 0); err != ErrValueOutOfRange {
		t.Fatalf("expected ErrValueOutOfRange for zero price, got %v", err)
	}
	assertUnchanged(t, l, cash, holdings)
}

func TestBuy_PositionBeyondBoundRejected(t *testing.T) {
	l := NewLedger(MaxCashCents)
	if err := l.Buy("AAPL", MaxQuantity, 1); err != nil {
		t.Fatalf("setup buy: %v", err)
	}
	cash, holdings := snapshotLedger(l)

	if err := l.Buy("AAPL", 1, 1); err != ErrValueOutOfRange {
		t.Fatalf("expected ErrValueOutOfRange, got %v", err)
	}
	assertUnchanged(t, l, cash, holdings)
}

func TestBuy_ExactCashAccepted(t *testing.T) {
	l := NewLedger(100_000)

	if err := l.Buy("AAPL", 10, 10_000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.CashCents != 0 {
		t.Fatalf("cash = %d, want 0", l.CashCents)
	}
}

// --- Sell tests ---

func TestSell_PartialKeepsAverageCost(t *testing.T) {
	l := NewLedger(1_000_000)
	if err := l.Buy("AAPL", 10, 10_000); err != nil {
		t.Fatalf("setup buy: %v", err)
	}

	if err := l.Sell("AAPL", 4, 11_000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h := l.Holdings["AAPL"]
	if h.Quantity != 6 {
		t.Fatalf("quantity = %d, want 6", h.Quantity)
	}
	if h.AvgCostCents != 10_000 {
		t.Fatalf("avg cost changed on sell: %d", h.AvgCostCents)
	}
	if h.LastPriceCents != 11_000 {
		t.Fatalf("last price = %d, want 11000", h.LastPriceCents)
	}
	// 1,000,000 - 100,000 + 44,000
	if l.CashCents != 944_000 {
		t.Fatalf("cash = %d, want 944000", l.CashCents)
	}
}

func TestSell_ExhaustingRemovesHolding(t *testing.T) {
	l := NewLedger(1_000_000)
	if err := l.Buy("AAPL", 10, 10_000); err != nil {
		t.Fatalf("setup buy: %v", err)
	}

	if err := l.Sell("AAPL", 10, 10_500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := l.Holdings["AAPL"]; ok {
		t.Fatal("holding should be removed at zero quantity, not retained")
	}
}

func TestSell_InvalidQuantity(t *testing.T) {
	l := NewLedger(1_000_000)
	if err := l.Buy("AAPL", 10, 10_000); err != nil {
		t.Fatalf("setup buy: %v", err)
	}
	cash, holdings := snapshotLedger(l)

	if err := l.Sell("AAPL", 0, 10_000); err != ErrInvalidQuantity {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if err := l.Sell("AAPL", -3, 10_000); err != ErrInvalidQuantity {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	assertUnchanged(t, l, cash, holdings)
}

func TestSell_InsufficientShares(t *testing.T) {
	l := NewLedger(1_000_000)
	if err := l.Buy("AAPL", 10, 10_000); err != nil {
		t.Fatalf("setup buy: %v", err)
	}
	cash, holdings := snapshotLedger(l)

	if err := l.Sell("AAPL", 11, 10_000); err != ErrInsufficientShares {
		t.Fatalf("expected ErrInsufficientShares, got %v", err)
	}
	if err := l.Sell("MSFT", 1, 10_000); err != ErrInsufficientShares {
		t.Fatalf("expected ErrInsufficientShares for unheld symbol, got %v", err)
	}
	assertUnchanged(t, l, cash, holdings)
}

func TestSell_OverflowingQuantityRejected(t *testing.T) {
	l := NewLedger(0)
	l.Holdings["AAPL"] = &Holding{Quantity: MaxQuantity, AvgCostCents: 10_000}
	cash, holdings := snapshotLedger(l)

	if err := l.Sell("AAPL", 1_000_000_000_000_000, 10_000); err != ErrInvalidQuantity {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if err := l.Sell("AAPL", 1, MaxPriceCents+1); err != ErrValueOutOfRange {
		t.Fatalf("expected ErrValueOutOfRange, got %v", err)
	}
	assertUnchanged(t, l, cash, holdings)
}

func TestSell_ProceedsBeyondCashRangeRejected(t *testing.T) {
	l := NewLedger(math.MaxInt64 - 10)
	l.Holdings["AAPL"] = &Holding{Quantity: 5, AvgCostCents: 10_000}
	cash, holdings := snapshotLedger(l)

	if err := l.Sell("AAPL", 5, 10_000); err != ErrValueOutOfRange {
		t.Fatalf("expected ErrValueOutOfRange, got %v", err)
	}
	assertUnchanged(t, l, cash, holdings)
}

func TestBuySell_RoundTripRestoresCash(t *testing.T) {
	l := NewLedger(1_000_000)

	if err := l.Buy("NVDA", 7, 12_345); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if err := l.Sell("NVDA", 7, 12_345); err != nil {
		t.Fatalf("sell: %v", err)
	}

	if l.CashCents != 1_000_000 {
		t.Fatalf("cash = %d, want 1000000", l.CashCents)
	}
	if _, ok := l.Holdings["NVDA"]; ok {
		t.Fatal("holding should be removed after round trip")
	}
}
