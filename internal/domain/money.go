package domain

import (
	"fmt"
	"math"
)

// Magnitude bounds on money. Holding every amount and price below
// these, together with MaxQuantity and MaxHoldings, keeps every
// price*quantity product and running cash total inside int64.
const (
	MaxCashCents  int64 = 1_000_000_000_000_000 // $10 trillion
	MaxPriceCents int64 = 100_000_000           // $1 million per share
)

// DollarsToCents converts a dollar amount to integral cents. It
// rejects non-finite values, magnitudes beyond MaxCashCents, and any
// value carrying more than 2 decimal places. The scaling is rounded
// to absorb binary float artifacts (1.10 * 100 is not exactly 110).
func DollarsToCents(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("monetary values must be finite")
	}
	maxDollars := float64(MaxCashCents) / 100
	if f > maxDollars || f < -maxDollars {
		return 0, fmt.Errorf("monetary values must not exceed %.0f dollars in magnitude", maxDollars)
	}

	// A third decimal place survives scaling by 1000 as a non-zero
	// remainder mod 10.
	scaled := math.Round(f * 1000)
	if math.Mod(scaled, 10) != 0 {
		return 0, fmt.Errorf("monetary values must have at most 2 decimal places")
	}

	return int64(math.Round(f * 100)), nil
}

// CentsToDollars converts integral cents to a dollar amount.
func CentsToDollars(c int64) float64 {
	return float64(c) / 100.0
}

// RoundToCents rounds an arbitrary-precision dollar amount to the
// nearest cent. Market-data providers return closes with full float
// precision, so the strict 2-decimal validation of DollarsToCents does
// not apply to them. Non-finite values and values outside
// (0, MaxPriceCents] come back as 0, which callers treat as no price.
func RoundToCents(f float64) int64 {
	r := math.Round(f * 100)
	if math.IsNaN(r) || r <= 0 || r > float64(MaxPriceCents) {
		return 0
	}
	return int64(r)
}
