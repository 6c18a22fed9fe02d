package quote

import (
	"math/rand"

	"github.com/quantsim/papertrader/internal/domain"
)

// SyntheticTicker is the reserved symbol whose price is generated
// locally instead of fetched from the market-data provider.
const SyntheticTicker = "RANDOM"

// Synthetic generates bounded random quotes for the reserved ticker:
// 100 * (1 + U) rounded to cents, with U uniform in [-0.1, 0.1].
// Every call is an independent draw. The uniform source is injectable
// so tests can pin the sequence.
type Synthetic struct {
	uniform func() float64 // draws in [0, 1)
}

// NewSynthetic creates a Synthetic backed by the default random
// source.
func NewSynthetic() *Synthetic {
	return NewSyntheticWithSource(rand.Float64)
}

// NewSyntheticWithSource creates a Synthetic backed by the given
// uniform source. The source must return values in [0, 1).
func NewSyntheticWithSource(uniform func() float64) *Synthetic {
	return &Synthetic{uniform: uniform}
}

// Price returns an independent draw in [90.00, 110.00], in cents.
func (s *Synthetic) Price() int64 {
	u := -0.1 + 0.2*s.uniform()
	return domain.RoundToCents(100 * (1 + u))
}
