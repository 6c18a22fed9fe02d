// Package history holds the append-only portfolio performance record.
// Each session owns its own History; all of them live in memory only
// and reset when the process restarts.
package history

import (
	"sync"
	"time"

	"github.com/quantsim/papertrader/internal/domain"
)

// History is an append-only, time-ordered sequence of valuation
// samples for one session. Samples are never mutated, removed, or
// re-sorted. Safe for concurrent use.
type History struct {
	mu      sync.Mutex
	samples []domain.HistorySample
}

// New creates an empty History.
func New() *History {
	return &History{}
}

// Append records one valuation sample and returns it. Callers are
// responsible for passing non-decreasing timestamps.
func (h *History) Append(at time.Time, totalValueCents int64) domain.HistorySample {
	s := domain.HistorySample{At: at, TotalValueCents: totalValueCents}

	h.mu.Lock()
	h.samples = append(h.samples, s)
	h.mu.Unlock()

	return s
}

// Len returns the number of recorded samples.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.samples)
}

// Snapshot returns a copy of the samples taken under the lock, so
// readers never observe a concurrent append mid-iteration.
func (h *History) Snapshot() []domain.HistorySample {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]domain.HistorySample, len(h.samples))
	copy(out, h.samples)
	return out
}
