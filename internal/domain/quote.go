package domain

// Quote is a point-in-time price observation for a symbol.
type Quote struct {
	Symbol     string
	PriceCents int64
	Found      bool
}

// Available reports whether the quote can back a trade. A quote that
// was not found, or that resolved to a zero price, blocks any
// dependent buy or sell.
func (q Quote) Available() bool {
	return q.Found && q.PriceCents > 0
}
