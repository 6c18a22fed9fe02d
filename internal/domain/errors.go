package domain

import "errors"

// Sentinel errors for rejected operations. Every failure in this core
// is a refused operation with the ledger left untouched; the handler
// layer maps these to HTTP status codes.
var (
	ErrInvalidQuantity    = errors.New("invalid_quantity")
	ErrInsufficientFunds  = errors.New("insufficient_funds")
	ErrInsufficientShares = errors.New("insufficient_shares")
	ErrQuoteUnavailable   = errors.New("quote_unavailable")
	ErrValueOutOfRange    = errors.New("value_out_of_range")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
