package handler

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/quantsim/papertrader/internal/domain"
	"github.com/quantsim/papertrader/internal/service"
)

// SessionHeader carries the session identifier that keys the
// server-side performance history. When a request arrives without
// one, the server mints a fresh ID and returns it in the same header;
// clients echo it back to keep appending to the same history.
const SessionHeader = "X-Session-ID"

// PortfolioHandler handles valuation and trade endpoints.
type PortfolioHandler struct {
	portfolioSvc *service.PortfolioService
	tradeSvc     *service.TradeService
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioSvc *service.PortfolioService, tradeSvc *service.TradeService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioSvc: portfolioSvc,
		tradeSvc:     tradeSvc,
	}
}

// stockPayload mirrors one holding of the client-held ledger JSON.
type stockPayload struct {
	Quantity     int64    `json:"quantity"`
	AvgPrice     float64  `json:"avg_price"`
	CurrentPrice *float64 `json:"currentPrice,omitempty"`
}

// portfolioPayload mirrors the client-held ledger JSON.
type portfolioPayload struct {
	Cash   float64                 `json:"cash"`
	Stocks map[string]stockPayload `json:"stocks"`
}

// tradePayload is a portfolio plus the order to execute against it.
type tradePayload struct {
	Cash     float64                 `json:"cash"`
	Stocks   map[string]stockPayload `json:"stocks"`
	Symbol   string                  `json:"symbol"`
	Quantity int64                   `json:"quantity"`
}

// valuationResponse is the JSON response for POST /portfolio/valuation.
type valuationResponse struct {
	Chart      string  `json:"chart"`
	TotalValue float64 `json:"total_value"`
}

// tradeResponse is the JSON response for POST /portfolio/buy and
// /portfolio/sell: the executed fill plus the updated ledger in the
// same shape the client submitted.
type tradeResponse struct {
	Symbol   string                  `json:"symbol"`
	Quantity int64                   `json:"quantity"`
	Price    float64                 `json:"price"`
	Cash     float64                 `json:"cash"`
	Stocks   map[string]stockPayload `json:"stocks"`
}

// Valuation handles POST /portfolio/valuation. Each call appends
// exactly one sample to the session's performance history.
func (h *PortfolioHandler) Valuation(w http.ResponseWriter, r *http.Request) {
	var payload portfolioPayload
	if err := ParseJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	w.Header().Set(SessionHeader, sessionID)

	result, err := h.portfolioSvc.Valuation(toPortfolioRequest(payload.Cash, payload.Stocks), sessionID)
	if err != nil {
		mapPortfolioError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, valuationResponse{
		Chart:      base64.StdEncoding.EncodeToString(result.ChartPNG),
		TotalValue: domain.CentsToDollars(result.Sample.TotalValueCents),
	})
}

// Buy handles POST /portfolio/buy.
func (h *PortfolioHandler) Buy(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, h.tradeSvc.Buy)
}

// Sell handles POST /portfolio/sell.
func (h *PortfolioHandler) Sell(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, h.tradeSvc.Sell)
}

// trade is the shared body of the buy and sell handlers.
func (h *PortfolioHandler) trade(
	w http.ResponseWriter,
	r *http.Request,
	execute func(ctx context.Context, req service.TradeRequest) (*service.TradeResult, error),
) {
	var payload tradePayload
	if err := ParseJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	result, err := execute(r.Context(), service.TradeRequest{
		Portfolio: toPortfolioRequest(payload.Cash, payload.Stocks),
		Symbol:    payload.Symbol,
		Quantity:  payload.Quantity,
	})
	if err != nil {
		mapPortfolioError(w, err)
		return
	}

	cash, stocks := fromLedger(result.Ledger)
	WriteJSON(w, http.StatusOK, tradeResponse{
		Symbol:   result.Symbol,
		Quantity: result.Quantity,
		Price:    domain.CentsToDollars(result.PriceCents),
		Cash:     cash,
		Stocks:   stocks,
	})
}

// toPortfolioRequest maps the JSON payload onto the service request
// type.
func toPortfolioRequest(cash float64, stocks map[string]stockPayload) service.PortfolioRequest {
	req := service.PortfolioRequest{
		Cash:   cash,
		Stocks: make(map[string]service.StockPosition, len(stocks)),
	}
	for symbol, pos := range stocks {
		req.Stocks[symbol] = service.StockPosition{
			Quantity:     pos.Quantity,
			AvgPrice:     pos.AvgPrice,
			CurrentPrice: pos.CurrentPrice,
		}
	}
	return req
}

// fromLedger maps a domain ledger back onto the wire shape the
// client submitted.
func fromLedger(l *domain.Ledger) (float64, map[string]stockPayload) {
	stocks := make(map[string]stockPayload, len(l.Holdings))
	for symbol, h := range l.Holdings {
		p := stockPayload{
			Quantity: h.Quantity,
			AvgPrice: domain.CentsToDollars(h.AvgCostCents),
		}
		if h.LastPriceCents > 0 {
			cur := domain.CentsToDollars(h.LastPriceCents)
			p.CurrentPrice = &cur
		}
		stocks[symbol] = p
	}
	return domain.CentsToDollars(l.CashCents), stocks
}

// mapPortfolioError maps domain errors to HTTP responses for the
// portfolio endpoints.
func mapPortfolioError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		WriteError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be a positive integer")
	case errors.Is(err, domain.ErrInsufficientFunds):
		WriteError(w, http.StatusUnprocessableEntity, "insufficient_funds", "buy exceeds available cash")
	case errors.Is(err, domain.ErrInsufficientShares):
		WriteError(w, http.StatusUnprocessableEntity, "insufficient_shares", "sell exceeds held quantity")
	case errors.Is(err, domain.ErrQuoteUnavailable):
		WriteError(w, http.StatusUnprocessableEntity, "quote_unavailable", "no price is available for that symbol")
	case errors.Is(err, domain.ErrValueOutOfRange):
		WriteError(w, http.StatusUnprocessableEntity, "value_out_of_range", "amount is outside the supported range")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
