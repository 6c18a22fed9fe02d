package handler

import (
	"encoding/base64"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quantsim/papertrader/internal/domain"
	"github.com/quantsim/papertrader/internal/service"
)

// QuoteHandler handles HTTP requests for quote and price-history
// endpoints.
type QuoteHandler struct {
	quoteSvc *service.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(quoteSvc *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteSvc: quoteSvc}
}

// quoteResponse is the JSON response for GET /quote/{symbol}.
// A zero price signals that the symbol is unknown or the provider is
// unavailable.
type quoteResponse struct {
	Price float64 `json:"price"`
}

// chartResponse carries a base64-encoded PNG. An empty string means
// no chart is available.
type chartResponse struct {
	Chart string `json:"chart"`
}

// GetQuote handles GET /quote/{symbol}.
func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	q := h.quoteSvc.GetQuote(r.Context(), symbol)
	WriteJSON(w, http.StatusOK, quoteResponse{
		Price: domain.CentsToDollars(q.PriceCents),
	})
}

// GetHistory handles GET /history/{symbol}.
func (h *QuoteHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	png, err := h.quoteSvc.HistoryChartPNG(r.Context(), symbol)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	WriteJSON(w, http.StatusOK, chartResponse{
		Chart: base64.StdEncoding.EncodeToString(png),
	})
}
