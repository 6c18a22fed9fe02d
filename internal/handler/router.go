package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/quantsim/papertrader/internal/service"
)

// NewRouter creates a chi router with all routes registered, request
// logging, CORS for the browser front end, and Content-Type
// validation middleware.
func NewRouter(
	quoteSvc *service.QuoteService,
	portfolioSvc *service.PortfolioService,
	tradeSvc *service.TradeService,
	logger *slog.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", SessionHeader},
		ExposedHeaders: []string{SessionHeader},
		MaxAge:         300,
	}))
	r.Use(contentTypeJSON)

	// Create handlers.
	quoteH := NewQuoteHandler(quoteSvc)
	portfolioH := NewPortfolioHandler(portfolioSvc, tradeSvc)

	// Health check.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Quote routes.
	r.Get("/quote/{symbol}", quoteH.GetQuote)
	r.Get("/history/{symbol}", quoteH.GetHistory)

	// Portfolio routes.
	r.Post("/portfolio/valuation", portfolioH.Valuation)
	r.Post("/portfolio/buy", portfolioH.Buy)
	r.Post("/portfolio/sell", portfolioH.Sell)

	return r
}

// requestLogging emits one slog line per request with the method,
// path, response status, and elapsed time.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter records the status code the handler chain wrote so the
// logging middleware can report it. Only the first WriteHeader counts.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// contentTypeJSON rejects body-carrying requests whose Content-Type
// is not application/json before the handler runs.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			ct := r.Header.Get("Content-Type")
			if !strings.HasPrefix(ct, "application/json") {
				WriteError(w, http.StatusBadRequest, "invalid_request",
					"Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
