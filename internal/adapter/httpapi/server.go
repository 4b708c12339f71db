package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/gonsam85/assets/internal/domain"
	"github.com/gonsam85/assets/internal/metrics"
	"github.com/gonsam85/assets/internal/usecase/quote"
)

// QuoteService is the quote retrieval exposed over HTTP
type QuoteService interface {
	Single(ctx context.Context, ticker string) (domain.Quote, error)
	Batch(ctx context.Context, tickers []string) (*quote.BatchResult, error)
}

// Server serves the price lookup and metrics endpoints
type Server struct {
	quotes  QuoteService
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewServer creates a new Server instance
func NewServer(quotes QuoteService, m *metrics.Metrics, log zerolog.Logger) *Server {
	return &Server{
		quotes:  quotes,
		metrics: m,
		log:     log.With().Str("component", "http").Logger(),
	}
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /price", s.handlePrice)
	mux.Handle("GET /metrics", s.metrics.Handler())
	return s.logRequests(mux)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a quote failure to a status code
func writeError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrQuoteNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrSourceUnavailable):
		status = http.StatusBadGateway
	}

	details := err.Error()
	var fetchErr *quote.FetchError
	if errors.As(err, &fetchErr) {
		details = fetchErr.Details()
	}

	writeJSON(w, status, errorResponse{Error: message, Details: details})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
