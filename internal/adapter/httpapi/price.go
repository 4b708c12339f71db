package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gonsam85/assets/internal/domain"
)

// priceResponse mirrors the lookup shape clients already consume
// Ticker is the requested symbol for single lookups and the resolved one in batches.
type priceResponse struct {
	Ticker    string      `json:"ticker"`
	Price     json.Number `json:"price"`
	PrevClose json.Number `json:"prevClose"`
	Currency  string      `json:"currency"`
	Symbol    string      `json:"symbol"`
}

func newPriceResponse(ticker string, q domain.Quote) priceResponse {
	return priceResponse{
		Ticker:    ticker,
		Price:     json.Number(q.Price.String()),
		PrevClose: json.Number(q.PrevClose.String()),
		Currency:  q.Currency,
		Symbol:    q.Ticker,
	}
}

// handlePrice serves GET /price?ticker=<symbol> and GET /price?tickers=<csv>
// tickers wins when both are present.
func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	ticker := query.Get("ticker")
	tickers := query.Get("tickers")

	if ticker == "" && tickers == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Ticker is required"})
		return
	}

	if tickers != "" {
		result, err := s.quotes.Batch(r.Context(), strings.Split(tickers, ","))
		if err != nil {
			s.log.Error().Msgf("Batch fetch failed: %v", err)
			writeError(w, "Batch fetch failed", err)
			return
		}

		out := make([]priceResponse, 0, len(result.Quotes))
		for _, q := range result.Quotes {
			out = append(out, newPriceResponse(q.Ticker, q))
		}
		writeJSON(w, http.StatusOK, out)
		return
	}

	q, err := s.quotes.Single(r.Context(), ticker)
	if err != nil {
		s.log.Error().Msgf("Single fetch failed for %s: %v", ticker, err)
		writeError(w, "Failed to fetch price", err)
		return
	}
	writeJSON(w, http.StatusOK, newPriceResponse(strings.TrimSpace(ticker), q))
}
