package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gonsam85/assets/internal/domain"
	"github.com/gonsam85/assets/internal/metrics"
	"github.com/gonsam85/assets/internal/usecase/quote"
)

// MockQuoteService is a mock implementation of QuoteService
type MockQuoteService struct {
	mock.Mock
}

func (m *MockQuoteService) Single(ctx context.Context, ticker string) (domain.Quote, error) {
	args := m.Called(ctx, ticker)
	return args.Get(0).(domain.Quote), args.Error(1)
}

func (m *MockQuoteService) Batch(ctx context.Context, tickers []string) (*quote.BatchResult, error) {
	args := m.Called(ctx, tickers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.BatchResult), args.Error(1)
}

func appleQuote() domain.Quote {
	return domain.Quote{
		Ticker:    "AAPL",
		Price:     decimal.RequireFromString("190.5"),
		PrevClose: decimal.RequireFromString("188"),
		Currency:  "USD",
		Source:    domain.QuoteSourcePrimary,
	}
}

func serve(t *testing.T, quotes *MockQuoteService, target string) *httptest.ResponseRecorder {
	t.Helper()
	server := NewServer(quotes, nil, zerolog.Nop())
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestPrice_Single(t *testing.T) {
	quotes := new(MockQuoteService)
	quotes.On("Single", mock.Anything, "aapl").Return(appleQuote(), nil)

	rec := serve(t, quotes, "/price?ticker=aapl")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ticker":"aapl","price":190.5,"prevClose":188,"currency":"USD","symbol":"AAPL"}`, rec.Body.String())
}

func TestPrice_Batch(t *testing.T) {
	quotes := new(MockQuoteService)
	quotes.On("Batch", mock.Anything, []string{"AAPL", " KRW=X", ""}).Return(&quote.BatchResult{
		Quotes: []domain.Quote{
			appleQuote(),
			{Ticker: "KRW=X", Price: decimal.RequireFromString("1380.25"), PrevClose: decimal.RequireFromString("1375"), Currency: "KRW"},
		},
	}, nil)

	rec := serve(t, quotes, "/price?tickers=AAPL,%20KRW=X,")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"ticker":"AAPL","price":190.5,"prevClose":188,"currency":"USD","symbol":"AAPL"},
		{"ticker":"KRW=X","price":1380.25,"prevClose":1375,"currency":"KRW","symbol":"KRW=X"}
	]`, rec.Body.String())
}

func TestPrice_BatchEmptyList(t *testing.T) {
	quotes := new(MockQuoteService)
	quotes.On("Batch", mock.Anything, []string{"", " "}).Return(&quote.BatchResult{Quotes: []domain.Quote{}}, nil)

	rec := serve(t, quotes, "/price?tickers=,%20")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestPrice_MissingTicker(t *testing.T) {
	quotes := new(MockQuoteService)

	rec := serve(t, quotes, "/price")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Ticker is required"}`, rec.Body.String())
	quotes.AssertNotCalled(t, "Single", mock.Anything, mock.Anything)
}

func TestPrice_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{
			name:       "not found",
			err:        &quote.FetchError{Kind: domain.ErrQuoteNotFound, Ticker: "NOPE", Primary: errors.New("Quote not found")},
			wantStatus: http.StatusNotFound,
			wantDetail: "Quote not found",
		},
		{
			name:       "sources down",
			err:        &quote.FetchError{Kind: domain.ErrSourceUnavailable, Ticker: "NOPE", Primary: errors.New("status 503")},
			wantStatus: http.StatusBadGateway,
			wantDetail: "status 503",
		},
		{
			name:       "unexpected",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantDetail: "boom",
		},
		{
			name:       "blank ticker",
			err:        fmt.Errorf("%w: ticker is required", domain.ErrInvalidRequest),
			wantStatus: http.StatusBadRequest,
			wantDetail: "invalid request: ticker is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quotes := new(MockQuoteService)
			quotes.On("Single", mock.Anything, "NOPE").Return(domain.Quote{}, tt.err)

			rec := serve(t, quotes, "/price?ticker=NOPE")

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "Failed to fetch price", body.Error)
			assert.Equal(t, tt.wantDetail, body.Details)
		})
	}
}

func TestPrice_BatchFailure(t *testing.T) {
	quotes := new(MockQuoteService)
	quotes.On("Batch", mock.Anything, []string{"AAPL"}).Return(nil,
		&quote.FetchError{Kind: domain.ErrSourceUnavailable, Ticker: "AAPL", Primary: errors.New("crumb rejected")})

	rec := serve(t, quotes, "/price?tickers=AAPL")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"Batch fetch failed","details":"crumb rejected"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.ObserveQuote("primary", nil)
	server := NewServer(new(MockQuoteService), m, zerolog.Nop())

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `assets_quote_requests_total{outcome="ok",source="primary"} 1`))
}

func TestPrice_MethodNotAllowed(t *testing.T) {
	server := NewServer(new(MockQuoteService), nil, zerolog.Nop())

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/price?ticker=AAPL", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
