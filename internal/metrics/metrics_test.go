package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveQuote(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveQuote("primary", nil)
	m.ObserveQuote("primary", errors.New("boom"))
	m.ObserveQuote("fallback", nil)
	m.ObserveQuote("fallback", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.quoteRequests.WithLabelValues("primary", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.quoteRequests.WithLabelValues("primary", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.quoteRequests.WithLabelValues("fallback", "ok")))
}

func TestObserveRefresh(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveRefresh("ok", &Published{
		NetWorth:    decimal.NewFromInt(9000),
		TotalAssets: decimal.NewFromInt(10000),
		TotalLoans:  decimal.NewFromInt(1000),
		FXRate:      decimal.NewFromInt(1400),
		Live:        2,
		Book:        3,
	})
	m.ObserveRefresh("discarded", nil)

	assert.Equal(t, 9000.0, testutil.ToFloat64(m.netWorth))
	assert.Equal(t, 1400.0, testutil.ToFloat64(m.fxRate))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.valuedAssets.WithLabelValues("live")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.refreshCycles.WithLabelValues("discarded")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveQuote("primary", nil)
		m.ObserveRefresh("ok", &Published{})
	})
}

func TestHandler(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ObserveQuote("primary", nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "assets_quote_requests_total")
}
