package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "assets"

// Metrics holds the collectors updated by the quote and valuation services
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	quoteRequests *prometheus.CounterVec
	refreshCycles *prometheus.CounterVec
	netWorth      prometheus.Gauge
	totalAssets   prometheus.Gauge
	totalLoans    prometheus.Gauge
	fxRate        prometheus.Gauge
	valuedAssets  *prometheus.GaugeVec
	gatherer      prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on reg
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		quoteRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quote_requests_total",
				Help:      "Quote source calls by source and outcome.",
			},
			[]string{"source", "outcome"},
		),
		refreshCycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "refresh_cycles_total",
				Help:      "Valuation refresh cycles by outcome.",
			},
			[]string{"outcome"},
		),
		netWorth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "net_worth_krw",
			Help:      "Live net worth of the last published snapshot.",
		}),
		totalAssets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_assets_krw",
			Help:      "Live value of all non-loan assets.",
		}),
		totalLoans: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_loans_krw",
			Help:      "Book value of all loans.",
		}),
		fxRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fx_rate_krw_per_usd",
			Help:      "FX rate used by the last published snapshot.",
		}),
		valuedAssets: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "valued_assets",
				Help:      "Number of assets per valuation basis.",
			},
			[]string{"basis"},
		),
		gatherer: reg,
	}
	reg.MustRegister(m.quoteRequests)
	reg.MustRegister(m.refreshCycles)
	reg.MustRegister(m.netWorth)
	reg.MustRegister(m.totalAssets)
	reg.MustRegister(m.totalLoans)
	reg.MustRegister(m.fxRate)
	reg.MustRegister(m.valuedAssets)
	return m
}

// ObserveQuote records one call to a quote source
func (m *Metrics) ObserveQuote(source string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.quoteRequests.WithLabelValues(source, outcome).Inc()
}

// Published is the subset of a snapshot exported as gauges
type Published struct {
	NetWorth    decimal.Decimal
	TotalAssets decimal.Decimal
	TotalLoans  decimal.Decimal
	FXRate      decimal.Decimal
	Live        int
	Book        int
}

// ObserveRefresh records a finished cycle and, when published, its figures
func (m *Metrics) ObserveRefresh(outcome string, p *Published) {
	if m == nil {
		return
	}
	m.refreshCycles.WithLabelValues(outcome).Inc()
	if p == nil {
		return
	}
	m.netWorth.Set(p.NetWorth.InexactFloat64())
	m.totalAssets.Set(p.TotalAssets.InexactFloat64())
	m.totalLoans.Set(p.TotalLoans.InexactFloat64())
	m.fxRate.Set(p.FXRate.InexactFloat64())
	m.valuedAssets.WithLabelValues("live").Set(float64(p.Live))
	m.valuedAssets.WithLabelValues("book").Set(float64(p.Book))
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
