package valuation

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/gonsam85/assets/internal/domain"
	"github.com/gonsam85/assets/internal/metrics"
	"github.com/gonsam85/assets/internal/usecase/quote"
)

// QuoteSource is the quote retrieval a cycle needs
type QuoteSource interface {
	Single(ctx context.Context, ticker string) (domain.Quote, error)
	Batch(ctx context.Context, tickers []string) (*quote.BatchResult, error)
}

// AssetSource provides the current asset collection
type AssetSource interface {
	Assets() []domain.Asset
}

// Options configures a ValuationService
type Options struct {
	FXTicker      string
	DefaultFXRate decimal.Decimal
}

// ValuationService runs refresh cycles and publishes their snapshots
type ValuationService struct {
	Portfolio AssetSource
	Quotes    QuoteSource

	fxTicker string
	metrics  *metrics.Metrics
	log      zerolog.Logger
	now      func() time.Time

	cycle atomic.Uint64

	mu      sync.RWMutex
	fxRate  decimal.Decimal
	fxCycle uint64
	latest  *Snapshot
}

// NewValuationService creates a new ValuationService instance
// Until a rate is fetched, USD holdings are converted with opts.DefaultFXRate.
func NewValuationService(portfolio AssetSource, quotes QuoteSource, opts Options, m *metrics.Metrics, log zerolog.Logger) *ValuationService {
	return &ValuationService{
		Portfolio: portfolio,
		Quotes:    quotes,
		fxTicker:  opts.FXTicker,
		fxRate:    opts.DefaultFXRate,
		metrics:   m,
		log:       log.With().Str("service", "valuation").Logger(),
		now:       time.Now,
	}
}

// Latest returns the published snapshot, nil before the first cycle completes
func (s *ValuationService) Latest() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// FXRate returns the last known KRW per USD rate
func (s *ValuationService) FXRate() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fxRate
}

// Refresh runs one valuation cycle
// Logic:
//  1. Take the next cycle number and the current asset list
//  2. Fetch the FX rate and the batch of market quotes concurrently
//  3. A failed FX fetch keeps the last known rate; a failed batch values everything at book
//  4. Compute and publish, unless a newer cycle was published meanwhile
//
// Cycles may overlap. The computed snapshot is returned even when it was discarded.
func (s *ValuationService) Refresh(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cycle := s.cycle.Add(1)
	assets := s.Portfolio.Assets()
	tickers := marketTickers(assets)

	var (
		fxRate   decimal.Decimal
		fxErr    error
		batch    *quote.BatchResult
		batchErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		fxRate, fxErr = s.fetchFXRate(ctx)
		return nil
	})
	if len(tickers) > 0 {
		g.Go(func() error {
			batch, batchErr = s.Quotes.Batch(ctx, tickers)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		s.metrics.ObserveRefresh("canceled", nil)
		return nil, err
	}

	if fxErr != nil {
		s.log.Warn().Msgf("FX refresh failed in cycle %d, keeping last rate: %v", cycle, fxErr)
	}
	rate := s.applyFXRate(cycle, fxRate, fxErr)

	var quotes []domain.Quote
	degraded := false
	switch {
	case batchErr != nil:
		s.log.Warn().Msgf("Quote batch failed in cycle %d, valuing at book: %v", cycle, batchErr)
		degraded = true
	case batch != nil:
		quotes = batch.Quotes
		degraded = batch.Degraded
	}

	snap := Compute(Input{Assets: assets, Quotes: quotes, FXRate: rate})
	snap.Cycle = cycle
	snap.ComputedAt = s.now()
	snap.FXStale = fxErr != nil
	snap.QuotesDegraded = degraded

	if !s.publish(snap) {
		s.log.Debug().Msgf("Discarding cycle %d, a newer snapshot is published", cycle)
		s.metrics.ObserveRefresh("discarded", nil)
		return snap, nil
	}

	live, book := snap.Counts()
	s.metrics.ObserveRefresh("published", &metrics.Published{
		NetWorth:    snap.NetWorth,
		TotalAssets: snap.TotalAssets,
		TotalLoans:  snap.TotalLoans,
		FXRate:      snap.FXRate,
		Live:        live,
		Book:        book,
	})
	s.log.Debug().Msgf("Published cycle %d: net worth %s (%d live, %d book)", cycle, snap.NetWorth.StringFixed(0), live, book)
	return snap, nil
}

func (s *ValuationService) fetchFXRate(ctx context.Context) (decimal.Decimal, error) {
	q, err := s.Quotes.Single(ctx, s.fxTicker)
	if err != nil {
		return decimal.Zero, err
	}
	if !q.HasPrice() {
		return decimal.Zero, fmt.Errorf("%w: %s: non-positive rate %s", domain.ErrMalformedQuote, s.fxTicker, q.Price)
	}
	return q.Price, nil
}

// applyFXRate stores a fetched rate unless a later cycle already did, and returns the rate to use
func (s *ValuationService) applyFXRate(cycle uint64, rate decimal.Decimal, err error) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		return s.fxRate
	}
	if cycle >= s.fxCycle {
		s.fxRate = rate
		s.fxCycle = cycle
	}
	return rate
}

func (s *ValuationService) publish(snap *Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latest != nil && s.latest.Cycle > snap.Cycle {
		return false
	}
	s.latest = snap
	return true
}

// marketTickers lists the distinct tickers of assets that can be valued live
func marketTickers(assets []domain.Asset) []string {
	var tickers []string
	for _, a := range assets {
		if a.HasTicker() {
			tickers = append(tickers, a.Ticker)
		}
	}
	return quote.UniqueTickers(tickers)
}
