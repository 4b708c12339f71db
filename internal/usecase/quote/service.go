package quote

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gonsam85/assets/internal/domain"
	"github.com/gonsam85/assets/internal/metrics"
)

// fallbackConcurrency bounds the per-ticker fan-out when the batch call failed
const fallbackConcurrency = 8

// FetchError is returned when every source failed
// Kind is ErrQuoteNotFound or ErrSourceUnavailable; Primary keeps the first failure.
type FetchError struct {
	Kind     error
	Ticker   string
	Primary  error
	Fallback error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%v: %s: %v", e.Kind, e.Ticker, e.Primary)
	if e.Fallback != nil {
		msg += fmt.Sprintf(" (fallback: %v)", e.Fallback)
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Kind }

// Details returns the primary failure message
func (e *FetchError) Details() string {
	if e.Primary == nil {
		return ""
	}
	return e.Primary.Error()
}

// BatchResult holds the quotes resolved by Batch
// Degraded is set when the batch call failed and the quotes come from the per-ticker fallback.
type BatchResult struct {
	Quotes   []domain.Quote
	Degraded bool
	Missing  []string
}

// QuoteService retrieves quotes through the primary source, falling back to the raw source
type QuoteService struct {
	Primary  domain.BatchQuoteProvider
	Fallback domain.QuoteProvider
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

// NewQuoteService creates a new QuoteService instance
func NewQuoteService(primary domain.BatchQuoteProvider, fallback domain.QuoteProvider, m *metrics.Metrics, log zerolog.Logger) *QuoteService {
	return &QuoteService{
		Primary:  primary,
		Fallback: fallback,
		metrics:  m,
		log:      log.With().Str("service", "quote").Logger(),
	}
}

// Single retrieves one quote
// Logic:
//  1. Ask the primary source
//  2. On any failure (transport, malformed payload, unknown symbol) ask the fallback
//  3. If both fail return a FetchError carrying the primary failure
func (s *QuoteService) Single(ctx context.Context, ticker string) (domain.Quote, error) {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return domain.Quote{}, fmt.Errorf("%w: ticker is required", domain.ErrInvalidRequest)
	}

	q, primaryErr := s.fetch(ctx, "primary", s.Primary, ticker)
	if primaryErr == nil {
		return q, nil
	}
	s.log.Warn().Msgf("Single fetch error (primary) for %s, trying fallback: %v", ticker, primaryErr)

	q, fallbackErr := s.fetch(ctx, "fallback", s.Fallback, ticker)
	if fallbackErr == nil {
		return q, nil
	}

	kind := domain.ErrSourceUnavailable
	if errors.Is(fallbackErr, domain.ErrQuoteNotFound) {
		kind = domain.ErrQuoteNotFound
	}
	return domain.Quote{}, &FetchError{Kind: kind, Ticker: ticker, Primary: primaryErr, Fallback: fallbackErr}
}

// Batch retrieves quotes for several tickers
// Logic:
//  1. Normalize and de-duplicate tickers; nothing to ask for means an empty result
//  2. One primary batch call for the whole set
//  3. On failure, ask the fallback for every ticker in parallel and keep the successes
//  4. Fail only when the fallback resolved nothing
func (s *QuoteService) Batch(ctx context.Context, tickers []string) (*BatchResult, error) {
	symbols := UniqueTickers(tickers)
	if len(symbols) == 0 {
		return &BatchResult{Quotes: []domain.Quote{}}, nil
	}

	raws, err := s.Primary.Quotes(ctx, symbols)
	s.metrics.ObserveQuote("primary", err)
	if err == nil {
		quotes := make([]domain.Quote, 0, len(raws))
		for _, raw := range raws {
			q, nerr := raw.Normalize()
			if nerr != nil {
				s.log.Warn().Msgf("Dropping primary quote: %v", nerr)
				continue
			}
			quotes = append(quotes, q)
		}
		return &BatchResult{Quotes: quotes, Missing: missing(symbols, quotes)}, nil
	}

	s.log.Warn().Msgf("Batch fetch error (primary), trying fallback for %d tickers: %v", len(symbols), err)

	quotes := s.fallbackAll(ctx, symbols)
	if len(quotes) == 0 {
		return nil, &FetchError{
			Kind:    domain.ErrSourceUnavailable,
			Ticker:  strings.Join(symbols, ","),
			Primary: err,
		}
	}

	result := &BatchResult{Quotes: quotes, Degraded: true, Missing: missing(symbols, quotes)}
	if len(result.Missing) > 0 {
		s.log.Warn().Msgf("Fallback resolved %d of %d tickers, missing %v", len(quotes), len(symbols), result.Missing)
	}
	return result, nil
}

// fallbackAll fetches every symbol through the fallback, discarding individual failures
func (s *QuoteService) fallbackAll(ctx context.Context, symbols []string) []domain.Quote {
	results := make([]*domain.Quote, len(symbols))

	var g errgroup.Group
	g.SetLimit(fallbackConcurrency)
	for i, symbol := range symbols {
		g.Go(func() error {
			q, err := s.fetch(ctx, "fallback", s.Fallback, symbol)
			if err != nil {
				s.log.Debug().Msgf("Fallback failed for %s: %v", symbol, err)
				return nil
			}
			results[i] = &q
			return nil
		})
	}
	_ = g.Wait()

	quotes := make([]domain.Quote, 0, len(symbols))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	return quotes
}

func (s *QuoteService) fetch(ctx context.Context, source string, provider domain.QuoteProvider, ticker string) (domain.Quote, error) {
	raw, err := provider.Quote(ctx, ticker)
	if err == nil {
		raw.Requested = ticker
	}
	s.metrics.ObserveQuote(source, err)
	if err != nil {
		return domain.Quote{}, err
	}
	return raw.Normalize()
}

// UniqueTickers trims, upper-cases and de-duplicates tickers, dropping blanks
func UniqueTickers(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	symbols := make([]string, 0, len(tickers))
	for _, t := range tickers {
		key := domain.NormalizeTicker(t)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		symbols = append(symbols, key)
	}
	return symbols
}

func missing(symbols []string, quotes []domain.Quote) []string {
	found := make(map[string]bool, len(quotes))
	for _, q := range quotes {
		found[domain.NormalizeTicker(q.Ticker)] = true
	}

	var out []string
	for _, s := range symbols {
		if !found[s] {
			out = append(out, s)
		}
	}
	return out
}
