package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog"

	"github.com/gonsam85/assets/internal/domain"
)

// ChartClient is the fallback channel: the raw chart endpoint
// It has no batch form and no session, so it keeps working when the quote API refuses us.
type ChartClient struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	log        zerolog.Logger
}

// NewChartClient creates the fallback client
func NewChartClient(baseURL, userAgent string, timeout time.Duration, log zerolog.Logger) *ChartClient {
	return &ChartClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		log:        log.With().Str("source", "yahoo-chart").Logger(),
	}
}

// Quote retrieves the latest daily bar metadata for ticker
func (c *ChartClient) Quote(ctx context.Context, ticker string) (domain.RawQuote, error) {
	c.log.Debug().Msgf("Fetching raw data for %s...", ticker)

	addr := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", c.baseURL, url.PathEscape(ticker))
	resp, err := get(ctx, c.httpClient, c.log, c.userAgent, addr)
	if err != nil {
		return domain.RawQuote{}, err
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return domain.RawQuote{}, fmt.Errorf("%w: %s", domain.ErrQuoteNotFound, ticker)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.RawQuote{}, fmt.Errorf("raw fetch failed: %w", readError(resp))
	}
	defer resp.Body.Close()

	var jobj any
	if err := json.NewDecoder(resp.Body).Decode(&jobj); err != nil {
		return domain.RawQuote{}, fmt.Errorf("error decoding chart response: %w", err)
	}

	meta, err := chartMeta(jobj)
	if err != nil {
		return domain.RawQuote{}, fmt.Errorf("%s: %w", ticker, err)
	}

	symbol, _ := meta["symbol"].(string)
	currency, _ := meta["currency"].(string)
	return domain.RawQuote{
		Source:    domain.QuoteSourceFallback,
		Symbol:    symbol,
		Requested: ticker,
		Price:     meta["regularMarketPrice"],
		PrevClose: []any{meta["chartPreviousClose"], meta["previousClose"]},
		Currency:  currency,
	}, nil
}

// chartMeta extracts $.chart.result[0].meta
func chartMeta(jobj any) (map[string]any, error) {
	jval, err := jsonpath.Get("$.chart.result[0].meta", jobj)
	if meta, ok := jval.(map[string]any); err == nil && ok {
		return meta, nil
	}

	// an empty result with an error code means the provider does not know the symbol
	if code, cerr := jsonpath.Get("$.chart.error.code", jobj); cerr == nil && code != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQuoteNotFound, code)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid raw response structure: %w", err)
	}
	return nil, fmt.Errorf("invalid raw response structure: meta is %T", jval)
}
