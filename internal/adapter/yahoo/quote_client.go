package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gonsam85/assets/internal/domain"
)

// QuoteClient is the primary channel: the batch quote API
// It needs a cookie + crumb session that is expensive to obtain, so the session
// is established on first use, shared by every later call, and dropped after a
// failure so the next call starts a fresh one.
type QuoteClient struct {
	httpClient *http.Client
	baseURL    string
	sessionURL string
	userAgent  string
	log        zerolog.Logger

	mu    sync.Mutex
	crumb string
}

// QuoteClientOptions configures a QuoteClient
type QuoteClientOptions struct {
	BaseURL    string // e.g. https://query2.finance.yahoo.com
	SessionURL string // page that hands out the session cookie
	UserAgent  string
	Timeout    time.Duration
}

// NewQuoteClient creates the primary client. Construct it once per process.
func NewQuoteClient(opts QuoteClientOptions, log zerolog.Logger) (*QuoteClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &QuoteClient{
		httpClient: &http.Client{Jar: jar, Timeout: opts.Timeout},
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		sessionURL: opts.SessionURL,
		userAgent:  opts.UserAgent,
		log:        log.With().Str("source", "yahoo-quote").Logger(),
	}, nil
}

// session returns the current crumb, establishing the session if needed
func (c *QuoteClient) session(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.crumb != "" {
		return c.crumb, nil
	}

	c.log.Info().Msg("Establishing quote session...")

	// Only the cookie matters here, the page itself usually answers 404
	resp, err := get(ctx, c.httpClient, c.log, c.userAgent, c.sessionURL)
	if err != nil {
		return "", fmt.Errorf("failed to obtain session cookie: %w", err)
	}
	resp.Body.Close()

	resp, err = get(ctx, c.httpClient, c.log, c.userAgent, c.baseURL+"/v1/test/getcrumb")
	if err != nil {
		return "", fmt.Errorf("failed to obtain crumb: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to obtain crumb: %w", readError(resp))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return "", fmt.Errorf("failed to read crumb: %w", err)
	}
	crumb := strings.TrimSpace(string(body))
	if crumb == "" {
		return "", errors.New("failed to obtain crumb: empty response")
	}

	c.crumb = crumb
	return crumb, nil
}

// invalidate drops the session after a failed call
func (c *QuoteClient) invalidate() {
	c.mu.Lock()
	c.crumb = ""
	c.mu.Unlock()
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []map[string]any `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteResponse"`
}

// Quotes retrieves quotes for every ticker in a single call
func (c *QuoteClient) Quotes(ctx context.Context, tickers []string) ([]domain.RawQuote, error) {
	if len(tickers) == 0 {
		return []domain.RawQuote{}, nil
	}

	results, err := c.fetch(ctx, tickers)
	if err != nil {
		c.invalidate()
		return nil, err
	}
	return results, nil
}

// Quote retrieves the quote for one ticker
func (c *QuoteClient) Quote(ctx context.Context, ticker string) (domain.RawQuote, error) {
	results, err := c.Quotes(ctx, []string{ticker})
	if err != nil {
		return domain.RawQuote{}, err
	}

	// Only an exact symbol match counts
	for _, r := range results {
		if strings.EqualFold(strings.TrimSpace(r.Symbol), strings.TrimSpace(ticker)) {
			return r, nil
		}
	}
	return domain.RawQuote{}, fmt.Errorf("%w: %s", domain.ErrQuoteNotFound, ticker)
}

func (c *QuoteClient) fetch(ctx context.Context, tickers []string) ([]domain.RawQuote, error) {
	crumb, err := c.session(ctx)
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	values.Set("symbols", strings.Join(tickers, ","))
	values.Set("crumb", crumb)
	addr := c.baseURL + "/v7/finance/quote?" + values.Encode()

	resp, err := get(ctx, c.httpClient, c.log, c.userAgent, addr)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}
	defer resp.Body.Close()

	var payload quoteResponse
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("error decoding quote response: %w", err)
	}
	if e := payload.QuoteResponse.Error; e != nil {
		return nil, fmt.Errorf("quote API error %s: %s", e.Code, e.Description)
	}

	quotes := make([]domain.RawQuote, 0, len(payload.QuoteResponse.Result))
	for _, r := range payload.QuoteResponse.Result {
		symbol, _ := r["symbol"].(string)
		currency, _ := r["currency"].(string)
		quotes = append(quotes, domain.RawQuote{
			Source:    domain.QuoteSourcePrimary,
			Symbol:    symbol,
			Price:     r["regularMarketPrice"],
			PrevClose: []any{r["regularMarketPreviousClose"]},
			Currency:  currency,
		})
	}
	return quotes, nil
}
