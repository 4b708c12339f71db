package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// QuoteSourceKind tags which channel produced a quote
type QuoteSourceKind string

const (
	QuoteSourcePrimary  QuoteSourceKind = "primary"
	QuoteSourceFallback QuoteSourceKind = "fallback"
)

// Quote is the canonical market quote. It is never persisted.
// A non-positive Price means "no usable live data".
type Quote struct {
	Ticker    string
	Price     decimal.Decimal
	PrevClose decimal.Decimal
	Currency  string
	Source    QuoteSourceKind
}

// HasPrice reports whether the quote can be used for live valuation
func (q Quote) HasPrice() bool {
	return q.Price.IsPositive()
}

// RawQuote is a quote payload as decoded from one of the sources, before validation.
// Price and PrevClose hold whatever the source sent (float64, json.Number, string or nil).
type RawQuote struct {
	Source    QuoteSourceKind
	Symbol    string
	Requested string
	Price     any
	PrevClose []any // candidates, first usable wins
	Currency  string
}

// Normalize validates the payload and produces the canonical Quote
// The ticker is the symbol reported by the source, or the requested one when absent.
// PrevClose falls back to Price when no candidate is usable.
func (r RawQuote) Normalize() (Quote, error) {
	ticker := strings.TrimSpace(r.Symbol)
	if ticker == "" {
		ticker = strings.TrimSpace(r.Requested)
	}
	if ticker == "" {
		return Quote{}, fmt.Errorf("%w: missing symbol", ErrMalformedQuote)
	}

	price, ok := numeric(r.Price)
	if !ok {
		return Quote{}, fmt.Errorf("%w: %s: price %v is not numeric", ErrMalformedQuote, ticker, r.Price)
	}

	prevClose := price
	for _, candidate := range r.PrevClose {
		if v, ok := numeric(candidate); ok && !v.IsZero() {
			prevClose = v
			break
		}
	}

	return Quote{
		Ticker:    ticker,
		Price:     price,
		PrevClose: prevClose,
		Currency:  strings.ToUpper(strings.TrimSpace(r.Currency)),
		Source:    r.Source,
	}, nil
}

// numeric converts a decoded JSON value into a decimal
func numeric(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case decimal.Decimal:
		return n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		return d, err == nil
	}
	return decimal.Zero, false
}
