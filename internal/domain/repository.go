package domain

import (
	"context"
)

// AssetStore defines the durable store for asset records
// The whole collection is loaded and replaced at once under a fixed key.
type AssetStore interface {
	// LoadAssets returns every stored asset in order
	// Returns ErrNotStored when nothing was ever saved
	LoadAssets(ctx context.Context) ([]Asset, error)

	// SaveAssets replaces the stored collection
	SaveAssets(ctx context.Context, assets []Asset) error
}

// SettingsStore defines the durable store for user settings
type SettingsStore interface {
	// LoadSettings returns the stored settings
	// Returns ErrNotStored when nothing was ever saved
	LoadSettings(ctx context.Context) (Settings, error)

	// SaveSettings replaces the stored settings
	SaveSettings(ctx context.Context, settings Settings) error
}

// QuoteProvider defines one market data channel
type QuoteProvider interface {
	// Quote retrieves the quote for a single symbol
	// Errors wrap ErrQuoteNotFound when the channel does not know the symbol
	Quote(ctx context.Context, ticker string) (RawQuote, error)
}

// BatchQuoteProvider is a market data channel that can serve several symbols per call
type BatchQuoteProvider interface {
	QuoteProvider

	// Quotes retrieves quotes for several symbols in one call
	Quotes(ctx context.Context, tickers []string) ([]RawQuote, error)
}
