package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetType represents the kind of position tracked by an Asset
type AssetType string

const (
	AssetTypeCash       AssetType = "cash"
	AssetTypeStock      AssetType = "stock"
	AssetTypeCrypto     AssetType = "crypto"
	AssetTypeRealEstate AssetType = "real_estate"
	AssetTypeLoan       AssetType = "loan"
)

// AssetTypes lists every supported type in display order
var AssetTypes = []AssetType{
	AssetTypeCash,
	AssetTypeStock,
	AssetTypeCrypto,
	AssetTypeRealEstate,
	AssetTypeLoan,
}

// Valid reports whether t is one of the supported asset types
func (t AssetType) Valid() bool {
	switch t {
	case AssetTypeCash, AssetTypeStock, AssetTypeCrypto, AssetTypeRealEstate, AssetTypeLoan:
		return true
	}
	return false
}

// IsMarket reports whether assets of this type can be valued from a live quote
func (t AssetType) IsMarket() bool {
	return t == AssetTypeStock || t == AssetTypeCrypto
}

// ParseAssetType converts user input into an AssetType
func ParseAssetType(s string) (AssetType, error) {
	t := AssetType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown asset type %q", ErrInvalidRequest, s)
	}
	return t, nil
}

// Currency is the currency a user entered purchase/amount figures in
type Currency string

const (
	CurrencyKRW Currency = "KRW"
	CurrencyUSD Currency = "USD"
)

// HomeCurrency is the unit of every Asset.Amount
const HomeCurrency = CurrencyKRW

// ParseCurrency converts user input into a Currency, defaulting to the home currency
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case "":
		return HomeCurrency, nil
	case CurrencyKRW, CurrencyUSD:
		return c, nil
	}
	return "", fmt.Errorf("%w: unsupported currency %q", ErrInvalidRequest, s)
}

// Asset represents a position or a liability
// Amount is always the BOOK VALUE in KRW, whatever Currency says.
// Zero PurchasePrice, CurrentPrice and Quantity mean "not set".
type Asset struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
	Type          AssetType       `json:"type"`
	Date          time.Time       `json:"date"`
	Category      string          `json:"category,omitempty"`
	Currency      Currency        `json:"currency,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchasePrice,omitzero"`
	CurrentPrice  decimal.Decimal `json:"currentPrice,omitzero"`
	Quantity      decimal.Decimal `json:"quantity,omitzero"`
	Ticker        string          `json:"ticker,omitempty"`
}

// Validate ensures the asset adheres to domain rules
func (a *Asset) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: asset name cannot be empty", ErrInvalidRequest)
	}
	if !a.Type.Valid() {
		return fmt.Errorf("%w: unknown asset type %q", ErrInvalidRequest, a.Type)
	}
	switch a.Currency {
	case "", CurrencyKRW, CurrencyUSD:
	default:
		return fmt.Errorf("%w: unsupported currency %q", ErrInvalidRequest, a.Currency)
	}
	if a.Quantity.IsNegative() {
		return fmt.Errorf("%w: quantity cannot be negative", ErrInvalidRequest)
	}
	return nil
}

// IsLiability reports whether the asset is subtracted from net worth
func (a *Asset) IsLiability() bool {
	return a.Type == AssetTypeLoan
}

// HasTicker reports whether a live quote can be looked up for this asset
func (a *Asset) HasTicker() bool {
	return a.Type.IsMarket() && NormalizeTicker(a.Ticker) != ""
}

// NormalizeTicker is the key used to match asset tickers against quotes
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
