package portfolio

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gonsam85/assets/internal/domain"
)

const defaultCategory = "General"

// EntryInput is a new position as typed by the user
// Figures are in Currency; BuildCandidate converts them to a KRW book value.
type EntryInput struct {
	Name          string
	Type          string
	Currency      string
	Category      string
	Ticker        string
	Amount        decimal.Decimal
	PurchasePrice decimal.Decimal
	CurrentPrice  decimal.Decimal
	Quantity      decimal.Decimal
}

// BuildCandidate turns user input into an asset ready for Add
// Book value rules:
//   - cash, loan: the entered amount
//   - real_estate: the current price (KRW only)
//   - stock, crypto: purchase price × quantity
//
// USD figures are multiplied by fxRate and the result is rounded to whole KRW.
func BuildCandidate(in EntryInput, fxRate decimal.Decimal) (domain.Asset, error) {
	assetType, err := domain.ParseAssetType(in.Type)
	if err != nil {
		return domain.Asset{}, err
	}
	currency, err := domain.ParseCurrency(in.Currency)
	if err != nil {
		return domain.Asset{}, err
	}
	if currency == domain.CurrencyUSD && !fxRate.IsPositive() {
		return domain.Asset{}, fmt.Errorf("%w: fx rate must be positive for USD entries", domain.ErrInvalidRequest)
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = defaultCategory
	}

	asset := domain.Asset{
		Name:     strings.TrimSpace(in.Name),
		Type:     assetType,
		Currency: currency,
		Category: category,
	}

	toHome := func(v decimal.Decimal) decimal.Decimal {
		if currency == domain.CurrencyUSD {
			return v.Mul(fxRate)
		}
		return v
	}

	switch assetType {
	case domain.AssetTypeCash, domain.AssetTypeLoan:
		asset.Amount = toHome(in.Amount)

	case domain.AssetTypeRealEstate:
		if currency != domain.HomeCurrency {
			return domain.Asset{}, fmt.Errorf("%w: real estate is tracked in %s only", domain.ErrInvalidRequest, domain.HomeCurrency)
		}
		asset.PurchasePrice = in.PurchasePrice
		asset.CurrentPrice = in.CurrentPrice
		asset.Amount = in.CurrentPrice

	case domain.AssetTypeStock, domain.AssetTypeCrypto:
		asset.Ticker = domain.NormalizeTicker(in.Ticker)
		asset.PurchasePrice = in.PurchasePrice
		asset.Quantity = in.Quantity
		asset.Amount = toHome(in.PurchasePrice.Mul(in.Quantity))
	}

	asset.Amount = asset.Amount.Round(0)

	if err := asset.Validate(); err != nil {
		return domain.Asset{}, err
	}
	return asset, nil
}
