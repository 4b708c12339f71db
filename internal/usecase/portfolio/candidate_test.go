package portfolio

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonsam85/assets/internal/domain"
)

func TestBuildCandidate(t *testing.T) {
	fx := dec("1400")

	tests := []struct {
		name       string
		input      EntryInput
		wantAmount string
		wantTicker string
		wantErr    error
	}{
		{
			name:       "cash in KRW",
			input:      EntryInput{Name: "Salary", Type: "cash", Amount: dec("3500000")},
			wantAmount: "3500000",
		},
		{
			name:       "cash in USD converted and rounded",
			input:      EntryInput{Name: "Dollars", Type: "cash", Currency: "usd", Amount: dec("10.005")},
			wantAmount: "14007",
		},
		{
			name:       "loan in USD",
			input:      EntryInput{Name: "Card", Type: "loan", Currency: "USD", Amount: dec("100")},
			wantAmount: "140000",
		},
		{
			name:       "real estate takes the current price",
			input:      EntryInput{Name: "Flat", Type: "real_estate", PurchasePrice: dec("400000000"), CurrentPrice: dec("520000000"), Amount: dec("1")},
			wantAmount: "520000000",
		},
		{
			name:       "stock in USD",
			input:      EntryInput{Name: "Apple", Type: "stock", Currency: "USD", Ticker: " aapl ", PurchasePrice: dec("150.5"), Quantity: dec("3")},
			wantAmount: "632100",
			wantTicker: "AAPL",
		},
		{
			name:       "crypto in KRW",
			input:      EntryInput{Name: "Bitcoin", Type: "crypto", Ticker: "BTC-KRW", PurchasePrice: dec("90000000"), Quantity: dec("0.05")},
			wantAmount: "4500000",
			wantTicker: "BTC-KRW",
		},
		{
			name:    "real estate in USD",
			input:   EntryInput{Name: "Condo", Type: "real_estate", Currency: "USD", CurrentPrice: dec("1")},
			wantErr: domain.ErrInvalidRequest,
		},
		{
			name:    "unknown type",
			input:   EntryInput{Name: "Gold", Type: "metal", Amount: dec("1")},
			wantErr: domain.ErrInvalidRequest,
		},
		{
			name:    "missing name",
			input:   EntryInput{Type: "cash", Amount: dec("1")},
			wantErr: domain.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asset, err := BuildCandidate(tt.input, fx)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.True(t, dec(tt.wantAmount).Equal(asset.Amount), "amount %s", asset.Amount)
			assert.Equal(t, tt.wantTicker, asset.Ticker)
			assert.Equal(t, "General", asset.Category)
		})
	}
}

func TestBuildCandidate_USDNeedsRate(t *testing.T) {
	_, err := BuildCandidate(EntryInput{Name: "Dollars", Type: "cash", Currency: "USD", Amount: dec("1")}, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestBuildCandidate_KeepsCategoryAndCurrency(t *testing.T) {
	asset, err := BuildCandidate(EntryInput{Name: "Apple", Type: "stock", Currency: "USD", Category: "Invest", Ticker: "AAPL", PurchasePrice: dec("1"), Quantity: dec("1")}, dec("1300"))

	require.NoError(t, err)
	assert.Equal(t, "Invest", asset.Category)
	assert.Equal(t, domain.CurrencyUSD, asset.Currency)
	assert.Equal(t, domain.AssetTypeStock, asset.Type)
}
