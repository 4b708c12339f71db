package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonsam85/assets/internal/domain"
)

func TestStore_NothingStored(t *testing.T) {
	store, err := NewStore(t.TempDir(), "my_wealth")
	require.NoError(t, err)

	_, err = store.LoadAssets(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotStored)

	_, err = store.LoadSettings(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotStored)
}

func TestStore_AssetsRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewStore(dir, "my_wealth")
	require.NoError(t, err)

	date := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	assets := []domain.Asset{
		{
			ID:            uuid.New(),
			Name:          "Apple",
			Amount:        decimal.RequireFromString("632100"),
			Type:          domain.AssetTypeStock,
			Date:          date,
			Category:      "Invest",
			Currency:      domain.CurrencyUSD,
			PurchasePrice: decimal.RequireFromString("150.5"),
			Quantity:      decimal.RequireFromString("3"),
			Ticker:        "AAPL",
		},
		{
			ID:            uuid.New(),
			Name:          "Flat",
			Amount:        decimal.RequireFromString("520000000"),
			Type:          domain.AssetTypeRealEstate,
			Date:          date,
			Currency:      domain.CurrencyKRW,
			PurchasePrice: decimal.RequireFromString("400000000"),
			CurrentPrice:  decimal.RequireFromString("520000000"),
		},
		{
			ID:     uuid.New(),
			Name:   "Salary",
			Amount: decimal.RequireFromString("3500000"),
			Type:   domain.AssetTypeCash,
			Date:   date,
		},
	}

	require.NoError(t, store.SaveAssets(ctx, assets))
	assert.FileExists(t, filepath.Join(dir, "my_wealth_assets.json"))

	reopened, err := NewStore(dir, "my_wealth")
	require.NoError(t, err)
	loaded, err := reopened.LoadAssets(ctx)
	require.NoError(t, err)

	require.Len(t, loaded, len(assets))
	for i := range assets {
		assert.Equal(t, assets[i].ID, loaded[i].ID)
		assert.Equal(t, assets[i].Name, loaded[i].Name)
		assert.Equal(t, assets[i].Type, loaded[i].Type)
		assert.Equal(t, assets[i].Category, loaded[i].Category)
		assert.Equal(t, assets[i].Currency, loaded[i].Currency)
		assert.Equal(t, assets[i].Ticker, loaded[i].Ticker)
		assert.True(t, assets[i].Date.Equal(loaded[i].Date))
		assert.True(t, assets[i].Amount.Equal(loaded[i].Amount))
		assert.True(t, assets[i].PurchasePrice.Equal(loaded[i].PurchasePrice))
		assert.True(t, assets[i].CurrentPrice.Equal(loaded[i].CurrentPrice))
		assert.True(t, assets[i].Quantity.Equal(loaded[i].Quantity))
	}
}

func TestStore_EmptyCollectionIsStored(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(t.TempDir(), "my_wealth")
	require.NoError(t, err)

	require.NoError(t, store.SaveAssets(ctx, nil))

	loaded, err := store.LoadAssets(ctx)
	require.NoError(t, err)
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestStore_SettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewStore(dir, "my_wealth")
	require.NoError(t, err)

	settings := domain.Settings{Nickname: "Minji", GoalAmount: decimal.NewFromInt(300_000_000)}
	require.NoError(t, store.SaveSettings(ctx, settings))

	data, err := os.ReadFile(filepath.Join(dir, "my_wealth_settings.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"fireGoal"`)

	loaded, err := store.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Minji", loaded.Nickname)
	assert.True(t, settings.GoalAmount.Equal(loaded.GoalAmount))
}

func TestStore_ReadsPersistedShape(t *testing.T) {
	dir := t.TempDir()
	doc := `[{"id":"00000000-0000-0000-0000-000000000001","name":"Salary","amount":3500000,"type":"cash","date":"2025-01-02T03:04:05.000Z","category":"Income"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "my_wealth_assets.json"), []byte(doc), 0o644))

	store, err := NewStore(dir, "my_wealth")
	require.NoError(t, err)

	loaded, err := store.LoadAssets(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Salary", loaded[0].Name)
	assert.True(t, decimal.NewFromInt(3_500_000).Equal(loaded[0].Amount))
}

func TestStore_CorruptDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "my_wealth_assets.json"), []byte("{not json"), 0o644))

	store, err := NewStore(dir, "my_wealth")
	require.NoError(t, err)

	_, err = store.LoadAssets(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotStored)
}

func TestNewStore_EmptyKey(t *testing.T) {
	_, err := NewStore(t.TempDir(), "")
	assert.Error(t, err)
}
