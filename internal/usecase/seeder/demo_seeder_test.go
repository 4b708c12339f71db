package seeder

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gonsam85/assets/internal/domain"
)

// MockAssetStore is a mock implementation of AssetStore
type MockAssetStore struct {
	mock.Mock
}

func (m *MockAssetStore) LoadAssets(ctx context.Context) ([]domain.Asset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Asset), args.Error(1)
}

func (m *MockAssetStore) SaveAssets(ctx context.Context, assets []domain.Asset) error {
	args := m.Called(ctx, assets)
	return args.Error(0)
}

func TestDemoSeeder_Seed_NothingStored(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockAssetStore)
	seeder := NewDemoSeeder(mockStore, zerolog.Nop())

	// Mock LoadAssets to report a first run
	mockStore.On("LoadAssets", ctx).Return(nil, domain.ErrNotStored)

	// Mock SaveAssets to succeed for the demonstration set
	mockStore.On("SaveAssets", ctx, mock.MatchedBy(func(assets []domain.Asset) bool {
		return len(assets) == 3 &&
			assets[0].ID == DEMO_SALARY &&
			assets[0].Name == "Salary" &&
			assets[0].Type == domain.AssetTypeCash &&
			assets[0].Amount.Equal(decimal.NewFromInt(3_500_000)) &&
			assets[1].ID == DEMO_BITCOIN &&
			assets[1].Type == domain.AssetTypeCrypto &&
			assets[1].Amount.Equal(decimal.NewFromInt(5_500_000)) &&
			assets[2].ID == DEMO_APPLE &&
			assets[2].Type == domain.AssetTypeStock &&
			assets[2].Amount.Equal(decimal.NewFromInt(1_200_000))
	})).Return(nil)

	// Execute
	seeded, err := seeder.Seed(ctx)

	// Assert
	assert.NoError(t, err)
	assert.True(t, seeded)
	mockStore.AssertExpectations(t)
	mockStore.AssertNumberOfCalls(t, "SaveAssets", 1)
}

func TestDemoSeeder_Seed_AlreadyStored(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockAssetStore)
	seeder := NewDemoSeeder(mockStore, zerolog.Nop())

	// An emptied collection is still a stored one
	mockStore.On("LoadAssets", ctx).Return([]domain.Asset{}, nil)

	// Execute
	seeded, err := seeder.Seed(ctx)

	// Assert
	assert.NoError(t, err)
	assert.False(t, seeded)
	mockStore.AssertNotCalled(t, "SaveAssets")
}

func TestDemoSeeder_Seed_LoadFails(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockAssetStore)
	seeder := NewDemoSeeder(mockStore, zerolog.Nop())

	mockStore.On("LoadAssets", ctx).Return(nil, errors.New("connection refused"))

	// Execute
	seeded, err := seeder.Seed(ctx)

	// Assert
	assert.Error(t, err)
	assert.False(t, seeded)
	mockStore.AssertNotCalled(t, "SaveAssets")
}

func TestDemoSeeder_Seed_SaveFails(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockAssetStore)
	seeder := NewDemoSeeder(mockStore, zerolog.Nop())

	mockStore.On("LoadAssets", ctx).Return(nil, domain.ErrNotStored)
	mockStore.On("SaveAssets", ctx, mock.Anything).Return(errors.New("read-only file system"))

	// Execute
	seeded, err := seeder.Seed(ctx)

	// Assert
	assert.ErrorContains(t, err, "read-only file system")
	assert.False(t, seeded)
}
