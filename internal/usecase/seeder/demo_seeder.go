package seeder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gonsam85/assets/internal/domain"
)

// Fixed UUIDs for the demonstration records
var (
	DEMO_SALARY  = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	DEMO_BITCOIN = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	DEMO_APPLE   = uuid.MustParse("00000000-0000-0000-0000-000000000003")
)

// DemoAsset defines one record of the demonstration set
type DemoAsset struct {
	ID       uuid.UUID
	Name     string
	Type     domain.AssetType
	Amount   int64
	Category string
}

// DemoAssets is the set written on first run, in display order
var DemoAssets = []DemoAsset{
	{ID: DEMO_SALARY, Name: "Salary", Type: domain.AssetTypeCash, Amount: 3_500_000, Category: "Income"},
	{ID: DEMO_BITCOIN, Name: "Bitcoin", Type: domain.AssetTypeCrypto, Amount: 5_500_000, Category: "Invest"},
	{ID: DEMO_APPLE, Name: "Apple Stock", Type: domain.AssetTypeStock, Amount: 1_200_000, Category: "Invest"},
}

// DemoSeeder writes the demonstration set into an empty store
type DemoSeeder struct {
	store domain.AssetStore
	log   zerolog.Logger
	now   func() time.Time
}

// NewDemoSeeder creates a new DemoSeeder instance
func NewDemoSeeder(store domain.AssetStore, log zerolog.Logger) *DemoSeeder {
	return &DemoSeeder{
		store: store,
		log:   log.With().Str("service", "seeder").Logger(),
		now:   time.Now,
	}
}

// Seed stores the demonstration set when nothing was ever saved
// A store holding any collection, even an empty one, is left untouched.
// Returns true when the set was written.
func (s *DemoSeeder) Seed(ctx context.Context) (bool, error) {
	_, err := s.store.LoadAssets(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotStored) {
		return false, fmt.Errorf("failed to check stored assets: %w", err)
	}

	now := s.now()
	assets := make([]domain.Asset, 0, len(DemoAssets))
	for _, demo := range DemoAssets {
		asset := domain.Asset{
			ID:       demo.ID,
			Name:     demo.Name,
			Type:     demo.Type,
			Amount:   decimal.NewFromInt(demo.Amount),
			Currency: domain.HomeCurrency,
			Category: demo.Category,
			Date:     now,
		}

		// Validate before saving
		if err := asset.Validate(); err != nil {
			return false, err
		}
		assets = append(assets, asset)
	}

	if err := s.store.SaveAssets(ctx, assets); err != nil {
		return false, fmt.Errorf("failed to save demo assets: %w", err)
	}

	s.log.Info().Msgf("Seeded %d demo assets", len(assets))
	return true, nil
}
