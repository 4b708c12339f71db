package portfolio

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gonsam85/assets/internal/domain"
)

// AddResult reports the record produced by Add
// Merged is true when the candidate was folded into an existing record.
type AddResult struct {
	Asset  domain.Asset
	Merged bool
}

// PortfolioService holds the ordered asset collection (most recent first)
// Every mutation is written through to the store before it becomes visible.
type PortfolioService struct {
	Store domain.AssetStore

	log    zerolog.Logger
	mu     sync.RWMutex
	assets []domain.Asset

	now   func() time.Time
	newID func() uuid.UUID
}

// NewPortfolioService creates a new PortfolioService instance with an empty collection
func NewPortfolioService(store domain.AssetStore, log zerolog.Logger) *PortfolioService {
	return &PortfolioService{
		Store:  store,
		log:    log.With().Str("service", "portfolio").Logger(),
		assets: []domain.Asset{},
		now:    time.Now,
		newID:  uuid.New,
	}
}

// Load replaces the in-memory collection with the stored one
// A store that was never written to yields an empty collection.
func (s *PortfolioService) Load(ctx context.Context) error {
	assets, err := s.Store.LoadAssets(ctx)
	if errors.Is(err, domain.ErrNotStored) {
		assets = []domain.Asset{}
	} else if err != nil {
		return fmt.Errorf("failed to load assets: %w", err)
	}

	s.mu.Lock()
	s.assets = assets
	s.mu.Unlock()

	s.log.Debug().Msgf("Loaded %d assets", len(assets))
	return nil
}

// Add inserts a candidate, merging it into a matching record when one exists
// Logic:
//   - cash: same name → amount accumulates, date is touched, other fields kept
//   - stock/crypto with a ticker: same type and ticker → quantities add up,
//     purchase price becomes the quantity-weighted average (0 when the total
//     quantity is 0), amount accumulates, date is touched
//   - anything else (real_estate and loan always): new record with a fresh
//     ID and timestamp, prepended
func (s *PortfolioService) Add(ctx context.Context, candidate domain.Asset) (*AddResult, error) {
	if err := candidate.Validate(); err != nil {
		return nil, err
	}
	if candidate.Currency == "" {
		candidate.Currency = domain.HomeCurrency
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	next := slices.Clone(s.assets)

	var result AddResult
	if i := mergeTarget(next, candidate); i >= 0 {
		next[i] = merge(next[i], candidate, now)
		result = AddResult{Asset: next[i], Merged: true}
	} else {
		candidate.ID = s.newID()
		candidate.Date = now
		next = append([]domain.Asset{candidate}, next...)
		result = AddResult{Asset: candidate}
	}

	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}
	return &result, nil
}

// Update replaces the record with the same ID wholesale
// The type of a record cannot change, and the record cannot take over the
// merge key (cash name, or type and ticker) of another record.
func (s *PortfolioService) Update(ctx context.Context, asset domain.Asset) error {
	if err := asset.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(asset.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrAssetNotFound, asset.ID)
	}
	if s.assets[i].Type != asset.Type {
		return fmt.Errorf("%w: asset type cannot change from %s to %s", domain.ErrInvalidRequest, s.assets[i].Type, asset.Type)
	}

	if asset.Type == domain.AssetTypeRealEstate && asset.Currency != "" && asset.Currency != domain.HomeCurrency {
		return fmt.Errorf("%w: real estate is tracked in %s only", domain.ErrInvalidRequest, domain.HomeCurrency)
	}

	// One record per merge key
	others := slices.Delete(slices.Clone(s.assets), i, i+1)
	if j := mergeTarget(others, asset); j >= 0 {
		return fmt.Errorf("%w: %q already exists as %s", domain.ErrInvalidRequest, asset.Name, others[j].ID)
	}

	next := slices.Clone(s.assets)
	next[i] = asset
	return s.persist(ctx, next)
}

// Remove deletes the record with the given ID
func (s *PortfolioService) Remove(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrAssetNotFound, id)
	}

	next := slices.Delete(slices.Clone(s.assets), i, i+1)
	return s.persist(ctx, next)
}

// Get returns the record with the given ID
func (s *PortfolioService) Get(id uuid.UUID) (domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Asset{}, fmt.Errorf("%w: %s", domain.ErrAssetNotFound, id)
	}
	return s.assets[i], nil
}

// Assets returns a copy of the ordered collection
func (s *PortfolioService) Assets() []domain.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.assets)
}

// ByType returns the records of one type in collection order
func (s *PortfolioService) ByType(t domain.AssetType) []domain.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Asset{}
	for _, a := range s.assets {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

// NetWorth is the book net worth: every amount added, loans subtracted
func (s *PortfolioService) NetWorth() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, a := range s.assets {
		if a.IsLiability() {
			total = total.Sub(a.Amount)
		} else {
			total = total.Add(a.Amount)
		}
	}
	return total
}

// persist writes next to the store and publishes it. Callers hold the write lock.
func (s *PortfolioService) persist(ctx context.Context, next []domain.Asset) error {
	if err := s.Store.SaveAssets(ctx, next); err != nil {
		return fmt.Errorf("failed to save assets: %w", err)
	}
	s.assets = next
	return nil
}

func (s *PortfolioService) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(s.assets, func(a domain.Asset) bool { return a.ID == id })
}

// mergeTarget returns the index of the record the candidate merges into, or -1
func mergeTarget(assets []domain.Asset, candidate domain.Asset) int {
	switch {
	case candidate.Type == domain.AssetTypeCash:
		return slices.IndexFunc(assets, func(a domain.Asset) bool {
			return a.Type == domain.AssetTypeCash && a.Name == candidate.Name
		})
	case candidate.HasTicker():
		ticker := domain.NormalizeTicker(candidate.Ticker)
		return slices.IndexFunc(assets, func(a domain.Asset) bool {
			return a.Type == candidate.Type && domain.NormalizeTicker(a.Ticker) == ticker
		})
	}
	return -1
}

func merge(existing, candidate domain.Asset, now time.Time) domain.Asset {
	merged := existing
	merged.Amount = existing.Amount.Add(candidate.Amount)
	merged.Date = now

	if candidate.Type == domain.AssetTypeCash {
		return merged
	}

	quantity := existing.Quantity.Add(candidate.Quantity)
	merged.Quantity = quantity
	if quantity.IsPositive() {
		cost := existing.PurchasePrice.Mul(existing.Quantity).
			Add(candidate.PurchasePrice.Mul(candidate.Quantity))
		merged.PurchasePrice = cost.Div(quantity)
	} else {
		merged.PurchasePrice = decimal.Zero
	}
	return merged
}
