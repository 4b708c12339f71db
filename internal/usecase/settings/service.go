package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/gonsam85/assets/internal/domain"
)

// SettingsService holds the display preferences
type SettingsService struct {
	Store domain.SettingsStore

	mu      sync.RWMutex
	current domain.Settings
}

// NewSettingsService creates a new SettingsService instance holding the defaults
func NewSettingsService(store domain.SettingsStore) *SettingsService {
	return &SettingsService{
		Store:   store,
		current: domain.DefaultSettings(),
	}
}

// Load reads the stored settings, keeping the defaults on first run
func (s *SettingsService) Load(ctx context.Context) error {
	stored, err := s.Store.LoadSettings(ctx)
	if errors.Is(err, domain.ErrNotStored) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	s.mu.Lock()
	s.current = stored
	s.mu.Unlock()
	return nil
}

// Current returns the settings in use
func (s *SettingsService) Current() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Save validates and stores new settings
// Logic: write through to the store first, then publish
func (s *SettingsService) Save(ctx context.Context, settings domain.Settings) error {
	settings.Nickname = strings.TrimSpace(settings.Nickname)
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Store.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.current = settings
	return nil
}

// Progress computes goal progress for the given live net worth
func (s *SettingsService) Progress(netWorth decimal.Decimal) domain.GoalProgress {
	return s.Current().Progress(netWorth)
}
