package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gonsam85/assets/internal/domain"
)

// settingsStore implements domain.SettingsStore
type settingsStore struct {
	db  *DB
	key string
}

// NewSettingsStore creates a new settings store for one key
func NewSettingsStore(db *DB, key string) domain.SettingsStore {
	return &settingsStore{db: db, key: key}
}

// LoadSettings retrieves the stored settings
func (s *settingsStore) LoadSettings(ctx context.Context) (domain.Settings, error) {
	var settings domain.Settings
	var goalStr string

	err := s.db.QueryRowContext(ctx,
		`SELECT nickname, goal_amount FROM user_settings WHERE store_key = $1`, s.key,
	).Scan(&settings.Nickname, &goalStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Settings{}, domain.ErrNotStored
		}
		return domain.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}

	// Parse goal_amount (NUMERIC)
	goal, err := decimal.NewFromString(goalStr)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("failed to parse goal_amount: %w", err)
	}
	settings.GoalAmount = goal

	return settings, nil
}

// SaveSettings upserts the settings row
func (s *settingsStore) SaveSettings(ctx context.Context, settings domain.Settings) error {
	query := `
		INSERT INTO user_settings (store_key, nickname, goal_amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (store_key) DO UPDATE
		SET nickname = EXCLUDED.nickname, goal_amount = EXCLUDED.goal_amount
	`

	_, err := s.db.ExecContext(ctx, query, s.key, settings.Nickname, settings.GoalAmount.String())
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}
