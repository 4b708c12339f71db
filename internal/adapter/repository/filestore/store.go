package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/gonsam85/assets/internal/domain"
)

// Store keeps assets and settings as JSON documents in a directory
// File names derive from the store key: <key>_assets.json and <key>_settings.json.
type Store struct {
	dir          string
	assetsPath   string
	settingsPath string
	mu           sync.Mutex
}

// NewStore creates the directory if needed
func NewStore(dir, key string) (*Store, error) {
	if key == "" {
		return nil, errors.New("store key cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{
		dir:          dir,
		assetsPath:   filepath.Join(dir, key+"_assets.json"),
		settingsPath: filepath.Join(dir, key+"_settings.json"),
	}, nil
}

// LoadAssets reads the asset document
func (s *Store) LoadAssets(ctx context.Context) ([]domain.Asset, error) {
	var assets []domain.Asset
	if err := s.read(ctx, s.assetsPath, &assets); err != nil {
		return nil, err
	}
	if assets == nil {
		assets = []domain.Asset{}
	}
	return assets, nil
}

// SaveAssets replaces the asset document
func (s *Store) SaveAssets(ctx context.Context, assets []domain.Asset) error {
	if assets == nil {
		assets = []domain.Asset{}
	}
	return s.write(ctx, s.assetsPath, assets)
}

// LoadSettings reads the settings document
func (s *Store) LoadSettings(ctx context.Context) (domain.Settings, error) {
	var settings domain.Settings
	if err := s.read(ctx, s.settingsPath, &settings); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

// SaveSettings replaces the settings document
func (s *Store) SaveSettings(ctx context.Context, settings domain.Settings) error {
	return s.write(ctx, s.settingsPath, settings)
}

func (s *Store) read(ctx context.Context, path string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	data, err := os.ReadFile(path)
	s.mu.Unlock()

	if errors.Is(err, fs.ErrNotExist) {
		return domain.ErrNotStored
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// write replaces path atomically through a temporary file in the same directory
func (s *Store) write(ctx context.Context, path string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
