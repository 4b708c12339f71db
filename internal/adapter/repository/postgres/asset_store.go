package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gonsam85/assets/internal/domain"
)

// assetStore implements domain.AssetStore
type assetStore struct {
	db  *DB
	key string
}

// NewAssetStore creates a new asset store for one collection key
func NewAssetStore(db *DB, key string) domain.AssetStore {
	return &assetStore{db: db, key: key}
}

// LoadAssets retrieves the collection in its saved order
func (s *assetStore) LoadAssets(ctx context.Context) ([]domain.Asset, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM asset_collections WHERE store_key = $1)`, s.key,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check asset collection: %w", err)
	}
	if !exists {
		return nil, domain.ErrNotStored
	}

	query := `
		SELECT id, name, amount, type, date, category, currency,
		       purchase_price, current_price, quantity, ticker
		FROM assets
		WHERE store_key = $1
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, query, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	assets := []domain.Asset{}
	for rows.Next() {
		var a domain.Asset
		var assetType, currency string
		var amountStr, purchaseStr, currentStr, quantityStr string

		if err := rows.Scan(
			&a.ID,
			&a.Name,
			&amountStr,
			&assetType,
			&a.Date,
			&a.Category,
			&currency,
			&purchaseStr,
			&currentStr,
			&quantityStr,
			&a.Ticker,
		); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}

		a.Type = domain.AssetType(assetType)
		a.Currency = domain.Currency(currency)

		// Parse NUMERIC columns
		for _, col := range []struct {
			name string
			raw  string
			dst  *decimal.Decimal
		}{
			{"amount", amountStr, &a.Amount},
			{"purchase_price", purchaseStr, &a.PurchasePrice},
			{"current_price", currentStr, &a.CurrentPrice},
			{"quantity", quantityStr, &a.Quantity},
		} {
			v, err := decimal.NewFromString(col.raw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", col.name, err)
			}
			*col.dst = v
		}

		assets = append(assets, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}

	return assets, nil
}

// SaveAssets replaces the collection inside one database transaction
func (s *assetStore) SaveAssets(ctx context.Context, assets []domain.Asset) error {
	// Start a database transaction
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	_, err = dbTx.ExecContext(ctx, `
		INSERT INTO asset_collections (store_key, saved_at) VALUES ($1, now())
		ON CONFLICT (store_key) DO UPDATE SET saved_at = EXCLUDED.saved_at
	`, s.key)
	if err != nil {
		return fmt.Errorf("failed to mark asset collection: %w", err)
	}

	if _, err = dbTx.ExecContext(ctx, `DELETE FROM assets WHERE store_key = $1`, s.key); err != nil {
		return fmt.Errorf("failed to clear assets: %w", err)
	}

	insertQuery := `
		INSERT INTO assets (store_key, position, id, name, amount, type, date, category, currency,
		                    purchase_price, current_price, quantity, ticker)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	for i, a := range assets {
		_, err = dbTx.ExecContext(ctx, insertQuery,
			s.key,
			i,
			a.ID,
			a.Name,
			a.Amount.String(),
			string(a.Type),
			a.Date,
			a.Category,
			string(a.Currency),
			a.PurchasePrice.String(),
			a.CurrentPrice.String(),
			a.Quantity.String(),
			a.Ticker,
		)
		if err != nil {
			return fmt.Errorf("failed to insert asset %s: %w", a.ID, err)
		}
	}

	// Commit the transaction
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
