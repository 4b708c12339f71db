package postgres

// asset_collections marks a store key whose asset list was saved at least once,
// so an emptied list is told apart from a first run.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS asset_collections (
		store_key TEXT PRIMARY KEY,
		saved_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS assets (
		store_key      TEXT NOT NULL REFERENCES asset_collections (store_key) ON DELETE CASCADE,
		position       INTEGER NOT NULL,
		id             UUID NOT NULL,
		name           TEXT NOT NULL,
		amount         NUMERIC NOT NULL,
		type           TEXT NOT NULL,
		date           TIMESTAMPTZ NOT NULL,
		category       TEXT NOT NULL DEFAULT '',
		currency       TEXT NOT NULL DEFAULT '',
		purchase_price NUMERIC NOT NULL DEFAULT 0,
		current_price  NUMERIC NOT NULL DEFAULT 0,
		quantity       NUMERIC NOT NULL DEFAULT 0,
		ticker         TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (store_key, id)
	)`,
	`CREATE TABLE IF NOT EXISTS user_settings (
		store_key   TEXT PRIMARY KEY,
		nickname    TEXT NOT NULL,
		goal_amount NUMERIC NOT NULL
	)`,
}
