package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"gift-village/gift"
	"gift-village/village"
)

const defaultLocalDBName = "village_catalog.db"

type SQLiteService struct {
	db *sql.DB
}

func NewSQLiteService(dbPath string) (*SQLiteService, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteCatalogSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteService{db: db}, nil
}

func (s *SQLiteService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteService) ListShops(ctx context.Context) ([]gift.Shop, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, district, x, y, width, height
FROM shops
ORDER BY position ASC, id ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]gift.Shop, 0, 8)
	for rows.Next() {
		shop, err := scanShop(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, shop)
	}
	return out, rows.Err()
}

func (s *SQLiteService) ListGifts(ctx context.Context) ([]gift.Gift, error) {
	return s.queryGifts(ctx, `
SELECT id, title, shop_id, url, price_usd, tags, notes
FROM gifts
ORDER BY position ASC, id ASC
`)
}

func (s *SQLiteService) ListGiftsByShop(ctx context.Context, shopID gift.ShopID) ([]gift.Gift, error) {
	return s.queryGifts(ctx, `
SELECT id, title, shop_id, url, price_usd, tags, notes
FROM gifts
WHERE shop_id = ?
ORDER BY position ASC, id ASC
`, string(shopID))
}

func (s *SQLiteService) GetGift(ctx context.Context, id string) (gift.Gift, error) {
	g, err := scanSQLiteGift(s.db.QueryRowContext(ctx, `
SELECT id, title, shop_id, url, price_usd, tags, notes
FROM gifts
WHERE id = ?
`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return gift.Gift{}, ErrNotFound
		}
		return gift.Gift{}, err
	}
	return g, nil
}

func (s *SQLiteService) ListCharacters(ctx context.Context) ([]village.Character, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, x, y, image, size, preferences, quest
FROM characters
ORDER BY position ASC, id ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]village.Character, 0, 8)
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteService) GetCharacter(ctx context.Context, id string) (village.Character, error) {
	c, err := scanCharacter(s.db.QueryRowContext(ctx, `
SELECT id, name, x, y, image, size, preferences, quest
FROM characters
WHERE id = ?
`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return village.Character{}, ErrNotFound
		}
		return village.Character{}, err
	}
	return c, nil
}

func (s *SQLiteService) UpsertGift(ctx context.Context, g gift.Gift) error {
	if err := validateGift(g); err != nil {
		return err
	}
	tags, err := encodeSQLiteTags(g.Tags)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var shopExists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM shops WHERE id = ?)`, string(g.ShopID)).Scan(&shopExists); err != nil {
		return err
	}
	if !shopExists {
		return unknownShopError(g.ShopID)
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO gifts (id, title, shop_id, url, price_usd, tags, notes, position)
VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM gifts))
ON CONFLICT(id) DO UPDATE SET
    title = excluded.title,
    shop_id = excluded.shop_id,
    url = excluded.url,
    price_usd = excluded.price_usd,
    tags = excluded.tags,
    notes = excluded.notes
`, g.ID, g.Title, string(g.ShopID), g.URL, nullPrice(g.PriceUSD), tags, g.Notes); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteService) Import(ctx context.Context, seed *village.Seed) error {
	if seed == nil {
		return village.ErrInvalidSeed("nil seed")
	}
	if err := seed.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM characters`, `DELETE FROM gifts`, `DELETE FROM shops`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	for i, shop := range seed.Shops {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO shops (id, name, district, x, y, width, height, position)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, string(shop.ID), shop.Name, string(shop.District),
			shop.Building.X, shop.Building.Y, shop.Building.Width, shop.Building.Height, i); err != nil {
			return fmt.Errorf("insert shop %q: %w", shop.ID, err)
		}
	}
	for i, g := range seed.Gifts {
		tags, err := encodeSQLiteTags(g.Tags)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO gifts (id, title, shop_id, url, price_usd, tags, notes, position)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, g.ID, g.Title, string(g.ShopID), g.URL, nullPrice(g.PriceUSD), tags, g.Notes, i); err != nil {
			return fmt.Errorf("insert gift %q: %w", g.ID, err)
		}
	}
	for i, c := range seed.Characters {
		preferences, err := encodePreferences(c.Preferences)
		if err != nil {
			return err
		}
		quest, err := encodeQuest(c.Quest)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO characters (id, name, x, y, image, size, preferences, quest, position)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, c.ID, c.Name, c.Position.X, c.Position.Y, c.Image, c.Size, preferences, quest, i); err != nil {
			return fmt.Errorf("insert character %q: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteService) queryGifts(ctx context.Context, query string, args ...any) ([]gift.Gift, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]gift.Gift, 0, 16)
	for rows.Next() {
		g, err := scanSQLiteGift(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func scanSQLiteGift(row rowScanner) (gift.Gift, error) {
	var (
		g      gift.Gift
		shopID string
		price  sql.NullFloat64
		tags   string
	)
	if err := row.Scan(&g.ID, &g.Title, &shopID, &g.URL, &price, &tags, &g.Notes); err != nil {
		return gift.Gift{}, err
	}
	g.ShopID = gift.ShopID(shopID)
	g.PriceUSD = priceFromNull(price)
	if err := json.Unmarshal([]byte(tags), &g.Tags); err != nil {
		return gift.Gift{}, fmt.Errorf("decode tags of gift %q: %w", g.ID, err)
	}
	return g, nil
}

func encodeSQLiteTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(raw), nil
}

func ensureSQLiteCatalogSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS shops (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    district TEXT NOT NULL DEFAULT '',
    x REAL NOT NULL DEFAULT 0,
    y REAL NOT NULL DEFAULT 0,
    width REAL NOT NULL DEFAULT 0,
    height REAL NOT NULL DEFAULT 0,
    position INTEGER NOT NULL
)`,
		`
CREATE TABLE IF NOT EXISTS gifts (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    shop_id TEXT NOT NULL,
    url TEXT NOT NULL DEFAULT '',
    price_usd REAL,
    tags TEXT NOT NULL DEFAULT '[]',
    notes TEXT NOT NULL DEFAULT '',
    position INTEGER NOT NULL,
    FOREIGN KEY(shop_id) REFERENCES shops(id) ON DELETE CASCADE
)`,
		`CREATE INDEX IF NOT EXISTS idx_gifts_shop ON gifts(shop_id, position)`,
		`
CREATE TABLE IF NOT EXISTS characters (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    x REAL NOT NULL DEFAULT 0,
    y REAL NOT NULL DEFAULT 0,
    image TEXT NOT NULL DEFAULT '',
    size INTEGER NOT NULL DEFAULT 0,
    preferences TEXT NOT NULL,
    quest TEXT,
    position INTEGER NOT NULL
)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func catalogLocalDatabasePath(configured string) (string, error) {
	if configured = strings.TrimSpace(configured); configured != "" {
		return filepath.Clean(configured), nil
	}
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "GiftVillage", defaultLocalDBName), nil
}
