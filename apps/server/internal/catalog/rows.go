package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"gift-village/gift"
	"gift-village/village"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func nullPrice(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func priceFromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return gift.USD(v.Float64)
}

func encodePreferences(p village.Preferences) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode preferences: %w", err)
	}
	return string(raw), nil
}

func decodePreferences(raw string) (village.Preferences, error) {
	var p village.Preferences
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return village.Preferences{}, fmt.Errorf("decode preferences: %w", err)
	}
	return p, nil
}

func encodeQuest(q *village.Quest) (sql.NullString, error) {
	if q == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(q)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode quest: %w", err)
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func decodeQuest(raw sql.NullString) (*village.Quest, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var q village.Quest
	if err := json.Unmarshal([]byte(raw.String), &q); err != nil {
		return nil, fmt.Errorf("decode quest: %w", err)
	}
	return &q, nil
}

func scanShop(row rowScanner) (gift.Shop, error) {
	var (
		shop     gift.Shop
		district string
		id       string
	)
	if err := row.Scan(&id, &shop.Name, &district,
		&shop.Building.X, &shop.Building.Y, &shop.Building.Width, &shop.Building.Height); err != nil {
		return gift.Shop{}, err
	}
	shop.ID = gift.ShopID(id)
	shop.District = gift.District(district)
	return shop, nil
}

// scanCharacter reads (id, name, x, y, image, size, preferences, quest).
func scanCharacter(row rowScanner) (village.Character, error) {
	var (
		c           village.Character
		preferences string
		quest       sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Position.X, &c.Position.Y, &c.Image, &c.Size, &preferences, &quest); err != nil {
		return village.Character{}, err
	}
	var err error
	if c.Preferences, err = decodePreferences(preferences); err != nil {
		return village.Character{}, err
	}
	if c.Quest, err = decodeQuest(quest); err != nil {
		return village.Character{}, err
	}
	return c, nil
}
