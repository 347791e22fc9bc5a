package catalog

import (
	"context"
	"errors"
	"fmt"

	"gift-village/gift"
	"gift-village/village"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidGift = errors.New("invalid gift")
)

// Service is the read-mostly store of shops, gifts and characters that
// every village session is built from.
type Service interface {
	ListShops(ctx context.Context) ([]gift.Shop, error)
	ListGifts(ctx context.Context) ([]gift.Gift, error)
	ListGiftsByShop(ctx context.Context, shopID gift.ShopID) ([]gift.Gift, error)
	GetGift(ctx context.Context, id string) (gift.Gift, error)
	ListCharacters(ctx context.Context) ([]village.Character, error)
	GetCharacter(ctx context.Context, id string) (village.Character, error)

	// UpsertGift inserts g or replaces the gift with the same id. A new gift
	// goes to the end of the catalog.
	UpsertGift(ctx context.Context, g gift.Gift) error
	// Import replaces the whole catalog with seed.
	Import(ctx context.Context, seed *village.Seed) error
	Close() error
}

// Snapshot reads the full catalog back as a seed.
func Snapshot(ctx context.Context, s Service) (*village.Seed, error) {
	shops, err := s.ListShops(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	gifts, err := s.ListGifts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list gifts: %w", err)
	}
	characters, err := s.ListCharacters(ctx)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	return &village.Seed{Shops: shops, Gifts: gifts, Characters: characters}, nil
}

func validateGift(g gift.Gift) error {
	if g.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidGift)
	}
	if g.Title == "" {
		return fmt.Errorf("%w: empty title", ErrInvalidGift)
	}
	if g.ShopID == "" {
		return fmt.Errorf("%w: empty shopId", ErrInvalidGift)
	}
	if price, ok := g.Price(); ok && price < 0 {
		return fmt.Errorf("%w: negative price", ErrInvalidGift)
	}
	return nil
}

func unknownShopError(id gift.ShopID) error {
	return fmt.Errorf("%w: unknown shop %q", ErrInvalidGift, id)
}
