package catalog

import (
	"context"
	"sync"

	"gift-village/gift"
	"gift-village/village"
)

type MemoryService struct {
	mu         sync.RWMutex
	shops      []gift.Shop
	gifts      []gift.Gift
	characters []village.Character
}

func NewMemoryService() *MemoryService {
	return &MemoryService{}
}

func (m *MemoryService) Close() error { return nil }

func (m *MemoryService) ListShops(_ context.Context) ([]gift.Shop, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]gift.Shop{}, m.shops...), nil
}

func (m *MemoryService) ListGifts(_ context.Context) ([]gift.Gift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneGifts(m.gifts), nil
}

func (m *MemoryService) ListGiftsByShop(_ context.Context, shopID gift.ShopID) ([]gift.Gift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneGifts(gift.FilterByShop(m.gifts, shopID)), nil
}

func (m *MemoryService) GetGift(_ context.Context, id string) (gift.Gift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, g := range m.gifts {
		if g.ID == id {
			return g.Clone(), nil
		}
	}
	return gift.Gift{}, ErrNotFound
}

func (m *MemoryService) ListCharacters(_ context.Context) ([]village.Character, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]village.Character, 0, len(m.characters))
	for _, c := range m.characters {
		out = append(out, c.Clone())
	}
	return out, nil
}

func (m *MemoryService) GetCharacter(_ context.Context, id string) (village.Character, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.characters {
		if c.ID == id {
			return c.Clone(), nil
		}
	}
	return village.Character{}, ErrNotFound
}

func (m *MemoryService) UpsertGift(_ context.Context, g gift.Gift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := validateGift(g); err != nil {
		return err
	}
	if !m.hasShop(g.ShopID) {
		return unknownShopError(g.ShopID)
	}
	g = g.Clone()
	for i := range m.gifts {
		if m.gifts[i].ID == g.ID {
			m.gifts[i] = g
			return nil
		}
	}
	m.gifts = append(m.gifts, g)
	return nil
}

func (m *MemoryService) Import(_ context.Context, seed *village.Seed) error {
	if seed == nil {
		return village.ErrInvalidSeed("nil seed")
	}
	if err := seed.Validate(); err != nil {
		return err
	}
	s := seed.Clone()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shops = s.Shops
	m.gifts = s.Gifts
	m.characters = s.Characters
	return nil
}

func (m *MemoryService) hasShop(id gift.ShopID) bool {
	for _, shop := range m.shops {
		if shop.ID == id {
			return true
		}
	}
	return false
}

func cloneGifts(gifts []gift.Gift) []gift.Gift {
	out := make([]gift.Gift, 0, len(gifts))
	for _, g := range gifts {
		out = append(out, g.Clone())
	}
	return out
}
