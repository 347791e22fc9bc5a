package village

import "gift-village/gift"

// Snapshot is a read-only copy of a World, safe to hand to another goroutine.
type Snapshot struct {
	Player            Vec2        `json:"player"`
	Mode              Mode        `json:"mode"`
	EnteredShopID     gift.ShopID `json:"enteredShopId,omitempty"`
	Bag               []BagItem   `json:"bag"`
	BagTotal          float64     `json:"bagTotal"`
	BagCount          int         `json:"bagCount"`
	Characters        []Character `json:"characters"`
	NearbyShopID      gift.ShopID `json:"nearbyShopId,omitempty"`
	NearbyCharacterID string      `json:"nearbyCharacterId,omitempty"`
}

func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Player:        w.player,
		Mode:          w.mode,
		EnteredShopID: w.enteredShop,
		Bag:           w.bag.Items(),
		BagTotal:      w.bag.Total(),
		BagCount:      w.bag.Count(),
		Characters:    make([]Character, 0, len(w.characters)),
	}
	for _, c := range w.characters {
		s.Characters = append(s.Characters, c.Clone())
	}
	if shop, ok := w.NearbyShop(); ok {
		s.NearbyShopID = shop.ID
	}
	if c, ok := w.NearbyCharacter(); ok {
		s.NearbyCharacterID = c.ID
	}
	return s
}
