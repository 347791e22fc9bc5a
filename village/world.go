package village

import (
	"fmt"

	"gift-village/gift"
)

// Mode is what the player is currently looking at.
type Mode byte

const (
	ModeWorld Mode = 0
	ModeShop  Mode = 1
)

var ModeDictionary = map[Mode]string{
	ModeWorld: "world",
	ModeShop:  "shop",
}

func (m Mode) String() string {
	if name, ok := ModeDictionary[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", byte(m))
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// GiftOutcome is the result of handing a gift to a character.
type GiftOutcome struct {
	Evaluation GiftEvaluation `json:"evaluation"`
	// QuestCompleted is true only for the gift that moved the quest to completed.
	QuestCompleted bool   `json:"questCompleted"`
	Quest          *Quest `json:"quest,omitempty"`
}

// World is one player's village session: position, shop mode, shopping bag
// and the characters with their quest state.
//
// World is not safe for concurrent use; a session has a single writer.
type World struct {
	cfg Config

	player      Vec2
	mode        Mode
	enteredShop gift.ShopID
	bag         Bag

	shops      []gift.Shop
	gifts      []gift.Gift
	giftIndex  map[string]int
	characters []*Character
}

// NewWorld builds a session from seed. The seed is copied; quest progress in
// the world never leaks back into it.
func NewWorld(cfg Config, seed *Seed) (*World, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if seed == nil {
		return nil, ErrInvalidSeed("nil seed")
	}
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	s := seed.Clone()

	w := &World{
		cfg:        cfg,
		player:     cfg.Start,
		mode:       ModeWorld,
		shops:      s.Shops,
		gifts:      s.Gifts,
		giftIndex:  make(map[string]int, len(s.Gifts)),
		characters: make([]*Character, 0, len(s.Characters)),
	}
	for i, g := range w.gifts {
		w.giftIndex[g.ID] = i
	}
	for i := range s.Characters {
		w.characters = append(w.characters, &s.Characters[i])
	}
	return w, nil
}

func (w *World) Player() Vec2 { return w.player }

func (w *World) Mode() Mode { return w.mode }

// Move places the player at to, clamped to the map.
func (w *World) Move(to Vec2) Vec2 {
	w.player = Vec2{
		X: clamp(to.X, 0, w.cfg.MapWidth),
		Y: clamp(to.Y, 0, w.cfg.MapHeight),
	}
	return w.player
}

// MoveBy shifts the player by (dx, dy), clamped to the map.
func (w *World) MoveBy(dx, dy float64) Vec2 {
	return w.Move(Vec2{X: w.player.X + dx, Y: w.player.Y + dy})
}

// NearbyShop returns the first shop whose center is within reach.
func (w *World) NearbyShop() (gift.Shop, bool) {
	for _, shop := range w.shops {
		if w.inReach(shopCenter(shop)) {
			return shop, true
		}
	}
	return gift.Shop{}, false
}

// NearbyCharacter returns the first character within reach.
func (w *World) NearbyCharacter() (Character, bool) {
	for _, c := range w.characters {
		if w.inReach(c.Position) {
			return c.Clone(), true
		}
	}
	return Character{}, false
}

// EnterShop switches to shop mode. The shop must be within reach.
func (w *World) EnterShop(id gift.ShopID) error {
	shop, ok := w.shop(id)
	if !ok {
		return ErrUnknownShop
	}
	if !w.inReach(shopCenter(shop)) {
		return ErrShopTooFar
	}
	w.mode = ModeShop
	w.enteredShop = id
	return nil
}

// ExitShop returns to the map.
func (w *World) ExitShop() {
	w.mode = ModeWorld
	w.enteredShop = ""
}

// ShopGifts lists the gifts of the entered shop.
func (w *World) ShopGifts() ([]gift.Gift, error) {
	if w.mode != ModeShop {
		return nil, ErrNotInShop
	}
	return cloneGifts(gift.FilterByShop(w.gifts, w.enteredShop)), nil
}

// AddToBag picks up a gift from the entered shop.
func (w *World) AddToBag(giftID string) error {
	if w.mode != ModeShop {
		return ErrNotInShop
	}
	g, ok := w.gift(giftID)
	if !ok {
		return ErrUnknownGift
	}
	if g.ShopID != w.enteredShop {
		return ErrGiftNotInShop
	}
	w.bag.Add(g, w.cfg.now())
	return nil
}

func (w *World) RemoveFromBag(giftID string) error {
	if !w.bag.Remove(giftID) {
		return ErrGiftNotInBag
	}
	return nil
}

func (w *World) Bag() []BagItem { return w.bag.Items() }

func (w *World) BagTotal() float64 { return w.bag.Total() }

func (w *World) BagCount() int { return w.bag.Count() }

// GiveGift hands a gift from the bag to a nearby character. A gift that
// matches the character's active quest completes it; later matching gifts
// still get positive feedback but never complete it again.
func (w *World) GiveGift(characterID, giftID string) (GiftOutcome, error) {
	c, ok := w.character(characterID)
	if !ok {
		return GiftOutcome{}, ErrUnknownCharacter
	}
	if !w.inReach(c.Position) {
		return GiftOutcome{}, ErrCharacterTooFar
	}
	g, ok := w.bag.Get(giftID)
	if !ok {
		return GiftOutcome{}, ErrGiftNotInBag
	}

	out := GiftOutcome{Evaluation: Evaluate(g, *c)}
	if out.Evaluation.MatchesQuest && c.Quest.Status == QuestStatusActive {
		if err := c.Quest.Complete(g.ID); err != nil {
			return GiftOutcome{}, err
		}
		out.QuestCompleted = true
	}
	out.Quest = c.Quest.Clone()
	return out, nil
}

// Character returns a copy of the character with its current quest state.
func (w *World) Character(id string) (Character, bool) {
	c, ok := w.character(id)
	if !ok {
		return Character{}, false
	}
	return c.Clone(), true
}

func (w *World) shop(id gift.ShopID) (gift.Shop, bool) {
	for _, shop := range w.shops {
		if shop.ID == id {
			return shop, true
		}
	}
	return gift.Shop{}, false
}

func (w *World) gift(id string) (gift.Gift, bool) {
	i, ok := w.giftIndex[id]
	if !ok {
		return gift.Gift{}, false
	}
	return w.gifts[i], true
}

func (w *World) character(id string) (*Character, bool) {
	for _, c := range w.characters {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

func (w *World) inReach(p Vec2) bool {
	return Distance(w.player, p) <= w.cfg.InteractionDistance
}

func shopCenter(s gift.Shop) Vec2 {
	x, y := s.Center()
	return Vec2{X: x, Y: y}
}

func cloneGifts(gifts []gift.Gift) []gift.Gift {
	out := make([]gift.Gift, 0, len(gifts))
	for _, g := range gifts {
		out = append(out, g.Clone())
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
