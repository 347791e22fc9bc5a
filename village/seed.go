package village

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gift-village/gift"
)

// Seed is the static village data: shops, the gift catalog and characters.
type Seed struct {
	Shops      []gift.Shop `json:"shops" yaml:"shops"`
	Gifts      []gift.Gift `json:"gifts" yaml:"gifts"`
	Characters []Character `json:"characters" yaml:"characters"`
}

// LoadSeed parses a YAML seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed parses and validates YAML seed data. A quest without a
// characterId is bound to the character that holds it.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed YAML: %w", err)
	}
	for i := range seed.Characters {
		c := &seed.Characters[i]
		if c.Quest != nil && c.Quest.CharacterID == "" {
			c.Quest.CharacterID = c.ID
		}
	}
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

// Validate checks referential integrity of the seed.
func (s *Seed) Validate() error {
	shops := make(map[gift.ShopID]struct{}, len(s.Shops))
	for _, shop := range s.Shops {
		if shop.ID == "" {
			return ErrInvalidSeed("shop with empty id")
		}
		if _, dup := shops[shop.ID]; dup {
			return ErrInvalidSeed(fmt.Sprintf("duplicate shop id %q", shop.ID))
		}
		shops[shop.ID] = struct{}{}
	}

	gifts := make(map[string]struct{}, len(s.Gifts))
	for _, g := range s.Gifts {
		if g.ID == "" {
			return ErrInvalidSeed("gift with empty id")
		}
		if _, dup := gifts[g.ID]; dup {
			return ErrInvalidSeed(fmt.Sprintf("duplicate gift id %q", g.ID))
		}
		gifts[g.ID] = struct{}{}
		if _, ok := shops[g.ShopID]; !ok {
			return ErrInvalidSeed(fmt.Sprintf("gift %q references unknown shop %q", g.ID, g.ShopID))
		}
		if price, ok := g.Price(); ok && price < 0 {
			return ErrInvalidSeed(fmt.Sprintf("gift %q has negative price", g.ID))
		}
	}

	characters := make(map[string]struct{}, len(s.Characters))
	quests := make(map[string]struct{}, len(s.Characters))
	for _, c := range s.Characters {
		if c.ID == "" {
			return ErrInvalidSeed("character with empty id")
		}
		if _, dup := characters[c.ID]; dup {
			return ErrInvalidSeed(fmt.Sprintf("duplicate character id %q", c.ID))
		}
		characters[c.ID] = struct{}{}
		if c.Quest == nil {
			continue
		}
		q := c.Quest
		if q.ID == "" {
			return ErrInvalidSeed(fmt.Sprintf("character %q has a quest with empty id", c.ID))
		}
		if _, dup := quests[q.ID]; dup {
			return ErrInvalidSeed(fmt.Sprintf("duplicate quest id %q", q.ID))
		}
		quests[q.ID] = struct{}{}
		if q.CharacterID != c.ID {
			return ErrInvalidSeed(fmt.Sprintf("quest %q belongs to %q but is held by %q", q.ID, q.CharacterID, c.ID))
		}
		if len(q.RequiredTags) == 0 {
			return ErrInvalidSeed(fmt.Sprintf("quest %q has no required tags", q.ID))
		}
		if q.CompletedGiftID != "" {
			if _, ok := gifts[q.CompletedGiftID]; !ok {
				return ErrInvalidSeed(fmt.Sprintf("quest %q completed by unknown gift %q", q.ID, q.CompletedGiftID))
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the seed.
func (s *Seed) Clone() *Seed {
	out := &Seed{
		Shops:      append([]gift.Shop(nil), s.Shops...),
		Gifts:      make([]gift.Gift, 0, len(s.Gifts)),
		Characters: make([]Character, 0, len(s.Characters)),
	}
	for _, g := range s.Gifts {
		out.Gifts = append(out.Gifts, g.Clone())
	}
	for _, c := range s.Characters {
		out.Characters = append(out.Characters, c.Clone())
	}
	return out
}
