package village

import (
	"time"

	"gift-village/gift"
)

// BagItem is one line of the shopping bag.
type BagItem struct {
	Gift     gift.Gift `json:"gift"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"addedAt"`
}

// Bag holds the gifts the player picked up. The zero value is an empty bag.
type Bag struct {
	items []BagItem
}

// Add puts g in the bag. Adding a gift already present bumps its quantity
// and keeps the original AddedAt.
func (b *Bag) Add(g gift.Gift, at time.Time) {
	for i := range b.items {
		if b.items[i].Gift.ID == g.ID {
			b.items[i].Quantity++
			return
		}
	}
	b.items = append(b.items, BagItem{Gift: g, Quantity: 1, AddedAt: at})
}

// Remove drops the whole entry for giftID.
func (b *Bag) Remove(giftID string) bool {
	for i := range b.items {
		if b.items[i].Gift.ID == giftID {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return true
		}
	}
	return false
}

func (b *Bag) Get(giftID string) (gift.Gift, bool) {
	for _, item := range b.items {
		if item.Gift.ID == giftID {
			return item.Gift, true
		}
	}
	return gift.Gift{}, false
}

func (b *Bag) Has(giftID string) bool {
	_, ok := b.Get(giftID)
	return ok
}

// Total sums price × quantity. Unpriced gifts count as zero.
func (b *Bag) Total() float64 {
	total := 0.0
	for _, item := range b.items {
		if price, ok := item.Gift.Price(); ok {
			total += price * float64(item.Quantity)
		}
	}
	return total
}

// Count sums quantities.
func (b *Bag) Count() int {
	n := 0
	for _, item := range b.items {
		n += item.Quantity
	}
	return n
}

// Items returns a copy of the bag contents in insertion order.
func (b *Bag) Items() []BagItem {
	out := make([]BagItem, 0, len(b.items))
	for _, item := range b.items {
		item.Gift = item.Gift.Clone()
		out = append(out, item)
	}
	return out
}
