package gift

// ShopID identifies a shop in the village.
type ShopID string

const (
	ShopUncommonGoods ShopID = "uncommongoods"
	ShopNFL           ShopID = "nflshop"
	ShopAmazon        ShopID = "amazon"
)

// District is the map area a shop sits in.
type District string

const (
	DistrictMainStreet   District = "MainStreet"
	DistrictSportsRow    District = "SportsRow"
	DistrictWorkshopLane District = "WorkshopLane"
)

// Gift is a catalog item. Gifts are treated as immutable once loaded.
type Gift struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	ShopID   ShopID   `json:"shopId" yaml:"shopId"`
	URL      string   `json:"url" yaml:"url"`
	PriceUSD *float64 `json:"priceUsd,omitempty" yaml:"priceUsd,omitempty"`
	Tags     []string `json:"tags" yaml:"tags"`
	Notes    string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// USD returns a price pointer for literals and optional fields.
func USD(v float64) *float64 {
	return &v
}

// Price returns the gift price and whether one is set.
func (g Gift) Price() (float64, bool) {
	if g.PriceUSD == nil {
		return 0, false
	}
	return *g.PriceUSD, true
}

// ExceedsPrice reports whether the gift is priced above ceiling.
// A nil ceiling or an unpriced gift never exceeds.
func (g Gift) ExceedsPrice(ceiling *float64) bool {
	if ceiling == nil || g.PriceUSD == nil {
		return false
	}
	return *g.PriceUSD > *ceiling
}

// Clone returns a copy that shares no memory with g.
func (g Gift) Clone() Gift {
	out := g
	out.Tags = append([]string(nil), g.Tags...)
	if g.PriceUSD != nil {
		out.PriceUSD = USD(*g.PriceUSD)
	}
	return out
}

// Building is the footprint of a shop on the village map.
type Building struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Shop is a storefront the player can walk into.
type Shop struct {
	ID       ShopID   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	District District `json:"district" yaml:"district"`
	Building Building `json:"building" yaml:"building"`
}

// Center returns the middle of the shop building.
func (s Shop) Center() (x, y float64) {
	return s.Building.X + s.Building.Width/2, s.Building.Y + s.Building.Height/2
}

// FilterByShop returns the gifts sold by shopID, keeping catalog order.
func FilterByShop(gifts []Gift, shopID ShopID) []Gift {
	out := make([]Gift, 0, len(gifts))
	for _, g := range gifts {
		if g.ShopID == shopID {
			out = append(out, g)
		}
	}
	return out
}
