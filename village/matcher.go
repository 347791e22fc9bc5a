package village

import "gift-village/gift"

// QuestMatches reports whether g satisfies the formal requirements of q:
// at least one required tag, no excluded tag, and a price within the quest
// ceiling. Missing optional fields impose no constraint.
func QuestMatches(g gift.Gift, q Quest) bool {
	f := gift.NewFolder()
	return questMatches(f, f.Set(g.Tags), g, q)
}

func questMatches(f *gift.Folder, tags gift.TagSet, g gift.Gift, q Quest) bool {
	if len(q.RequiredTags) > 0 && !f.AnyIn(tags, q.RequiredTags) {
		return false
	}
	// Exclusion vetoes regardless of required-tag overlap.
	if len(q.ExcludedTags) > 0 && f.AnyIn(tags, q.ExcludedTags) {
		return false
	}
	if g.ExceedsPrice(q.MaxPrice) {
		return false
	}
	return true
}

// FindMatchingGifts returns the gifts that satisfy q, in input order.
// The input slice is not modified.
func FindMatchingGifts(gifts []gift.Gift, q Quest) []gift.Gift {
	out := make([]gift.Gift, 0, len(gifts))
	for _, g := range gifts {
		if QuestMatches(g, q) {
			out = append(out, g)
		}
	}
	return out
}

// MatchesPreferences reports whether g is a safe recommendation for a
// character: at least one liked tag, no disliked tag, affordable.
func MatchesPreferences(g gift.Gift, p Preferences) bool {
	f := gift.NewFolder()
	tags := f.Set(g.Tags)
	if !f.AnyIn(tags, p.LikedTags) {
		return false
	}
	if len(p.DislikedTags) > 0 && f.AnyIn(tags, p.DislikedTags) {
		return false
	}
	return !g.ExceedsPrice(p.MaxPrice)
}

// RecommendGifts returns the gifts matching p, in input order.
func RecommendGifts(gifts []gift.Gift, p Preferences) []gift.Gift {
	out := make([]gift.Gift, 0, len(gifts))
	for _, g := range gifts {
		if MatchesPreferences(g, p) {
			out = append(out, g)
		}
	}
	return out
}
