package village

import (
	"fmt"
	"strings"

	"gift-village/gift"
)

// Rating is the tier of a character reaction.
type Rating byte

const (
	RatingExcellent Rating = iota + 1
	RatingGood
	RatingOkay
	RatingPoor
)

var RatingDictionary = map[Rating]string{
	RatingExcellent: "excellent",
	RatingGood:      "good",
	RatingOkay:      "okay",
	RatingPoor:      "poor",
}

func (r Rating) String() string {
	if name, ok := RatingDictionary[r]; ok {
		return name
	}
	return fmt.Sprintf("Rating(%d)", byte(r))
}

func (r Rating) MarshalText() ([]byte, error) {
	name, ok := RatingDictionary[r]
	if !ok {
		return nil, fmt.Errorf("unknown rating %d", byte(r))
	}
	return []byte(name), nil
}

func (r *Rating) UnmarshalText(text []byte) error {
	raw := strings.ToLower(strings.TrimSpace(string(text)))
	for rating, name := range RatingDictionary {
		if name == raw {
			*r = rating
			return nil
		}
	}
	return fmt.Errorf("unknown rating %q", string(text))
}

// Feedback lines shown to the player. Clients match on these verbatim.
const (
	MessageExcellent      = "Wow! This is perfect! Exactly what I was looking for. Thank you so much!"
	MessageQuestMatch     = "This is great! It matches what I need. Thank you!"
	MessagePreferenceGood = "I really like this! It's not exactly what I asked for, but I appreciate it!"
	MessageOneLikedTag    = "Thanks! It's nice, though not quite what I had in mind."
	MessageTooExpensive   = "Oh, this is a bit too expensive for me. I appreciate the thought though."
	MessageNotMyStyle     = "Thanks, but this isn't really my style. I appreciate the effort though."
)

// DislikedMessage is the rejection line naming the offending tag.
func DislikedMessage(tag string) string {
	return fmt.Sprintf("Oh no... I really don't like %s items. I appreciate the thought, but this isn't for me at all.", tag)
}

// GiftEvaluation is the character's reaction to a gift. It is a fresh value
// on every call and is never stored by the evaluator.
type GiftEvaluation struct {
	Rating       Rating `json:"rating"`
	Message      string `json:"message"`
	MatchesQuest bool   `json:"matchesQuest"`
}

// giftSignals is what the rating rules look at.
type giftSignals struct {
	matchesQuest    bool
	likedTagMatches int
	dislikedTag     string
	hasDislikedTag  bool
	priceOK         bool
}

type ratingRule struct {
	applies func(s giftSignals) bool
	rating  Rating
	message func(s giftSignals) string
}

func fixed(msg string) func(giftSignals) string {
	return func(giftSignals) string { return msg }
}

// ratingRules are evaluated top to bottom and the first applicable rule
// wins. Order is load-bearing: a disliked tag vetoes everything below it.
var ratingRules = []ratingRule{
	{
		applies: func(s giftSignals) bool { return s.hasDislikedTag },
		rating:  RatingPoor,
		message: func(s giftSignals) string { return DislikedMessage(s.dislikedTag) },
	},
	{
		applies: func(s giftSignals) bool { return s.matchesQuest && s.likedTagMatches >= 2 },
		rating:  RatingExcellent,
		message: fixed(MessageExcellent),
	},
	{
		applies: func(s giftSignals) bool { return s.matchesQuest },
		rating:  RatingGood,
		message: fixed(MessageQuestMatch),
	},
	{
		applies: func(s giftSignals) bool { return s.likedTagMatches >= 2 },
		rating:  RatingGood,
		message: fixed(MessagePreferenceGood),
	},
	{
		applies: func(s giftSignals) bool { return s.likedTagMatches == 1 },
		rating:  RatingOkay,
		message: fixed(MessageOneLikedTag),
	},
	{
		applies: func(s giftSignals) bool { return !s.priceOK },
		rating:  RatingPoor,
		message: fixed(MessageTooExpensive),
	},
	{
		applies: func(giftSignals) bool { return true },
		rating:  RatingOkay,
		message: fixed(MessageNotMyStyle),
	},
}

// Evaluate rates g against c's preferences and active quest.
//
// Quest status is not consulted: a completed quest still reports
// MatchesQuest so the dialog can re-show positive feedback. Whether a match
// completes the quest is up to the caller.
func Evaluate(g gift.Gift, c Character) GiftEvaluation {
	f := gift.NewFolder()
	tags := f.Set(g.Tags)

	s := giftSignals{
		likedTagMatches: f.CountIn(tags, c.Preferences.LikedTags),
		priceOK:         !g.ExceedsPrice(c.Preferences.MaxPrice),
	}
	if c.Quest != nil {
		s.matchesQuest = questMatches(f, tags, g, *c.Quest)
	}
	s.dislikedTag, s.hasDislikedTag = f.FirstIn(tags, c.Preferences.DislikedTags)

	for _, rule := range ratingRules {
		if rule.applies(s) {
			return GiftEvaluation{
				Rating:       rule.rating,
				Message:      rule.message(s),
				MatchesQuest: s.matchesQuest,
			}
		}
	}
	// The last rule always applies.
	return GiftEvaluation{Rating: RatingOkay, Message: MessageNotMyStyle, MatchesQuest: s.matchesQuest}
}
