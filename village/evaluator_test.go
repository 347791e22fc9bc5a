package village

import (
	"reflect"
	"strings"
	"sync"
	"testing"

	"gift-village/gift"
)

func elf(quest *Quest) Character {
	return Character{
		ID:   "elf",
		Name: "Jingle the Elf",
		Preferences: Preferences{
			LikedTags: []string{"sports", "nfl", "football"},
			MaxPrice:  gift.USD(50),
		},
		Quest: quest,
	}
}

func TestEvaluate_ExcellentWhenQuestAndTwoLikedTags(t *testing.T) {
	g := gift.Gift{ID: "hoodie", Tags: []string{"nfl", "football"}}
	c := elf(&Quest{ID: "q", RequiredTags: []string{"nfl", "football"}})

	got := Evaluate(g, c)
	want := GiftEvaluation{Rating: RatingExcellent, Message: MessageExcellent, MatchesQuest: true}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestEvaluate_PreferenceGoodWithoutQuestMatch(t *testing.T) {
	g := gift.Gift{ID: "hoodie", Tags: []string{"nfl", "football"}}
	c := elf(&Quest{ID: "q", RequiredTags: []string{"handmade"}})

	got := Evaluate(g, c)
	if got.MatchesQuest {
		t.Fatalf("did not expect a quest match")
	}
	if got.Rating != RatingGood || got.Message != MessagePreferenceGood {
		t.Fatalf("expected preference-good, got %+v", got)
	}
}

func TestEvaluate_QuestMatchAloneIsGood(t *testing.T) {
	g := gift.Gift{ID: "scarf", Tags: []string{"nfl", "clothing"}}
	c := elf(&Quest{ID: "q", RequiredTags: []string{"clothing"}})

	got := Evaluate(g, c)
	if got.Rating != RatingGood || got.Message != MessageQuestMatch || !got.MatchesQuest {
		t.Fatalf("expected quest-good, got %+v", got)
	}
}

func TestEvaluate_DislikedTagVetoesEverything(t *testing.T) {
	c := Character{
		ID: "phil",
		Preferences: Preferences{
			LikedTags:    []string{"nfl", "football"},
			DislikedTags: []string{"summer", "bears"},
		},
		Quest: &Quest{ID: "q", RequiredTags: []string{"nfl"}},
	}
	g := gift.Gift{ID: "mug", Tags: []string{"nfl", "football", "Bears"}}

	got := Evaluate(g, c)
	if got.Rating != RatingPoor {
		t.Fatalf("expected poor, got %s", got.Rating)
	}
	if !got.MatchesQuest {
		t.Fatalf("veto must not hide the quest match")
	}
	if !strings.Contains(got.Message, "bears") {
		t.Fatalf("expected message to name bears, got %q", got.Message)
	}
	if got.Message != DislikedMessage("bears") {
		t.Fatalf("unexpected message %q", got.Message)
	}
}

func TestEvaluate_DislikedMessageNamesFirstInPreferenceOrder(t *testing.T) {
	c := Character{
		Preferences: Preferences{DislikedTags: []string{"summer", "beach"}},
	}
	g := gift.Gift{Tags: []string{"beach", "summer"}}

	got := Evaluate(g, c)
	want := "Oh no... I really don't like summer items. I appreciate the thought, but this isn't for me at all."
	if got.Message != want {
		t.Fatalf("expected %q, got %q", want, got.Message)
	}
}

func TestEvaluate_OverpricedWithoutSignalIsPoor(t *testing.T) {
	g := gift.Gift{ID: "watch", Tags: []string{"jewelry"}, PriceUSD: gift.USD(100)}
	c := elf(&Quest{ID: "q", RequiredTags: []string{"nfl"}})

	got := Evaluate(g, c)
	want := GiftEvaluation{Rating: RatingPoor, Message: MessageTooExpensive, MatchesQuest: false}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestEvaluate_OneLikedTagIsOkay(t *testing.T) {
	g := gift.Gift{ID: "ball", Tags: []string{"Sports", "outdoors"}, PriceUSD: gift.USD(500)}
	c := elf(nil)

	got := Evaluate(g, c)
	want := GiftEvaluation{Rating: RatingOkay, Message: MessageOneLikedTag, MatchesQuest: false}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestEvaluate_NeutralFallback(t *testing.T) {
	g := gift.Gift{ID: "candle", Tags: []string{"homegoods"}}
	c := elf(nil)

	got := Evaluate(g, c)
	want := GiftEvaluation{Rating: RatingOkay, Message: MessageNotMyStyle, MatchesQuest: false}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestEvaluate_DuplicateGiftTagsDoNotInflateLikedCount(t *testing.T) {
	g := gift.Gift{Tags: []string{"nfl", "NFL", "Nfl"}}
	c := elf(nil)

	got := Evaluate(g, c)
	if got.Rating != RatingOkay || got.Message != MessageOneLikedTag {
		t.Fatalf("expected a single liked hit, got %+v", got)
	}
}

func TestEvaluate_CompletedQuestStillReportsMatch(t *testing.T) {
	q := &Quest{ID: "q", RequiredTags: []string{"nfl"}, Status: QuestStatusCompleted, CompletedGiftID: "hoodie"}
	got := Evaluate(gift.Gift{Tags: []string{"nfl"}}, elf(q))
	if !got.MatchesQuest {
		t.Fatalf("completed quest should still report a match")
	}
	if q.Status != QuestStatusCompleted || q.CompletedGiftID != "hoodie" {
		t.Fatalf("evaluation must not touch the quest: %+v", q)
	}
}

func TestEvaluate_IsDeterministicAndPure(t *testing.T) {
	g := gift.Gift{ID: "hoodie", Tags: []string{"NFL", "Football"}, PriceUSD: gift.USD(45)}
	c := elf(&Quest{ID: "q", RequiredTags: []string{"nfl"}, ExcludedTags: []string{"bears"}})
	before := c.Clone()
	giftBefore := g.Clone()

	a := Evaluate(g, c)
	b := Evaluate(g, c)
	if a != b {
		t.Fatalf("expected identical evaluations, got %+v and %+v", a, b)
	}
	if !reflect.DeepEqual(c, before) || !reflect.DeepEqual(g, giftBefore) {
		t.Fatalf("evaluation mutated its inputs")
	}
}

func TestEvaluate_ConcurrentCallsAgree(t *testing.T) {
	g := gift.Gift{ID: "hoodie", Tags: []string{"nfl", "football"}}
	c := elf(&Quest{ID: "q", RequiredTags: []string{"football"}})
	want := Evaluate(g, c)

	var wg sync.WaitGroup
	results := make([]GiftEvaluation, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Evaluate(g, c)
		}(i)
	}
	wg.Wait()
	for i, got := range results {
		if got != want {
			t.Fatalf("result %d differs: %+v vs %+v", i, got, want)
		}
	}
}

func TestRatingText(t *testing.T) {
	for rating, name := range RatingDictionary {
		raw, err := rating.MarshalText()
		if err != nil {
			t.Fatalf("marshal %d: %v", rating, err)
		}
		if string(raw) != name {
			t.Fatalf("expected %q, got %q", name, raw)
		}
		var back Rating
		if err := back.UnmarshalText([]byte(strings.ToUpper(name))); err != nil || back != rating {
			t.Fatalf("unmarshal %q: got %v err=%v", name, back, err)
		}
	}
	var r Rating
	if err := r.UnmarshalText([]byte("amazing")); err == nil {
		t.Fatalf("expected error for unknown rating")
	}
}
