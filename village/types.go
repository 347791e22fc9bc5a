package village

import (
	"fmt"
	"math"
	"strings"

	"gift-village/gift"
)

// Vec2 is a point on the village map.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// QuestStatus: active is the initial state, completed and failed are terminal.
type QuestStatus byte

const (
	QuestStatusActive    QuestStatus = 0
	QuestStatusCompleted QuestStatus = 1
	QuestStatusFailed    QuestStatus = 2
)

var QuestStatusDictionary = map[QuestStatus]string{
	QuestStatusActive:    "active",
	QuestStatusCompleted: "completed",
	QuestStatusFailed:    "failed",
}

func (s QuestStatus) String() string {
	if name, ok := QuestStatusDictionary[s]; ok {
		return name
	}
	return fmt.Sprintf("QuestStatus(%d)", byte(s))
}

func (s QuestStatus) MarshalText() ([]byte, error) {
	name, ok := QuestStatusDictionary[s]
	if !ok {
		return nil, fmt.Errorf("unknown quest status %d", byte(s))
	}
	return []byte(name), nil
}

func (s *QuestStatus) UnmarshalText(text []byte) error {
	raw := strings.ToLower(strings.TrimSpace(string(text)))
	if raw == "" {
		*s = QuestStatusActive
		return nil
	}
	for status, name := range QuestStatusDictionary {
		if name == raw {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown quest status %q", string(text))
}

// Terminal reports whether no further transition is possible.
func (s QuestStatus) Terminal() bool {
	return s == QuestStatusCompleted || s == QuestStatusFailed
}

// Quest is a character's standing request.
type Quest struct {
	ID              string      `json:"id" yaml:"id"`
	CharacterID     string      `json:"characterId" yaml:"characterId"`
	Title           string      `json:"title" yaml:"title"`
	Description     string      `json:"description" yaml:"description"`
	RequiredTags    []string    `json:"requiredTags" yaml:"requiredTags"`
	ExcludedTags    []string    `json:"excludedTags,omitempty" yaml:"excludedTags,omitempty"`
	MaxPrice        *float64    `json:"maxPrice,omitempty" yaml:"maxPrice,omitempty"`
	Status          QuestStatus `json:"status" yaml:"status"`
	CompletedGiftID string      `json:"completedGiftId,omitempty" yaml:"completedGiftId,omitempty"`
}

// Complete moves an active quest to completed, recording the gift.
func (q *Quest) Complete(giftID string) error {
	if q.Status != QuestStatusActive {
		return ErrQuestNotActive
	}
	q.Status = QuestStatusCompleted
	q.CompletedGiftID = giftID
	return nil
}

// Fail moves an active quest to failed.
func (q *Quest) Fail() error {
	if q.Status != QuestStatusActive {
		return ErrQuestNotActive
	}
	q.Status = QuestStatusFailed
	return nil
}

func (q *Quest) Clone() *Quest {
	if q == nil {
		return nil
	}
	out := *q
	out.RequiredTags = append([]string(nil), q.RequiredTags...)
	if q.ExcludedTags != nil {
		out.ExcludedTags = append([]string(nil), q.ExcludedTags...)
	}
	if q.MaxPrice != nil {
		out.MaxPrice = gift.USD(*q.MaxPrice)
	}
	return &out
}

// Preferences drive the qualitative rating of a gift, quest or not.
type Preferences struct {
	LikedTags    []string `json:"likedTags" yaml:"likedTags"`
	DislikedTags []string `json:"dislikedTags,omitempty" yaml:"dislikedTags,omitempty"`
	MaxPrice     *float64 `json:"maxPrice,omitempty" yaml:"maxPrice,omitempty"`
}

func (p Preferences) Clone() Preferences {
	out := Preferences{LikedTags: append([]string(nil), p.LikedTags...)}
	if p.DislikedTags != nil {
		out.DislikedTags = append([]string(nil), p.DislikedTags...)
	}
	if p.MaxPrice != nil {
		out.MaxPrice = gift.USD(*p.MaxPrice)
	}
	return out
}

// Character is a village NPC. A character holds at most one quest.
type Character struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Position    Vec2        `json:"position" yaml:"position"`
	Preferences Preferences `json:"preferences" yaml:"preferences"`
	Quest       *Quest      `json:"quest,omitempty" yaml:"quest,omitempty"`
	Image       string      `json:"image,omitempty" yaml:"image,omitempty"`
	Size        int         `json:"size,omitempty" yaml:"size,omitempty"`
}

func (c Character) Clone() Character {
	out := c
	out.Preferences = c.Preferences.Clone()
	out.Quest = c.Quest.Clone()
	return out
}
