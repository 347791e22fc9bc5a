package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"gift-village/gift"
	"gift-village/village"
)

var ratingColors = map[village.Rating]lipgloss.Color{
	village.RatingExcellent: lipgloss.Color("#4CAF50"),
	village.RatingGood:      lipgloss.Color("#8BC34A"),
	village.RatingOkay:      lipgloss.Color("#FFC107"),
	village.RatingPoor:      lipgloss.Color("#F44336"),
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	questStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
)

type reportRow struct {
	Character  string
	Gift       gift.Gift
	Evaluation village.GiftEvaluation
}

func buildReport(seed *village.Seed, characterID, giftID string, matchingOnly bool) ([]reportRow, error) {
	var character *village.Character
	for i := range seed.Characters {
		if seed.Characters[i].ID == characterID {
			character = &seed.Characters[i]
			break
		}
	}
	if character == nil {
		return nil, fmt.Errorf("unknown character %q", characterID)
	}

	gifts := seed.Gifts
	if matchingOnly {
		if character.Quest == nil {
			return nil, fmt.Errorf("character %q has no quest", characterID)
		}
		gifts = village.FindMatchingGifts(gifts, *character.Quest)
	}

	rows := make([]reportRow, 0, len(gifts))
	for _, g := range gifts {
		if giftID != "" && g.ID != giftID {
			continue
		}
		rows = append(rows, reportRow{
			Character:  character.Name,
			Gift:       g,
			Evaluation: village.Evaluate(g, *character),
		})
	}
	if giftID != "" && len(rows) == 0 {
		return nil, fmt.Errorf("unknown gift %q", giftID)
	}
	return rows, nil
}

func renderReport(rows []reportRow) string {
	var b strings.Builder
	for _, row := range rows {
		rating := lipgloss.NewStyle().Bold(true).
			Foreground(ratingColors[row.Evaluation.Rating]).
			Render(strings.ToUpper(row.Evaluation.Rating.String()))

		line := fmt.Sprintf("%s %s %s", rating, headerStyle.Render(row.Gift.Title), mutedStyle.Render(formatPrice(row.Gift)))
		if row.Evaluation.MatchesQuest {
			line += " " + questStyle.Render("[quest]")
		}
		b.WriteString(line)
		b.WriteString("\n  ")
		b.WriteString(row.Character)
		b.WriteString(": ")
		b.WriteString(row.Evaluation.Message)
		b.WriteString("\n")
	}
	return b.String()
}

func formatPrice(g gift.Gift) string {
	price, ok := g.Price()
	if !ok {
		return "(price n/a)"
	}
	return "$" + humanize.FormatFloat("#,###.##", price)
}
