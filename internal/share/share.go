package share

import (
	"fmt"
	"strings"

	"mak/internal/daily"
	"mak/internal/journal"
)

const dash = "—"

// DailyCard is the short text sent when sharing a card of the day.
func DailyCard(cardName, insight, link string) string {
	return fmt.Sprintf("🃏 Card of the day: %s\n\n💭 %s\n\nOpen MAK: %s", cardName, insight, link)
}

// Spread is the short text sent when sharing a saved spread.
func Spread(spreadName string, cardsCount int, link string) string {
	return fmt.Sprintf("🔮 I did the «%s» spread (%d cards)\n\nTry it too: %s", spreadName, cardsCount, link)
}

// Session renders Spread for a saved session.
func Session(s journal.Session, link string) string {
	return Spread(s.SpreadName, len(s.Cards), link)
}

// DailyExport is the full text of a daily entry. A nil entry yields a
// placeholder inviting to complete one.
func DailyExport(e *daily.Entry, link string) string {
	if e == nil {
		return strings.Join([]string{
			"MAK Practice",
			"",
			"No saved entries yet.",
			"Do the card of the day and save it, then come back here.",
			"",
			"Open Mini App: " + link,
		}, "\n")
	}

	var assoc []string
	for _, a := range []string{e.A1, e.A2, e.A3} {
		if a != "" {
			assoc = append(assoc, a)
		}
	}

	return strings.Join([]string{
		"MAK Practice: card of the day",
		"Date: " + e.DateISO,
		"",
		"Card: " + e.Card.Title,
		"Question: " + e.Card.Prompt,
		"",
		"Associations: " + orDash(strings.Join(assoc, ", ")),
		"",
		"Micro step: " + orDash(e.MicroStep),
		"",
		"Summary: " + orDash(e.Summary),
		"",
		"Open Mini App: " + link,
	}, "\n")
}

func orDash(s string) string {
	if s == "" {
		return dash
	}
	return s
}
