package render

import (
	"eventdesk/internal/model"
	"html/template"
	"time"
)

type EventCard struct {
	Event       model.Event
	Image       string
	Description template.HTML
	DateLabel   string
	TimeLabel   string
	Completed   bool
	Registered  bool
}

type PublicCards struct {
	Upcoming  []EventCard
	Completed []EventCard
}

// PublicEventCards splits events into upcoming and completed cards. The
// Registered badge is driven by the signed-in user's own registrations only.
func PublicEventCards(events []model.Event, mine []model.Registration, now time.Time) PublicCards {
	today := Today(now)
	registered := make(map[int]struct{}, len(mine))
	for _, r := range mine {
		registered[r.EventID] = struct{}{}
	}

	cards := PublicCards{
		Upcoming:  make([]EventCard, 0),
		Completed: make([]EventCard, 0),
	}
	for _, e := range events {
		_, reg := registered[e.ID]
		card := EventCard{
			Event:       e,
			Image:       e.Image,
			Description: Markdown(e.Description),
			DateLabel:   DateLabel(e.Date),
			TimeLabel:   TimeLabel(e.Time),
			Completed:   IsCompleted(e.Date, today),
			Registered:  reg,
		}
		if card.Image == "" {
			card.Image = model.DefaultEventImage
		}
		if card.Completed {
			cards.Completed = append(cards.Completed, card)
		} else {
			cards.Upcoming = append(cards.Upcoming, card)
		}
	}
	return cards
}
