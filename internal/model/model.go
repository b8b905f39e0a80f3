package model

const DefaultEventImage = "https://images.unsplash.com/photo-1540575467063-178a50c2df87?auto=format&fit=crop&w=800"

type Event struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Time        *string `json:"time"`
	Venue       string  `json:"venue"`
	Image       string  `json:"image,omitempty"`
}

type Registration struct {
	ID         int    `json:"id"`
	EventID    int    `json:"event__id"`
	EventName  string `json:"event__name"`
	EventDate  string `json:"event__date"`
	EventVenue string `json:"event__venue"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile"`
	Course     string `json:"course"`
	Branch     string `json:"branch"`
	TicketID   string `json:"ticket_id,omitempty"`
	Timestamp  string `json:"timestamp"`
}

type Profile struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
	Course string `json:"course"`
	Branch string `json:"branch"`
}

// EventGroup is the set of registrations sharing one event, carrying the
// denormalized event details of the first registration seen for it.
type EventGroup struct {
	EventID       int
	EventName     string
	EventDate     string
	EventVenue    string
	Registrations []Registration
}

// GroupByEvent groups registrations by event id. Groups appear in the order
// their event is first seen; registrations keep their input order.
func GroupByEvent(regs []Registration) []EventGroup {
	index := make(map[int]int)
	groups := make([]EventGroup, 0)
	for _, r := range regs {
		i, ok := index[r.EventID]
		if !ok {
			i = len(groups)
			index[r.EventID] = i
			groups = append(groups, EventGroup{
				EventID:    r.EventID,
				EventName:  r.EventName,
				EventDate:  r.EventDate,
				EventVenue: r.EventVenue,
			})
		}
		groups[i].Registrations = append(groups[i].Registrations, r)
	}
	return groups
}

// CountByEvent returns the number of registrations per event id.
func CountByEvent(regs []Registration) map[int]int {
	counts := make(map[int]int, len(regs))
	for _, r := range regs {
		counts[r.EventID]++
	}
	return counts
}
