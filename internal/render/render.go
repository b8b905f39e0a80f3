package render

import (
	"eventdesk/internal/model"
	"strconv"
	"time"
)

const (
	NoRegistrations = "No registrations found."
	notAvailable    = "N/A"
)

type EventRow struct {
	ID         int
	Name       string
	Date       string
	DateLabel  string
	TimeLabel  string
	Venue      string
	Count      int
	CountLabel string
}

// EventsTable builds one admin row per event, counting registrations over
// the whole registrations collection.
func EventsTable(events []model.Event, regs []model.Registration) []EventRow {
	counts := model.CountByEvent(regs)
	rows := make([]EventRow, 0, len(events))
	for _, e := range events {
		n := counts[e.ID]
		rows = append(rows, EventRow{
			ID:         e.ID,
			Name:       e.Name,
			Date:       e.Date,
			DateLabel:  DateLabel(e.Date),
			TimeLabel:  TimeLabel(e.Time),
			Venue:      e.Venue,
			Count:      n,
			CountLabel: strconv.Itoa(n) + " Registered",
		})
	}
	return rows
}

// RegistrationsByEvent groups registrations into tabs, one per event.
func RegistrationsByEvent(regs []model.Registration) []model.EventGroup {
	return model.GroupByEvent(regs)
}

func TabLabel(g model.EventGroup) string {
	return g.EventName + " (" + strconv.Itoa(len(g.Registrations)) + ")"
}

// RecentActivity returns the first limit registrations. A non-positive limit
// yields no rows.
func RecentActivity(regs []model.Registration, limit int) []model.Registration {
	if limit <= 0 {
		return nil
	}
	if len(regs) < limit {
		limit = len(regs)
	}
	out := make([]model.Registration, limit)
	copy(out, regs[:limit])
	return out
}

// IsCompleted compares ISO dates as strings; the time of day is ignored.
func IsCompleted(date, today string) bool {
	return date < today
}

func Today(now time.Time) string {
	return now.Format(time.DateOnly)
}

// DateLabel formats an ISO date for display, leaving unparsable input as is.
func DateLabel(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2, 2006")
}

func TimeLabel(clock *string) string {
	if clock == nil || *clock == "" {
		return notAvailable
	}
	t, err := time.Parse("15:04", *clock)
	if err != nil {
		// the backend may send seconds
		if t, err = time.Parse("15:04:05", *clock); err != nil {
			return *clock
		}
	}
	return t.Format("15:04")
}
