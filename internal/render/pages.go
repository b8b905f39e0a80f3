package render

import (
	"eventdesk/internal/dto"
	"eventdesk/internal/model"
	"html/template"
	"time"
)

type Tab struct {
	EventID       int
	Label         string
	DateLabel     string
	Venue         string
	Registrations []model.Registration
}

type AdminPage struct {
	Rows        []EventRow
	Tabs        []Tab
	Empty       string
	Recent      []model.Registration
	RefreshedAt time.Time
	Error       string
	CSRFField   template.HTML
}

// AdminDashboard assembles the events table, the per-event registration tabs
// and the recent activity list from one snapshot.
func AdminDashboard(events []model.Event, regs []model.Registration, recentLimit int) AdminPage {
	groups := RegistrationsByEvent(regs)
	tabs := make([]Tab, 0, len(groups))
	for _, g := range groups {
		tabs = append(tabs, Tab{
			EventID:       g.EventID,
			Label:         TabLabel(g),
			DateLabel:     DateLabel(g.EventDate),
			Venue:         g.EventVenue,
			Registrations: g.Registrations,
		})
	}
	page := AdminPage{
		Rows:   EventsTable(events, regs),
		Tabs:   tabs,
		Recent: RecentActivity(regs, recentLimit),
	}
	if len(tabs) == 0 {
		page.Empty = NoRegistrations
	}
	return page
}

type PublicPage struct {
	Cards     PublicCards
	Profile   *model.Profile
	Mine      []model.Registration
	Notice    string
	CSRFField template.HTML
}

type EventModal struct {
	Title     string
	Action    string
	Values    dto.EventPayload
	Time      string
	Error     string
	CSRFField template.HTML
}

type RegistrationModal struct {
	EventID   int
	EventName string
	Action    string
	Values    dto.RegistrationForm
	Error     string
	Success   string
	CSRFField template.HTML
}

type ScannerPage struct {
	Scanning  bool
	Panel     *ScanPanel
	CSRFField template.HTML
}
