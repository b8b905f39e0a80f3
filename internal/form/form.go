package form

import (
	"context"
	"errors"
	"eventdesk/internal/dto"
	"eventdesk/internal/model"
)

var (
	ErrBusy           = errors.New("submission already in progress")
	ErrNotOpen        = errors.New("modal is not open")
	ErrEventNotCached = errors.New("event is not in the cache")
	ErrNotMine        = errors.New("registration does not belong to the signed-in user")
)

// State is the position of a modal in its lifecycle.
type State int

const (
	Closed State = iota
	Creating
	Editing
	Submitting
	ErrorShown
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Creating:
		return "creating"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case ErrorShown:
		return "error_shown"
	}
	return "unknown"
}

type EventGateway interface {
	CreateEvent(ctx context.Context, payload dto.EventPayload) (*model.Event, error)
	UpdateEvent(ctx context.Context, id int, payload dto.EventPayload) (*model.Event, error)
	DeleteEvent(ctx context.Context, id int) error
}

type RegistrationGateway interface {
	SubmitRegistration(ctx context.Context, eventID int, form dto.RegistrationForm) error
	UpdateRegistration(ctx context.Context, regID int, form dto.RegistrationForm) error
}

// EventCache is the part of the store the event modal reads and refreshes.
type EventCache interface {
	FindEvent(id int) (model.Event, bool)
	Refresh(ctx context.Context) error
}

// RegistrationCache is the part of the store the registration modal uses.
type RegistrationCache interface {
	FindEvent(id int) (model.Event, bool)
	Profile() *model.Profile
	MyRegistrations() []model.Registration
	RefreshMine(ctx context.Context) error
	Refresh(ctx context.Context) error
}

// Notifier announces a successful mutation to other consoles.
type Notifier interface {
	Publish(ctx context.Context, notice dto.Notice) error
}

// Mailer sends the registration confirmation.
type Mailer interface {
	SendConfirmation(ctx context.Context, reg model.Registration) error
}
