package form

import (
	"context"
	"errors"
	"eventdesk/internal/dto"
	"eventdesk/internal/store"
	"eventdesk/pkg/validator"
	"sync"

	"github.com/rs/zerolog"
)

// EventView is what the event modal shows right now.
type EventView struct {
	State   State
	Mode    State
	EventID int
	Values  dto.EventPayload
	Error   string
}

// EventModal drives the admin create/edit event dialog and event deletion.
type EventModal struct {
	gw     EventGateway
	cache  EventCache
	notify Notifier
	log    *zerolog.Logger

	mu      sync.Mutex
	state   State
	mode    State
	eventID int
	values  dto.EventPayload
	errMsg  string
}

func NewEventModal(gw EventGateway, cache EventCache, notify Notifier, log *zerolog.Logger) *EventModal {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &EventModal{gw: gw, cache: cache, notify: notify, log: log}
}

func (m *EventModal) OpenCreate() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Submitting {
		return ErrBusy
	}
	m.state, m.mode = Creating, Creating
	m.eventID = 0
	m.values = dto.EventPayload{}
	m.errMsg = ""
	return nil
}

// OpenEdit prefills the modal from the cached copy of the event.
func (m *EventModal) OpenEdit(id int) error {
	ev, ok := m.cache.FindEvent(id)
	if !ok {
		return ErrEventNotCached
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Submitting {
		return ErrBusy
	}
	m.state, m.mode = Editing, Editing
	m.eventID = id
	m.values = dto.EventPayloadFrom(ev)
	m.errMsg = ""
	return nil
}

func (m *EventModal) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Submitting {
		return ErrBusy
	}
	m.reset()
	return nil
}

func (m *EventModal) View() EventView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return EventView{State: m.state, Mode: m.mode, EventID: m.eventID, Values: m.values, Error: m.errMsg}
}

// Submit validates the payload, sends it and refreshes the store on success.
// On failure the modal stays open and shows the error.
func (m *EventModal) Submit(ctx context.Context, payload dto.EventPayload) error {
	m.mu.Lock()
	switch m.state {
	case Submitting:
		m.mu.Unlock()
		return ErrBusy
	case Closed:
		m.mu.Unlock()
		return ErrNotOpen
	}
	mode, id := m.mode, m.eventID
	m.values = payload
	if payload.Time != nil && *payload.Time == "" {
		payload.Time = nil
	}
	if err := validator.Validate(ctx, payload); err != nil {
		m.state = ErrorShown
		m.errMsg = validationMessage(err)
		m.mu.Unlock()
		return err
	}
	m.state = Submitting
	m.errMsg = ""
	m.mu.Unlock()

	var err error
	if mode == Editing {
		_, err = m.gw.UpdateEvent(ctx, id, payload)
	} else {
		ev, cerr := m.gw.CreateEvent(ctx, payload)
		if ev != nil {
			id = ev.ID
		}
		err = cerr
	}

	m.mu.Lock()
	if err != nil {
		m.state = ErrorShown
		m.errMsg = eventMessage(err)
		m.mu.Unlock()
		m.log.Warn().Err(err).Int("event_id", id).Str("mode", mode.String()).Msg("event not saved")
		return err
	}
	m.reset()
	m.mu.Unlock()

	m.log.Info().Int("event_id", id).Str("mode", mode.String()).Msg("event saved")
	m.afterMutation(ctx, id)
	return nil
}

// Delete removes an event and refreshes the store. It leaves the modal as it was.
func (m *EventModal) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	if m.state == Submitting {
		m.mu.Unlock()
		return ErrBusy
	}
	prev := m.state
	m.state = Submitting
	m.mu.Unlock()

	err := m.gw.DeleteEvent(ctx, id)

	m.mu.Lock()
	m.state = prev
	m.mu.Unlock()
	if err != nil {
		m.log.Warn().Err(err).Int("event_id", id).Msg("event not deleted")
		return err
	}
	m.log.Info().Int("event_id", id).Msg("event deleted")
	m.afterMutation(ctx, id)
	return nil
}

func (m *EventModal) reset() {
	m.state, m.mode = Closed, Closed
	m.eventID = 0
	m.values = dto.EventPayload{}
	m.errMsg = ""
}

func (m *EventModal) afterMutation(ctx context.Context, id int) {
	if err := m.cache.Refresh(ctx); err != nil && !errors.Is(err, store.ErrStaleRefresh) {
		m.log.Warn().Err(err).Msg("refresh after event change failed")
	}
	if m.notify == nil {
		return
	}
	if err := m.notify.Publish(ctx, dto.Notice{Collection: dto.CollectionEvents, EventID: id}); err != nil {
		m.log.Warn().Err(err).Int("event_id", id).Msg("change notice not published")
	}
}
