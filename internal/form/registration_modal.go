package form

import (
	"context"
	"errors"
	"eventdesk/internal/dto"
	"eventdesk/internal/model"
	"eventdesk/internal/store"
	"eventdesk/pkg/validator"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

type RegistrationView struct {
	State     State
	Mode      State
	EventID   int
	EventName string
	RegID     int
	Values    dto.RegistrationForm
	Error     string
	Success   string
}

// RegistrationModal drives the public registration dialog of the signed-in
// student, for new registrations and for edits of their own.
type RegistrationModal struct {
	gw     RegistrationGateway
	cache  RegistrationCache
	mail   Mailer
	notify Notifier
	log    *zerolog.Logger

	mu        sync.Mutex
	state     State
	mode      State
	eventID   int
	eventName string
	regID     int
	values    dto.RegistrationForm
	errMsg    string
	success   string
}

func NewRegistrationModal(gw RegistrationGateway, cache RegistrationCache, mail Mailer, notify Notifier, log *zerolog.Logger) *RegistrationModal {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &RegistrationModal{gw: gw, cache: cache, mail: mail, notify: notify, log: log}
}

// Open starts a new registration for a cached event, auto-filled from the
// cached profile when there is one.
func (m *RegistrationModal) Open(eventID int) error {
	ev, ok := m.cache.FindEvent(eventID)
	if !ok {
		return ErrEventNotCached
	}
	var values dto.RegistrationForm
	if p := m.cache.Profile(); p != nil {
		values = dto.RegistrationFormFrom(*p)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Submitting {
		return ErrBusy
	}
	m.state, m.mode = Creating, Creating
	m.eventID, m.eventName = ev.ID, ev.Name
	m.regID = 0
	m.values = values
	m.errMsg, m.success = "", ""
	return nil
}

// Edit opens one of the student's own registrations for update.
func (m *RegistrationModal) Edit(regID int) error {
	var reg model.Registration
	found := false
	for _, r := range m.cache.MyRegistrations() {
		if r.ID == regID {
			reg, found = r, true
			break
		}
	}
	if !found {
		return ErrNotMine
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Submitting {
		return ErrBusy
	}
	m.state, m.mode = Editing, Editing
	m.eventID, m.eventName = reg.EventID, reg.EventName
	m.regID = regID
	m.values = dto.RegistrationForm{Name: reg.Name, Email: reg.Email, Mobile: reg.Mobile, Course: reg.Course, Branch: reg.Branch}
	m.errMsg, m.success = "", ""
	return nil
}

func (m *RegistrationModal) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Submitting {
		return ErrBusy
	}
	m.reset()
	return nil
}

func (m *RegistrationModal) View() RegistrationView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return RegistrationView{
		State:     m.state,
		Mode:      m.mode,
		EventID:   m.eventID,
		EventName: m.eventName,
		RegID:     m.regID,
		Values:    m.values,
		Error:     m.errMsg,
		Success:   m.success,
	}
}

// Submit checks required fields and the mobile number before touching the
// network. A failure keeps the modal open with the classified message.
func (m *RegistrationModal) Submit(ctx context.Context, f dto.RegistrationForm) error {
	m.mu.Lock()
	switch m.state {
	case Submitting:
		m.mu.Unlock()
		return ErrBusy
	case Closed:
		m.mu.Unlock()
		return ErrNotOpen
	}
	f = trimForm(f)
	m.values = f
	if err := checkRegistration(ctx, f); err != nil {
		m.state = ErrorShown
		m.errMsg = validationMessage(err)
		m.mu.Unlock()
		return err
	}
	mode, eventID, eventName, regID := m.mode, m.eventID, m.eventName, m.regID
	m.state = Submitting
	m.errMsg, m.success = "", ""
	m.mu.Unlock()

	var err error
	if mode == Editing {
		err = m.gw.UpdateRegistration(ctx, regID, f)
	} else {
		err = m.gw.SubmitRegistration(ctx, eventID, f)
	}

	m.mu.Lock()
	if err != nil {
		m.state = ErrorShown
		m.errMsg = registrationMessage(err)
		m.mu.Unlock()
		m.log.Warn().Err(err).Int("event_id", eventID).Str("email", f.Email).Msg("registration not saved")
		return err
	}
	m.reset()
	if mode == Editing {
		m.success = MsgRegistrationSaved
	} else {
		m.success = MsgRegistered
	}
	m.mu.Unlock()

	m.log.Info().Int("event_id", eventID).Str("event", eventName).Str("email", f.Email).Msg("registration saved")
	m.afterRegistration(ctx, mode, eventID, f.Email)
	return nil
}

func (m *RegistrationModal) reset() {
	m.state, m.mode = Closed, Closed
	m.eventID, m.eventName = 0, ""
	m.regID = 0
	m.values = dto.RegistrationForm{}
	m.errMsg, m.success = "", ""
}

func (m *RegistrationModal) afterRegistration(ctx context.Context, mode State, eventID int, email string) {
	if err := m.cache.RefreshMine(ctx); err != nil && !errors.Is(err, store.ErrStaleRefresh) {
		m.log.Warn().Err(err).Msg("refresh of own registrations failed")
	}
	if err := m.cache.Refresh(ctx); err != nil && !errors.Is(err, store.ErrStaleRefresh) {
		m.log.Warn().Err(err).Msg("refresh after registration failed")
	}

	if m.notify != nil {
		if err := m.notify.Publish(ctx, dto.Notice{Collection: dto.CollectionRegistrations, EventID: eventID}); err != nil {
			m.log.Warn().Err(err).Int("event_id", eventID).Msg("change notice not published")
		}
	}

	if mode != Creating || m.mail == nil {
		return
	}
	reg, ok := findOwn(m.cache.MyRegistrations(), eventID, email)
	if !ok {
		m.log.Warn().Int("event_id", eventID).Msg("new registration not visible yet, confirmation mail skipped")
		return
	}
	if err := m.mail.SendConfirmation(ctx, reg); err != nil {
		m.log.Warn().Err(err).Str("ticket_id", reg.TicketID).Msg("confirmation mail not sent")
	}
}

func checkRegistration(ctx context.Context, f dto.RegistrationForm) error {
	if f.Name == "" || f.Email == "" || f.Mobile == "" || f.Course == "" || f.Branch == "" {
		return &validator.FieldError{Tag: "required", Message: validator.ErrFieldRequired}
	}
	if !validator.IsMobile(f.Mobile) {
		return &validator.FieldError{Field: "Mobile", Namespace: "RegistrationForm.Mobile", Tag: "mobile", Message: validator.ErrInvalidMobile}
	}
	return validator.Validate(ctx, f)
}

func trimForm(f dto.RegistrationForm) dto.RegistrationForm {
	return dto.RegistrationForm{
		Name:   strings.TrimSpace(f.Name),
		Email:  strings.TrimSpace(f.Email),
		Mobile: strings.TrimSpace(f.Mobile),
		Course: strings.TrimSpace(f.Course),
		Branch: strings.TrimSpace(f.Branch),
	}
}

func findOwn(regs []model.Registration, eventID int, email string) (model.Registration, bool) {
	for i := len(regs) - 1; i >= 0; i-- {
		if regs[i].EventID == eventID && strings.EqualFold(regs[i].Email, email) {
			return regs[i], true
		}
	}
	return model.Registration{}, false
}
