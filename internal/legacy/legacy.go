package legacy

import (
	"context"
	"encoding/json"
	"errors"
	"eventdesk/internal/model"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	KeyEvents        = "events"
	KeyRegistrations = "registrations"

	StatusRegistered = "registered"
	StatusVerified   = "verified"

	MsgVerified = "Ticket verified successfully"
	MsgInvalid  = "Invalid ticket or verification code"
)

var ErrNotFound = errors.New("ticket or verification code not found")

// Event is the shape events had in the browser-local store.
type Event struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Venue       string `json:"venue"`
	Image       string `json:"image"`
	Capacity    int    `json:"capacity"`
}

type Registration struct {
	ID                 string `json:"id"`
	EventID            string `json:"eventId"`
	StudentName        string `json:"studentName"`
	Email              string `json:"email"`
	Mobile             string `json:"mobile"`
	Course             string `json:"course"`
	Branch             string `json:"branch"`
	TicketID           string `json:"ticketId"`
	VerificationCode   string `json:"verificationCode"`
	RegistrationStatus string `json:"registrationStatus"`
	RegistrationDate   string `json:"registrationDate"`
}

// Store keeps the superseded events and registrations arrays in a KV backend.
// Read-modify-write cycles are serialized within the process.
type Store struct {
	kv  KV
	log *zerolog.Logger
	now func() time.Time
	gen *codeGenerator

	mu sync.Mutex
}

func New(kv KV, log *zerolog.Logger) *Store {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Store{kv: kv, log: log, now: time.Now, gen: newCodeGenerator()}
}

func (s *Store) Events(ctx context.Context) ([]Event, error) {
	events := make([]Event, 0)
	if err := s.load(ctx, KeyEvents, &events); err != nil {
		return make([]Event, 0), err
	}
	return events, nil
}

func (s *Store) Registrations(ctx context.Context) ([]Registration, error) {
	regs := make([]Registration, 0)
	if err := s.load(ctx, KeyRegistrations, &regs); err != nil {
		return make([]Registration, 0), err
	}
	return regs, nil
}

// SeedDefaultEvents stores the default events when none are stored yet. It
// reports whether it wrote anything.
func (s *Store) SeedDefaultEvents(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.Events(ctx)
	if err != nil {
		return false, err
	}
	if len(events) > 0 {
		return false, nil
	}
	if err := s.save(ctx, KeyEvents, DefaultEvents()); err != nil {
		return false, err
	}
	s.log.Info().Int("events", len(DefaultEvents())).Msg("legacy store seeded with default events")
	return true, nil
}

// AddRegistration appends a registration with a fresh ticket id and
// verification code.
func (s *Store) AddRegistration(ctx context.Context, eventID string, p model.Profile) (Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	regs, err := s.Registrations(ctx)
	if err != nil {
		return Registration{}, err
	}
	taken := make(map[string]struct{}, len(regs))
	for _, r := range regs {
		taken[r.TicketID] = struct{}{}
	}

	ticket, err := s.gen.uniqueTicketID(taken)
	if err != nil {
		return Registration{}, err
	}
	code, err := s.gen.verificationCode()
	if err != nil {
		return Registration{}, err
	}

	reg := Registration{
		ID:                 uuid.NewString(),
		EventID:            eventID,
		StudentName:        p.Name,
		Email:              p.Email,
		Mobile:             p.Mobile,
		Course:             p.Course,
		Branch:             p.Branch,
		TicketID:           ticket,
		VerificationCode:   code,
		RegistrationStatus: StatusRegistered,
		RegistrationDate:   s.now().UTC().Format(time.RFC3339),
	}
	regs = append(regs, reg)
	if err := s.save(ctx, KeyRegistrations, regs); err != nil {
		return Registration{}, err
	}
	s.log.Info().Str("ticket_id", ticket).Str("event_id", eventID).Msg("legacy registration added")
	return reg, nil
}

// VerifyTicket marks the registration holding both identifiers as verified.
func (s *Store) VerifyTicket(ctx context.Context, ticketID, code string) (Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	regs, err := s.Registrations(ctx)
	if err != nil {
		return Registration{}, err
	}
	for i := range regs {
		if regs[i].TicketID != ticketID || regs[i].VerificationCode != code {
			continue
		}
		regs[i].RegistrationStatus = StatusVerified
		if err := s.save(ctx, KeyRegistrations, regs); err != nil {
			return Registration{}, err
		}
		s.log.Info().Str("ticket_id", ticketID).Msg("legacy ticket verified")
		return regs[i], nil
	}
	return Registration{}, ErrNotFound
}

// ModelEvents converts the stored events for the public page fallback.
func (s *Store) ModelEvents(ctx context.Context) ([]model.Event, error) {
	events, err := s.Events(ctx)
	if err != nil {
		return make([]model.Event, 0), err
	}
	out := make([]model.Event, 0, len(events))
	for i, e := range events {
		out = append(out, e.Model(i+1))
	}
	return out, nil
}

// Model converts a stored event. Numeric ids are taken from the "evtN"
// suffix; fallback is used when there is none.
func (e Event) Model(fallback int) model.Event {
	id, err := strconv.Atoi(strings.TrimPrefix(e.ID, "evt"))
	if err != nil {
		id = fallback
	}
	ev := model.Event{
		ID:          id,
		Name:        e.Name,
		Description: e.Description,
		Date:        e.Date,
		Venue:       e.Venue,
		Image:       e.Image,
	}
	if e.Time != "" {
		t := e.Time
		ev.Time = &t
	}
	return ev
}

func (s *Store) load(ctx context.Context, key string, out any) error {
	data, err := s.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
