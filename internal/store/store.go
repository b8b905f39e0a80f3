package store

import (
	"context"
	"errors"
	"eventdesk/internal/gateway"
	"eventdesk/internal/model"
	"eventdesk/internal/monitoring"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// ErrStaleRefresh is returned by a refresh whose response arrived after a
// newer refresh had been issued. Its data is dropped.
var ErrStaleRefresh = errors.New("stale refresh discarded")

// Source is the read side of the gateway the store pulls from.
type Source interface {
	ListEvents(ctx context.Context, filter gateway.Filter) ([]model.Event, error)
	ListRegistrations(ctx context.Context) ([]model.Registration, error)
	ListMyRegistrations(ctx context.Context) ([]model.Registration, error)
	Profile(ctx context.Context) (*model.Profile, error)
}

// Snapshot is one consistent pair of collections. It is never mutated after
// it has been published.
type Snapshot struct {
	Events        []model.Event
	Registrations []model.Registration
	Seq           uint64
	RefreshedAt   time.Time
	Err           error
}

type mineSnapshot struct {
	seq  uint64
	regs []model.Registration
}

type Store struct {
	src Source
	log *zerolog.Logger
	now func() time.Time

	issued     atomic.Uint64
	mineIssued atomic.Uint64

	mu      sync.Mutex
	snap    atomic.Pointer[Snapshot]
	mine    atomic.Pointer[mineSnapshot]
	profile atomic.Pointer[model.Profile]
}

func New(src Source, log *zerolog.Logger) *Store {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	s := &Store{src: src, log: log, now: time.Now}
	s.snap.Store(&Snapshot{
		Events:        make([]model.Event, 0),
		Registrations: make([]model.Registration, 0),
	})
	s.mine.Store(&mineSnapshot{regs: make([]model.Registration, 0)})
	return s
}

// Refresh refetches registrations, then events, and publishes both as one
// snapshot. A collection whose fetch failed is published empty.
func (s *Store) Refresh(ctx context.Context) error {
	seq := s.issued.Add(1)

	regs, rerr := s.src.ListRegistrations(ctx)
	events, eerr := s.src.ListEvents(ctx, gateway.FilterAll)
	if regs == nil || rerr != nil {
		regs = make([]model.Registration, 0)
	}
	if events == nil || eerr != nil {
		events = make([]model.Event, 0)
	}
	err := errors.Join(rerr, eerr)

	next := &Snapshot{
		Events:        events,
		Registrations: regs,
		Seq:           seq,
		RefreshedAt:   s.now(),
		Err:           err,
	}

	s.mu.Lock()
	if seq < s.issued.Load() {
		s.mu.Unlock()
		monitoring.TrackRefresh("stale")
		s.log.Debug().Uint64("seq", seq).Msg("stale refresh discarded")
		return ErrStaleRefresh
	}
	s.snap.Store(next)
	s.mu.Unlock()

	monitoring.SetCachedItems(len(events), len(regs))
	if err != nil {
		monitoring.TrackRefresh("failed")
		s.log.Warn().Err(err).Uint64("seq", seq).Msg("store refreshed with failures")
		return err
	}
	monitoring.TrackRefresh("applied")
	s.log.Debug().
		Uint64("seq", seq).
		Int("events", len(events)).
		Int("registrations", len(regs)).
		Msg("store refreshed")
	return nil
}

// RefreshMine refetches the signed-in user's own registrations.
func (s *Store) RefreshMine(ctx context.Context) error {
	seq := s.mineIssued.Add(1)
	regs, err := s.src.ListMyRegistrations(ctx)
	if regs == nil || err != nil {
		regs = make([]model.Registration, 0)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.mineIssued.Load() {
		return ErrStaleRefresh
	}
	s.mine.Store(&mineSnapshot{seq: seq, regs: regs})
	return err
}

// LoadProfile fetches the signed-in user's profile for form auto-fill.
// The cached profile is cleared when the fetch fails.
func (s *Store) LoadProfile(ctx context.Context) error {
	p, err := s.src.Profile(ctx)
	if err != nil {
		s.profile.Store(nil)
		return err
	}
	s.profile.Store(p)
	return nil
}

func (s *Store) Snapshot() *Snapshot {
	return s.snap.Load()
}

func (s *Store) Events() []model.Event {
	return s.snap.Load().Events
}

func (s *Store) Registrations() []model.Registration {
	return s.snap.Load().Registrations
}

func (s *Store) MyRegistrations() []model.Registration {
	return s.mine.Load().regs
}

// Profile returns the cached profile, or nil when none is loaded.
func (s *Store) Profile() *model.Profile {
	return s.profile.Load()
}

func (s *Store) FindEvent(id int) (model.Event, bool) {
	for _, e := range s.Events() {
		if e.ID == id {
			return e, true
		}
	}
	return model.Event{}, false
}

// FindTicket matches the ticket identifier exactly.
func (s *Store) FindTicket(ticketID string) (model.Registration, bool) {
	if ticketID == "" {
		return model.Registration{}, false
	}
	for _, r := range s.Registrations() {
		if r.TicketID == ticketID {
			return r, true
		}
	}
	return model.Registration{}, false
}
