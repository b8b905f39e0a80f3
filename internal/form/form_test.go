package form

import (
	"context"
	"errors"
	"eventdesk/internal/dto"
	"eventdesk/internal/gateway"
	"eventdesk/internal/model"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu      sync.Mutex
	calls   []string
	err     error
	created *model.Event
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeGateway) record(call string) error {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	return f.err
}

func (f *fakeGateway) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGateway) CreateEvent(ctx context.Context, p dto.EventPayload) (*model.Event, error) {
	if err := f.record("create"); err != nil {
		return nil, err
	}
	return f.created, nil
}

func (f *fakeGateway) UpdateEvent(ctx context.Context, id int, p dto.EventPayload) (*model.Event, error) {
	if err := f.record("update"); err != nil {
		return nil, err
	}
	return &model.Event{ID: id}, nil
}

func (f *fakeGateway) DeleteEvent(ctx context.Context, id int) error {
	return f.record("delete")
}

func (f *fakeGateway) SubmitRegistration(ctx context.Context, eventID int, form dto.RegistrationForm) error {
	return f.record("submit")
}

func (f *fakeGateway) UpdateRegistration(ctx context.Context, regID int, form dto.RegistrationForm) error {
	return f.record("update_registration")
}

type fakeCache struct {
	events    map[int]model.Event
	profile   *model.Profile
	mine      []model.Registration
	refreshes int
	mineRuns  int
}

func (c *fakeCache) FindEvent(id int) (model.Event, bool) {
	ev, ok := c.events[id]
	return ev, ok
}

func (c *fakeCache) Refresh(ctx context.Context) error { c.refreshes++; return nil }

func (c *fakeCache) RefreshMine(ctx context.Context) error { c.mineRuns++; return nil }

func (c *fakeCache) Profile() *model.Profile { return c.profile }

func (c *fakeCache) MyRegistrations() []model.Registration { return c.mine }

type fakeNotifier struct{ notices []dto.Notice }

func (n *fakeNotifier) Publish(ctx context.Context, notice dto.Notice) error {
	n.notices = append(n.notices, notice)
	return nil
}

type fakeMailer struct{ sent []model.Registration }

func (m *fakeMailer) SendConfirmation(ctx context.Context, reg model.Registration) error {
	m.sent = append(m.sent, reg)
	return nil
}

func validEvent() dto.EventPayload {
	return dto.EventPayload{Name: "Fest", Description: "Annual fest", Date: "2025-01-01", Venue: "Hall"}
}

func validRegistration() dto.RegistrationForm {
	return dto.RegistrationForm{Name: "Asha", Email: "asha@college.in", Mobile: "9876543210", Course: "BTech", Branch: "CSE"}
}

func TestEventModal_CreateSuccess(t *testing.T) {
	gw := &fakeGateway{created: &model.Event{ID: 11}}
	cache := &fakeCache{}
	notify := &fakeNotifier{}
	m := NewEventModal(gw, cache, notify, nil)

	require.NoError(t, m.OpenCreate())
	assert.Equal(t, Creating, m.View().State)

	require.NoError(t, m.Submit(context.Background(), validEvent()))
	assert.Equal(t, Closed, m.View().State)
	assert.Equal(t, []string{"create"}, gw.Calls())
	assert.Equal(t, 1, cache.refreshes)
	require.Len(t, notify.notices, 1)
	assert.Equal(t, dto.Notice{Collection: dto.CollectionEvents, EventID: 11}, notify.notices[0])
}

func TestEventModal_ServerRejectionKeepsModalOpen(t *testing.T) {
	gw := &fakeGateway{err: &gateway.Error{Kind: gateway.KindRejected, Op: "create_event", Message: "Name required"}}
	cache := &fakeCache{}
	m := NewEventModal(gw, cache, nil, nil)

	require.NoError(t, m.OpenCreate())
	err := m.Submit(context.Background(), validEvent())
	require.Error(t, err)

	view := m.View()
	assert.Equal(t, ErrorShown, view.State)
	assert.Equal(t, Creating, view.Mode)
	assert.Equal(t, "Name required", view.Error)
	assert.Equal(t, "Fest", view.Values.Name)
	assert.Zero(t, cache.refreshes)
}

func TestEventModal_ValidationBeforeGateway(t *testing.T) {
	gw := &fakeGateway{}
	m := NewEventModal(gw, &fakeCache{}, nil, nil)
	require.NoError(t, m.OpenCreate())

	p := validEvent()
	p.Name = ""
	require.Error(t, m.Submit(context.Background(), p))
	assert.Equal(t, MsgMissingFields, m.View().Error)

	p = validEvent()
	p.Date = "01/02/2025"
	require.Error(t, m.Submit(context.Background(), p))
	assert.Equal(t, ErrorShown, m.View().State)
	assert.Empty(t, gw.Calls())

	// retry from the error state goes through
	require.NoError(t, m.Submit(context.Background(), validEvent()))
	assert.Equal(t, []string{"create"}, gw.Calls())
}

func TestEventModal_OpenEdit(t *testing.T) {
	gw := &fakeGateway{}
	cache := &fakeCache{events: map[int]model.Event{4: {ID: 4, Name: "Quiz", Description: "d", Date: "2025-05-05", Venue: "Lab"}}}
	m := NewEventModal(gw, cache, nil, nil)

	assert.ErrorIs(t, m.OpenEdit(9), ErrEventNotCached)
	assert.Equal(t, Closed, m.View().State)

	require.NoError(t, m.OpenEdit(4))
	view := m.View()
	assert.Equal(t, Editing, view.State)
	assert.Equal(t, "Quiz", view.Values.Name)

	require.NoError(t, m.Submit(context.Background(), view.Values))
	assert.Equal(t, []string{"update"}, gw.Calls())
	assert.Equal(t, Closed, m.View().State)
}

func TestEventModal_SubmitWhenClosed(t *testing.T) {
	m := NewEventModal(&fakeGateway{}, &fakeCache{}, nil, nil)
	assert.ErrorIs(t, m.Submit(context.Background(), validEvent()), ErrNotOpen)
}

func TestEventModal_BusyWhileSubmitting(t *testing.T) {
	gw := &fakeGateway{created: &model.Event{ID: 1}, block: make(chan struct{}), entered: make(chan struct{}, 1)}
	m := NewEventModal(gw, &fakeCache{}, nil, nil)
	require.NoError(t, m.OpenCreate())

	done := make(chan error, 1)
	go func() { done <- m.Submit(context.Background(), validEvent()) }()

	select {
	case <-gw.entered:
	case <-time.After(time.Second):
		t.Fatal("submit never reached the gateway")
	}
	assert.Equal(t, Submitting, m.View().State)
	assert.ErrorIs(t, m.Submit(context.Background(), validEvent()), ErrBusy)
	assert.ErrorIs(t, m.Delete(context.Background(), 1), ErrBusy)
	assert.ErrorIs(t, m.Close(), ErrBusy)

	close(gw.block)
	require.NoError(t, <-done)
	assert.Equal(t, Closed, m.View().State)
}

func TestEventModal_Delete(t *testing.T) {
	gw := &fakeGateway{}
	cache := &fakeCache{}
	m := NewEventModal(gw, cache, nil, nil)

	require.NoError(t, m.Delete(context.Background(), 3))
	assert.Equal(t, 1, cache.refreshes)
	assert.Equal(t, Closed, m.View().State)

	gw.err = &gateway.Error{Kind: gateway.KindNotFound, Op: "delete_event"}
	require.Error(t, m.Delete(context.Background(), 3))
	assert.Equal(t, 1, cache.refreshes)
}

func TestRegistrationModal_OpenAutofills(t *testing.T) {
	cache := &fakeCache{
		events:  map[int]model.Event{2: {ID: 2, Name: "Fest"}},
		profile: &model.Profile{Name: "Asha", Email: "asha@college.in", Mobile: "9876543210", Course: "BTech", Branch: "CSE"},
	}
	m := NewRegistrationModal(&fakeGateway{}, cache, nil, nil, nil)

	assert.ErrorIs(t, m.Open(5), ErrEventNotCached)
	require.NoError(t, m.Open(2))
	view := m.View()
	assert.Equal(t, "Fest", view.EventName)
	assert.Equal(t, "Asha", view.Values.Name)
	assert.Equal(t, "CSE", view.Values.Branch)
}

func TestRegistrationModal_MobileCheckedBeforeNetwork(t *testing.T) {
	bad := []string{"", "12345", "98765432101", "98765-4321", "abcdefghij", "987654321x", " 987654321", "９８７６５４３２１０"}
	for _, mobile := range bad {
		gw := &fakeGateway{}
		cache := &fakeCache{events: map[int]model.Event{1: {ID: 1, Name: "Fest"}}}
		m := NewRegistrationModal(gw, cache, nil, nil, nil)
		require.NoError(t, m.Open(1))

		f := validRegistration()
		f.Mobile = mobile
		require.Error(t, m.Submit(context.Background(), f), "mobile %q", mobile)
		assert.Empty(t, gw.Calls(), "mobile %q reached the gateway", mobile)
		assert.Equal(t, ErrorShown, m.View().State)
	}

	gw := &fakeGateway{}
	cache := &fakeCache{events: map[int]model.Event{1: {ID: 1, Name: "Fest"}}}
	m := NewRegistrationModal(gw, cache, nil, nil, nil)
	require.NoError(t, m.Open(1))
	f := validRegistration()
	f.Mobile = "0123456789"
	require.NoError(t, m.Submit(context.Background(), f))
	assert.Equal(t, []string{"submit"}, gw.Calls())
}

func TestRegistrationModal_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "duplicate", err: &gateway.Error{Kind: gateway.KindAlreadyRegistered}, want: MsgAlreadyRegistered},
		{name: "validation", err: &gateway.Error{Kind: gateway.KindValidation}, want: MsgMissingFields},
		{name: "validation with message", err: &gateway.Error{Kind: gateway.KindValidation, Message: "Invalid email"}, want: "Invalid email"},
		{name: "transport", err: &gateway.Error{Kind: gateway.KindTransport, Err: errors.New("dial")}, want: MsgRegistrationFailed},
		{name: "rejected", err: &gateway.Error{Kind: gateway.KindRejected, Status: 500}, want: MsgRegistrationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := &fakeCache{events: map[int]model.Event{1: {ID: 1, Name: "Fest"}}}
			m := NewRegistrationModal(&fakeGateway{err: tt.err}, cache, nil, nil, nil)
			require.NoError(t, m.Open(1))
			require.Error(t, m.Submit(context.Background(), validRegistration()))
			assert.Equal(t, tt.want, m.View().Error)
			assert.Equal(t, ErrorShown, m.View().State)
		})
	}
}

func TestRegistrationModal_MissingFields(t *testing.T) {
	cache := &fakeCache{events: map[int]model.Event{1: {ID: 1}}}
	gw := &fakeGateway{}
	m := NewRegistrationModal(gw, cache, nil, nil, nil)
	require.NoError(t, m.Open(1))

	f := validRegistration()
	f.Course = "   "
	require.Error(t, m.Submit(context.Background(), f))
	assert.Equal(t, MsgMissingFields, m.View().Error)
	assert.Empty(t, gw.Calls())
}

func TestRegistrationModal_SuccessRefreshesAndMails(t *testing.T) {
	cache := &fakeCache{
		events: map[int]model.Event{1: {ID: 1, Name: "Fest"}},
		mine:   []model.Registration{{ID: 8, EventID: 1, Email: "ASHA@college.in", TicketID: "ABCDEF123456"}},
	}
	mail := &fakeMailer{}
	notify := &fakeNotifier{}
	m := NewRegistrationModal(&fakeGateway{}, cache, mail, notify, nil)
	require.NoError(t, m.Open(1))

	require.NoError(t, m.Submit(context.Background(), validRegistration()))
	view := m.View()
	assert.Equal(t, Closed, view.State)
	assert.Equal(t, MsgRegistered, view.Success)
	assert.Equal(t, 1, cache.mineRuns)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "ABCDEF123456", mail.sent[0].TicketID)
	require.Len(t, notify.notices, 1)
	assert.Equal(t, dto.CollectionRegistrations, notify.notices[0].Collection)
}

func TestRegistrationModal_Edit(t *testing.T) {
	cache := &fakeCache{mine: []model.Registration{{ID: 8, EventID: 1, EventName: "Fest", Name: "Asha", Email: "asha@college.in", Mobile: "9876543210", Course: "BTech", Branch: "CSE"}}}
	gw := &fakeGateway{}
	mail := &fakeMailer{}
	m := NewRegistrationModal(gw, cache, mail, nil, nil)

	assert.ErrorIs(t, m.Edit(3), ErrNotMine)
	require.NoError(t, m.Edit(8))
	view := m.View()
	assert.Equal(t, Editing, view.State)
	assert.Equal(t, "Fest", view.EventName)

	f := view.Values
	f.Branch = "ECE"
	require.NoError(t, m.Submit(context.Background(), f))
	assert.Equal(t, []string{"update_registration"}, gw.Calls())
	assert.Equal(t, MsgRegistrationSaved, m.View().Success)
	assert.Empty(t, mail.sent)
}

func TestStateString(t *testing.T) {
	names := []string{Closed.String(), Creating.String(), Editing.String(), Submitting.String(), ErrorShown.String()}
	assert.Equal(t, "closed,creating,editing,submitting,error_shown", strings.Join(names, ","))
	assert.Equal(t, "unknown", State(42).String())
}
