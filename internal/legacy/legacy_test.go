package legacy

import (
	"context"
	"encoding/json"
	"errors"
	"eventdesk/internal/model"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
}

func newMemKV() *memKV { return &memKV{data: make(map[string][]byte)} }

func (m *memKV) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.data[key], nil
}

func (m *memKV) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	return nil
}

var (
	ticketPattern = regexp.MustCompile(`^[A-Z0-9]{12}$`)
	codePattern   = regexp.MustCompile(`^[1-9][0-9]{5}$`)
)

func TestCodeGenerator(t *testing.T) {
	g := newCodeGenerator()
	for i := 0; i < 200; i++ {
		id, err := g.ticketID()
		require.NoError(t, err)
		assert.Regexp(t, ticketPattern, id)

		code, err := g.verificationCode()
		require.NoError(t, err)
		assert.Regexp(t, codePattern, code)
	}
}

func TestSeedDefaultEvents(t *testing.T) {
	s := New(newMemKV(), nil)
	ctx := context.Background()

	seeded, err := s.SeedDefaultEvents(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = s.SeedDefaultEvents(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)

	events, err := s.Events(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 10)

	models, err := s.ModelEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, models[0].ID)
	assert.Equal(t, 10, models[9].ID)
	require.NotNil(t, models[0].Time)
	assert.Equal(t, "09:00", *models[0].Time)
}

func TestAddAndVerify(t *testing.T) {
	s := New(newMemKV(), nil)
	s.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	ctx := context.Background()

	reg, err := s.AddRegistration(ctx, "evt2", model.Profile{Name: "Asha", Email: "a@x.in", Mobile: "9876543210", Course: "BTech", Branch: "CSE"})
	require.NoError(t, err)
	assert.Regexp(t, ticketPattern, reg.TicketID)
	assert.Regexp(t, codePattern, reg.VerificationCode)
	assert.Equal(t, StatusRegistered, reg.RegistrationStatus)
	assert.Equal(t, "2025-01-02T03:04:05Z", reg.RegistrationDate)
	assert.Len(t, reg.ID, 36)

	_, err = s.VerifyTicket(ctx, reg.TicketID, "000000")
	assert.ErrorIs(t, err, ErrNotFound)

	verified, err := s.VerifyTicket(ctx, reg.TicketID, reg.VerificationCode)
	require.NoError(t, err)
	assert.Equal(t, StatusVerified, verified.RegistrationStatus)

	regs, err := s.Registrations(ctx)
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, StatusVerified, regs[0].RegistrationStatus)
}

func TestStore_BackendFailure(t *testing.T) {
	kv := newMemKV()
	kv.err = errors.New("connection refused")
	s := New(kv, nil)

	events, err := s.Events(context.Background())
	require.Error(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)

	_, err = s.AddRegistration(context.Background(), "evt1", model.Profile{})
	require.Error(t, err)
}

func TestRedisKV_Seed(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := New(NewRedisKV(db, "eventdesk:"), nil)

	data, err := json.Marshal(DefaultEvents())
	require.NoError(t, err)

	mock.ExpectGet("eventdesk:events").RedisNil()
	mock.ExpectSet("eventdesk:events", string(data), 0).SetVal("OK")

	seeded, err := s.SeedDefaultEvents(context.Background())
	require.NoError(t, err)
	assert.True(t, seeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisKV_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	kv := NewRedisKV(db, "eventdesk:")

	mock.ExpectGet("eventdesk:registrations").SetVal(`[{"ticketId":"ABCDEF123456"}]`)
	mock.ExpectGet("eventdesk:events").SetErr(errors.New("timeout"))

	s := New(kv, nil)
	regs, err := s.Registrations(context.Background())
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, "ABCDEF123456", regs[0].TicketID)

	_, err = s.Events(context.Background())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_b.up.sql", "0001_a.up.sql", "0001_a.down.sql", "0002_b.down.sql"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}

	up, err := migrationFiles(dir, "*.up.sql", false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "0001_a.up.sql"), filepath.Join(dir, "0002_b.up.sql")}, up)

	down, err := migrationFiles(dir, "*.down.sql", true)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "0002_b.down.sql"), filepath.Join(dir, "0001_a.down.sql")}, down)
}
