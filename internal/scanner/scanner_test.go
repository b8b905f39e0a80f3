package scanner

import (
	"context"
	"errors"
	"eventdesk/internal/model"
	"eventdesk/internal/render"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tickets map[string]model.Registration

func (t tickets) FindTicket(id string) (model.Registration, bool) {
	r, ok := t[id]
	return r, ok
}

type countingWidget struct {
	starts, stops int
	startErr      error
	onDecode      func(string)
}

func (w *countingWidget) Start(ctx context.Context, onDecode func(string)) error {
	w.starts++
	if w.startErr != nil {
		return w.startErr
	}
	w.onDecode = onDecode
	return nil
}

func (w *countingWidget) Stop() error {
	w.stops++
	w.onDecode = nil
	return nil
}

var known = tickets{
	"ABCDEF123456": {ID: 1, TicketID: "ABCDEF123456", Name: "Asha", EventName: "Fest", Course: "BTech", Branch: "CSE", Mobile: "9876543210"},
}

func TestAdapter_StartStopGuard(t *testing.T) {
	w := &countingWidget{}
	a := New(w, known, nil)

	require.NoError(t, a.Stop())
	assert.Zero(t, w.stops)

	require.NoError(t, a.Start(context.Background()))
	require.NoError(t, a.Start(context.Background()))
	assert.Equal(t, 1, w.starts)
	assert.Equal(t, Scanning, a.View().State)

	require.NoError(t, a.Stop())
	require.NoError(t, a.Stop())
	assert.Equal(t, 1, w.stops)
	assert.Equal(t, Idle, a.View().State)
}

func TestAdapter_StartFailure(t *testing.T) {
	w := &countingWidget{startErr: errors.New("no camera")}
	a := New(w, known, nil)

	require.Error(t, a.Start(context.Background()))
	assert.Equal(t, Idle, a.View().State)
	require.NoError(t, a.Stop())
	assert.Zero(t, w.stops)
}

func TestAdapter_DecodeStopsWidget(t *testing.T) {
	w := &countingWidget{}
	a := New(w, known, nil)
	require.NoError(t, a.Start(context.Background()))

	w.onDecode("ABCDEF123456")

	view := a.View()
	assert.Equal(t, ResultShown, view.State)
	require.NotNil(t, view.Result)
	assert.True(t, view.Result.Valid)
	assert.Equal(t, render.ValidTicket, view.Result.Title)
	assert.Equal(t, "Asha", view.Result.Attendee)
	assert.Equal(t, 1, w.stops)

	// the handle is released, so a later Stop does not reach the widget
	require.NoError(t, a.Stop())
	assert.Equal(t, 1, w.stops)
	assert.Equal(t, ResultShown, a.View().State)

	a.Dismiss()
	assert.Equal(t, Idle, a.View().State)
	assert.Nil(t, a.View().Result)
}

// stopHookWidget runs onStop once, after the widget has stopped.
type stopHookWidget struct {
	countingWidget
	onStop func()
}

func (w *stopHookWidget) Stop() error {
	err := w.countingWidget.Stop()
	if f := w.onStop; f != nil {
		w.onStop = nil
		f()
	}
	return err
}

func TestAdapter_StartDuringDecodeStop(t *testing.T) {
	w := &stopHookWidget{}
	a := New(w, known, nil)
	require.NoError(t, a.Start(context.Background()))
	w.onStop = func() { require.NoError(t, a.Start(context.Background())) }

	w.onDecode("ABCDEF123456")

	// the restart wins, the decoded result does not overwrite it
	view := a.View()
	assert.Equal(t, Scanning, view.State)
	assert.Nil(t, view.Result)
	assert.Equal(t, 2, w.starts)

	require.NoError(t, a.Stop())
	assert.Equal(t, 2, w.stops)
	assert.Equal(t, Idle, a.View().State)
}

func TestAdapter_UnknownTicket(t *testing.T) {
	a := New(&countingWidget{}, known, nil)

	panel := a.ManualEntry("ZZZ999")
	assert.False(t, panel.Valid)
	assert.Equal(t, render.InvalidTicket, panel.Title)
	assert.Contains(t, panel.Message, "ZZZ999")
	assert.Equal(t, ResultShown, a.View().State)

	// lookups are exact
	assert.False(t, a.ManualEntry("abcdef123456").Valid)
}

func TestRemoteWidget(t *testing.T) {
	w := NewRemoteWidget()
	a := New(w, known, nil)

	assert.ErrorIs(t, w.Push("ABCDEF123456"), ErrNotScanning)

	require.NoError(t, a.Start(context.Background()))
	require.NoError(t, w.Push("ABCDEF123456"))
	assert.True(t, a.View().Result.Valid)

	// stopped after the first decode
	assert.ErrorIs(t, w.Push("ZZZ999"), ErrNotScanning)
	assert.Equal(t, "ABCDEF123456", a.View().Result.TicketID)
}

func TestRemoteWidget_CanceledContext(t *testing.T) {
	w := NewRemoteWidget()
	a := New(w, known, nil)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, a.Start(ctx))
	cancel()
	assert.ErrorIs(t, w.Push("ABCDEF123456"), ErrNotScanning)
}

func TestLineWidget(t *testing.T) {
	pr, pw := io.Pipe()
	w := NewLineWidget(pr)
	a := New(w, known, nil)
	require.NoError(t, a.Start(context.Background()))

	_, err := io.WriteString(pw, "\n  ZZZ999  \r\n")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return a.View().State == ResultShown }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "ZZZ999", a.View().Result.TicketID)
	assert.False(t, a.View().Result.Valid)

	// idle: lines are dropped
	_, err = io.WriteString(pw, "ABCDEF123456\n")
	require.NoError(t, err)
	assert.False(t, a.View().Result.Valid)

	require.NoError(t, a.Start(context.Background()))
	_, err = io.WriteString(pw, "ABCDEF123456\n")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		r := a.View().Result
		return r != nil && r.Valid
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, pw.Close())
	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatal("line widget did not finish")
	}
	assert.ErrorIs(t, w.Start(context.Background(), func(string) {}), io.EOF)
}
