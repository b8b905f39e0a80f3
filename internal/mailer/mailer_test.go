package mailer

import (
	"context"
	"errors"
	"eventdesk/internal/model"
	"net/smtp"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendConfirmation(t *testing.T) {
	log := zerolog.Nop()
	m := New(Config{Host: "smtp.college.in", Port: 587, Username: "desk", Password: "pw", From: "desk@college.in"}, &log)

	var gotAddr string
	var gotTo []string
	var gotMsg string
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		assert.NotNil(t, a)
		return nil
	}

	reg := model.Registration{ID: 1, Name: "Asha", Email: "asha@college.in", EventName: "Fest", EventDate: "2025-01-01", EventVenue: "Hall", TicketID: "ABCDEF123456"}
	require.NoError(t, m.SendConfirmation(context.Background(), reg))

	assert.Equal(t, "smtp.college.in:587", gotAddr)
	assert.Equal(t, []string{"asha@college.in"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Registration Confirmed: Fest")
	assert.Contains(t, gotMsg, "Ticket ID: ABCDEF123456")
}

func TestSendConfirmation_Failures(t *testing.T) {
	log := zerolog.Nop()
	m := New(Config{Host: "localhost", Port: 25, From: "desk@college.in"}, &log)
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") }

	require.Error(t, m.SendConfirmation(context.Background(), model.Registration{Email: "a@x.in"}))
	require.Error(t, m.SendConfirmation(context.Background(), model.Registration{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.SendConfirmation(ctx, model.Registration{Email: "a@x.in"}), context.Canceled)
}

func TestSendConfirmation_HeaderInjection(t *testing.T) {
	log := zerolog.Nop()
	m := New(Config{Host: "localhost", Port: 25, From: "desk@college.in"}, &log)
	var sent []string
	m.send = func(_ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		sent = append(sent, string(msg))
		return nil
	}

	err := m.SendConfirmation(context.Background(), model.Registration{ID: 3, Email: "a@x.in\r\nBcc: all@x.in"})
	require.Error(t, err)
	assert.Empty(t, sent)

	reg := model.Registration{ID: 4, Email: "a@x.in", EventName: "Fest\r\nBcc: all@x.in", TicketID: "T4"}
	require.NoError(t, m.SendConfirmation(context.Background(), reg))
	require.Len(t, sent, 1)
	headers, _, _ := strings.Cut(sent[0], "\r\n\r\n")
	assert.NotContains(t, headers, "\r\nBcc:")
	assert.Contains(t, headers, "Subject: =?utf-8?q?")
}
