package mailer

import (
	"context"
	"eventdesk/internal/model"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends registration confirmations over SMTP.
type Mailer struct {
	cfg  Config
	log  *zerolog.Logger
	send sendFunc
}

func New(cfg Config, log *zerolog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log, send: smtp.SendMail}
}

func (m *Mailer) SendConfirmation(ctx context.Context, reg model.Registration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if reg.Email == "" {
		return fmt.Errorf("registration %d has no email", reg.ID)
	}
	if addr, err := mail.ParseAddress(reg.Email); err != nil || addr.Address != reg.Email {
		return fmt.Errorf("registration %d has a malformed email", reg.ID)
	}

	msg := confirmationMessage(m.cfg.From, reg)
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := m.send(addr, auth, m.cfg.From, []string{reg.Email}, msg); err != nil {
		m.log.Warn().Err(err).Str("email", reg.Email).Msg("confirmation email not sent")
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info().Str("email", reg.Email).Str("ticket_id", reg.TicketID).Msg("confirmation email sent")
	return nil
}

func confirmationMessage(from string, reg model.Registration) []byte {
	// event names are user input; non-ASCII and control bytes are Q-encoded
	subject := mime.QEncoding.Encode("utf-8", "Registration Confirmed: "+reg.EventName)

	var body strings.Builder
	fmt.Fprintf(&body, "Hello %s,\r\n\r\n", reg.Name)
	fmt.Fprintf(&body, "You are registered for %s.\r\n\r\n", reg.EventName)
	fmt.Fprintf(&body, "Date: %s\r\n", reg.EventDate)
	fmt.Fprintf(&body, "Venue: %s\r\n", reg.EventVenue)
	if reg.TicketID != "" {
		fmt.Fprintf(&body, "Ticket ID: %s\r\n", reg.TicketID)
	}
	body.WriteString("\r\nPlease show your ticket at the entrance.\r\n")

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n%s",
		from, reg.Email, subject, body.String(),
	)
	return []byte(msg)
}
