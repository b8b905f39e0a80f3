package render

import (
	"encoding/base64"
	"eventdesk/internal/model"
	"fmt"
	"html/template"

	"github.com/skip2/go-qrcode"
)

const qrSize = 256

const (
	ValidTicket   = "Valid Ticket"
	InvalidTicket = "Invalid Ticket"
)

// ScanPanel is the outcome shown after a ticket was decoded or typed in.
type ScanPanel struct {
	Valid    bool   `json:"valid"`
	Title    string `json:"title"`
	TicketID string `json:"ticket_id"`
	Event    string `json:"event,omitempty"`
	Attendee string `json:"attendee,omitempty"`
	Course   string `json:"course,omitempty"`
	Branch   string `json:"branch,omitempty"`
	Mobile   string `json:"mobile,omitempty"`
	Message  string `json:"message,omitempty"`
}

func ScanResultPanel(ticketID string, reg model.Registration, found bool) ScanPanel {
	if !found {
		return ScanPanel{
			Title:    InvalidTicket,
			TicketID: ticketID,
			Message:  fmt.Sprintf("This ticket ID (%s) is not found in the system.", ticketID),
		}
	}
	return ScanPanel{
		Valid:    true,
		Title:    ValidTicket,
		TicketID: reg.TicketID,
		Event:    reg.EventName,
		Attendee: reg.Name,
		Course:   reg.Course,
		Branch:   reg.Branch,
		Mobile:   reg.Mobile,
	}
}

type Ticket struct {
	Registration model.Registration
	DateLabel    string
	QR           template.URL
}

// TicketCard renders the registration with a QR code of its ticket id.
func TicketCard(reg model.Registration) (Ticket, error) {
	if reg.TicketID == "" {
		return Ticket{}, fmt.Errorf("registration %d has no ticket id", reg.ID)
	}
	png, err := qrcode.Encode(reg.TicketID, qrcode.Medium, qrSize)
	if err != nil {
		return Ticket{}, fmt.Errorf("encode qr: %w", err)
	}
	return Ticket{
		Registration: reg,
		DateLabel:    DateLabel(reg.EventDate),
		QR:           template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)),
	}, nil
}
