package dto

import (
	"encoding/json"
	"eventdesk/internal/model"
	"github.com/wb-go/wbf/ginext"
	"time"
)

const (
	FieldBadFormat     = "FIELD_BADFORMAT"
	FieldIncorrect     = "FIELD_INCORRECT"
	ServiceUnavailable = "SERVICE_UNAVAILABLE"
	InternalError      = "Service is currently unavailable. Please try again later."

	EventNotFound         = "EVENT_NOT_FOUND"
	RegistrationNotFound  = "REGISTRATION_NOT_FOUND"
	RegistrationDuplicate = "REGISTRATION_DUPLICATE"
	NothingToExport       = "NOTHING_TO_EXPORT"
	TicketInvalid         = "TICKET_INVALID"
)

// EventPayload is the body of the create and update event endpoints.
// An unset Time goes out as null; the update endpoint keeps the stored time
// when the key is absent.
type EventPayload struct {
	Name        string  `json:"name" form:"name" validate:"required,max=100"`
	Description string  `json:"description" form:"description" validate:"required"`
	Date        string  `json:"date" form:"date" validate:"required,isodate"`
	Time        *string `json:"time" form:"time" validate:"omitempty,clock"`
	Venue       string  `json:"venue" form:"venue" validate:"required,max=100"`
	Image       string  `json:"image" form:"image" validate:"omitempty,url,max=500"`
}

// EventPayloadFrom copies an event into a payload, used to prefill the edit form.
func EventPayloadFrom(e model.Event) EventPayload {
	return EventPayload{
		Name:        e.Name,
		Description: e.Description,
		Date:        e.Date,
		Time:        e.Time,
		Venue:       e.Venue,
		Image:       e.Image,
	}
}

// RegistrationForm is the form-encoded body of the registration endpoints.
type RegistrationForm struct {
	Name   string `form:"name" validate:"required,max=100"`
	Email  string `form:"email" validate:"required,email"`
	Mobile string `form:"mobile" validate:"required,mobile"`
	Course string `form:"course" validate:"required,max=100"`
	Branch string `form:"branch" validate:"required,max=100"`
}

// RegistrationFormFrom prefills a registration form from a profile.
func RegistrationFormFrom(p model.Profile) RegistrationForm {
	return RegistrationForm{
		Name:   p.Name,
		Email:  p.Email,
		Mobile: p.Mobile,
		Course: p.Course,
		Branch: p.Branch,
	}
}

// MutationResponse is what the events backend answers to create, update and
// delete calls. Error is either a plain string or an Error object.
type MutationResponse struct {
	Success bool            `json:"success"`
	Error   json.RawMessage `json:"error,omitempty"`
	Event   *model.Event    `json:"event,omitempty"`
}

// ErrorMessage flattens the error field into code and message.
func (m MutationResponse) ErrorMessage() (code, msg string) {
	return DecodeError(m.Error)
}

// DecodeError reads an error field that is either a string or {code, desc|message}.
func DecodeError(raw json.RawMessage) (code, msg string) {
	if len(raw) == 0 {
		return "", ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return "", s
	}
	var obj struct {
		Code    string `json:"code"`
		Desc    string `json:"desc"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Desc == "" {
			obj.Desc = obj.Message
		}
		return obj.Code, obj.Desc
	}
	return "", string(raw)
}

type LegacyVerifyRequest struct {
	TicketID         string `json:"ticket_id" validate:"required,len=12"`
	VerificationCode string `json:"verification_code" validate:"required,len=6,numeric"`
}

type LegacyRegisterRequest struct {
	EventID string `json:"event_id" validate:"required,max=64"`
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Mobile  string `json:"mobile" validate:"required,mobile"`
	Course  string `json:"course" validate:"required,max=100"`
	Branch  string `json:"branch" validate:"required,max=100"`
}

type ScanRequest struct {
	TicketID string `json:"ticket_id" form:"ticket_id" validate:"required,max=64"`
}

type SnapshotResponse struct {
	Events        []model.Event        `json:"events"`
	Registrations []model.Registration `json:"registrations"`
	RefreshedAt   time.Time            `json:"refreshed_at"`
	Seq           uint64               `json:"seq"`
}

type Response struct {
	Status string `json:"status"`
	Error  *Error `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type Error struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
}

func BadResponseError(c *ginext.Context, code, desc string) {
	c.JSON(400, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func InternalServerError(c *ginext.Context) {
	c.JSON(500, Response{
		Status: "error",
		Error: &Error{
			Code: ServiceUnavailable,
			Desc: InternalError,
		},
	})
}

func FieldBadFormatError(c *ginext.Context, fieldName string) {
	BadResponseError(c, FieldBadFormat, "Field '"+fieldName+"' has bad format")
}

func FieldIncorrectError(c *ginext.Context, fieldName string) {
	BadResponseError(c, FieldIncorrect, "Field '"+fieldName+"' is incorrect")
}

func EventNotFoundError(c *ginext.Context) {
	c.JSON(404, Response{
		Status: "error",
		Error:  &Error{Code: EventNotFound, Desc: "Event not found"},
	})
}

func RegistrationNotFoundError(c *ginext.Context) {
	c.JSON(404, Response{
		Status: "error",
		Error:  &Error{Code: RegistrationNotFound, Desc: "Registration not found"},
	})
}

func NothingToExportError(c *ginext.Context) {
	BadResponseError(c, NothingToExport, "No registrations to export.")
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(200, Response{
		Status: "ok",
		Data:   data,
	})
}
