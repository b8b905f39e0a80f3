package form

import (
	"errors"
	"eventdesk/internal/gateway"
	"eventdesk/pkg/validator"
)

const (
	MsgMissingFields      = "Please fill in all required fields."
	MsgAlreadyRegistered  = "You have already registered for this event."
	MsgRegistrationFailed = "Registration failed. Please try again."
	MsgRegistered         = "Registration successful! Your ticket has been sent to your email."
	MsgRegistrationSaved  = "Registration updated."
	MsgEventSaveFailed    = "Failed to save event. Please try again."
)

func validationMessage(err error) string {
	var fe *validator.FieldError
	if errors.As(err, &fe) {
		if fe.Tag == "required" {
			return MsgMissingFields
		}
		return fe.Message
	}
	return err.Error()
}

// registrationMessage picks the inline text for a failed registration.
func registrationMessage(err error) string {
	switch gateway.KindOf(err) {
	case gateway.KindAlreadyRegistered:
		if msg := gateway.MessageOf(err); msg != "" {
			return msg
		}
		return MsgAlreadyRegistered
	case gateway.KindValidation:
		if msg := gateway.MessageOf(err); msg != "" {
			return msg
		}
		return MsgMissingFields
	}
	return MsgRegistrationFailed
}

func eventMessage(err error) string {
	if msg := gateway.MessageOf(err); msg != "" {
		return msg
	}
	return MsgEventSaveFailed
}
