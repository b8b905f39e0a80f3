package gateway

import (
	"errors"
	"fmt"
)

// Kind classifies a failed gateway call.
type Kind int

const (
	KindTransport Kind = iota + 1
	KindRejected
	KindValidation
	KindAlreadyRegistered
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindRejected:
		return "rejected"
	case KindValidation:
		return "validation"
	case KindAlreadyRegistered:
		return "already_registered"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is the only error type returned by the gateway.
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Status != 0:
		return fmt.Sprintf("%s: %s (status %d): %s", e.Op, e.Kind, e.Status, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Kind, e.Status)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of a gateway error, or 0 for nil and foreign errors.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return 0
}

// MessageOf returns the server supplied message of a gateway error, if any.
func MessageOf(err error) string {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Message
	}
	return ""
}

func transportError(op string, err error) *Error {
	return &Error{Kind: KindTransport, Op: op, Err: err}
}
