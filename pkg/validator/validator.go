package validator

import (
	"context"
	"regexp"
	"time"

	"github.com/go-playground/validator"
)

var (
	global      *validator.Validate
	mobileRegex = regexp.MustCompile(`^\d{10}$`)
)

const (
	ErrInvalidFormat      = "Invalid format"
	ErrFieldRequired      = "Field is required"
	ErrFieldExceedsMaxLen = "Field exceeds maximum length"
	ErrFieldBelowMinLen   = "Field is below minimum length"
	ErrFieldExceedsMaxVal = "Field exceeds maximum value"
	ErrFieldBelowMinVal   = "Field is below minimum value"
	ErrUnknownValidation  = "Unknown validation error"

	ErrInvalidMobile = "Please enter a valid 10-digit mobile number."
	ErrInvalidEmail  = "Please enter a valid email address."
	ErrInvalidDate   = "Date must be in YYYY-MM-DD format"
	ErrInvalidTime   = "Time must be in HH:MM format"
)

func init() {
	SetValidator(New())
}

func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("mobile", validateMobile)
	_ = v.RegisterValidation("isodate", validateISODate)
	_ = v.RegisterValidation("clock", validateClock)
	return v
}

func SetValidator(v *validator.Validate) {
	global = v
}

func Validator() *validator.Validate {
	return global
}

// IsMobile reports whether s is exactly ten ASCII digits.
func IsMobile(s string) bool {
	return mobileRegex.MatchString(s)
}

func validateMobile(fl validator.FieldLevel) bool {
	return IsMobile(fl.Field().String())
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}

func validateClock(fl validator.FieldLevel) bool {
	_, err := time.Parse("15:04", fl.Field().String())
	return err == nil
}

// FieldError is the first failed rule of a validated struct.
type FieldError struct {
	Field     string
	Namespace string
	Tag       string
	Message   string
}

func (e *FieldError) Error() string {
	return e.Message + ": " + e.Namespace
}

func Validate(ctx context.Context, structure any) error {
	return parseValidationErrors(Validator().StructCtx(ctx, structure))
}

func parseValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	vErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(vErrors) == 0 {
		return nil
	}
	ve := vErrors[0]
	var msg string
	switch ve.Tag() {
	case "required":
		msg = ErrFieldRequired
	case "max":
		msg = ErrFieldExceedsMaxLen
	case "min":
		msg = ErrFieldBelowMinLen
	case "lt", "lte":
		msg = ErrFieldExceedsMaxVal
	case "gt", "gte":
		msg = ErrFieldBelowMinVal
	case "len", "numeric", "url":
		msg = ErrInvalidFormat
	case "mobile":
		msg = ErrInvalidMobile
	case "email":
		msg = ErrInvalidEmail
	case "isodate":
		msg = ErrInvalidDate
	case "clock":
		msg = ErrInvalidTime
	default:
		msg = ErrUnknownValidation
	}
	return &FieldError{
		Field:     ve.Field(),
		Namespace: ve.Namespace(),
		Tag:       ve.Tag(),
		Message:   msg,
	}
}
