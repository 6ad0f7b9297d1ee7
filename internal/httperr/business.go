package httperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnavailable  Kind = "unavailable"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
)

// Error is the one error type the use cases return. Handlers turn it into a
// response with Respond.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(code string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: messageFor(code), Fields: fields}
}

// Field is shorthand for a validation error about a single input field.
func Field(code, field, problem string) *Error {
	return Validation(code, map[string]string{field: problem})
}

func NotFound(code string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: messageFor(code)}
}

func Conflict(code string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: messageFor(code)}
}

func Unauthorized(code string) *Error {
	return &Error{Kind: KindUnauthorized, Code: code, Message: messageFor(code)}
}

func Forbidden(code string) *Error {
	return &Error{Kind: KindForbidden, Code: code, Message: messageFor(code)}
}

func Unavailable(err error) *Error {
	return UnavailableCode("service_unavailable", err)
}

// UnavailableCode is Unavailable with a more specific code.
func UnavailableCode(code string, err error) *Error {
	return &Error{Kind: KindUnavailable, Code: code, Message: messageFor(code), Err: err}
}

// KindOf returns the Kind carried by err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err is an *Error with the given code.
func Is(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

var messages = map[string]string{
	"invalid_input":          "The request contains invalid fields.",
	"invalid_id":             "Identifier is not a valid id.",
	"invalid_date":           "Date must be formatted as YYYY-MM-DD.",
	"invalid_duration":       "Duration must be between 15 and 120 minutes.",
	"invalid_range":          "End time must be after start time.",
	"invalid_status":         "Unknown appointment status.",
	"invalid_state":          "The appointment can no longer change to that status.",
	"barber_inactive":        "This barber is not taking bookings.",
	"service_inactive":       "This service is not available.",
	"barber_not_found":       "Barber not found.",
	"service_not_found":      "Service not found.",
	"appointment_not_found":  "Appointment not found.",
	"window_not_found":       "Availability window not found.",
	"time_off_not_found":     "Time off not found.",
	"staff_not_found":        "Staff account not found.",
	"slot_taken":             "Someone just booked that time. Please pick another slot.",
	"slug_taken":             "Another record already uses that slug.",
	"email_taken":            "An account with that email already exists.",
	"service_unavailable":    "We cannot take bookings online right now. Please call us.",
	"invalid_credentials":    "Invalid email or password.",
	"missing_token":          "Missing authorization token.",
	"invalid_token":          "Invalid or expired token.",
	"not_staff":              "This account is not on the staff list.",
	"storage_not_configured": "File storage is not configured.",
	"invalid_image":          "The uploaded file is not a supported image.",
	"missing_file":           "Attach an image in the \"file\" field.",
	"invalid_email_domain":   "The email's domain does not appear to accept mail.",
	"storage_unavailable":    "File storage is unreachable right now.",
	"rate_limited":           "Too many requests. Please slow down.",
}

func messageFor(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return code
}
