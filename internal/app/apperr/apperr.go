// Package apperr defines the application-layer error carried from services to transports.
package apperr

import (
	"errors"
	"net/http"

	"github.com/ridgeline-travel/tripbook-api/internal/domain"
)

const (
	CodePackageNotFound         = "PACKAGE_NOT_FOUND"
	CodeGroupNotFound           = "GROUP_NOT_FOUND"
	CodeBookingNotFound         = "BOOKING_NOT_FOUND"
	CodeWizardNotFound          = "WIZARD_NOT_FOUND"
	CodeValidation              = "VALIDATION_ERROR"
	CodeGroupCapacityExceeded   = "GROUP_CAPACITY_EXCEEDED"
	CodeCreationPrecondition    = "CREATION_PRECONDITION"
	CodeWizardInvalidTransition = "WIZARD_INVALID_TRANSITION"
	CodeBookingInvalidStatus    = "BOOKING_INVALID_STATUS_CHANGE"
	CodeIdempotencyKeyConflict  = "IDEMPOTENCY_KEY_CONFLICT"
)

// Error is an application-layer error that can be mapped to an HTTP response.
// Err holds the domain kind (domain.ErrNotFound, domain.ErrValidation, domain.ErrCreationPrecondition).
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func NotFound(code, message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: code, Message: message, Err: domain.ErrNotFound}
}

// Invalid reports a single offending field.
func Invalid(field, problem string) *Error {
	return &Error{
		Status:  http.StatusUnprocessableEntity,
		Code:    CodeValidation,
		Message: "invalid " + field,
		Details: map[string]any{field: problem},
		Err:     domain.ErrValidation,
	}
}

// InvalidFields reports several offending fields at once; details maps field to problem.
func InvalidFields(message string, details map[string]any) *Error {
	return &Error{
		Status:  http.StatusUnprocessableEntity,
		Code:    CodeValidation,
		Message: message,
		Details: details,
		Err:     domain.ErrValidation,
	}
}

// CapacityExceeded is a validation failure surfaced as a conflict.
func CapacityExceeded(current, max, requested int) *Error {
	return &Error{
		Status:  http.StatusConflict,
		Code:    CodeGroupCapacityExceeded,
		Message: "group does not have enough free spots",
		Details: map[string]any{
			"currentMembers": current,
			"maxMembers":     max,
			"requested":      requested,
		},
		Err: domain.ErrValidation,
	}
}

func CreationPrecondition(collection string) *Error {
	return &Error{
		Status:  http.StatusConflict,
		Code:    CodeCreationPrecondition,
		Message: "cannot create in an empty " + collection + " collection",
		Err:     domain.ErrCreationPrecondition,
	}
}

func InvalidTransition(message string, details map[string]any) *Error {
	return &Error{
		Status:  http.StatusConflict,
		Code:    CodeWizardInvalidTransition,
		Message: message,
		Details: details,
		Err:     domain.ErrValidation,
	}
}

// InvalidStatusChange reports a booking status transition that is not allowed.
func InvalidStatusChange(from, to string) *Error {
	return &Error{
		Status:  http.StatusConflict,
		Code:    CodeBookingInvalidStatus,
		Message: "booking status cannot change from " + from + " to " + to,
		Details: map[string]any{"status": from, "requested": to},
		Err:     domain.ErrValidation,
	}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// HasCode reports whether err is an *Error with the given code.
func HasCode(err error, code string) bool {
	ae, ok := As(err)
	return ok && ae.Code == code
}
