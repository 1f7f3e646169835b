// Package apperr carries service-level failure kinds up to the HTTP layer.
package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
)

// Error is a user-facing message tagged with one of the kinds above.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func NotFound(msg string) error  { return &Error{Kind: ErrNotFound, Msg: msg} }
func Conflict(msg string) error  { return &Error{Kind: ErrConflict, Msg: msg} }
func Invalid(msg string) error   { return &Error{Kind: ErrValidation, Msg: msg} }
func Forbidden(msg string) error { return &Error{Kind: ErrForbidden, Msg: msg} }

// Status maps err to an HTTP status code.
func Status(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, gorm.ErrDuplicatedKey):
		return fiber.StatusConflict
	case errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	}
	return fiber.StatusInternalServerError
}

// Message returns the text that is safe to show to the client.
func Message(err error) string {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Msg
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "Record not found"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return "Record already exists"
	}
	return "Unexpected server error"
}
