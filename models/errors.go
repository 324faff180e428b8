package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// AppError is a failure carrying the HTTP status it should surface as.
// Anything that is not an AppError is translated to a 500 by the central
// error handler.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors

// NewNotFoundError covers both a missing resource and an ownership mismatch;
// the two are intentionally indistinguishable to the caller.
func NewNotFoundError(message string) *AppError {
	return &AppError{Status: fiber.StatusNotFound, Message: message}
}

func NewValidationError(message string) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Message: message}
}

// NewConflictError reports a duplicate username or email. The design keeps
// this a 400 rather than a 409.
func NewConflictError(message string) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Message: message}
}

// NewCredentialError reports a wrong password. Intentionally a 400, not a 401.
func NewCredentialError(message string) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Message: message}
}

func NewInternalError(err error) *AppError {
	return &AppError{Status: fiber.StatusInternalServerError, Message: "Internal server error", Err: err}
}
