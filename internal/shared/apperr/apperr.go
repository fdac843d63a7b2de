// Package apperr classifies the failures that cross service boundaries.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrValidation marks input rejected before any remote call was made.
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks a retryable collision such as a duplicate pet name.
	ErrConflict = errors.New("conflict")
	// ErrStateConflict marks a transition refused because the order moved on.
	ErrStateConflict = errors.New("order state conflict")
	// ErrTransientRemote marks a network or 5xx failure of the remote directory.
	ErrTransientRemote = errors.New("remote directory unavailable")
	ErrNotFound        = errors.New("not found")
)

// FieldErrors collects per-field validation messages.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrValidation) match field errors.
func (f FieldErrors) Is(target error) bool {
	return target == ErrValidation
}

// Add records msg for field unless the field already has a message.
func (f FieldErrors) Add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

// Err returns nil when no field failed.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return f
}

// Validation builds a single-field validation error.
func Validation(field, msg string) error {
	return FieldErrors{field: msg}
}

// Conflict wraps a retryable collision with a user-facing hint.
func Conflict(hint string) error {
	return fmt.Errorf("%w: %s", ErrConflict, hint)
}

// Remote wraps a transport level failure.
func Remote(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrTransientRemote, op, err)
}

// Fields extracts per-field messages from err, if any.
func Fields(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

func Kind(err error) string {
	switch {
	case err == nil:
		return ""

	case errors.Is(err, ErrValidation):
		return "validation"

	case errors.Is(err, ErrConflict):
		return "conflict"

	case errors.Is(err, ErrStateConflict):
		return "state_conflict"

	case errors.Is(err, ErrNotFound):
		return "not_found"

	case errors.Is(err, ErrTransientRemote):
		return "remote"

	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"

	case errors.Is(err, context.Canceled):
		return "canceled"

	default:
		return "internal"
	}
}

func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest

	case errors.Is(err, ErrConflict),
		errors.Is(err, ErrStateConflict):
		return http.StatusConflict

	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, ErrTransientRemote):
		return http.StatusBadGateway

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	case errors.Is(err, context.Canceled):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether the caller may resubmit the same request.
func Retryable(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrTransientRemote)
}
