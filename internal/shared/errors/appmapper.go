package errors

import (
	"context"
	"errors"

	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

// FromAppError maps the apperr taxonomy onto problem templates.
// Field errors are exposed under the "fields" extension.
func FromAppError(err error) (ProblemDetail, bool) {
	if err == nil {
		return ProblemDetail{}, false
	}
	if fields, ok := apperr.Fields(err); ok {
		return NewValidationProblem(fields).WithDetail(err.Error()), true
	}
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, apperr.ErrStateConflict):
		return ErrStateConflict.WithDetail(err.Error()).WithExtension("retryable", false), true
	case errors.Is(err, apperr.ErrConflict):
		return ErrConflict.WithDetail(err.Error()).WithExtension("retryable", true), true
	case errors.Is(err, apperr.ErrNotFound):
		return ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, apperr.ErrTransientRemote):
		return ErrRemote.WithDetail(err.Error()).WithExtension("retryable", true), true
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout.WithDetail(err.Error()), true
	}
	return ProblemDetail{}, false
}
