package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/petcare-booking/internal/domains/orders/domain"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrMissingPet):
		return fmt.Errorf("%w: %w", apperr.Validation("petId", "is required"), err)
	case errors.Is(err, domain.ErrMissingAccount):
		return fmt.Errorf("%w: %w", apperr.Validation("accountId", "is required"), err)
	case errors.Is(err, domain.ErrEmptyProducts):
		return fmt.Errorf("%w: %w", apperr.Validation("productList", "must not be empty"), err)
	case errors.Is(err, domain.ErrInvalidAmount):
		return fmt.Errorf("%w: %w", apperr.Validation("finalAmount", "must be greater than zero"), err)
	case errors.Is(err, domain.ErrMissingStaff):
		return fmt.Errorf("%w: %w", apperr.Validation("staffId", "is required"), err)
	case errors.Is(err, domain.ErrInvalidStatus):
		return fmt.Errorf("%w: %w", apperr.Validation("status", "is invalid"), err)
	case errors.Is(err, domain.ErrInvalidType):
		return fmt.Errorf("%w: %w", apperr.Validation("type", "is invalid"), err)
	case errors.Is(err, domain.ErrInvalidTransition):
		return fmt.Errorf("%w: %w", apperr.ErrStateConflict, err)
	}
	return err
}

func terminalConflict(order *domain.Order, action string) error {
	return fmt.Errorf("%w: cannot %s an order that is %s", apperr.ErrStateConflict, action, order.Status)
}
