package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/petcare-booking/internal/domains/booking/domain"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrMissingProduct):
		return fmt.Errorf("%w: %w", apperr.Validation("productId", "is required"), err)
	case errors.Is(err, domain.ErrInvalidPrice):
		return fmt.Errorf("%w: %w", apperr.Validation("sellingPrice", "must be greater than zero"), err)
	case errors.Is(err, domain.ErrItemNotFound):
		return fmt.Errorf("%w: %w", apperr.ErrNotFound, err)
	case errors.Is(err, domain.ErrEmptySelection):
		return fmt.Errorf("%w: %w", apperr.Validation("selection", err.Error()), err)
	case errors.Is(err, domain.ErrSlotNotAligned), errors.Is(err, domain.ErrSlotOutsideHours), errors.Is(err, domain.ErrSlotInPast):
		return fmt.Errorf("%w: %w", apperr.Validation("time", err.Error()), err)
	}
	return err
}
