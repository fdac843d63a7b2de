package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/petcare-booking/internal/domains/pets/domain"
	"github.com/Apurer/petcare-booking/internal/domains/pets/ports"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

// DuplicateNameHint is shown when the directory rejects a pet name.
const DuplicateNameHint = "a pet with this name already exists, choose another name"

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrEmptyName):
		return fmt.Errorf("%w: %w", apperr.Validation("name", "is required"), err)
	case errors.Is(err, domain.ErrInvalidWeight):
		return fmt.Errorf("%w: %w", apperr.Validation("weight", "must be at least 1"), err)
	case errors.Is(err, domain.ErrInvalidAge):
		return fmt.Errorf("%w: %w", apperr.Validation("age", "must be at least 0"), err)
	case errors.Is(err, domain.ErrMissingType):
		return fmt.Errorf("%w: %w", apperr.Validation("typeId", "is required"), err)
	case errors.Is(err, ports.ErrDuplicateName):
		return fmt.Errorf("%w: %w", apperr.Conflict(DuplicateNameHint), err)
	}
	return err
}
