package application

import (
	"context"
	"fmt"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/Apurer/petcare-booking/internal/domains/pets/domain"
	"github.com/Apurer/petcare-booking/internal/domains/pets/ports"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
	"github.com/Apurer/petcare-booking/internal/shared/validation"
)

// Service resolves the pet a booking is made for.
type Service struct {
	directory ports.Directory
	validate  *validatorv10.Validate
}

// NewService wires the pets service with its dependencies.
func NewService(directory ports.Directory) *Service {
	return &Service{directory: directory, validate: validation.New()}
}

// PetTypes lists the selectable pet types.
func (s *Service) PetTypes(ctx context.Context) ([]domain.PetType, error) {
	return s.directory.ListPetTypes(ctx)
}

// Resolve reuses the owner's pet with the exact same name or registers a new one.
func (s *Service) Resolve(ctx context.Context, input ports.ResolveInput) (*ports.Resolution, error) {
	if err := validation.Check(s.validate, input); err != nil {
		return nil, err
	}
	candidate, err := domain.NewPet(input.OwnerID, input.Name, input.Weight, input.Age, input.TypeID)
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.ensureKnownType(ctx, candidate.TypeID); err != nil {
		return nil, err
	}

	existing, err := s.directory.ListPetsByOwner(ctx, candidate.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	for _, pet := range existing {
		if pet.HasName(candidate.Name) {
			return &ports.Resolution{Pet: pet}, nil
		}
	}

	created, err := s.directory.CreatePet(ctx, candidate)
	if err != nil {
		return nil, mapError(err)
	}
	return &ports.Resolution{Pet: created, Created: true}, nil
}

func (s *Service) ensureKnownType(ctx context.Context, typeID string) error {
	types, err := s.directory.ListPetTypes(ctx)
	if err != nil {
		return fmt.Errorf("list pet types: %w", err)
	}
	for _, t := range types {
		if t.ID == typeID {
			return nil
		}
	}
	return apperr.Validation("typeId", "unknown pet type")
}

var _ ports.Service = (*Service)(nil)
