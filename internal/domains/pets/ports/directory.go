package ports

import (
	"context"
	"errors"

	"github.com/Apurer/petcare-booking/internal/domains/pets/domain"
)

// ErrDuplicateName is returned when the owner already has a pet with that name.
var ErrDuplicateName = errors.New("pet name already registered for owner")

// Directory is the pet registry owned by the remote backend.
type Directory interface {
	ListPetTypes(ctx context.Context) ([]domain.PetType, error)
	ListPetsByOwner(ctx context.Context, ownerID string) ([]*domain.Pet, error)
	CreatePet(ctx context.Context, pet *domain.Pet) (*domain.Pet, error)
}
