package directory

import (
	"context"
	"errors"
	"fmt"

	client "github.com/Apurer/petcare-booking/internal/clients/http/directory"
	"github.com/Apurer/petcare-booking/internal/domains/pets/domain"
	"github.com/Apurer/petcare-booking/internal/domains/pets/ports"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

var _ ports.Directory = (*Directory)(nil)

// Directory reads and registers pets at the remote backend.
type Directory struct {
	client *client.Client
}

func NewDirectory(c *client.Client) *Directory {
	return &Directory{client: c}
}

func (d *Directory) ListPetTypes(ctx context.Context) ([]domain.PetType, error) {
	items, err := d.client.ListPetTypes(ctx)
	if err != nil {
		return nil, err
	}
	types := make([]domain.PetType, 0, len(items))
	for _, item := range items {
		types = append(types, FromPetType(item))
	}
	return types, nil
}

func (d *Directory) ListPetsByOwner(ctx context.Context, ownerID string) ([]*domain.Pet, error) {
	items, err := d.client.ListPets(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	pets := make([]*domain.Pet, 0, len(items))
	for _, item := range items {
		pets = append(pets, FromPet(item, ownerID))
	}
	return pets, nil
}

// CreatePet registers pet; a 409 from the backend yields ports.ErrDuplicateName.
func (d *Directory) CreatePet(ctx context.Context, pet *domain.Pet) (*domain.Pet, error) {
	if pet == nil {
		return nil, errors.New("pet is nil")
	}
	created, err := d.client.CreatePet(ctx, ToCreateRequest(pet))
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("%w: %w", ports.ErrDuplicateName, err)
		}
		return nil, err
	}
	out := FromPet(*created, pet.OwnerID)
	if out.Name == "" {
		// the backend may answer with the id only
		out = &domain.Pet{ID: created.ID, Name: pet.Name, Weight: pet.Weight, Age: pet.Age, TypeID: pet.TypeID, OwnerID: pet.OwnerID}
	}
	return out, nil
}
