package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/petcare-booking/internal/domains/pets/domain"
	"github.com/Apurer/petcare-booking/internal/domains/pets/ports"
	"github.com/Apurer/petcare-booking/internal/shared/projection"
)

var _ ports.Directory = (*Directory)(nil)

// Directory is an in-memory pet registry used for demos/tests.
type Directory struct {
	mu    sync.RWMutex
	types []domain.PetType
	pets  map[string]*projection.Projection[*domain.Pet]
	now   func() time.Time
}

// NewDirectory constructs a registry knowing the given pet types.
func NewDirectory(types ...domain.PetType) *Directory {
	if len(types) == 0 {
		types = domain.DefaultPetTypes
	}
	return &Directory{
		types: append([]domain.PetType(nil), types...),
		pets:  map[string]*projection.Projection[*domain.Pet]{},
		now:   time.Now,
	}
}

// WithClock overrides the time source, primarily for tests.
func (d *Directory) WithClock(now func() time.Time) {
	if now == nil {
		return
	}
	d.mu.Lock()
	d.now = now
	d.mu.Unlock()
}

func (d *Directory) ListPetTypes(context.Context) ([]domain.PetType, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]domain.PetType(nil), d.types...), nil
}

// ListPetsByOwner returns the owner's pets, oldest first.
func (d *Directory) ListPetsByOwner(_ context.Context, ownerID string) ([]*domain.Pet, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	owned := make([]*projection.Projection[*domain.Pet], 0)
	for _, entry := range d.pets {
		if entry.Entity.OwnerID == ownerID {
			owned = append(owned, entry)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return projection.OlderFirst(owned[i], owned[j]) })
	result := make([]*domain.Pet, 0, len(owned))
	for _, entry := range owned {
		result = append(result, clonePet(entry.Entity))
	}
	return result, nil
}

// CreatePet registers a pet; names are unique per owner.
func (d *Directory) CreatePet(_ context.Context, pet *domain.Pet) (*domain.Pet, error) {
	if pet == nil {
		return nil, errors.New("cannot create nil pet")
	}
	if err := pet.Validate(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, entry := range d.pets {
		if entry.Entity.OwnerID == pet.OwnerID && entry.Entity.Name == pet.Name {
			return nil, ports.ErrDuplicateName
		}
	}
	stored := clonePet(pet)
	stored.ID = uuid.NewString()
	d.pets[stored.ID] = projection.New(stored, d.now())
	return clonePet(stored), nil
}

func clonePet(pet *domain.Pet) *domain.Pet {
	clone := *pet
	return &clone
}
