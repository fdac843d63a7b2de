package ports

import (
	"context"

	"github.com/Apurer/petcare-booking/internal/domains/pets/domain"
)

// ResolveInput is the pet form of the booking flow.
type ResolveInput struct {
	OwnerID string  `json:"-" validate:"required"`
	Name    string  `json:"name" validate:"required"`
	Weight  float64 `json:"weight" validate:"gte=1"`
	Age     int     `json:"age" validate:"gte=0"`
	TypeID  string  `json:"typeId" validate:"required"`
}

// Resolution tells whether the pet was reused or newly created.
type Resolution struct {
	Pet     *domain.Pet
	Created bool
}

// Service exposes pet use cases to the booking flow.
type Service interface {
	PetTypes(ctx context.Context) ([]domain.PetType, error)
	Resolve(ctx context.Context, input ResolveInput) (*Resolution, error)
}
