package directory

import (
	"strings"

	client "github.com/Apurer/petcare-booking/internal/clients/http/directory"
	"github.com/Apurer/petcare-booking/internal/domains/pets/domain"
)

// ToCreateRequest converts the local aggregate into the backend payload.
func ToCreateRequest(p *domain.Pet) client.CreatePetRequest {
	return client.CreatePetRequest{
		Name:      p.Name,
		Weight:    p.Weight,
		Age:       p.Age,
		TypePetID: p.TypeID,
		AccountID: p.OwnerID,
	}
}

// FromPet builds the domain pet; a missing owner falls back to fallbackOwner.
func FromPet(p client.Pet, fallbackOwner string) *domain.Pet {
	owner := strings.TrimSpace(p.AccountID)
	if owner == "" {
		owner = fallbackOwner
	}
	return &domain.Pet{
		ID:      p.ID,
		Name:    strings.TrimSpace(p.Name),
		Weight:  p.Weight,
		Age:     p.Age,
		TypeID:  p.TypePetID,
		OwnerID: owner,
	}
}

func FromPetType(t client.PetType) domain.PetType {
	return domain.PetType{ID: t.ID, Name: t.Name}
}
