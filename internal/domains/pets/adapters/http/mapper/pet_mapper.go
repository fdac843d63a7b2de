package mapper

import (
	"github.com/Apurer/petcare-booking/internal/domains/pets/domain"
	"github.com/Apurer/petcare-booking/internal/domains/pets/ports"
)

// PetType is the HTTP representation of a pet type.
type PetType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Pet is the HTTP representation of a resolved pet.
type Pet struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Weight  float64 `json:"weight"`
	Age     int     `json:"age"`
	TypeID  string  `json:"typeId"`
	Created bool    `json:"created"`
}

// ResolvePetRequest is the booking pet form.
type ResolvePetRequest struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Age    int     `json:"age"`
	TypeID string  `json:"typeId"`
}

// ToResolveInput binds the form to the owning account.
func ToResolveInput(accountID string, req ResolvePetRequest) ports.ResolveInput {
	return ports.ResolveInput{
		OwnerID: accountID,
		Name:    req.Name,
		Weight:  req.Weight,
		Age:     req.Age,
		TypeID:  req.TypeID,
	}
}

func FromDomainPetTypes(types []domain.PetType) []PetType {
	out := make([]PetType, 0, len(types))
	for _, t := range types {
		out = append(out, PetType{ID: t.ID, Name: t.Name})
	}
	return out
}

func FromResolution(res *ports.Resolution) Pet {
	if res == nil || res.Pet == nil {
		return Pet{}
	}
	return Pet{
		ID:      res.Pet.ID,
		Name:    res.Pet.Name,
		Weight:  res.Pet.Weight,
		Age:     res.Pet.Age,
		TypeID:  res.Pet.TypeID,
		Created: res.Created,
	}
}
