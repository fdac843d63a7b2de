package domain

import (
	"errors"
	"strings"
)

// Pet is a customer's animal as registered in the directory.
type Pet struct {
	ID      string
	Name    string
	Weight  float64
	Age     int
	TypeID  string
	OwnerID string
}

// PetType is a read-only species/category from the directory.
type PetType struct {
	ID   string
	Name string
}

// DefaultPetTypes seeds local directories.
var DefaultPetTypes = []PetType{
	{ID: "dog", Name: "Dog"},
	{ID: "cat", Name: "Cat"},
	{ID: "rabbit", Name: "Rabbit"},
}

var (
	ErrEmptyName     = errors.New("pet name is required")
	ErrInvalidWeight = errors.New("pet weight must be at least 1")
	ErrInvalidAge    = errors.New("pet age must not be negative")
	ErrMissingType   = errors.New("pet type is required")
	ErrMissingOwner  = errors.New("pet owner is required")
)

// NewPet validates the invariants and builds a Pet that has not been stored yet.
func NewPet(ownerID, name string, weight float64, age int, typeID string) (*Pet, error) {
	p := &Pet{
		Name:    strings.TrimSpace(name),
		Weight:  weight,
		Age:     age,
		TypeID:  strings.TrimSpace(typeID),
		OwnerID: strings.TrimSpace(ownerID),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate returns the first broken invariant.
func (p *Pet) Validate() error {
	switch {
	case p.OwnerID == "":
		return ErrMissingOwner
	case p.Name == "":
		return ErrEmptyName
	case p.Weight < 1:
		return ErrInvalidWeight
	case p.Age < 0:
		return ErrInvalidAge
	case p.TypeID == "":
		return ErrMissingType
	}
	return nil
}

// HasName reports an exact match on the trimmed name.
func (p *Pet) HasName(name string) bool {
	return p.Name == strings.TrimSpace(name)
}
