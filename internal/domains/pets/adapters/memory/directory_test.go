package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/petcare-booking/internal/domains/pets/domain"
	"github.com/Apurer/petcare-booking/internal/domains/pets/ports"
)

func TestDirectory_CreateAndList(t *testing.T) {
	dir := NewDirectory()
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	tick := 0
	dir.WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})
	ctx := context.Background()

	first, err := domain.NewPet("acc-1", "Milo", 4, 2, "dog")
	require.NoError(t, err)
	second, err := domain.NewPet("acc-1", "Luna", 3, 1, "cat")
	require.NoError(t, err)
	other, err := domain.NewPet("acc-2", "Milo", 4, 2, "dog")
	require.NoError(t, err)

	created, err := dir.CreatePet(ctx, first)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	_, err = dir.CreatePet(ctx, second)
	require.NoError(t, err)
	_, err = dir.CreatePet(ctx, other)
	require.NoError(t, err)

	pets, err := dir.ListPetsByOwner(ctx, "acc-1")
	require.NoError(t, err)
	require.Len(t, pets, 2)
	require.Equal(t, "Milo", pets[0].Name)
	require.Equal(t, "Luna", pets[1].Name)

	_, err = dir.CreatePet(ctx, first)
	require.ErrorIs(t, err, ports.ErrDuplicateName)
}

func TestDirectory_PetTypes(t *testing.T) {
	types, err := NewDirectory(domain.PetType{ID: "t1", Name: "Ferret"}).ListPetTypes(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.PetType{{ID: "t1", Name: "Ferret"}}, types)
}
