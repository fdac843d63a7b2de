package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/petcare-booking/internal/domains/pets/domain"
	"github.com/Apurer/petcare-booking/internal/domains/pets/ports"
)

var _ ports.Directory = (*Directory)(nil)

// Directory persists pets and pet types in PostgreSQL using GORM.
type Directory struct {
	db *gorm.DB
}

// NewDirectory wires a PostgreSQL-backed directory. Caller manages DB lifecycle and migrations.
func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

type petTypeRecord struct {
	ID   string `gorm:"primaryKey;column:id;size:64"`
	Name string `gorm:"column:name"`
}

func (petTypeRecord) TableName() string { return "pet_types" }

type petRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:64"`
	OwnerID   string    `gorm:"column:owner_id;size:64;uniqueIndex:idx_pets_owner_name"`
	Name      string    `gorm:"column:name;uniqueIndex:idx_pets_owner_name"`
	Weight    float64   `gorm:"column:weight"`
	Age       int       `gorm:"column:age"`
	TypeID    string    `gorm:"column:type_id;size:64"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (petRecord) TableName() string { return "pets" }

// EnsurePetTypes inserts the given types, leaving existing rows untouched.
func (d *Directory) EnsurePetTypes(ctx context.Context, types []domain.PetType) error {
	if err := d.ensureDB(); err != nil {
		return err
	}
	if len(types) == 0 {
		return nil
	}
	records := make([]petTypeRecord, 0, len(types))
	for _, t := range types {
		records = append(records, petTypeRecord{ID: t.ID, Name: t.Name})
	}
	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&records).Error
}

func (d *Directory) ListPetTypes(ctx context.Context) ([]domain.PetType, error) {
	if err := d.ensureDB(); err != nil {
		return nil, err
	}
	var records []petTypeRecord
	if err := d.db.WithContext(ctx).Order("name").Find(&records).Error; err != nil {
		return nil, err
	}
	types := make([]domain.PetType, 0, len(records))
	for _, r := range records {
		types = append(types, domain.PetType{ID: r.ID, Name: r.Name})
	}
	return types, nil
}

// ListPetsByOwner returns the owner's pets, oldest first.
func (d *Directory) ListPetsByOwner(ctx context.Context, ownerID string) ([]*domain.Pet, error) {
	if err := d.ensureDB(); err != nil {
		return nil, err
	}
	var records []petRecord
	if err := d.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at").
		Find(&records).Error; err != nil {
		return nil, err
	}
	pets := make([]*domain.Pet, 0, len(records))
	for i := range records {
		pets = append(pets, records[i].toDomain())
	}
	return pets, nil
}

// CreatePet inserts a pet; a clash on (owner_id, name) yields ports.ErrDuplicateName.
func (d *Directory) CreatePet(ctx context.Context, pet *domain.Pet) (*domain.Pet, error) {
	if err := d.ensureDB(); err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, errors.New("cannot create nil pet")
	}
	record := newPetRecord(pet)
	result := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "name"}},
			DoNothing: true,
		}).Create(&record)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrDuplicateName
	}
	return record.toDomain(), nil
}

func (d *Directory) ensureDB() error {
	if d == nil || d.db == nil {
		return errors.New("postgres pet directory not configured")
	}
	return nil
}

func newPetRecord(pet *domain.Pet) petRecord {
	id := pet.ID
	if id == "" {
		id = uuid.NewString()
	}
	return petRecord{
		ID:      id,
		OwnerID: pet.OwnerID,
		Name:    pet.Name,
		Weight:  pet.Weight,
		Age:     pet.Age,
		TypeID:  pet.TypeID,
	}
}

func (r petRecord) toDomain() *domain.Pet {
	return &domain.Pet{
		ID:      r.ID,
		Name:    r.Name,
		Weight:  r.Weight,
		Age:     r.Age,
		TypeID:  r.TypeID,
		OwnerID: r.OwnerID,
	}
}
