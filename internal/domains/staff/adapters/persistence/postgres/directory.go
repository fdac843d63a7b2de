package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/petcare-booking/internal/domains/staff/domain"
	"github.com/Apurer/petcare-booking/internal/domains/staff/ports"
)

var _ ports.Directory = (*Directory)(nil)

// Directory reads the staff roster from PostgreSQL.
type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

type staffRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:64"`
	FullName  string    `gorm:"column:full_name"`
	Status    string    `gorm:"column:status;type:varchar(16);index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (staffRecord) TableName() string { return "staff_members" }

func (d *Directory) ListStaff(ctx context.Context, filter ports.Filter) ([]domain.Member, error) {
	if err := d.ensureDB(); err != nil {
		return nil, err
	}
	query := d.db.WithContext(ctx).Order("full_name")
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	var records []staffRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	members := make([]domain.Member, 0, len(records))
	for _, r := range records {
		members = append(members, domain.Member{ID: r.ID, FullName: r.FullName, Status: domain.ParseStatus(r.Status)})
	}
	return members, nil
}

// Upsert inserts or updates a member; used by seeding and tests.
func (d *Directory) Upsert(ctx context.Context, member domain.Member) error {
	if err := d.ensureDB(); err != nil {
		return err
	}
	record := staffRecord{ID: member.ID, FullName: member.FullName, Status: string(member.Status)}
	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"full_name":  record.FullName,
				"status":     record.Status,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error
}

func (d *Directory) ensureDB() error {
	if d == nil || d.db == nil {
		return errors.New("postgres staff directory not configured")
	}
	return nil
}
