package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&petTypeRecord{},
		&petRecord{},
		&staffRecord{},
		&orderRecord{},
	)
}

// Pet type schema mirrors the pets Postgres adapter.
type petTypeRecord struct {
	ID   string `gorm:"primaryKey;column:id;size:64"`
	Name string `gorm:"column:name"`
}

func (petTypeRecord) TableName() string { return "pet_types" }

// Pet schema mirrors the pets Postgres adapter.
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

// Staff schema mirrors the staff Postgres adapter.
type staffRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:64"`
	FullName  string    `gorm:"column:full_name"`
	Status    string    `gorm:"column:status;type:varchar(16);index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (staffRecord) TableName() string { return "staff_members" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID             string          `gorm:"primaryKey;column:id;size:64"`
	PetID          string          `gorm:"column:pet_id;size:64"`
	AccountID      string          `gorm:"column:account_id;size:64;index:idx_orders_account"`
	ProductIDs     pq.StringArray  `gorm:"column:product_ids;type:text[]"`
	Quantities     pq.Int64Array   `gorm:"column:quantities;type:bigint[]"`
	Prices         pq.StringArray  `gorm:"column:prices;type:text[]"`
	ExecutionDate  time.Time       `gorm:"column:execution_date"`
	Status         string          `gorm:"column:status;type:varchar(16);index:idx_orders_status_created"`
	Type           string          `gorm:"column:type;type:varchar(32)"`
	StaffID        string          `gorm:"column:staff_id;size:64"`
	Note           string          `gorm:"column:note"`
	Description    string          `gorm:"column:description"`
	FinalAmount    decimal.Decimal `gorm:"column:final_amount;type:numeric(14,2)"`
	ChangeConsumed bool            `gorm:"column:change_consumed;not null;default:false"`
	CreatedAt      time.Time       `gorm:"column:created_at;index:idx_orders_status_created"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }
