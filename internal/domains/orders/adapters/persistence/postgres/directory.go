package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/petcare-booking/internal/domains/orders/domain"
	"github.com/Apurer/petcare-booking/internal/domains/orders/ports"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

var _ ports.Directory = (*Directory)(nil)

// Directory persists orders in PostgreSQL using GORM. Status transitions are
// conditional updates on the current status.
type Directory struct {
	db *gorm.DB
}

// NewDirectory wires a PostgreSQL-backed directory. Caller manages DB lifecycle and migrations.
func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

// orderRecord maps the order aggregate to a relational table. Product lines
// are stored as parallel arrays.
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

func (d *Directory) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := d.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(order)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := d.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return d.GetOrder(ctx, record.ID)
}

func (d *Directory) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	if err := d.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := d.db.WithContext(ctx).First(&record, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", apperr.ErrNotFound, orderID)
		}
		return nil, err
	}
	return record.toDomain()
}

func (d *Directory) ListOrdersByAccount(ctx context.Context, accountID string) ([]*domain.Order, error) {
	return d.find(ctx, "account_id = ?", accountID)
}

func (d *Directory) ListUnpaidCreatedBefore(ctx context.Context, cutoff time.Time) ([]*domain.Order, error) {
	return d.find(ctx, "status = ? AND created_at <= ?", string(domain.StatusUnpaid), cutoff)
}

// UpdateOrderStatus only touches the row while its status equals ExpectedStatus.
func (d *Directory) UpdateOrderStatus(ctx context.Context, update ports.StatusUpdate) (*domain.Order, error) {
	if err := d.ensureDB(); err != nil {
		return nil, err
	}
	if !update.ExpectedStatus.CanTransitionTo(update.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", apperr.ErrStateConflict, update.ExpectedStatus, update.Status)
	}
	values := map[string]any{
		"status":      string(update.Status),
		"note":        update.Note,
		"description": update.Description,
		"updated_at":  gorm.Expr("NOW()"),
	}
	if update.StaffID != "" {
		values["staff_id"] = update.StaffID
	}
	result := d.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ? AND status = ?", update.OrderID, string(update.ExpectedStatus)).
		Updates(values)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, d.missOrConflict(ctx, update.OrderID)
	}
	return d.GetOrder(ctx, update.OrderID)
}

// RequestChangeEmployee reschedules a PAID order whose change is unused and
// consumes it in the same statement.
func (d *Directory) RequestChangeEmployee(ctx context.Context, req ports.ChangeRequest) (*domain.Order, error) {
	if err := d.ensureDB(); err != nil {
		return nil, err
	}
	values := map[string]any{
		"execution_date":  req.ExecutionDate,
		"change_consumed": true,
		"updated_at":      gorm.Expr("NOW()"),
	}
	if req.StaffID != "" {
		values["staff_id"] = req.StaffID
	}
	if req.Note != "" {
		values["note"] = req.Note
	}
	result := d.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ? AND status = ? AND change_consumed = ?", req.OrderID, string(domain.StatusPaid), false).
		Updates(values)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, d.missOrConflict(ctx, req.OrderID)
	}
	return d.GetOrder(ctx, req.OrderID)
}

func (d *Directory) find(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	if err := d.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := d.db.WithContext(ctx).Where(query, args...).Order("created_at").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		order, err := records[i].toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (d *Directory) missOrConflict(ctx context.Context, orderID string) error {
	current, err := d.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: order %s is %s", apperr.ErrStateConflict, current.ID, current.Status)
}

func (d *Directory) ensureDB() error {
	if d == nil || d.db == nil {
		return errors.New("postgres order directory not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	rec := orderRecord{
		ID:             order.ID,
		PetID:          order.PetID,
		AccountID:      order.AccountID,
		ExecutionDate:  order.ExecutionDate,
		Status:         string(order.Status),
		Type:           string(order.Type),
		StaffID:        order.StaffID,
		Note:           order.Note,
		Description:    order.Description,
		FinalAmount:    order.FinalAmount,
		ChangeConsumed: order.ChangeConsumed,
		CreatedAt:      order.CreatedAt,
	}
	for _, line := range order.Products {
		rec.ProductIDs = append(rec.ProductIDs, line.ProductID)
		rec.Quantities = append(rec.Quantities, int64(line.Quantity))
		rec.Prices = append(rec.Prices, line.Price.String())
	}
	return rec
}

func (r orderRecord) toDomain() (*domain.Order, error) {
	order := &domain.Order{
		ID:             r.ID,
		PetID:          r.PetID,
		AccountID:      r.AccountID,
		ExecutionDate:  r.ExecutionDate,
		Status:         domain.Status(r.Status),
		Type:           domain.Type(r.Type),
		StaffID:        r.StaffID,
		Note:           r.Note,
		Description:    r.Description,
		FinalAmount:    r.FinalAmount,
		CreatedAt:      r.CreatedAt,
		ChangeConsumed: r.ChangeConsumed,
	}
	for i, productID := range r.ProductIDs {
		line := domain.ProductLine{ProductID: productID, Quantity: 1}
		if i < len(r.Quantities) {
			line.Quantity = int(r.Quantities[i])
		}
		if i < len(r.Prices) {
			price, err := decimal.NewFromString(r.Prices[i])
			if err != nil {
				return nil, fmt.Errorf("order %s product %s: parse price %q: %w", r.ID, productID, r.Prices[i], err)
			}
			line.Price = price
		}
		order.Products = append(order.Products, line)
	}
	return order, nil
}
