package directory

import (
	"fmt"
	"strings"

	client "github.com/Apurer/petcare-booking/internal/clients/http/directory"
	"github.com/Apurer/petcare-booking/internal/domains/orders/domain"
)

// ToWireType spells the order type the way the backend expects.
func ToWireType(t domain.Type) string {
	switch t {
	case domain.TypeCustomerRequest:
		return client.OrderTypeCustomerRequest
	default:
		return client.OrderTypeManagerRequest
	}
}

// FromWireType accepts both the backend and the local spelling.
func FromWireType(raw string) (domain.Type, error) {
	switch strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(raw)), "_", "") {
	case client.OrderTypeManagerRequest, "":
		return domain.TypeManagerRequest, nil
	case client.OrderTypeCustomerRequest:
		return domain.TypeCustomerRequest, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidType, raw)
}

func toCreateRequest(c *client.Client, o *domain.Order) client.CreateOrderRequest {
	lines := make([]client.ProductLine, 0, len(o.Products))
	for _, p := range o.Products {
		lines = append(lines, client.ProductLine{ProductID: p.ProductID, Quantity: p.Quantity, SellingPrice: client.NewAmount(p.Price)})
	}
	return client.CreateOrderRequest{
		ProductList:  lines,
		ExcutionDate: c.FormatLocal(o.ExecutionDate),
		Note:         o.Note,
		Description:  o.Description,
		Type:         ToWireType(o.Type),
		PetID:        o.PetID,
		AccountID:    o.AccountID,
		StaffID:      client.OptionalID(o.StaffID),
	}
}

func fromWire(c *client.Client, w client.Order) (*domain.Order, error) {
	status, err := domain.ParseStatus(w.Status)
	if err != nil {
		return nil, err
	}
	typ, err := FromWireType(w.Type)
	if err != nil {
		return nil, err
	}
	execution, err := c.ParseLocal(w.ExcutionDate)
	if err != nil {
		return nil, fmt.Errorf("order %s execution date: %w", w.ID, err)
	}
	created, err := c.ParseLocal(w.CreatedDate)
	if err != nil {
		return nil, fmt.Errorf("order %s created date: %w", w.ID, err)
	}
	order := &domain.Order{
		ID:             w.ID,
		PetID:          w.PetID,
		AccountID:      w.AccountID,
		ExecutionDate:  execution,
		Status:         status,
		Type:           typ,
		Note:           w.Note,
		Description:    w.Description,
		FinalAmount:    w.FinalAmount.Decimal,
		CreatedAt:      created,
		ChangeConsumed: w.ChangeConsumed,
	}
	if w.StaffID != nil {
		order.StaffID = *w.StaffID
	}
	for _, line := range w.ProductList {
		order.Products = append(order.Products, domain.ProductLine{ProductID: line.ProductID, Quantity: line.Quantity, Price: line.SellingPrice.Decimal})
	}
	return order, nil
}
