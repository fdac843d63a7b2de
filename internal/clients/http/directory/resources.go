package directory

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ListPetTypes(ctx context.Context) ([]PetType, error) {
	var out listEnvelope[PetType]
	if err := c.do(ctx, "list pet types", http.MethodGet, c.endpoint("/typePet"), nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// ListStaff lists accounts with the STAFF role.
func (c *Client) ListStaff(ctx context.Context) ([]Account, error) {
	role, err := queryParam("Role", "STAFF")
	if err != nil {
		return nil, err
	}
	var out listEnvelope[Account]
	if err := c.do(ctx, "list staff", http.MethodGet, c.endpoint("/accounts", role), nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) ListPets(ctx context.Context, accountID string) ([]Pet, error) {
	account, err := queryParam("AccountId", accountID)
	if err != nil {
		return nil, err
	}
	var out listEnvelope[Pet]
	if err := c.do(ctx, "list pets", http.MethodGet, c.endpoint("/pet", account), nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) CreatePet(ctx context.Context, req CreatePetRequest) (*Pet, error) {
	var out Pet
	if err := c.do(ctx, "create pet", http.MethodPost, c.endpoint("/pet"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListOrders(ctx context.Context, q OrderQuery) ([]Order, error) {
	var params []string
	add := func(name string, value any) error {
		p, err := queryParam(name, value)
		if err != nil {
			return err
		}
		params = append(params, p)
		return nil
	}
	if q.AccountID != "" {
		if err := add("AccountId", q.AccountID); err != nil {
			return nil, err
		}
	}
	if q.Status != "" {
		if err := add("Status", q.Status); err != nil {
			return nil, err
		}
	}
	if !q.CreatedBefore.IsZero() {
		if err := add("CreatedBefore", c.FormatLocal(q.CreatedBefore)); err != nil {
			return nil, err
		}
	}
	var out listEnvelope[Order]
	if err := c.do(ctx, "list orders", http.MethodGet, c.endpoint("/orders", params...), nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	path, err := c.orderPath(orderID)
	if err != nil {
		return nil, err
	}
	var out Order
	if err := c.do(ctx, "get order", http.MethodGet, c.endpoint(path), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var out Order
	if err := c.do(ctx, "create order", http.MethodPost, c.endpoint("/orders"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateOrder(ctx context.Context, orderID string, req UpdateOrderRequest) (*Order, error) {
	path, err := c.orderPath(orderID)
	if err != nil {
		return nil, err
	}
	var out Order
	if err := c.do(ctx, "update order", http.MethodPut, c.endpoint(path), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestChange moves a paid order to another slot or staff member.
func (c *Client) RequestChange(ctx context.Context, req ChangeRequest) (*Order, error) {
	var out Order
	if err := c.do(ctx, "request change", http.MethodPost, c.endpoint("/request"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePayment(ctx context.Context, req PaymentRequest) (*Payment, error) {
	var out Payment
	if err := c.do(ctx, "create payment", http.MethodPost, c.endpoint("/payments"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) orderPath(orderID string) (string, error) {
	id, err := pathParam("orderId", orderID)
	if err != nil {
		return "", fmt.Errorf("encode order id: %w", err)
	}
	return "/orders/" + id, nil
}
