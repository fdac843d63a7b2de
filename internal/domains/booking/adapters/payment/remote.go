package payment

import (
	"context"
	"errors"
	"strings"

	client "github.com/Apurer/petcare-booking/internal/clients/http/directory"
	"github.com/Apurer/petcare-booking/internal/domains/booking/ports"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

var _ ports.PaymentGateway = (*RemoteGateway)(nil)

// RemoteGateway starts payments through the backend's /payments endpoint.
type RemoteGateway struct {
	client *client.Client
}

func NewRemoteGateway(c *client.Client) *RemoteGateway {
	return &RemoteGateway{client: c}
}

func (g *RemoteGateway) InitiatePayment(ctx context.Context, req ports.PaymentRequest) (*ports.PaymentHandle, error) {
	paymentType := req.PaymentType
	if paymentType == "" {
		paymentType = ports.PaymentTypeVNPay
	}
	resp, err := g.client.CreatePayment(ctx, client.PaymentRequest{
		OrderID:     req.OrderID,
		AccountID:   req.AccountID,
		Amount:      client.NewAmount(req.Amount),
		PaymentType: paymentType,
		CallbackURL: req.CallbackURL,
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(resp.PaymentURL) == "" {
		return nil, apperr.Remote("create payment", errors.New("backend returned no payment url"))
	}
	handle := &ports.PaymentHandle{OrderID: req.OrderID, Amount: req.Amount, PaymentURL: resp.PaymentURL}
	if !resp.Amount.IsZero() {
		handle.Amount = resp.Amount.Decimal
	}
	return handle, nil
}
