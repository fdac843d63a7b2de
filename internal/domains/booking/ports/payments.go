package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentTypeVNPay is the only payment method the gateway accepts.
const PaymentTypeVNPay = "VNPAY"

// PaymentRequest asks the gateway to collect the deposit of an order.
type PaymentRequest struct {
	OrderID     string
	AccountID   string
	Amount      decimal.Decimal
	PaymentType string
	CallbackURL string
}

// PaymentHandle is where the customer completes the payment.
type PaymentHandle struct {
	OrderID    string
	Amount     decimal.Decimal
	PaymentURL string
}

// PaymentGateway starts payments at the remote backend.
type PaymentGateway interface {
	InitiatePayment(ctx context.Context, req PaymentRequest) (*PaymentHandle, error)
}
