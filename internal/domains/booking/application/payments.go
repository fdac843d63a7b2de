package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/Apurer/petcare-booking/internal/domains/booking/ports"
	orderdomain "github.com/Apurer/petcare-booking/internal/domains/orders/domain"
	orderports "github.com/Apurer/petcare-booking/internal/domains/orders/ports"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

// Payments collects the 20% deposit of an order and settles it on confirmation.
type Payments struct {
	gateway     ports.PaymentGateway
	orders      orderports.Lifecycle
	staging     *Staging
	callbackURL string
	logger      *slog.Logger
}

func NewPayments(gateway ports.PaymentGateway, orders orderports.Lifecycle, staging *Staging, callbackURL string, logger *slog.Logger) *Payments {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Payments{gateway: gateway, orders: orders, staging: staging, callbackURL: callbackURL, logger: logger}
}

// Initiate asks the gateway to charge the deposit of order. The callback URL
// carries the booking session so the confirmation can clear it.
func (p *Payments) Initiate(ctx context.Context, sessionID string, order *orderdomain.Order) (*ports.PaymentHandle, error) {
	if order.Status != orderdomain.StatusUnpaid {
		return nil, fmt.Errorf("%w: order %s is %s", apperr.ErrStateConflict, order.ID, order.Status)
	}
	callback, err := p.callbackFor(sessionID, order.ID)
	if err != nil {
		return nil, err
	}
	handle, err := p.gateway.InitiatePayment(ctx, ports.PaymentRequest{
		OrderID:     order.ID,
		AccountID:   order.AccountID,
		Amount:      order.Deposit(),
		PaymentType: ports.PaymentTypeVNPay,
		CallbackURL: callback,
	})
	if err != nil {
		return nil, fmt.Errorf("initiate payment: %w", err)
	}
	return handle, nil
}

// Confirm settles a payment. The staging is cleared once the order is PAID;
// an order that expired meanwhile keeps the staging so the customer can resubmit.
func (p *Payments) Confirm(ctx context.Context, callback ports.PaymentCallback) (*orderports.TransitionResult, error) {
	result, err := p.orders.ConfirmPayment(ctx, orderports.PaymentConfirmation{OrderID: callback.OrderID, Amount: callback.Amount})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(callback.SessionID) == "" {
		return result, nil
	}
	switch result.Order.Status {
	case orderdomain.StatusPaid:
		if err := p.staging.Commit(ctx, callback.SessionID); err != nil {
			return nil, err
		}
	case orderdomain.StatusCanceled:
		p.forgetPendingOrder(ctx, callback.SessionID, callback.OrderID)
	}
	return result, nil
}

func (p *Payments) forgetPendingOrder(ctx context.Context, sessionID, orderID string) {
	staging, err := p.staging.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			p.logger.LogAttrs(ctx, slog.LevelWarn, "failed to load session after late payment",
				slog.String("session.id", sessionID), slog.String("error", err.Error()))
		}
		return
	}
	if staging.BookingDraft == nil || staging.BookingDraft.PendingOrderID != orderID {
		return
	}
	staging.BookingDraft.PendingOrderID = ""
	if err := p.staging.Save(ctx, staging); err != nil {
		p.logger.LogAttrs(ctx, slog.LevelWarn, "failed to clear pending order",
			slog.String("session.id", sessionID), slog.String("error", err.Error()))
	}
}

func (p *Payments) callbackFor(sessionID, orderID string) (string, error) {
	base, err := url.Parse(p.callbackURL)
	if err != nil {
		return "", fmt.Errorf("parse payment callback url: %w", err)
	}
	query := base.Query()
	query.Set("sessionId", sessionID)
	query.Set("orderId", orderID)
	base.RawQuery = query.Encode()
	return base.String(), nil
}
