package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/petcare-booking/internal/domains/orders/ports"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

const (
	// ExpireOrderActivityName cancels one overdue unpaid order.
	ExpireOrderActivityName = "orders.activities.ExpireOrder"
)

// ExpireOrderInput identifies the order to expire.
type ExpireOrderInput struct {
	OrderID string
}

// ExpireOrderOutcome reports what the activity observed.
type ExpireOrderOutcome struct {
	OrderID string
	Status  string
	Applied bool
}

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	lifecycle ports.Lifecycle
}

func NewActivities(lifecycle ports.Lifecycle) *Activities {
	return &Activities{lifecycle: lifecycle}
}

// ExpireOrder runs the single-order sweep. Validation and missing orders are
// not retried; remote failures are.
func (a *Activities) ExpireOrder(ctx context.Context, input ExpireOrderInput) (*ExpireOrderOutcome, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.lifecycle == nil {
		logger.Error("order expiry activity not initialized", "orderId", input.OrderID)
		return nil, errors.New("order expiry activity not initialized")
	}
	logger.Info("ExpireOrder activity started", "orderId", input.OrderID)
	result, err := a.lifecycle.ExpireOrder(ctx, input.OrderID)
	if err != nil {
		logger.Error("ExpireOrder activity failed", "orderId", input.OrderID, "error", err)
		if errors.Is(err, apperr.ErrValidation) || errors.Is(err, apperr.ErrNotFound) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), apperr.Kind(err), err)
		}
		return nil, err
	}
	outcome := &ExpireOrderOutcome{OrderID: input.OrderID, Applied: result.Applied}
	if result.Order != nil {
		outcome.Status = string(result.Order.Status)
	}
	logger.Info("ExpireOrder activity completed", "orderId", input.OrderID, "status", outcome.Status, "applied", outcome.Applied)
	return outcome, nil
}
