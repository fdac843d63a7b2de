package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	orderactivities "github.com/Apurer/petcare-booking/internal/platform/temporal/activities/orders"
)

// RunOrderExpirySequence executes the expiry activity with a retry policy
// sized for a flaky order directory.
func RunOrderExpirySequence(ctx workflow.Context, orderID string) (*orderactivities.ExpireOrderOutcome, error) {
	logger := workflow.GetLogger(ctx)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    10,
		},
	}
	var outcome orderactivities.ExpireOrderOutcome
	err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, options),
		orderactivities.ExpireOrderActivityName,
		orderactivities.ExpireOrderInput{OrderID: orderID},
	).Get(ctx, &outcome)
	if err != nil {
		logger.Error("order expiry sequence failed", "orderId", orderID, "error", err)
		return nil, err
	}
	logger.Info("order expiry sequence finished", "orderId", orderID, "status", outcome.Status, "applied", outcome.Applied)
	return &outcome, nil
}
