package orders

import (
	"time"

	"go.temporal.io/sdk/workflow"

	orderactivities "github.com/Apurer/petcare-booking/internal/platform/temporal/activities/orders"
	"github.com/Apurer/petcare-booking/internal/platform/temporal/sequences"
)

const (
	// OrderExpiryWorkflowName is the public identifier for registering the workflow.
	OrderExpiryWorkflowName = "orders.workflows.Expiry"
	// OrderExpiryTaskQueue is the queue consumed by the worker processing order timers.
	OrderExpiryTaskQueue = "ORDER_EXPIRY"
)

// OrderExpiryWorkflowInput carries the order and the instant its payment window closes.
type OrderExpiryWorkflowInput struct {
	OrderID  string
	Deadline time.Time
	TraceID  string
}

// OrderExpiryWorkflow sleeps until the deadline and then expires the order if
// it is still unpaid. A paid or canceled order makes the activity a no-op.
func OrderExpiryWorkflow(ctx workflow.Context, input OrderExpiryWorkflowInput) (*orderactivities.ExpireOrderOutcome, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderExpiryWorkflow started", withTraceID(input.TraceID, "orderId", input.OrderID, "deadline", input.Deadline)...)

	if wait := input.Deadline.Sub(workflow.Now(ctx)); wait > 0 {
		if err := workflow.Sleep(ctx, wait); err != nil {
			logger.Info("OrderExpiryWorkflow timer interrupted", withTraceID(input.TraceID, "orderId", input.OrderID, "error", err)...)
			return nil, err
		}
	}

	outcome, err := sequences.RunOrderExpirySequence(ctx, input.OrderID)
	if err != nil {
		logger.Error("OrderExpiryWorkflow failed", withTraceID(input.TraceID, "orderId", input.OrderID, "error", err)...)
		return nil, err
	}
	logger.Info("OrderExpiryWorkflow completed", withTraceID(input.TraceID, "orderId", input.OrderID, "applied", outcome.Applied)...)
	return outcome, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
