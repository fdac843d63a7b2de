package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	orderactivities "github.com/Apurer/petcare-booking/internal/platform/temporal/activities/orders"
)

func newEnv(t *testing.T) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterActivityWithOptions(
		func(context.Context, orderactivities.ExpireOrderInput) (*orderactivities.ExpireOrderOutcome, error) {
			return nil, errors.New("not mocked")
		},
		activity.RegisterOptions{Name: orderactivities.ExpireOrderActivityName},
	)
	return env
}

func TestOrderExpiryWorkflow_WaitsForDeadline(t *testing.T) {
	env := newEnv(t)
	start := env.Now()
	deadline := start.Add(30 * time.Minute)

	var firedAt time.Time
	env.OnActivity(orderactivities.ExpireOrderActivityName, mock.Anything, orderactivities.ExpireOrderInput{OrderID: "o-1"}).
		Return(func(context.Context, orderactivities.ExpireOrderInput) (*orderactivities.ExpireOrderOutcome, error) {
			firedAt = env.Now()
			return &orderactivities.ExpireOrderOutcome{OrderID: "o-1", Status: "CANCELED", Applied: true}, nil
		}).Once()

	env.ExecuteWorkflow(OrderExpiryWorkflow, OrderExpiryWorkflowInput{OrderID: "o-1", Deadline: deadline})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	require.False(t, firedAt.Before(deadline))

	var outcome orderactivities.ExpireOrderOutcome
	require.NoError(t, env.GetWorkflowResult(&outcome))
	require.True(t, outcome.Applied)
	require.Equal(t, "CANCELED", outcome.Status)
	env.AssertExpectations(t)
}

func TestOrderExpiryWorkflow_PastDeadlineRunsImmediately(t *testing.T) {
	env := newEnv(t)
	env.OnActivity(orderactivities.ExpireOrderActivityName, mock.Anything, mock.Anything).
		Return(&orderactivities.ExpireOrderOutcome{OrderID: "o-2", Status: "PAID"}, nil).Once()

	env.ExecuteWorkflow(OrderExpiryWorkflow, OrderExpiryWorkflowInput{OrderID: "o-2", Deadline: env.Now().Add(-time.Minute)})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var outcome orderactivities.ExpireOrderOutcome
	require.NoError(t, env.GetWorkflowResult(&outcome))
	require.False(t, outcome.Applied)
}
