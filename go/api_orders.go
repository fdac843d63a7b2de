package bookingserver

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	bookingdomain "github.com/Apurer/petcare-booking/internal/domains/booking/domain"
	"github.com/Apurer/petcare-booking/internal/domains/orders/adapters/events"
	ordermapper "github.com/Apurer/petcare-booking/internal/domains/orders/adapters/http/mapper"
	orderdomain "github.com/Apurer/petcare-booking/internal/domains/orders/domain"
	orderports "github.com/Apurer/petcare-booking/internal/domains/orders/ports"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

// EventSource streams an account's order events until cancel is called.
type EventSource interface {
	Subscribe(accountID string) (<-chan events.Envelope, func())
}

// OrderAPI wires HTTP transport with the order lifecycle and reschedule flows.
type OrderAPI struct {
	lifecycle   orderports.Lifecycle
	rescheduler orderports.Rescheduler
	events      EventSource
	loc         *time.Location
}

// NewOrderAPI creates an OrderAPI. loc is the zone change forms are read in.
func NewOrderAPI(lifecycle orderports.Lifecycle, rescheduler orderports.Rescheduler, source EventSource, loc *time.Location) OrderAPI {
	if loc == nil {
		loc = time.Local
	}
	return OrderAPI{lifecycle: lifecycle, rescheduler: rescheduler, events: source, loc: loc}
}

// Get /v1/accounts/:accountId/orders?status=
// List the account's orders, newest first
func (api *OrderAPI) ListOrders(c *gin.Context) {
	query := orderports.ListQuery{AccountID: c.Param("accountId")}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, err := orderdomain.ParseStatus(raw)
		if err != nil {
			respondError(c, apperr.Validation("status", err.Error()))
			return
		}
		query.Status = status
	}
	orders, err := api.lifecycle.ListOrders(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrders(orders))
}

// Post /v1/accounts/:accountId/orders/sweep
// Cancel the account's unpaid orders past their expiry window
func (api *OrderAPI) SweepAccount(c *gin.Context) {
	result, err := api.lifecycle.SweepAccount(c.Request.Context(), c.Param("accountId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromSweepResult(result))
}

// Get /v1/accounts/:accountId/orders/events
// Server-sent stream of the account's order events
func (api *OrderAPI) StreamEvents(c *gin.Context) {
	if api.events == nil {
		DefaultHandleFunc(c)
		return
	}
	stream, cancel := api.events.Subscribe(c.Param("accountId"))
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()
	ctx := c.Request.Context()
	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case env, ok := <-stream:
			if !ok {
				return false
			}
			c.Render(-1, sse.Event{Id: env.OrderID, Event: env.Type, Data: env})
			return true
		}
	})
}

// Get /v1/orders/:orderId
func (api *OrderAPI) GetOrder(c *gin.Context) {
	order, err := api.lifecycle.GetOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrder(order))
}

// Post /v1/orders/:orderId/cancel
// Cancel an order with the customer's note and description
func (api *OrderAPI) Cancel(c *gin.Context) {
	var req ordermapper.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := api.lifecycle.Cancel(c.Request.Context(), ordermapper.ToCancelCommand(c.Param("orderId"), req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromTransitionResult(result))
}

// Post /v1/orders/:orderId/complete
func (api *OrderAPI) Complete(c *gin.Context) {
	result, err := api.lifecycle.Complete(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromTransitionResult(result))
}

// Get /v1/orders/:orderId/change-eligibility
func (api *OrderAPI) ChangeEligibility(c *gin.Context) {
	order, eligibility, err := api.rescheduler.Eligibility(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromEligibility(order.ID, eligibility))
}

// Post /v1/orders/:orderId/change
// Use the order's one change of slot and staff
func (api *OrderAPI) Change(c *gin.Context) {
	var req ordermapper.ChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	cmd := orderports.ChangeCommand{OrderID: c.Param("orderId"), StaffID: req.StaffID, Note: req.Note}
	if req.Date != "" || req.Time != "" {
		execution, err := bookingdomain.ParseExecution(req.Date, req.Time, api.loc)
		if err != nil {
			respondError(c, apperr.Validation("time", err.Error()))
			return
		}
		cmd.ExecutionDate = execution
	}
	order, err := api.rescheduler.Change(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrder(order))
}

// Post /v1/orders/:orderId/payment/confirm
// Mark the deposit as paid; a late confirmation is a no-op
func (api *OrderAPI) ConfirmPayment(c *gin.Context) {
	var req ordermapper.PaymentConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := api.lifecycle.ConfirmPayment(c.Request.Context(), ordermapper.ToPaymentConfirmation(c.Param("orderId"), req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromTransitionResult(result))
}
