// Package bookingserver is the HTTP transport of the pet-care booking service.
package bookingserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of every API.
type ApiHandleFunctions struct {
	BookingAPI   BookingAPI
	OrderAPI     OrderAPI
	ReferenceAPI ReferenceAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine add routes to existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// DefaultHandleFunc answers routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(h ApiHandleFunctions) []Route {
	return []Route{
		{"BeginSession", http.MethodPost, "/v1/booking/sessions", h.BookingAPI.BeginSession},
		{"GetSession", http.MethodGet, "/v1/booking/sessions/:sessionId", h.BookingAPI.GetSession},
		{"AbandonSession", http.MethodDelete, "/v1/booking/sessions/:sessionId", h.BookingAPI.AbandonSession},
		{"PutSelection", http.MethodPut, "/v1/booking/sessions/:sessionId/selection", h.BookingAPI.PutSelection},
		{"AddCartItem", http.MethodPost, "/v1/booking/sessions/:sessionId/cart/items", h.BookingAPI.AddCartItem},
		{"RemoveCartItem", http.MethodDelete, "/v1/booking/sessions/:sessionId/cart/items/:productId", h.BookingAPI.RemoveCartItem},
		{"ResolvePet", http.MethodPost, "/v1/booking/sessions/:sessionId/pet", h.BookingAPI.ResolvePet},
		{"SubmitBooking", http.MethodPost, "/v1/booking/sessions/:sessionId/submit", h.BookingAPI.Submit},
		{"GetSlots", http.MethodGet, "/v1/booking/slots", h.BookingAPI.Slots},
		{"PaymentCallback", http.MethodGet, "/v1/booking/payments/callback", h.BookingAPI.PaymentCallback},
		{"PaymentCallbackPost", http.MethodPost, "/v1/booking/payments/callback", h.BookingAPI.PaymentCallback},

		{"ListPetTypes", http.MethodGet, "/v1/pet-types", h.ReferenceAPI.ListPetTypes},
		{"ListStaff", http.MethodGet, "/v1/staff", h.ReferenceAPI.ListStaff},

		{"ListAccountOrders", http.MethodGet, "/v1/accounts/:accountId/orders", h.OrderAPI.ListOrders},
		{"SweepAccountOrders", http.MethodPost, "/v1/accounts/:accountId/orders/sweep", h.OrderAPI.SweepAccount},
		{"StreamAccountOrderEvents", http.MethodGet, "/v1/accounts/:accountId/orders/events", h.OrderAPI.StreamEvents},
		{"GetOrder", http.MethodGet, "/v1/orders/:orderId", h.OrderAPI.GetOrder},
		{"CancelOrder", http.MethodPost, "/v1/orders/:orderId/cancel", h.OrderAPI.Cancel},
		{"CompleteOrder", http.MethodPost, "/v1/orders/:orderId/complete", h.OrderAPI.Complete},
		{"GetChangeEligibility", http.MethodGet, "/v1/orders/:orderId/change-eligibility", h.OrderAPI.ChangeEligibility},
		{"ChangeOrder", http.MethodPost, "/v1/orders/:orderId/change", h.OrderAPI.Change},
		{"ConfirmOrderPayment", http.MethodPost, "/v1/orders/:orderId/payment/confirm", h.OrderAPI.ConfirmPayment},
	}
}
