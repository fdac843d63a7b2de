package bookingserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	bookingmapper "github.com/Apurer/petcare-booking/internal/domains/booking/adapters/http/mapper"
	bookingports "github.com/Apurer/petcare-booking/internal/domains/booking/ports"
	ordermapper "github.com/Apurer/petcare-booking/internal/domains/orders/adapters/http/mapper"
	petmapper "github.com/Apurer/petcare-booking/internal/domains/pets/adapters/http/mapper"
)

// BookingAPI wires HTTP transport with the booking flow.
type BookingAPI struct {
	service bookingports.Service
}

// NewBookingAPI creates a BookingAPI backed by the provided service.
func NewBookingAPI(service bookingports.Service) BookingAPI {
	return BookingAPI{service: service}
}

// Post /v1/booking/sessions
// Open a booking session, discarding the previous one
func (api *BookingAPI) BeginSession(c *gin.Context) {
	var input bookingports.BeginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	staging, err := api.service.Begin(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bookingmapper.FromStaging(staging))
}

// Get /v1/booking/sessions/:sessionId
func (api *BookingAPI) GetSession(c *gin.Context) {
	staging, err := api.service.Session(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookingmapper.FromStaging(staging))
}

// Delete /v1/booking/sessions/:sessionId
// Abandon the session and everything it staged
func (api *BookingAPI) AbandonSession(c *gin.Context) {
	if err := api.service.Abandon(c.Request.Context(), c.Param("sessionId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Put /v1/booking/sessions/:sessionId/selection
// Stage a single service or combo
func (api *BookingAPI) PutSelection(c *gin.Context) {
	var input bookingports.SelectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	staging, err := api.service.PutSelection(c.Request.Context(), c.Param("sessionId"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookingmapper.FromStaging(staging))
}

// Post /v1/booking/sessions/:sessionId/cart/items
func (api *BookingAPI) AddCartItem(c *gin.Context) {
	var input bookingports.SelectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	staging, err := api.service.AddCartItem(c.Request.Context(), c.Param("sessionId"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookingmapper.FromStaging(staging))
}

// Delete /v1/booking/sessions/:sessionId/cart/items/:productId
func (api *BookingAPI) RemoveCartItem(c *gin.Context) {
	staging, err := api.service.RemoveCartItem(c.Request.Context(), c.Param("sessionId"), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookingmapper.FromStaging(staging))
}

// Post /v1/booking/sessions/:sessionId/pet
// Reuse the customer's pet with the same name or register a new one
func (api *BookingAPI) ResolvePet(c *gin.Context) {
	var input bookingports.PetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	resolution, err := api.service.ResolvePet(c.Request.Context(), c.Param("sessionId"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if resolution.Created {
		status = http.StatusCreated
	}
	c.JSON(status, petmapper.FromResolution(resolution))
}

// Post /v1/booking/sessions/:sessionId/submit
// Create the order and start the deposit payment
func (api *BookingAPI) Submit(c *gin.Context) {
	var input bookingports.SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := api.service.Submit(c.Request.Context(), c.Param("sessionId"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusCreated
	if result.Reused {
		status = http.StatusOK
	}
	c.JSON(status, bookingmapper.FromSubmitResult(result))
}

// Get /v1/booking/slots?date=YYYY-MM-DD
func (api *BookingAPI) Slots(c *gin.Context) {
	slots, err := api.service.Slots(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookingmapper.FromSlots(slots))
}

// Get|Post /v1/booking/payments/callback?sessionId=&orderId=
// The payment page returns here once the deposit is paid
func (api *BookingAPI) PaymentCallback(c *gin.Context) {
	var req bookingmapper.PaymentCallbackRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := api.service.ConfirmPayment(c.Request.Context(), bookingports.PaymentCallback{
		SessionID: c.Query("sessionId"),
		OrderID:   c.Query("orderId"),
		Amount:    req.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromTransitionResult(result))
}
