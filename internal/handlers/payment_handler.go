package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sophisticated-cleaners/booking-backend/internal/middleware"
	"github.com/sophisticated-cleaners/booking-backend/internal/models"
	"github.com/sophisticated-cleaners/booking-backend/internal/services"
)

// PaymentHandler handles payment HTTP requests
type PaymentHandler struct {
	paymentService *services.PaymentService
	bookingService *services.BookingService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService, bookingService *services.BookingService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		bookingService: bookingService,
	}
}

// CreateIntent handles POST /api/v1/bookings/:id/payment-intent
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	booking, ok := h.ownedBooking(c)
	if !ok {
		return
	}

	intent, err := h.paymentService.CreateIntentForBooking(booking)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "payment_failed",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"client_secret": intent.ClientSecret,
		"amount":        intent.Amount,
		"currency":      intent.Currency,
	})
}

// ConfirmPaymentRequest names the intent the client just completed
type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}

// Confirm handles POST /api/v1/bookings/:id/payment-confirm
func (h *PaymentHandler) Confirm(c *gin.Context) {
	booking, ok := h.ownedBooking(c)
	if !ok {
		return
	}

	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	if err := h.paymentService.ConfirmPayment(booking, req.PaymentIntentID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "payment_failed",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment recorded"})
}

func (h *PaymentHandler) ownedBooking(c *gin.Context) (*models.Booking, bool) {
	userCtx, _ := middleware.GetUserContext(c)

	b, err := h.bookingService.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": err.Error(),
		})
		return nil, false
	}

	if b.ClientID != userCtx.UserID.String() {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "You don't have permission to pay for this booking",
		})
		return nil, false
	}

	return b, true
}
