package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sophisticated-cleaners/booking-backend/internal/middleware"
	"github.com/sophisticated-cleaners/booking-backend/internal/models"
	"github.com/sophisticated-cleaners/booking-backend/internal/services"
)

// BookingHandler handles booking lifecycle HTTP requests
type BookingHandler struct {
	bookingService *services.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create handles POST /api/v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	booking, err := h.bookingService.Create(userCtx.UserID.String(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "booking_failed",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// List handles GET /api/v1/bookings. Admins see everything, staff see the
// unassigned pool, clients see their own bookings.
func (h *BookingHandler) List(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	var (
		bookings []models.Booking
		err      error
	)

	switch {
	case hasRole(userCtx, "admin"):
		bookings, err = h.bookingService.ListAll()
	case hasRole(userCtx, "staff"):
		bookings, err = h.bookingService.ListUnassigned()
	default:
		bookings, err = h.bookingService.ListForClient(userCtx.UserID.String())
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load bookings",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// Get handles GET /api/v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	booking, err := h.bookingService.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": err.Error(),
		})
		return
	}

	// Clients may only see their own bookings
	if !hasRole(userCtx, "admin") && !hasRole(userCtx, "staff") &&
		booking.ClientID != userCtx.UserID.String() {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "You don't have permission to access this booking",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// Cancel handles POST /api/v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	booking, err := h.bookingService.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": err.Error(),
		})
		return
	}

	if !hasRole(userCtx, "admin") && booking.ClientID != userCtx.UserID.String() {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "You don't have permission to cancel this booking",
		})
		return
	}

	var req models.CancelBookingRequest
	_ = c.ShouldBindJSON(&req) // reason is optional; an empty body is fine

	if err := h.bookingService.Cancel(booking.ID, req.Reason); err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "cancel_failed",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled"})
}

// Tasks handles GET /api/v1/bookings/:id/tasks
func (h *BookingHandler) Tasks(c *gin.Context) {
	tasks, err := h.bookingService.GetTasks(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load tasks",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// UpdateTaskRequest toggles a checklist item
type UpdateTaskRequest struct {
	IsCompleted *bool `json:"is_completed" binding:"required"`
}

// UpdateTask handles PATCH /api/v1/tasks/:id
func (h *BookingHandler) UpdateTask(c *gin.Context) {
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	if err := h.bookingService.SetTaskCompleted(c.Param("id"), *req.IsCompleted); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task updated"})
}

// CreateReview handles POST /api/v1/bookings/:id/reviews
func (h *BookingHandler) CreateReview(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	review, err := h.bookingService.AddReview(c.Param("id"), userCtx.UserID.String(), &req)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "review_failed",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// ListReviews handles GET /api/v1/bookings/:id/reviews
func (h *BookingHandler) ListReviews(c *gin.Context) {
	reviews, err := h.bookingService.ListReviews(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load reviews",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func hasRole(userCtx middleware.UserContext, role string) bool {
	for _, r := range userCtx.Roles {
		if r == role {
			return true
		}
	}
	return false
}
