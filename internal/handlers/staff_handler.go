package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sophisticated-cleaners/booking-backend/internal/middleware"
	"github.com/sophisticated-cleaners/booking-backend/internal/models"
	"github.com/sophisticated-cleaners/booking-backend/internal/services"
)

// StaffHandler handles staff management HTTP requests
type StaffHandler struct {
	staffService *services.StaffService
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(staffService *services.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

// Add handles POST /api/v1/staff. Admin-only.
func (h *StaffHandler) Add(c *gin.Context) {
	var req models.AddStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	staff, err := h.staffService.AddStaffMember(&req)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "add_staff_failed",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"staff": staff})
}

// List handles GET /api/v1/staff. Admin-only.
func (h *StaffHandler) List(c *gin.Context) {
	staff, err := h.staffService.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load staff",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"staff": staff})
}

// UpdateStatus handles PATCH /api/v1/staff/:id/status. Admin-only.
func (h *StaffHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateStaffStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	if err := h.staffService.UpdateStatus(c.Param("id"), req.Status); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "update_failed",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Staff status updated"})
}

// SetAvailability handles PUT /api/v1/availability. Workers set their own
// weekly windows one day at a time.
func (h *StaffHandler) SetAvailability(c *gin.Context) {
	staff, ok := h.resolveStaff(c)
	if !ok {
		return
	}

	var req models.AvailabilityWindowInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	window, err := h.staffService.SetAvailability(staff.ID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_availability",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"availability": window})
}

// GetAvailability handles GET /api/v1/availability
func (h *StaffHandler) GetAvailability(c *gin.Context) {
	staff, ok := h.resolveStaff(c)
	if !ok {
		return
	}

	windows, err := h.staffService.GetAvailability(staff.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load availability",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"availability": windows})
}

func (h *StaffHandler) resolveStaff(c *gin.Context) (*models.Staff, bool) {
	userCtx, _ := middleware.GetUserContext(c)

	staff, err := h.staffService.GetByUserID(userCtx.UserID.String())
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": err.Error(),
		})
		return nil, false
	}

	return staff, true
}
