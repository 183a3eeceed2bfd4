package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sophisticated-cleaners/booking-backend/internal/middleware"
	"github.com/sophisticated-cleaners/booking-backend/internal/models"
	"github.com/sophisticated-cleaners/booking-backend/internal/services"
)

// ScheduleHandler handles job claiming and schedule HTTP requests
type ScheduleHandler struct {
	scheduleService *services.ScheduleService
	staffService    *services.StaffService
	schedules       scheduleLister
}

// scheduleLister is the read side of the schedule store used by this handler
type scheduleLister interface {
	ListByStaff(staffID string) ([]models.ScheduleEntry, error)
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(
	scheduleService *services.ScheduleService,
	staffService *services.StaffService,
	schedules scheduleLister,
) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
		staffService:    staffService,
		schedules:       schedules,
	}
}

// Claim handles POST /api/v1/jobs/:id/claim. Two workers racing for the same
// job both reach this endpoint; exactly one wins.
func (h *ScheduleHandler) Claim(c *gin.Context) {
	staff, ok := h.resolveStaff(c)
	if !ok {
		return
	}

	result, err := h.scheduleService.AcceptBooking(c.Param("id"), staff.ID)
	if err != nil {
		h.writeClaimError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Job claimed",
		"booking":  result.Booking,
		"schedule": result.Schedule,
	})
}

// MySchedule handles GET /api/v1/schedule
func (h *ScheduleHandler) MySchedule(c *gin.Context) {
	staff, ok := h.resolveStaff(c)
	if !ok {
		return
	}

	entries, err := h.schedules.ListByStaff(staff.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load schedule",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedule": entries})
}

// UpdateEntryStatusRequest moves a schedule entry through its lifecycle
type UpdateEntryStatusRequest struct {
	Status models.ScheduleStatus `json:"status" binding:"required"`
}

// UpdateEntryStatus handles PATCH /api/v1/schedule/:id
func (h *ScheduleHandler) UpdateEntryStatus(c *gin.Context) {
	staff, ok := h.resolveStaff(c)
	if !ok {
		return
	}

	var req UpdateEntryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	switch req.Status {
	case models.ScheduleStatusScheduled, models.ScheduleStatusInProgress, models.ScheduleStatusCompleted:
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "invalid status",
		})
		return
	}

	entry, err := h.scheduleService.UpdateEntryStatus(c.Param("id"), staff.ID, req.Status)
	if err != nil {
		if errors.Is(err, services.ErrStorageUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "storage_unavailable",
				"message": "Please try again",
			})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedule": entry})
}

// Unassign handles DELETE /api/v1/schedule/:id. Admin-only: removes the
// entry and returns the booking to the unassigned pool.
func (h *ScheduleHandler) Unassign(c *gin.Context) {
	if err := h.scheduleService.Unassign(c.Param("id")); err != nil {
		if errors.Is(err, services.ErrOrphanedBooking) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "orphaned_booking",
				"message": "Schedule removed but the booking needs manual correction",
			})
			return
		}
		if errors.Is(err, services.ErrStorageUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "storage_unavailable",
				"message": "Please try again",
			})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Booking unassigned"})
}

// resolveStaff maps the authenticated user to their staff record
func (h *ScheduleHandler) resolveStaff(c *gin.Context) (*models.Staff, bool) {
	userCtx, _ := middleware.GetUserContext(c)

	staff, err := h.staffService.GetByUserID(userCtx.UserID.String())
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": err.Error(),
		})
		return nil, false
	}

	if staff.Status != models.StaffStatusActive {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "Staff account is inactive",
		})
		return nil, false
	}

	return staff, true
}

// writeClaimError maps the claim error taxonomy onto HTTP responses. The
// distinction matters to the client app: a lost race means refresh the list,
// a storage failure means retry, an orphan means stop and call support.
func (h *ScheduleHandler) writeClaimError(c *gin.Context, err error) {
	var conflict *services.ConflictError
	switch {
	case errors.As(err, &conflict):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "schedule_conflict",
			"message": conflict.Reason,
		})
	case errors.Is(err, services.ErrAlreadyClaimed):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "already_claimed",
			"message": "This job is no longer available",
		})
	case errors.Is(err, services.ErrOrphanedBooking):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "orphaned_booking",
			"message": "This booking needs administrator attention and cannot be claimed",
		})
	case errors.Is(err, services.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "storage_unavailable",
			"message": "Could not complete the claim. Please try again.",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to claim job",
		})
	}
}
