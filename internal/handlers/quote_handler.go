package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sophisticated-cleaners/booking-backend/internal/models"
	"github.com/sophisticated-cleaners/booking-backend/internal/services"
)

// QuoteHandler handles quote calculation requests
type QuoteHandler struct {
	quoteService *services.QuoteService
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(quoteService *services.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// Calculate handles POST /api/v1/quotes. Public endpoint: the quote form is
// shown before signup.
func (h *QuoteHandler) Calculate(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	quote, err := h.quoteService.Calculate(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_quote",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"quote": quote})
}
