package handler

import (
	"net/http"

	"shopassist/internal/model"
	"shopassist/internal/service"

	"github.com/gin-gonic/gin"
)

var validActions = map[string]bool{
	"click":        true,
	"add_to_cart":  true,
	"view_details": true,
}

// FeedbackHandler handles feedback-related HTTP requests
type FeedbackHandler struct {
	products *service.ProductService
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(products *service.ProductService) *FeedbackHandler {
	return &FeedbackHandler{
		products: products,
	}
}

// Submit handles POST /api/v1/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req model.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if !validActions[req.Action] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action. Must be one of: click, add_to_cart, view_details"})
		return
	}

	if err := h.products.LogFeedback(c.Request.Context(), req.RequestID, req.ProductID, req.Action); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.FeedbackResponse{
		Success: true,
		Message: "Feedback logged successfully",
	})
}
