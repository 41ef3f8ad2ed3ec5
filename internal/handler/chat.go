package handler

import (
	"fmt"
	"net/http"

	"shopassist/internal/errx"
	"shopassist/internal/logx"
	"shopassist/internal/model"
	"shopassist/internal/service"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles the quick-chat endpoint
type ChatHandler struct {
	assistant *service.Assistant
}

// NewChatHandler creates a new chat handler
func NewChatHandler(assistant *service.Assistant) *ChatHandler {
	return &ChatHandler{
		assistant: assistant,
	}
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondChatError(c, errx.BadRequest(fmt.Errorf("%w: %v", errx.ErrInvalidPayload, err)))
		return
	}

	response, err := h.assistant.Chat(c.Request.Context(), &req)
	if err != nil {
		respondChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// respondChatError writes the fallback envelope so callers always have a message to render
func respondChatError(c *gin.Context, err error) {
	logx.Warn().Err(err).Str("component", "chat_handler").Msg("chat request failed")

	c.JSON(errx.StatusOf(err), model.ChatErrorResponse{
		Message:  errx.ApologyMessage,
		Products: []model.ProductResult{},
		Fallback: true,
		Error:    err.Error(),
	})
}

// RecoverWithEnvelope turns panics into the chat fallback envelope instead of an empty 500
func RecoverWithEnvelope(c *gin.Context, recovered any) {
	logx.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("recovered from panic")

	c.AbortWithStatusJSON(http.StatusInternalServerError, model.ChatErrorResponse{
		Message:  errx.ApologyMessage,
		Products: []model.ProductResult{},
		Fallback: true,
		Error:    errx.SystemErrorMessage,
	})
}
