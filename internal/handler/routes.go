package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers bundles the v1 API handlers
type Handlers struct {
	Chat      *ChatHandler
	Product   *ProductHandler
	Embedding *EmbeddingHandler
	Feedback  *FeedbackHandler
}

// RegisterRoutes mounts the v1 API on group. Only the chat route turns panics
// into the chat envelope; the router-wide RecoverWithError covers the rest.
func RegisterRoutes(group *gin.RouterGroup, h Handlers) {
	group.POST("/chat", gin.CustomRecovery(RecoverWithEnvelope), h.Chat.Chat)
	group.GET("/products/:id", h.Product.GetProduct)
	group.POST("/embeddings/batch", h.Embedding.BatchUpdate)
	group.POST("/feedback", h.Feedback.Submit)
}
