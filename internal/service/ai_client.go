package service

import (
	"context"

	"shopassist/internal/model"
)

// IntentModel is a hosted model that classifies a message and extracts its
// attributes in one call. Any error means "unavailable": the caller falls
// back to the keyword classifier.
type IntentModel interface {
	ClassifyIntent(ctx context.Context, message string, history []model.HistoryMessage) (*model.IntentResult, error)
}

// VisionModel is a hosted multimodal model that describes a room photo.
type VisionModel interface {
	AnalyzeImage(ctx context.Context, image []byte, mimeType string) (*model.VisualContext, error)
}

// ProductStore answers filtered catalog reads.
type ProductStore interface {
	SearchProducts(ctx context.Context, query *model.CatalogQuery) ([]model.CatalogProduct, error)
}

// SearchCache memoises store results for identical catalog queries.
type SearchCache interface {
	Get(ctx context.Context, query *model.CatalogQuery) ([]model.CatalogProduct, bool, error)
	Set(ctx context.Context, query *model.CatalogQuery, products []model.CatalogProduct) error
}

// ChatLogger records answered chats for analytics.
type ChatLogger interface {
	LogChat(ctx context.Context, entry *model.ChatLog) error
}

// Ensure OpenAIClient implements IntentModel
var _ IntentModel = (*OpenAIClient)(nil)
