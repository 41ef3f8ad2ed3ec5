package model

// ChatRequest is the body of POST /api/v1/chat
type ChatRequest struct {
	Message             string           `json:"message"`
	ConversationHistory []HistoryMessage `json:"conversation_history,omitempty"`
	PhotoContext        string           `json:"photo_context,omitempty"` // base64, data URLs accepted
}

// ChatResponse is the 200 payload of POST /api/v1/chat
type ChatResponse struct {
	Message       string          `json:"message"`
	Products      []ProductResult `json:"products"`
	Intent        Intent          `json:"intent"`
	PhotoAnalysis *VisualContext  `json:"photo_analysis"`
	RequestID     string          `json:"request_id,omitempty"`
}

// ChatErrorResponse is the 500 envelope; callers can always render Message
type ChatErrorResponse struct {
	Message  string          `json:"message"`
	Products []ProductResult `json:"products"`
	Fallback bool            `json:"fallback"`
	Error    string          `json:"error"`
}

// CatalogQuery is a catalog search derived from text attributes and an optional photo
type CatalogQuery struct {
	Attributes AttributeBag   `json:"attributes"`
	Visual     *VisualContext `json:"visual,omitempty"`
	Limit      int            `json:"limit"`
}

// ChatLog is one answered chat, written asynchronously
type ChatLog struct {
	RequestID      string
	Message        string
	Intent         Intent
	Attributes     AttributeBag
	ProductIDs     []string
	Source         string
	ResponseTimeMs int
}

// FeedbackRequest represents a shopper action on a product from a chat answer
type FeedbackRequest struct {
	RequestID string `json:"request_id" binding:"required"`
	ProductID string `json:"product_id" binding:"required"`
	Action    string `json:"action" binding:"required"` // click, add_to_cart, view_details
}

// FeedbackResponse represents feedback response
type FeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
