package model

import (
	"math"

	"github.com/lib/pq"
)

// CatalogProduct is a persisted, enriched sellable item. Read-only here.
type CatalogProduct struct {
	ID              string         `json:"id" db:"id"`
	Handle          string         `json:"handle" db:"handle"`
	Title           string         `json:"title" db:"title"`
	Description     string         `json:"description" db:"description"`
	Category        string         `json:"category" db:"category"`
	Subcategory     string         `json:"subcategory" db:"subcategory"`
	Brand           string         `json:"brand" db:"brand"`
	Price           float64        `json:"price" db:"price"`
	CompareAtPrice  *float64       `json:"compare_at_price,omitempty" db:"compare_at_price"`
	StockQty        int            `json:"stock_qty" db:"stock_qty"`
	Color           string         `json:"color" db:"color"`
	Material        string         `json:"material" db:"material"`
	Fabric          string         `json:"fabric" db:"fabric"`
	Style           string         `json:"style" db:"style"`
	Dimensions      string         `json:"dimensions" db:"dimensions"`
	Room            string         `json:"room" db:"room"`
	Tags            pq.StringArray `json:"tags" db:"tags"`
	ImageURL        string         `json:"image_url" db:"image_url"`
	ProductURL      string         `json:"product_url" db:"product_url"`
	ConfidenceScore float64        `json:"confidence_score" db:"confidence_score"`
}

// ProductVariant is a synthesized purchasable option, never persisted
type ProductVariant struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Color           string   `json:"color,omitempty"`
	Size            string   `json:"size,omitempty"`
	Finish          string   `json:"finish,omitempty"`
	Price           float64  `json:"price"`
	CompareAtPrice  *float64 `json:"compare_at_price,omitempty"`
	DiscountPercent int      `json:"discount_percent"`
	ImageURL        string   `json:"image_url"`
	StockQty        int      `json:"stock_qty"`
}

// ProductResult is a catalog product as returned to the caller
type ProductResult struct {
	CatalogProduct
	DiscountPercent int              `json:"discount_percent"`
	MatchedReasons  []string         `json:"matched_reasons,omitempty"`
	Variants        []ProductVariant `json:"variants"`
}

// DiscountPercent returns round((compareAt-price)/compareAt*100) when
// compareAt is a real markdown, otherwise 0.
func DiscountPercent(price float64, compareAt *float64) int {
	if compareAt == nil || *compareAt <= price || *compareAt <= 0 {
		return 0
	}
	return int(math.Round((*compareAt - price) / *compareAt * 100))
}

// Valid reports whether the product can be shown to a shopper
func (p CatalogProduct) Valid() bool {
	return p.ID != "" && p.Title != "" && p.Price >= 0
}

// EmbeddingBatchRequest represents a batch embedding update request
type EmbeddingBatchRequest struct {
	Embeddings []EmbeddingItem `json:"embeddings" binding:"required"`
}

// EmbeddingItem is one product embedding computed by the enrichment pipeline
type EmbeddingItem struct {
	ProductID string    `json:"product_id" binding:"required"`
	Embedding []float32 `json:"embedding" binding:"required"`
}

// EmbeddingBatchResponse represents the response for batch embedding update
type EmbeddingBatchResponse struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}
