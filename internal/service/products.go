package service

import (
	"context"
	"errors"

	"shopassist/internal/errx"
	"shopassist/internal/model"
)

// CatalogRepository is the catalog persistence used outside the chat pipeline
type CatalogRepository interface {
	GetProductByID(ctx context.Context, id string) (*model.CatalogProduct, error)
	BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string)
	LogFeedback(ctx context.Context, requestID, productID, action string) error
}

// ProductService serves product details, embedding ingest and shopper feedback
type ProductService struct {
	repo     CatalogRepository
	variants *VariantSynthesizer
}

// NewProductService creates a product service
func NewProductService(repo CatalogRepository, variants *VariantSynthesizer) *ProductService {
	return &ProductService{repo: repo, variants: variants}
}

// GetProduct returns an in-stock product with its discount and variants
func (s *ProductService) GetProduct(ctx context.Context, id string) (*model.ProductResult, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.Valid() {
		return nil, errx.NotFound("product not found")
	}

	return &model.ProductResult{
		CatalogProduct:  *product,
		DiscountPercent: model.DiscountPercent(product.Price, product.CompareAtPrice),
		Variants:        s.variants.Synthesize(*product),
	}, nil
}

// UpdateEmbeddings stores embeddings computed by the enrichment pipeline
func (s *ProductService) UpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	return s.repo.BatchUpdateEmbeddings(ctx, items)
}

// LogFeedback records a shopper action against a previous chat answer
func (s *ProductService) LogFeedback(ctx context.Context, requestID, productID, action string) error {
	err := s.repo.LogFeedback(ctx, requestID, productID, action)
	if errors.Is(err, errx.ErrNotFound) {
		return errx.NotFound("chat request not found")
	}
	return err
}
