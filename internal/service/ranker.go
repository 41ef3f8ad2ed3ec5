package service

import (
	"sort"

	"shopassist/internal/model"
	"shopassist/internal/utils"
)

// Match reason constants
const (
	ReasonCategoryMatch = "Category match"
	ReasonColorMatch    = "Color match"
	ReasonMaterialMatch = "Material match"
	ReasonStyleMatch    = "Style match"
	ReasonRoomMatch     = "Room match"
	ReasonPriceMatch    = "Price within budget"
	ReasonPhotoMatch    = "Matches your photo"
	ReasonOnSale        = "On sale"
	ReasonGeneralMatch  = "Top rated"
)

// Ranker orders catalog products for display and explains each match
type Ranker struct{}

// NewRanker creates a new ranker
func NewRanker() *Ranker {
	return &Ranker{}
}

// RankResults sorts products by confidence score, highest first, keeping the
// incoming order for ties, and attaches matched reasons.
func (r *Ranker) RankResults(products []model.CatalogProduct, query *model.CatalogQuery) []model.ProductResult {
	sorted := make([]model.CatalogProduct, len(products))
	copy(sorted, products)
	sortByConfidence(sorted)

	results := make([]model.ProductResult, 0, len(sorted))
	for _, product := range sorted {
		results = append(results, model.ProductResult{
			CatalogProduct:  product,
			DiscountPercent: model.DiscountPercent(product.Price, product.CompareAtPrice),
			MatchedReasons:  r.generateMatchedReasons(product, query),
		})
	}
	return results
}

func sortByConfidence(products []model.CatalogProduct) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].ConfidenceScore > products[j].ConfidenceScore
	})
}

// generateMatchedReasons generates human-readable reasons for why this product matched
func (r *Ranker) generateMatchedReasons(p model.CatalogProduct, query *model.CatalogQuery) []string {
	reasons := []string{}

	if query != nil {
		attrs := query.Attributes
		if attrs.Category != nil && matchesCategory(p, *attrs.Category) {
			reasons = append(reasons, ReasonCategoryMatch)
		}
		if attrs.Color != nil && utils.MatchesAlias(p.Color, *attrs.Color) {
			reasons = append(reasons, ReasonColorMatch)
		}
		if attrs.Material != nil && matchesMaterial(p, *attrs.Material) {
			reasons = append(reasons, ReasonMaterialMatch)
		}
		if attrs.Style != nil && utils.MatchesAlias(p.Style, *attrs.Style) {
			reasons = append(reasons, ReasonStyleMatch)
		}
		if attrs.Room != nil && utils.MatchesAlias(p.Room, *attrs.Room) {
			reasons = append(reasons, ReasonRoomMatch)
		}
		if attrs.PriceMax != nil && p.Price <= *attrs.PriceMax {
			reasons = append(reasons, ReasonPriceMatch)
		}
		if query.Visual.HasFilters() && matchesVisual(p, query.Visual) {
			reasons = append(reasons, ReasonPhotoMatch)
		}
	}

	if model.DiscountPercent(p.Price, p.CompareAtPrice) > 0 {
		reasons = append(reasons, ReasonOnSale)
	}

	if len(reasons) == 0 {
		reasons = append(reasons, ReasonGeneralMatch)
	}

	return reasons
}
