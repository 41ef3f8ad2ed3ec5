package service

import (
	"context"
	"time"

	"shopassist/internal/logx"
	"shopassist/internal/metrics"
	"shopassist/internal/model"
	"shopassist/internal/utils"
)

// Where a search result came from
const (
	SourceStore = "store"
	SourceCache = "cache"
	SourceDemo  = "demo"
)

// SearchResult is the outcome of a catalog search
type SearchResult struct {
	Query    *model.CatalogQuery
	Products []model.CatalogProduct
	Source   string
}

// CatalogSearcher builds catalog queries from attributes and an optional
// visual context. Store failures and empty results fall back to the demo catalog.
type CatalogSearcher struct {
	store ProductStore
	cache SearchCache
	demo  []model.CatalogProduct
	limit int
}

// NewCatalogSearcher creates a searcher. store and cache may be nil.
func NewCatalogSearcher(store ProductStore, cache SearchCache, demo []model.CatalogProduct, limit int) *CatalogSearcher {
	if limit <= 0 {
		limit = 8
	}
	return &CatalogSearcher{store: store, cache: cache, demo: demo, limit: limit}
}

// Search returns at most limit in-stock products, highest confidence first
func (s *CatalogSearcher) Search(ctx context.Context, attrs model.AttributeBag, visual *model.VisualContext) *SearchResult {
	query := &model.CatalogQuery{Attributes: attrs, Limit: s.limit}
	if visual.HasFilters() {
		query.Visual = visual
	}

	if products, ok := s.fromCache(ctx, query); ok {
		return &SearchResult{Query: query, Products: products, Source: SourceCache}
	}

	if s.store != nil {
		start := time.Now()
		products, err := s.store.SearchProducts(ctx, query)
		metrics.UpstreamDuration.WithLabelValues(metrics.StageCatalogStore).Observe(time.Since(start).Seconds())

		switch {
		case err != nil:
			logx.Warn().Err(err).Str("component", "catalog").Msg("catalog store query failed, using demo catalog")
			metrics.Fallbacks.WithLabelValues(metrics.StageCatalogStore).Inc()
		case len(products) > 0:
			s.toCache(ctx, query, products)
			return &SearchResult{Query: query, Products: products, Source: SourceStore}
		default:
			logx.Debug().Str("component", "catalog").Msg("catalog store returned no rows, using demo catalog")
		}
	}

	metrics.Fallbacks.WithLabelValues(metrics.StageDemoCatalog).Inc()
	return &SearchResult{Query: query, Products: FilterProducts(s.demo, query), Source: SourceDemo}
}

func (s *CatalogSearcher) fromCache(ctx context.Context, query *model.CatalogQuery) ([]model.CatalogProduct, bool) {
	if s.cache == nil {
		return nil, false
	}
	products, ok, err := s.cache.Get(ctx, query)
	if err != nil {
		logx.Warn().Err(err).Str("component", "catalog").Msg("search cache read failed")
		return nil, false
	}
	return products, ok && len(products) > 0
}

func (s *CatalogSearcher) toCache(ctx context.Context, query *model.CatalogQuery, products []model.CatalogProduct) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, query, products); err != nil {
		logx.Warn().Err(err).Str("component", "catalog").Msg("search cache write failed")
	}
}

// FilterProducts applies the catalog predicates in memory, sorts by
// confidence score and caps the result at query.Limit.
func FilterProducts(products []model.CatalogProduct, query *model.CatalogQuery) []model.CatalogProduct {
	out := make([]model.CatalogProduct, 0, len(products))
	for _, p := range products {
		if MatchesQuery(p, query) {
			out = append(out, p)
		}
	}
	sortByConfidence(out)
	if query != nil && query.Limit > 0 && len(out) > query.Limit {
		out = out[:query.Limit]
	}
	return out
}

// MatchesQuery mirrors the SQL predicate of a store search: in stock, every
// text attribute matches, and at least one visual signal matches when a
// visual context is present.
func MatchesQuery(p model.CatalogProduct, query *model.CatalogQuery) bool {
	if p.StockQty <= 0 {
		return false
	}
	if query == nil {
		return true
	}

	attrs := query.Attributes
	if attrs.Category != nil && !matchesCategory(p, *attrs.Category) {
		return false
	}
	if attrs.Color != nil && !utils.MatchesAlias(p.Color, *attrs.Color) {
		return false
	}
	if attrs.Material != nil && !matchesMaterial(p, *attrs.Material) {
		return false
	}
	if attrs.Style != nil && !utils.MatchesAlias(p.Style, *attrs.Style) {
		return false
	}
	if attrs.Room != nil && !utils.MatchesAlias(p.Room, *attrs.Room) {
		return false
	}
	if attrs.PriceMax != nil && p.Price > *attrs.PriceMax {
		return false
	}
	if query.Visual.HasFilters() && !matchesVisual(p, query.Visual) {
		return false
	}
	return true
}

func matchesCategory(p model.CatalogProduct, category string) bool {
	return utils.MatchesAlias(p.Category, category) || utils.MatchesAlias(p.Subcategory, category)
}

func matchesMaterial(p model.CatalogProduct, material string) bool {
	return utils.MatchesAlias(p.Material, material) || utils.MatchesAlias(p.Fabric, material)
}

// matchesVisual is the OR group of photo-derived signals
func matchesVisual(p model.CatalogProduct, v *model.VisualContext) bool {
	if v.StyleDetected != nil && utils.MatchesAlias(p.Style, *v.StyleDetected) {
		return true
	}
	if v.RoomType != nil && utils.MatchesAlias(p.Room, *v.RoomType) {
		return true
	}
	for _, color := range v.DominantColors {
		if utils.MatchesAlias(p.Color, color) {
			return true
		}
	}
	for _, material := range v.MaterialsVisible {
		if matchesMaterial(p, material) {
			return true
		}
	}
	return false
}
