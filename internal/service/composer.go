package service

import (
	"shopassist/internal/model"
)

// ResponseComposer assembles the chat payload from the pipeline stages
type ResponseComposer struct {
	ranker   *Ranker
	variants *VariantSynthesizer
	limit    int
}

// NewResponseComposer creates a composer that returns at most limit products
func NewResponseComposer(ranker *Ranker, variants *VariantSynthesizer, limit int) *ResponseComposer {
	if limit <= 0 {
		limit = 6
	}
	return &ResponseComposer{ranker: ranker, variants: variants, limit: limit}
}

// Compose builds the response. FAQ and chat answers never carry products.
func (c *ResponseComposer) Compose(
	message string,
	intent *model.IntentResult,
	search *SearchResult,
	visual *model.VisualContext,
) *model.ChatResponse {
	resp := &model.ChatResponse{
		Intent:        intent.Intent,
		Products:      []model.ProductResult{},
		PhotoAnalysis: visual,
	}

	switch intent.Intent {
	case model.IntentFAQ:
		resp.Message = FAQAnswer(message)

	case model.IntentProductSearch:
		resp.Products = c.products(search)
		resp.Message = productMessage(intent, visual, len(resp.Products))

	default:
		resp.Message = intent.ResponseText
		if resp.Message == "" {
			resp.Message = ChatAnswer(message)
		}
	}

	return resp
}

// products drops malformed entries, then ranks, caps and attaches variants
func (c *ResponseComposer) products(search *SearchResult) []model.ProductResult {
	if search == nil || len(search.Products) == 0 {
		return []model.ProductResult{}
	}

	valid := make([]model.CatalogProduct, 0, len(search.Products))
	for _, p := range search.Products {
		if p.Valid() {
			valid = append(valid, p)
		}
	}

	ranked := c.ranker.RankResults(valid, search.Query)
	if len(ranked) > c.limit {
		ranked = ranked[:c.limit]
	}
	for i := range ranked {
		ranked[i].Variants = c.variants.Synthesize(ranked[i].CatalogProduct)
	}
	return ranked
}

func productMessage(intent *model.IntentResult, visual *model.VisualContext, found int) string {
	switch {
	case found == 0:
		return noMatchAnswer
	case intent.ResponseText != "":
		return intent.ResponseText
	case intent.Attributes.IsEmpty() && visual != nil:
		return photoAnswer
	default:
		return ProductSearchAnswer(intent.Attributes)
	}
}
