package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"shopassist/internal/errx"
	"shopassist/internal/logx"
	"shopassist/internal/metrics"
	"shopassist/internal/model"
)

const chatLogTimeout = 5 * time.Second

// Assistant runs the quick-chat pipeline: classify, optionally analyse the
// photo, search the catalog for product requests, then compose the answer.
type Assistant struct {
	classifier *IntentClassifier
	vision     *VisualAnalyzer
	catalog    *CatalogSearcher
	composer   *ResponseComposer
	logger     ChatLogger
}

// NewAssistant wires the pipeline stages. logger may be nil.
func NewAssistant(
	classifier *IntentClassifier,
	vision *VisualAnalyzer,
	catalog *CatalogSearcher,
	composer *ResponseComposer,
	logger ChatLogger,
) *Assistant {
	return &Assistant{
		classifier: classifier,
		vision:     vision,
		catalog:    catalog,
		composer:   composer,
		logger:     logger,
	}
}

// Chat answers one shopper message. The only error is an unusable request;
// every upstream failure degrades to a fallback answer instead.
func (a *Assistant) Chat(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error) {
	if req == nil {
		return nil, errx.BadRequest(errx.ErrInvalidPayload)
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, errx.BadRequest(errx.ErrEmptyMessage)
	}

	start := time.Now()
	requestID := uuid.NewString()

	intent := a.classifier.Classify(ctx, message, req.ConversationHistory)
	visual := a.vision.Analyze(ctx, req.PhotoContext)

	// A photo with nothing else recognisable is a request for matching products.
	if visual != nil && intent.Intent == model.IntentChat && intent.Source == sourceDefault {
		intent.Intent = model.IntentProductSearch
		intent.ResponseText = ""
	}

	var search *SearchResult
	if intent.Intent == model.IntentProductSearch {
		search = a.catalog.Search(ctx, intent.Attributes, visual)
	}

	resp := a.composer.Compose(message, intent, search, visual)
	resp.RequestID = requestID

	took := time.Since(start).Milliseconds()
	metrics.ChatRequests.WithLabelValues(string(resp.Intent)).Inc()
	if resp.Intent == model.IntentProductSearch {
		metrics.ProductsReturned.Observe(float64(len(resp.Products)))
	}

	event := logx.Info().
		Str("component", "assistant").
		Str("request_id", requestID).
		Str("intent", string(resp.Intent)).
		Str("classified_by", intent.Source).
		Int("products", len(resp.Products)).
		Int64("took_ms", took)
	if search != nil {
		event = event.Str("catalog_source", search.Source)
	}
	event.Msg("chat answered")

	a.logChat(requestID, message, intent, search, resp, int(took))

	return resp, nil
}

// logChat records the answer in the background so it never delays or fails the response
func (a *Assistant) logChat(
	requestID, message string,
	intent *model.IntentResult,
	search *SearchResult,
	resp *model.ChatResponse,
	took int,
) {
	if a.logger == nil {
		return
	}

	productIDs := make([]string, len(resp.Products))
	for i, p := range resp.Products {
		productIDs[i] = p.ID
	}
	source := intent.Source
	if search != nil {
		source += "+" + search.Source
	}

	entry := &model.ChatLog{
		RequestID:      requestID,
		Message:        message,
		Intent:         resp.Intent,
		Attributes:     intent.Attributes,
		ProductIDs:     productIDs,
		Source:         source,
		ResponseTimeMs: took,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), chatLogTimeout)
		defer cancel()
		if err := a.logger.LogChat(ctx, entry); err != nil {
			logx.Warn().Err(err).Str("component", "assistant").Str("request_id", requestID).Msg("failed to log chat")
		}
	}()
}
