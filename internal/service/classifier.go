package service

import (
	"context"
	"time"

	"shopassist/internal/logx"
	"shopassist/internal/metrics"
	"shopassist/internal/model"
	"shopassist/internal/utils"
)

// Classification sources, carried on IntentResult.Source for logging.
const (
	sourceLLM      = "llm"
	sourceKeywords = "keywords"
	sourceDefault  = "default"
)

var (
	questionOpeners = []string{
		"how much", "how long", "how do", "how can", "where", "when",
		"combien", "quand", "où se trouve",
	}
	shoppingPhrases = []string{
		"looking for", "i'm looking for", "do you have", "je cherche",
		"avez-vous", "show me", "montre-moi", "buy", "acheter",
	}

	faqKeywords     = append(topicKeywords(faqAnswers), questionOpeners...)
	chatKeywords    = topicKeywords(chatAnswers)
	productKeywords = buildProductKeywords()
)

func buildProductKeywords() []string {
	out := make([]string, 0, len(categoryTerms)+len(frenchBedPhrases)+len(shoppingPhrases))
	for _, term := range categoryTerms {
		if term != frenchBed {
			out = append(out, term)
		}
	}
	out = append(out, frenchBedPhrases...)
	return append(out, shoppingPhrases...)
}

func topicKeywords(table []cannedAnswer) []string {
	var out []string
	for _, entry := range table {
		out = append(out, entry.keywords...)
	}
	return out
}

// keywordRule is one row of the deterministic classifier. Rules are
// evaluated in order and the first match decides the intent.
type keywordRule struct {
	intent     model.Intent
	confidence float64
	keywords   []string
	respond    func(message string, attrs model.AttributeBag) string
}

var keywordRules = []keywordRule{
	{
		intent:     model.IntentFAQ,
		confidence: 80,
		keywords:   faqKeywords,
		respond:    func(message string, _ model.AttributeBag) string { return FAQAnswer(message) },
	},
	{
		intent:     model.IntentChat,
		confidence: 70,
		keywords:   chatKeywords,
		respond:    func(message string, _ model.AttributeBag) string { return ChatAnswer(message) },
	},
	{
		intent:     model.IntentProductSearch,
		confidence: 75,
		keywords:   productKeywords,
		respond:    func(_ string, attrs model.AttributeBag) string { return ProductSearchAnswer(attrs) },
	},
}

// ClassifyByKeywords is the deterministic fallback classifier.
func ClassifyByKeywords(message string) *model.IntentResult {
	attrs := ExtractAttributes(message)

	for _, rule := range keywordRules {
		if !utils.ContainsAnyTerm(message, rule.keywords) {
			continue
		}
		return &model.IntentResult{
			Intent:       rule.intent,
			Attributes:   attrs,
			ResponseText: rule.respond(message, attrs),
			Confidence:   rule.confidence,
			Source:       sourceKeywords,
		}
	}

	return &model.IntentResult{
		Intent:       model.IntentChat,
		Attributes:   attrs,
		ResponseText: openEndedAnswer,
		Confidence:   30,
		Source:       sourceDefault,
	}
}

// IntentClassifier prefers the hosted intent model and falls back to the
// keyword rules on any failure. It never returns an error.
type IntentClassifier struct {
	model    IntentModel
	maxTurns int
}

// NewIntentClassifier creates a classifier. A nil model means keyword rules only.
func NewIntentClassifier(m IntentModel, maxTurns int) *IntentClassifier {
	return &IntentClassifier{model: m, maxTurns: maxTurns}
}

// Classify returns the intent of message, using history as context for the model path.
func (c *IntentClassifier) Classify(ctx context.Context, message string, history []model.HistoryMessage) *model.IntentResult {
	if c.model == nil {
		return ClassifyByKeywords(message)
	}

	start := time.Now()
	result, err := c.model.ClassifyIntent(ctx, message, trimHistory(history, c.maxTurns))
	metrics.UpstreamDuration.WithLabelValues(metrics.StageIntentLLM).Observe(time.Since(start).Seconds())
	if err != nil || result == nil {
		logx.Warn().
			Err(err).
			Str("component", "intent_classifier").
			Msg("intent model unavailable, using keyword rules")
		metrics.Fallbacks.WithLabelValues(metrics.StageIntentLLM).Inc()
		return ClassifyByKeywords(message)
	}

	// The model may miss terms the vocabularies know; fill only the gaps.
	result.Attributes = mergeAttributes(result.Attributes, ExtractAttributes(message))
	return result
}

// mergeAttributes keeps every field of primary and fills absent ones from secondary.
func mergeAttributes(primary, secondary model.AttributeBag) model.AttributeBag {
	if primary.Category == nil {
		primary.Category = secondary.Category
	}
	if primary.Color == nil {
		primary.Color = secondary.Color
	}
	if primary.Material == nil {
		primary.Material = secondary.Material
	}
	if primary.Style == nil {
		primary.Style = secondary.Style
	}
	if primary.Room == nil {
		primary.Room = secondary.Room
	}
	if primary.PriceMax == nil {
		primary.PriceMax = secondary.PriceMax
	}
	if primary.Dimensions == nil {
		primary.Dimensions = secondary.Dimensions
	}
	return primary
}

// trimHistory keeps the last maxTurns messages.
func trimHistory(history []model.HistoryMessage, maxTurns int) []model.HistoryMessage {
	if maxTurns <= 0 {
		return nil
	}
	if len(history) <= maxTurns {
		out := make([]model.HistoryMessage, len(history))
		copy(out, history)
		return out
	}
	source := history[len(history)-maxTurns:]
	out := make([]model.HistoryMessage, len(source))
	copy(out, source)
	return out
}
