package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"shopassist/internal/config"
	"shopassist/internal/logx"
	"shopassist/internal/metrics"
	"shopassist/internal/model"
	"shopassist/internal/utils"
)

const visionPrompt = `You are an interior designer working for a furniture store. Analyse this room photo.

Respond ONLY with a JSON object of this shape:
{"style_detected": string, "dominant_colors": [string], "materials_visible": [string],
 "room_type": string, "furniture_present": [string], "missing_elements": [string],
 "recommended_products": [string], "budget_tier": "entry" | "mid" | "premium",
 "style_consistency": string, "lighting_analysis": string, "design_opportunities": string}

Use short lower-case words for style, colours, materials and room type (e.g. "scandinavian", "beige", "wood", "living room").
"recommended_products" lists furniture types that would complete the room (e.g. "sofa", "coffee table", "rug").`

// GeminiVision describes room photos with a Gemini multimodal model
type GeminiVision struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiVision creates a Gemini vision client
func NewGeminiVision(ctx context.Context, cfg *config.VisionConfig) (*GeminiVision, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiVision{
		client:  client,
		model:   cfg.Model,
		timeout: time.Duration(cfg.Timeout) * time.Second,
	}, nil
}

// AnalyzeImage sends the image inline with the analysis instruction
func (g *GeminiVision) AnalyzeImage(ctx context.Context, image []byte, mimeType string) (*model.VisualContext, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(visionPrompt),
			genai.NewPartFromBytes(image, mimeType),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(float32(0.2)),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty response from gemini")
	}

	return parseVisual(text)
}

func parseVisual(text string) (*model.VisualContext, error) {
	var visual model.VisualContext
	if err := utils.ParseAIJSON(text, &visual); err != nil {
		return nil, fmt.Errorf("failed to parse vision response: %w", err)
	}
	return normalizeVisual(&visual), nil
}

// normalizeVisual trims the scene description and replaces nil lists with empty ones
func normalizeVisual(v *model.VisualContext) *model.VisualContext {
	blank := func(s *string) *string {
		if s == nil || strings.TrimSpace(*s) == "" {
			return nil
		}
		return model.StrPtr(strings.TrimSpace(*s))
	}
	list := func(items []string) []string {
		out := make([]string, 0, len(items))
		for _, item := range items {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out
	}

	v.StyleDetected = blank(v.StyleDetected)
	v.RoomType = blank(v.RoomType)
	v.DominantColors = list(v.DominantColors)
	v.MaterialsVisible = list(v.MaterialsVisible)
	v.FurniturePresent = list(v.FurniturePresent)
	v.MissingElements = list(v.MissingElements)
	v.RecommendedProducts = list(v.RecommendedProducts)
	return v
}

// VisualAnalyzer turns an optional request photo into a visual context.
// It returns nil whenever the photo cannot be analysed.
type VisualAnalyzer struct {
	model VisionModel
}

// NewVisualAnalyzer creates an analyzer. A nil model disables photo analysis.
func NewVisualAnalyzer(m VisionModel) *VisualAnalyzer {
	return &VisualAnalyzer{model: m}
}

// Analyze decodes photo (plain base64 or a data URL) and asks the vision model about it
func (a *VisualAnalyzer) Analyze(ctx context.Context, photo string) *model.VisualContext {
	if a == nil || a.model == nil || strings.TrimSpace(photo) == "" {
		return nil
	}

	image, mimeType, err := decodePhoto(photo)
	if err != nil {
		logx.Warn().Err(err).Str("component", "vision").Msg("undecodable photo, skipping analysis")
		metrics.Fallbacks.WithLabelValues(metrics.StageVision).Inc()
		return nil
	}

	start := time.Now()
	visual, err := a.model.AnalyzeImage(ctx, image, mimeType)
	metrics.UpstreamDuration.WithLabelValues(metrics.StageVision).Observe(time.Since(start).Seconds())
	if err != nil || visual == nil {
		logx.Warn().Err(err).Str("component", "vision").Msg("vision model unavailable, continuing without photo")
		metrics.Fallbacks.WithLabelValues(metrics.StageVision).Inc()
		return nil
	}

	return visual
}

// decodePhoto accepts "data:image/png;base64,...." or bare base64, padded or not
func decodePhoto(photo string) ([]byte, string, error) {
	payload := strings.TrimSpace(photo)
	declared := ""
	if strings.HasPrefix(payload, "data:") {
		header, data, ok := strings.Cut(payload, ",")
		if !ok {
			return nil, "", fmt.Errorf("malformed data URL")
		}
		declared = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		payload = data
	}

	image, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		image, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	}
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 photo: %w", err)
	}
	if len(image) == 0 {
		return nil, "", fmt.Errorf("empty photo")
	}

	mimeType := http.DetectContentType(image)
	if !strings.HasPrefix(mimeType, "image/") && strings.HasPrefix(declared, "image/") {
		mimeType = declared
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, "", fmt.Errorf("unsupported photo type %q", mimeType)
	}
	return image, mimeType, nil
}

// Ensure GeminiVision implements VisionModel
var _ VisionModel = (*GeminiVision)(nil)
