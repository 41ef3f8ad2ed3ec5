package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shopassist/internal/config"
	"shopassist/internal/logx"
	"shopassist/internal/model"
	"shopassist/internal/utils"
)

// OpenAIClient handles OpenAI-compatible chat completion calls
type OpenAIClient struct {
	config     *config.OpenAIConfig
	httpClient *http.Client
}

// NewOpenAIClient creates a new OpenAI-compatible client
func NewOpenAIClient(cfg *config.OpenAIConfig) *OpenAIClient {
	return &OpenAIClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// IsEnabled returns whether the client is configured and ready
func (c *OpenAIClient) IsEnabled() bool {
	return c != nil && c.config.Enabled
}

// ChatCompletionRequest represents a chat completion request
type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ChatMessage represents a single message in the conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat specifies the format of the response
type ResponseFormat struct {
	Type string `json:"type"` // "json_object" or "text"
}

// ChatCompletionResponse represents the API response
type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      ChatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// ChatCompletion performs a chat completion request
func (c *OpenAIClient) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if !c.IsEnabled() {
		return nil, fmt.Errorf("OpenAI API is not enabled (missing API key)")
	}

	if req.Model == "" {
		req.Model = c.config.ChatModel
	}
	if req.Temperature == 0 && c.config.ChatTemperature > 0 {
		req.Temperature = c.config.ChatTemperature
	}
	if req.MaxTokens == 0 && c.config.ChatMaxTokens > 0 {
		req.MaxTokens = c.config.ChatMaxTokens
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", strings.TrimRight(c.config.APIBase, "/"))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &result, nil
}

const intentSystemPrompt = `You are the shopping assistant of a furniture store. Classify the customer's last message and extract product attributes.

Respond ONLY with a JSON object of this shape:
{"intent": "product_search" | "faq" | "chat",
 "attributes": {"category": string, "color": string, "material": string, "style": string, "room": string, "price_max": number, "dimensions": string},
 "response": string,
 "confidence": number}

Rules:
- "faq": delivery, warranty, returns, payment or showroom questions, even when a product is mentioned.
- "chat": greetings, thanks, small talk.
- "product_search": the customer is looking for furniture.
- Omit attributes that are not mentioned. Keep the customer's language for attribute values (e.g. "canapé", "bleu").
- "price_max" is a number without currency ("sous 500" = 500, "under 1k" = 1000).
- "response" is one short friendly sentence in the customer's language.
- "confidence" is between 0 and 100.

Examples:
Message: "canapé bleu en velours sous 500"
Response: {"intent": "product_search", "attributes": {"category": "canapé", "color": "bleu", "material": "velours", "price_max": 500}, "response": "Voici nos canapés bleus en velours 👇", "confidence": 92}

Message: "How long does delivery take?"
Response: {"intent": "faq", "attributes": {}, "response": "Delivery usually takes 3 to 7 business days.", "confidence": 88}`

// aiIntentResponse is the JSON contract of the intent model
type aiIntentResponse struct {
	Intent     string             `json:"intent"`
	Attributes model.AttributeBag `json:"attributes"`
	Response   string             `json:"response"`
	Confidence float64            `json:"confidence"`
}

// ClassifyIntent asks the chat model for intent and attributes jointly
func (c *OpenAIClient) ClassifyIntent(ctx context.Context, message string, history []model.HistoryMessage) (*model.IntentResult, error) {
	if !c.IsEnabled() {
		return nil, fmt.Errorf("OpenAI API is not enabled")
	}

	messages := make([]ChatMessage, 0, len(history)+2)
	messages = append(messages, ChatMessage{Role: "system", Content: intentSystemPrompt})
	for _, turn := range history {
		if turn.Content == "" || (turn.Role != "user" && turn.Role != "assistant") {
			continue
		}
		messages = append(messages, ChatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: message})

	resp, err := c.ChatCompletion(ctx, ChatCompletionRequest{
		Messages:       messages,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content
	var parsed aiIntentResponse
	if err := utils.ParseAIJSON(content, &parsed); err != nil {
		logx.Debug().Str("component", "openai").Str("content", content).Msg("unparsable intent response")
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	result, err := validateIntentResponse(&parsed)
	if err != nil {
		return nil, fmt.Errorf("AI response validation failed: %w", err)
	}

	logx.Debug().
		Str("component", "openai").
		Int("total_tokens", resp.Usage.TotalTokens).
		Str("intent", string(result.Intent)).
		Msg("intent classified by model")

	return result, nil
}

// validateIntentResponse checks the model output against the intent contract
func validateIntentResponse(resp *aiIntentResponse) (*model.IntentResult, error) {
	intent := model.Intent(strings.ToLower(strings.TrimSpace(resp.Intent)))
	if !intent.Valid() {
		return nil, fmt.Errorf("invalid intent %q", resp.Intent)
	}

	attrs := normalizeAttributes(resp.Attributes)
	if attrs.PriceMax != nil && *attrs.PriceMax < 0 {
		return nil, fmt.Errorf("price_max must not be negative")
	}

	confidence := resp.Confidence
	if confidence > 0 && confidence <= 1 {
		confidence *= 100
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	return &model.IntentResult{
		Intent:       intent,
		Attributes:   attrs,
		ResponseText: strings.TrimSpace(resp.Response),
		Confidence:   confidence,
		Source:       sourceLLM,
	}, nil
}

// normalizeAttributes turns blank strings into absent fields
func normalizeAttributes(bag model.AttributeBag) model.AttributeBag {
	clean := func(s *string) *string {
		if s == nil || strings.TrimSpace(*s) == "" {
			return nil
		}
		return model.StrPtr(strings.TrimSpace(*s))
	}
	bag.Category = clean(bag.Category)
	bag.Color = clean(bag.Color)
	bag.Material = clean(bag.Material)
	bag.Style = clean(bag.Style)
	bag.Room = clean(bag.Room)
	bag.Dimensions = clean(bag.Dimensions)
	if bag.PriceMax != nil && *bag.PriceMax == 0 {
		bag.PriceMax = nil
	}
	return bag
}
