package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAIJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]interface{}
		wantErr bool
	}{
		{
			name:  "Pure JSON",
			input: `{"intent": "faq", "confidence": 80}`,
			want:  map[string]interface{}{"intent": "faq", "confidence": float64(80)},
		},
		{
			name:  "JSON in markdown code block",
			input: "```json\n" + `{"intent": "chat", "confidence": 60}` + "\n```",
			want:  map[string]interface{}{"intent": "chat", "confidence": float64(60)},
		},
		{
			name:  "Unlabelled code block",
			input: "```\n" + `{"intent": "chat"}` + "\n```",
			want:  map[string]interface{}{"intent": "chat"},
		},
		{
			name:  "JSON with surrounding text",
			input: `Sure! Here is the analysis: {"intent": "product_search", "confidence": 90} Hope it helps.`,
			want:  map[string]interface{}{"intent": "product_search", "confidence": float64(90)},
		},
		{
			name:  "Braces inside strings",
			input: `Result {"response": "Our {best} sofas", "intent": "product_search"} done`,
			want:  map[string]interface{}{"response": "Our {best} sofas", "intent": "product_search"},
		},
		{
			name:  "Trailing comma",
			input: `{"intent": "faq", "confidence": 40,}`,
			want:  map[string]interface{}{"intent": "faq", "confidence": float64(40)},
		},
		{
			name:  "Unquoted keys",
			input: `{intent: "chat", confidence: 35}`,
			want:  map[string]interface{}{"intent": "chat", "confidence": float64(35)},
		},
		{
			name:    "Empty string",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "Not JSON at all",
			input:   "I could not analyse this image, sorry.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]interface{}
			err := ParseAIJSON(tt.input, &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAIJSON_IntoStruct(t *testing.T) {
	var out struct {
		StyleDetected  string   `json:"style_detected"`
		DominantColors []string `json:"dominant_colors"`
	}
	err := ParseAIJSON("```json\n{\"style_detected\": \"scandinave\", \"dominant_colors\": [\"blanc\", \"bois\"]}\n```", &out)
	require.NoError(t, err)
	assert.Equal(t, "scandinave", out.StyleDetected)
	assert.Equal(t, []string{"blanc", "bois"}, out.DominantColors)
}

func TestFirstBalanced(t *testing.T) {
	tests := []struct {
		name  string
		input string
		open  rune
		close rune
		want  string
	}{
		{"Simple object", `{"a": 1}`, '{', '}', `{"a": 1}`},
		{"Nested objects", `x {"a": {"b": 2}} y`, '{', '}', `{"a": {"b": 2}}`},
		{"Escaped quote", `{"a": "say \"{hi\""}`, '{', '}', `{"a": "say \"{hi\""}`},
		{"Array", `list: [1, [2], 3]`, '[', ']', `[1, [2], 3]`},
		{"Unbalanced", `{"a": 1`, '{', '}', ""},
		{"Missing", `no json`, '{', '}', ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstBalanced(tt.input, tt.open, tt.close))
		})
	}
}
