package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// VisualContext is the structured scene description of an uploaded photo.
// Only the style, colours, materials and room type drive catalog filtering;
// the rest is carried through to the caller.
type VisualContext struct {
	StyleDetected       *string  `json:"style_detected,omitempty"`
	RoomType            *string  `json:"room_type,omitempty"`
	DominantColors      []string `json:"dominant_colors"`
	MaterialsVisible    []string `json:"materials_visible"`
	FurniturePresent    []string `json:"furniture_present"`
	MissingElements     []string `json:"missing_elements"`
	RecommendedProducts []string `json:"recommended_products"`
	BudgetTier          FlexText `json:"budget_tier,omitempty"`
	StyleConsistency    FlexText `json:"style_consistency,omitempty"`
	LightingAnalysis    FlexText `json:"lighting_analysis,omitempty"`
	DesignOpportunities FlexText `json:"design_opportunities,omitempty"`
}

// HasFilters reports whether any field usable as a catalog predicate is set
func (v *VisualContext) HasFilters() bool {
	if v == nil {
		return false
	}
	return (v.StyleDetected != nil && *v.StyleDetected != "") ||
		(v.RoomType != nil && *v.RoomType != "") ||
		len(v.DominantColors) > 0 || len(v.MaterialsVisible) > 0
}

// FlexText is advisory free text from the vision model. A list or a number
// where a string was asked for is flattened instead of failing the whole object.
type FlexText string

// UnmarshalJSON accepts a string, null, a list (joined with "; ") or any other
// value as its raw JSON text.
func (t *FlexText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = FlexText(strings.TrimSpace(s))
		return nil
	}

	var list []interface{}
	if err := json.Unmarshal(data, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if part := flexItem(item); part != "" {
				parts = append(parts, part)
			}
		}
		*t = FlexText(strings.Join(parts, "; "))
		return nil
	}

	*t = FlexText(bytes.TrimSpace(data))
	return nil
}

func flexItem(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	default:
		raw, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}
