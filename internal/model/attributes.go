package model

import (
	"database/sql/driver"
	"encoding/json"
)

// Intent is the coarse purpose of a shopper message
type Intent string

const (
	IntentProductSearch Intent = "product_search"
	IntentFAQ           Intent = "faq"
	IntentChat          Intent = "chat"
)

// Valid reports whether the intent is one of the three known values
func (i Intent) Valid() bool {
	switch i {
	case IntentProductSearch, IntentFAQ, IntentChat:
		return true
	}
	return false
}

// AttributeBag holds structured filters extracted from free text.
// A nil field means "no constraint".
type AttributeBag struct {
	Category   *string  `json:"category,omitempty"`
	Color      *string  `json:"color,omitempty"`
	Material   *string  `json:"material,omitempty"`
	Style      *string  `json:"style,omitempty"`
	Room       *string  `json:"room,omitempty"`
	PriceMax   *float64 `json:"price_max,omitempty"`
	Dimensions *string  `json:"dimensions,omitempty"`
}

// IsEmpty reports whether no attribute is set
func (a AttributeBag) IsEmpty() bool {
	return a.Category == nil && a.Color == nil && a.Material == nil &&
		a.Style == nil && a.Room == nil && a.PriceMax == nil && a.Dimensions == nil
}

// Value implements driver.Valuer so the bag can be logged into a jsonb column
func (a AttributeBag) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// IntentResult is the output of intent classification
type IntentResult struct {
	Intent       Intent       `json:"intent"`
	Attributes   AttributeBag `json:"attributes"`
	ResponseText string       `json:"response"`
	Confidence   float64      `json:"confidence"` // 0-100, advisory
	Source       string       `json:"-"`          // "llm" or "keywords"
}

// HistoryMessage is one prior turn of the conversation
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// StrPtr returns a pointer to s
func StrPtr(s string) *string {
	return &s
}

// FloatPtr returns a pointer to f
func FloatPtr(f float64) *float64 {
	return &f
}
