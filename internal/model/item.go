// Package model defines the domain types shared by the gateway, the
// orchestration core and the views.
package model

import (
	"fmt"
	"math"
)

// RecItem is one displayable news result returned by the gateway.
// Items are treated as immutable once returned.
type RecItem struct {
	Title  *string `json:"title,omitempty"`
	Reason *string `json:"reason,omitempty"`
	ItemID string  `json:"item_id"`
	Score  float64 `json:"score"`
}

// DisplayTitle returns the title or a placeholder when the gateway sent none.
func (r RecItem) DisplayTitle() string {
	if r.Title == nil || *r.Title == "" {
		return "Untitled Article"
	}
	return *r.Title
}

// HasReason reports whether the item carries an explanation.
func (r RecItem) HasReason() bool {
	return r.Reason != nil && *r.Reason != ""
}

// ReasonText returns the explanation or the empty string.
func (r RecItem) ReasonText() string {
	if r.Reason == nil {
		return ""
	}
	return *r.Reason
}

// FormatScore renders the score with three decimals.
func (r RecItem) FormatScore() string {
	return fmt.Sprintf("%.3f", r.Score)
}

// Validate checks the invariants the gateway must honor.
func (r RecItem) Validate() error {
	if r.ItemID == "" {
		return fmt.Errorf("item id is required")
	}
	if math.IsNaN(r.Score) || math.IsInf(r.Score, 0) {
		return fmt.Errorf("item %s: score must be finite", r.ItemID)
	}
	return nil
}

// ValidateItems checks every item and that ids are unique within the list.
func ValidateItems(items []RecItem) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		if _, dup := seen[item.ItemID]; dup {
			return fmt.Errorf("duplicate item id %s", item.ItemID)
		}
		seen[item.ItemID] = struct{}{}
	}
	return nil
}

// CloneItems returns a copy of the slice so callers can't alias shared data.
// A nil input stays nil; an empty input stays empty.
func CloneItems(items []RecItem) []RecItem {
	if items == nil {
		return nil
	}
	out := make([]RecItem, len(items))
	copy(out, items)
	return out
}

// StringPtr is a convenience for building optional fields.
func StringPtr(s string) *string {
	return &s
}
