package viewmodel

import (
	"fmt"
	"strings"

	"github.com/Veraticus/newsflow/internal/model"
)

// RecommendForm is the personalized form state.
type RecommendForm struct {
	UserID      string
	Count       string
	Model       string
	CanGenerate bool
}

// NewRecommendForm describes the form for the current selection.
func NewRecommendForm(userID string, count int, variant model.ModelVariant, canGenerate bool) RecommendForm {
	return RecommendForm{
		UserID:      userID,
		Count:       fmt.Sprintf("%d articles", count),
		Model:       variant.Label(),
		CanGenerate: canGenerate,
	}
}

// SearchBar is the trending view search state.
type SearchBar struct {
	Category  string
	QuickTags []string
	CanSearch bool
}

// NewSearchBar describes the search controls. An empty category reads as
// "all".
func NewSearchBar(category string, canSearch bool) SearchBar {
	if strings.TrimSpace(category) == "" {
		category = "all"
	}
	return SearchBar{
		Category:  category,
		QuickTags: model.QuickTags,
		CanSearch: canSearch,
	}
}

// ExportStatus is the one-line export indicator.
type ExportStatus struct {
	Text    string
	Pending bool
	Failed  bool
}

// NewExportStatus summarizes an export slot.
func NewExportStatus(pending, failed bool, filename, location string) ExportStatus {
	switch {
	case pending:
		return ExportStatus{Text: "Exporting...", Pending: true}
	case failed:
		return ExportStatus{Text: "Export failed", Failed: true}
	case filename != "":
		return ExportStatus{Text: fmt.Sprintf("Saved %s to %s", filename, location)}
	default:
		return ExportStatus{}
	}
}
