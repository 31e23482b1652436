package model

import (
	"fmt"
	"slices"
	"strings"
)

// ModelVariant selects the recommendation algorithm on the server.
type ModelVariant string

const (
	// VariantBERT uses the BERT4Rec transformer.
	VariantBERT ModelVariant = "bert"
	// VariantHybrid blends collaborative and content signals.
	VariantHybrid ModelVariant = "hybrid"
	// VariantCollaborative uses collaborative filtering only.
	VariantCollaborative ModelVariant = "collaborative"
	// VariantContent uses content-based similarity only.
	VariantContent ModelVariant = "content"
)

// DefaultVariant is selected when the user has not chosen one.
const DefaultVariant = VariantHybrid

// ModelVariants lists the variants in selector order.
var ModelVariants = []ModelVariant{VariantHybrid, VariantBERT, VariantCollaborative, VariantContent}

// ParseModelVariant converts user input into a variant.
func ParseModelVariant(s string) (ModelVariant, error) {
	v := ModelVariant(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("unknown model variant %q (want one of bert, hybrid, collaborative, content)", s)
	}
	return v, nil
}

// Valid reports whether v is one of the known variants.
func (v ModelVariant) Valid() bool {
	return slices.Contains(ModelVariants, v)
}

// Label is the human readable selector label.
func (v ModelVariant) Label() string {
	switch v {
	case VariantBERT:
		return "BERT4Rec (Transformer)"
	case VariantHybrid:
		return "Hybrid (Collaborative + Content)"
	case VariantCollaborative:
		return "Collaborative Filtering"
	case VariantContent:
		return "Content-Based"
	default:
		return string(v)
	}
}

// Attribution describes which model produced a result list.
func (v ModelVariant) Attribution() string {
	switch v {
	case VariantBERT:
		return "Generated by BERT4Rec Transformer"
	case VariantHybrid:
		return "Generated by Hybrid Model"
	case VariantCollaborative:
		return "Generated by Collaborative Filtering"
	default:
		return "Generated by Content-Based Model"
	}
}

// Next cycles to the following variant in selector order.
func (v ModelVariant) Next() ModelVariant {
	i := slices.Index(ModelVariants, v)
	return ModelVariants[(i+1)%len(ModelVariants)]
}

// RecommendCounts are the only counts the recommend form offers.
var RecommendCounts = []int{5, 10, 15, 20}

// DefaultRecommendCount is the preselected count.
const DefaultRecommendCount = 10

// ValidRecommendCount reports whether n is an offered count.
func ValidRecommendCount(n int) bool {
	return slices.Contains(RecommendCounts, n)
}

// NextRecommendCount cycles through RecommendCounts.
func NextRecommendCount(n int) int {
	i := slices.Index(RecommendCounts, n)
	return RecommendCounts[(i+1)%len(RecommendCounts)]
}

// QuickTags are the fixed search shortcuts on the trending view.
var QuickTags = []string{"sports", "health", "finance", "news", "entertainment"}
