// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/newsflow/internal/model"
)

// Gateway is the contract for the remote news API. Implementations perform
// the network call and either return typed results or an error; they never
// retain or mutate the slices they return.
type Gateway interface {
	// Read operations
	Trending(ctx context.Context, k int) ([]model.RecItem, error)
	Categories(ctx context.Context) ([]string, error)

	// Compute operations
	Search(ctx context.Context, req model.SearchRequest) ([]model.RecItem, error)
	Recommend(ctx context.Context, req model.RecommendRequest) (model.RecommendResponse, error)

	// Export renders the items into an artifact for the given subject.
	Export(ctx context.Context, items []model.RecItem, subjectID string, format model.ExportFormat) ([]byte, error)

	// Health reports whether the backend is reachable.
	Health(ctx context.Context) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
