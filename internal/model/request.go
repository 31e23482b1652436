package model

// SearchRequest is a keyword search with an optional category filter.
type SearchRequest struct {
	Category *string `json:"category,omitempty"`
	Query    string  `json:"q"`
	K        int     `json:"k"`
}

// RecommendRequest asks for personalized recommendations.
type RecommendRequest struct {
	UserID       string       `json:"user_id"`
	Locale       string       `json:"locale"`
	Algorithm    ModelVariant `json:"algorithm"`
	RecentClicks []string     `json:"recent_clicks"`
	K            int          `json:"k"`
}

// RecommendResponse is the gateway reply to a RecommendRequest.
type RecommendResponse struct {
	UserID string    `json:"user_id"`
	Items  []RecItem `json:"items"`
}
