// Package offline implements service.Gateway against an in-memory catalog.
//
// It serves the built-in demo articles, optionally extended from RSS or Atom
// feeds. Rankings are deterministic stand-ins; no recommendation model runs.
package offline

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/Veraticus/newsflow/internal/common"
	"github.com/Veraticus/newsflow/internal/model"
	"github.com/Veraticus/newsflow/internal/report"
	"github.com/Veraticus/newsflow/internal/service"
)

// Gateway serves the catalog through the service.Gateway contract.
type Gateway struct {
	catalog    *Catalog
	httpClient *http.Client
	logger     *slog.Logger
	feeds      []string
}

var _ service.Gateway = (*Gateway)(nil)

// Option configures a Gateway.
type Option func(*Gateway)

// WithFeeds sets the feed URLs pulled by LoadFeeds.
func WithFeeds(urls []string) Option {
	return func(g *Gateway) {
		g.feeds = urls
	}
}

// WithCatalog replaces the built-in catalog.
func WithCatalog(c *Catalog) Option {
	return func(g *Gateway) {
		g.catalog = c
	}
}

// WithHTTPClient sets the client used to fetch feeds.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) {
		g.httpClient = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// New creates an offline gateway seeded with SeedArticles.
func New(opts ...Option) *Gateway {
	g := &Gateway{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.catalog == nil {
		g.catalog = NewCatalog(SeedArticles())
	}
	return g
}

// Catalog exposes the underlying catalog.
func (g *Gateway) Catalog() *Catalog {
	return g.catalog
}

// Trending returns the k most popular articles.
func (g *Gateway) Trending(ctx context.Context, k int) ([]model.RecItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return []model.RecItem{}, nil
	}
	popular := g.catalog.Popular()
	out := make([]model.RecItem, 0, min(k, len(popular)))
	for _, a := range popular {
		if len(out) >= k {
			break
		}
		out = append(out, toItem(a, a.Popularity, "Trending"))
	}
	return out, nil
}

// Categories returns the catalog categories.
func (g *Gateway) Categories(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.catalog.Categories(), nil
}

// Search matches the query against titles and abstracts. A title hit
// scores 2, an abstract hit 1. The category filter matches by substring;
// "all" disables it.
func (g *Gateway) Search(ctx context.Context, req model.SearchRequest) ([]model.RecItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(req.Query))
	if q == "" {
		return nil, common.ErrEmptyQuery
	}
	category := ""
	if req.Category != nil && !strings.EqualFold(*req.Category, "all") {
		category = strings.ToLower(strings.TrimSpace(*req.Category))
	}

	type match struct {
		article Article
		score   float64
	}
	var matches []match
	for _, a := range g.catalog.Popular() {
		if category != "" && !strings.Contains(strings.ToLower(a.Category), category) {
			continue
		}
		score := 0.0
		if strings.Contains(strings.ToLower(a.Title), q) {
			score += 2
		}
		if strings.Contains(strings.ToLower(a.Abstract), q) {
			score++
		}
		if score == 0 {
			continue
		}
		matches = append(matches, match{article: a, score: score})
	}

	// Popularity order is kept within equal scores.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := make([]model.RecItem, 0, max(0, min(req.K, len(matches))))
	for _, m := range matches {
		if len(out) >= req.K {
			break
		}
		out = append(out, toItem(m.article, m.score, "Keyword match"))
	}
	return out, nil
}

// Recommend returns a deterministic slice of the catalog for the user and
// variant. Articles in RecentClicks are excluded.
func (g *Gateway) Recommend(ctx context.Context, req model.RecommendRequest) (model.RecommendResponse, error) {
	if err := ctx.Err(); err != nil {
		return model.RecommendResponse{}, err
	}
	if strings.TrimSpace(req.UserID) == "" {
		return model.RecommendResponse{}, common.ErrMissingUser
	}
	if req.K <= 0 {
		return model.RecommendResponse{}, fmt.Errorf("%w: %d", common.ErrInvalidCount, req.K)
	}
	variant := req.Algorithm
	if variant == "" {
		variant = model.DefaultVariant
	}
	if !variant.Valid() {
		return model.RecommendResponse{}, fmt.Errorf("%w: %s", common.ErrInvalidModel, variant)
	}

	clicked := make(map[string]struct{}, len(req.RecentClicks))
	for _, id := range req.RecentClicks {
		clicked[id] = struct{}{}
	}
	candidates := make([]Article, 0, g.catalog.Len())
	for _, a := range g.catalog.Popular() {
		if _, ok := clicked[a.ID]; ok {
			continue
		}
		candidates = append(candidates, a)
	}

	items := make([]model.RecItem, 0, min(req.K, len(candidates)))
	if len(candidates) > 0 {
		offset := int(hash(req.UserID+":"+string(variant)) % uint32(len(candidates)))
		reason := reasonPrefix(variant) + ": Based on your preferences"
		for i := 0; i < len(candidates) && len(items) < req.K; i++ {
			a := candidates[(offset+i)%len(candidates)]
			score := max(0.99-0.03*float64(i), 0.01)
			items = append(items, toItem(a, score, reason))
		}
	}

	g.logger.Debug("Offline recommendations generated",
		"user_id", req.UserID, "algorithm", variant, "items", len(items))
	return model.RecommendResponse{UserID: req.UserID, Items: items}, nil
}

// Export renders a report for items. Missing titles are filled in from the
// catalog.
func (g *Gateway) Export(ctx context.Context, items []model.RecItem, subjectID string, format model.ExportFormat) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	enriched := model.CloneItems(items)
	for i, item := range enriched {
		if item.Title != nil {
			continue
		}
		if a, ok := g.catalog.Lookup(item.ItemID); ok && a.Title != "" {
			enriched[i].Title = model.StringPtr(a.Title)
		}
	}
	return report.Render(format, report.DefaultTitle, subjectID, enriched)
}

// Health always succeeds.
func (g *Gateway) Health(ctx context.Context) error {
	return ctx.Err()
}

// LoadFeeds pulls every configured feed into the catalog and reports how
// many articles were added. A failing feed does not stop the others.
func (g *Gateway) LoadFeeds(ctx context.Context) (int, error) {
	var errs []error
	total := 0
	for _, feedURL := range g.feeds {
		n, err := g.loadFeedURL(ctx, feedURL)
		if err != nil {
			g.logger.Warn("Failed to load feed", "url", feedURL, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", feedURL, err))
			continue
		}
		g.logger.Info("Loaded feed", "url", feedURL, "articles", n)
		total += n
	}
	return total, errors.Join(errs...)
}

func (g *Gateway) loadFeedURL(ctx context.Context, feedURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, &common.StatusError{StatusCode: resp.StatusCode, Body: resp.Status}
	}
	return g.LoadFeed(resp.Body)
}

// LoadFeed parses one RSS, Atom or JSON feed and adds its entries.
func (g *Gateway) LoadFeed(r io.Reader) (int, error) {
	feed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return 0, fmt.Errorf("failed to parse feed: %w", err)
	}

	fallbackCategory := "news"
	articles := make([]Article, 0, len(feed.Items))
	for i, it := range feed.Items {
		title := strings.TrimSpace(it.Title)
		if title == "" {
			continue
		}
		identity := it.GUID
		if identity == "" {
			identity = it.Link
		}
		if identity == "" {
			identity = title
		}
		category := fallbackCategory
		if len(it.Categories) > 0 && strings.TrimSpace(it.Categories[0]) != "" {
			category = strings.ToLower(strings.TrimSpace(it.Categories[0]))
		}
		articles = append(articles, Article{
			ID:         fmt.Sprintf("rss-%08x", hash(identity)),
			Title:      title,
			Abstract:   strings.TrimSpace(it.Description),
			Category:   category,
			URL:        strings.TrimSpace(it.Link),
			Popularity: max(0.5-0.01*float64(i), 0.05),
		})
	}
	return g.catalog.Add(articles...), nil
}

func toItem(a Article, score float64, reason string) model.RecItem {
	item := model.RecItem{ItemID: a.ID, Score: score, Reason: model.StringPtr(reason)}
	if a.Title != "" {
		item.Title = model.StringPtr(a.Title)
	}
	return item
}

func reasonPrefix(v model.ModelVariant) string {
	switch v {
	case model.VariantBERT:
		return "BERT4Rec"
	case model.VariantCollaborative:
		return "Collaborative Filtering"
	case model.VariantContent:
		return "Content-Based"
	default:
		return "Hybrid Recommendation"
	}
}

func hash(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
