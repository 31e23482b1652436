package offline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/newsflow/internal/common"
	"github.com/Veraticus/newsflow/internal/model"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Local Wire</title>
  <link>https://wire.example.com</link>
  <description>Local stories</description>
  <item>
    <title>Harbour festival draws record crowds</title>
    <link>https://wire.example.com/harbour</link>
    <guid>harbour-1</guid>
    <category>Entertainment</category>
    <description>Boats, music and food along the quay.</description>
  </item>
  <item>
    <title>Rowing club wins regional final</title>
    <link>https://wire.example.com/rowing</link>
    <description>The eight finished two lengths clear.</description>
  </item>
  <item>
    <title></title>
    <link>https://wire.example.com/untitled</link>
  </item>
</channel>
</rss>`

func TestGateway_Trending(t *testing.T) {
	g := New()

	items, err := g.Trending(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"n101", "n102", "n103"}, ids(items))
	assert.Equal(t, "Trending", items[0].ReasonText())
	assert.GreaterOrEqual(t, items[0].Score, items[1].Score)

	all, err := g.Trending(context.Background(), 1000)
	require.NoError(t, err)
	assert.Len(t, all, len(SeedArticles()))

	none, err := g.Trending(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGateway_Categories(t *testing.T) {
	categories, err := New().Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"entertainment", "finance", "health", "news", "sports", "technology", "travel"}, categories)
}

func TestGateway_Search(t *testing.T) {
	tests := []struct {
		category *string
		name     string
		query    string
		wantIDs  []string
		k        int
	}{
		{name: "title beats abstract", query: "record", k: 20, wantIDs: []string{"n107", "n111", "n118"}},
		{name: "category filter", query: "record", category: model.StringPtr("sports"), k: 20, wantIDs: []string{"n107"}},
		{name: "all disables filter", query: "record", category: model.StringPtr("All"), k: 20, wantIDs: []string{"n107", "n111", "n118"}},
		{name: "limit", query: "record", k: 1, wantIDs: []string{"n107"}},
		{name: "case insensitive", query: "MARATHON", k: 20, wantIDs: []string{"n107"}},
		{name: "no match", query: "zeppelin", k: 20, wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := New().Search(context.Background(), model.SearchRequest{
				Query:    tt.query,
				K:        tt.k,
				Category: tt.category,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, ids(items))
		})
	}
}

func TestGateway_SearchRejectsEmptyQuery(t *testing.T) {
	_, err := New().Search(context.Background(), model.SearchRequest{Query: "  ", K: 20})
	require.ErrorIs(t, err, common.ErrEmptyQuery)
}

func TestGateway_Recommend(t *testing.T) {
	g := New()
	req := model.RecommendRequest{
		UserID:       "U13740",
		K:            10,
		RecentClicks: []string{"n101", "n205"},
		Locale:       "en",
		Algorithm:    model.VariantBERT,
	}

	first, err := g.Recommend(context.Background(), req)
	require.NoError(t, err)
	second, err := g.Recommend(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "U13740", first.UserID)
	require.Len(t, first.Items, 10)
	assert.Equal(t, first, second, "recommendations are deterministic")
	require.NoError(t, model.ValidateItems(first.Items))
	assert.NotContains(t, ids(first.Items), "n101")
	assert.NotContains(t, ids(first.Items), "n205")
	assert.True(t, strings.HasPrefix(first.Items[0].ReasonText(), "BERT4Rec:"))
	assert.InDelta(t, 0.99, first.Items[0].Score, 1e-9)

	hybrid, err := g.Recommend(context.Background(), model.RecommendRequest{UserID: "U13740", K: 5})
	require.NoError(t, err)
	assert.Len(t, hybrid.Items, 5)
	assert.True(t, strings.HasPrefix(hybrid.Items[0].ReasonText(), "Hybrid Recommendation:"))
}

func TestGateway_RecommendValidation(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		req     model.RecommendRequest
	}{
		{name: "missing user", req: model.RecommendRequest{K: 10}, wantErr: common.ErrMissingUser},
		{name: "zero count", req: model.RecommendRequest{UserID: "U1"}, wantErr: common.ErrInvalidCount},
		{name: "unknown model", req: model.RecommendRequest{UserID: "U1", K: 5, Algorithm: "gpt"}, wantErr: common.ErrInvalidModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Recommend(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGateway_Export(t *testing.T) {
	g := New()
	items := []model.RecItem{{ItemID: "n101", Score: 1}, {ItemID: "n102", Score: 0.5}}

	pdf, err := g.Export(context.Background(), items, "home_user", model.ExportFormatPDF)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF-"))
	assert.Nil(t, items[0].Title, "caller items are not modified")

	docx, err := g.Export(context.Background(), items, "U1", model.ExportFormatDOCX)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(docx), "PK"))
}

func TestGateway_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := New()
	_, err := g.Trending(ctx, 5)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, g.Health(ctx), context.Canceled)
	require.NoError(t, g.Health(context.Background()))
}

func TestGateway_LoadFeed(t *testing.T) {
	g := New()
	before := g.Catalog().Len()

	added, err := g.LoadFeed(strings.NewReader(sampleRSS))
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, before+2, g.Catalog().Len())

	again, err := g.LoadFeed(strings.NewReader(sampleRSS))
	require.NoError(t, err)
	assert.Equal(t, 0, again, "entries are keyed by guid or link")

	items, err := g.Search(context.Background(), model.SearchRequest{Query: "harbour", K: 20})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Harbour festival draws record crowds", items[0].DisplayTitle())

	categories, err := g.Categories(context.Background())
	require.NoError(t, err)
	assert.Contains(t, categories, "entertainment")
}

func TestGateway_LoadFeeds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	g := New(WithFeeds([]string{server.URL + "/rss", server.URL + "/missing"}), WithHTTPClient(server.Client()))

	added, err := g.LoadFeeds(context.Background())
	assert.Equal(t, 2, added)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/missing")

	var statusErr *common.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestCatalog(t *testing.T) {
	c := NewCatalog([]Article{
		{ID: "a", Category: "News", Popularity: 0.1},
		{ID: "b", Category: "sports", Popularity: 0.9},
		{ID: "a", Category: "dup", Popularity: 1},
		{ID: "", Category: "ignored"},
		{ID: "c", Popularity: 0.9},
	})

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"news", "sports"}, c.Categories())

	popular := c.Popular()
	assert.Equal(t, "b", popular[0].ID)
	assert.Equal(t, "c", popular[1].ID)
	assert.Equal(t, "a", popular[2].ID)

	a, ok := c.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "News", a.Category)
	_, ok = c.Lookup("zzz")
	assert.False(t, ok)
}

func ids(items []model.RecItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ItemID)
	}
	return out
}
