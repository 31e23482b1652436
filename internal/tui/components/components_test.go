package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	tuitesting "github.com/Veraticus/newsflow/internal/tui/testing"
	"github.com/Veraticus/newsflow/internal/tui/themes"
	"github.com/Veraticus/newsflow/internal/tui/viewmodel"
)

func TestRenderArticle(t *testing.T) {
	tests := []struct {
		name    string
		article viewmodel.ArticleView
		want    []string
		missing []string
	}{
		{
			name:    "with reason",
			article: viewmodel.ArticleView{Rank: 1, ID: "n1", Title: "Markets rally", Score: "0.900", Reason: "Trending"},
			want:    []string{"1. Markets rally", "n1", "score 0.900", "Trending"},
		},
		{
			name:    "without reason",
			article: viewmodel.ArticleView{Rank: 3, ID: "n7", Title: "Untitled Article", Score: "0.100"},
			want:    []string{"3. Untitled Article", "score 0.100"},
			missing: []string{"Trending"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tuitesting.StripANSI(RenderArticle(tt.article, false, 60, themes.Default))
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
			for _, missing := range tt.missing {
				assert.NotContains(t, out, missing)
			}
		})
	}
}

func TestRenderArticle_Truncates(t *testing.T) {
	article := viewmodel.ArticleView{Rank: 1, ID: "n1", Title: strings.Repeat("x", 100), Score: "0.500"}
	out := tuitesting.StripANSI(RenderArticle(article, true, 30, themes.Default))

	first := strings.Split(out, "\n")[0]
	assert.LessOrEqual(t, len([]rune(strings.TrimRight(first, " "))), 30)
	assert.Contains(t, first, "…")
}

func TestRenderArticles_FitsHeight(t *testing.T) {
	articles := make([]viewmodel.ArticleView, 10)
	for i := range articles {
		articles[i] = viewmodel.ArticleView{Rank: i + 1, ID: "id", Title: "T", Score: "0.100"}
	}

	out := tuitesting.StripANSI(RenderArticles(articles, 0, 2, 60, 9, themes.Default))

	assert.NotContains(t, out, "1. T")
	assert.Contains(t, out, "3. T")
	assert.Contains(t, out, "5. T")
	assert.NotContains(t, out, "6. T")
}

func TestStates(t *testing.T) {
	skeleton := tuitesting.StripANSI(RenderSkeleton("⣾", 2, 40, themes.Default))
	assert.Contains(t, skeleton, "Loading...")
	assert.Contains(t, skeleton, "▒")

	empty := tuitesting.StripANSI(RenderEmpty(viewmodel.EmptySearchTitle, viewmodel.EmptySearchMessage, themes.Default))
	assert.Contains(t, empty, "No articles found")

	alert := tuitesting.StripANSI(RenderAlert("Export failed", "Failed to export PDF. Please try again.", 80, 24, themes.Default))
	assert.True(t, tuitesting.ContainsInOrder(alert, "Export failed", "Failed to export PDF. Please try again.", "Press Enter to dismiss"))

	tabs := tuitesting.StripANSI(RenderTabs([]string{"Trending", "Personalized"}, 1, themes.Default))
	assert.True(t, tuitesting.ContainsInOrder(tabs, "Trending", "Personalized"))

	tags := tuitesting.StripANSI(RenderTags([]string{"sports", "health"}, "", themes.Default))
	assert.True(t, tuitesting.ContainsInOrder(tags, "1", "sports", "2", "health"))
}

func TestRenderTags_HighlightsActive(t *testing.T) {
	tags := []string{"sports", "health"}
	theme := themes.Default
	theme.ActiveTag = theme.ActiveTag.SetString(">")

	out := tuitesting.StripANSI(RenderTags(tags, "health", theme))
	assert.True(t, tuitesting.ContainsInOrder(out, "sports", "> 2", "health"))
	assert.Equal(t, 1, strings.Count(out, ">"))
}
