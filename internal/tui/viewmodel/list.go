// Package viewmodel turns controller state into plain data the components
// render. Nothing here touches the terminal.
package viewmodel

import (
	"fmt"

	"github.com/Veraticus/newsflow/internal/controller"
	"github.com/Veraticus/newsflow/internal/model"
)

// Empty state texts.
const (
	EmptySearchTitle      = "No articles found"
	EmptySearchMessage    = "Try different keywords or browse trending stories."
	EmptyTrendingTitle    = "No trending articles"
	EmptyTrendingMessage  = "Check back later for the latest trends."
	EmptyRecommendTitle   = "No recommendations found"
	EmptyRecommendMessage = "Try a different user ID or check if the user has interaction history."
)

// ListMode selects what the list area shows.
type ListMode int

const (
	// ListHidden shows nothing.
	ListHidden ListMode = iota
	// ListSkeleton shows the loading placeholder.
	ListSkeleton
	// ListArticles shows article cards.
	ListArticles
	// ListEmpty shows the empty state.
	ListEmpty
)

func (m ListMode) String() string {
	switch m {
	case ListHidden:
		return "Hidden"
	case ListSkeleton:
		return "Skeleton"
	case ListArticles:
		return "Articles"
	case ListEmpty:
		return "Empty"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// ArticleView is one rendered card.
type ArticleView struct {
	ID     string
	Title  string
	Score  string
	Reason string
	Rank   int
}

// ListView is everything the list area needs.
type ListView struct {
	Title        string
	Subtitle     string
	Badge        string
	EmptyTitle   string
	EmptyMessage string
	Articles     []ArticleView
	Mode         ListMode
}

// NewArticleViews converts items into cards ranked from 1.
func NewArticleViews(items []model.RecItem) []ArticleView {
	views := make([]ArticleView, 0, len(items))
	for i, item := range items {
		views = append(views, ArticleView{
			Rank:   i + 1,
			ID:     item.ItemID,
			Title:  item.DisplayTitle(),
			Score:  item.FormatScore(),
			Reason: item.ReasonText(),
		})
	}
	return views
}

// HomeList builds the trending/search list.
func HomeList(title string, items []model.RecItem, skeleton, searchActive bool) ListView {
	view := ListView{Title: title}
	switch {
	case skeleton:
		view.Mode = ListSkeleton
	case len(items) > 0:
		view.Mode = ListArticles
		view.Articles = NewArticleViews(items)
		view.Badge = articleCount(len(items))
	case searchActive:
		view.Mode = ListEmpty
		view.EmptyTitle = EmptySearchTitle
		view.EmptyMessage = EmptySearchMessage
	default:
		view.Mode = ListEmpty
		view.EmptyTitle = EmptyTrendingTitle
		view.EmptyMessage = EmptyTrendingMessage
	}
	return view
}

// RecommendList builds the personalized list from the render state and the
// recommendation that produced it.
func RecommendList(state controller.RenderState, rec controller.Recommendation) ListView {
	switch state {
	case controller.RenderSkeleton:
		return ListView{Mode: ListSkeleton}
	case controller.RenderGrid:
		return ListView{
			Mode:     ListArticles,
			Title:    "Recommendations for " + rec.UserID,
			Subtitle: rec.Variant.Attribution(),
			Badge:    articleCount(len(rec.Items)),
			Articles: NewArticleViews(rec.Items),
		}
	case controller.RenderEmpty:
		return ListView{
			Mode:         ListEmpty,
			EmptyTitle:   EmptyRecommendTitle,
			EmptyMessage: EmptyRecommendMessage,
		}
	default:
		return ListView{Mode: ListHidden}
	}
}

func articleCount(n int) string {
	if n == 1 {
		return "1 article"
	}
	return fmt.Sprintf("%d articles", n)
}
