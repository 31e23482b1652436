package tui

import (
	"fmt"

	"github.com/Veraticus/newsflow/internal/controller"
	"github.com/Veraticus/newsflow/internal/export"
	"github.com/Veraticus/newsflow/internal/model"
	"github.com/Veraticus/newsflow/internal/mutation"
)

// Tab selects the visible view.
type Tab int

const (
	TabTrending Tab = iota
	TabPersonalized
)

// Tabs lists the views in tab order.
var Tabs = []Tab{TabTrending, TabPersonalized}

func (t Tab) String() string {
	switch t {
	case TabTrending:
		return "Trending"
	case TabPersonalized:
		return "Personalized"
	default:
		return fmt.Sprintf("Tab(%d)", int(t))
	}
}

// Query messages.
type trendingLoadedMsg struct {
	err   error
	items []model.RecItem
}

type categoriesLoadedMsg struct {
	err        error
	categories []string
}

// Mutation completions.
type searchDoneMsg struct {
	state mutation.State[[]model.RecItem]
}

type recommendDoneMsg struct {
	state mutation.State[controller.Recommendation]
}

type exportDoneMsg struct {
	state mutation.State[export.Result]
	tab   Tab
}

// changedMsg asks for a redraw after a controller notification.
type changedMsg struct{}

// errorMsg reports a failure to start an operation.
type errorMsg struct {
	err     error
	context string
}
