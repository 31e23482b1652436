package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/newsflow/internal/controller"
	"github.com/Veraticus/newsflow/internal/export"
	"github.com/Veraticus/newsflow/internal/model"
	"github.com/Veraticus/newsflow/internal/mutation"
)

// loadTrending waits for the shared trending query.
func (m Model) loadTrending() tea.Cmd {
	ctx, home := m.ctx, m.home
	return func() tea.Msg {
		items, err := home.FetchTrending(ctx)
		return trendingLoadedMsg{items: items, err: err}
	}
}

// loadCategories waits for the shared categories query.
func (m Model) loadCategories() tea.Cmd {
	ctx, home := m.ctx, m.home
	return func() tea.Msg {
		categories, err := home.FetchCategories(ctx)
		return categoriesLoadedMsg{categories: categories, err: err}
	}
}

// refreshTrending re-runs the trending query and waits for it.
func (m Model) refreshTrending() tea.Cmd {
	if !m.home.RefreshTrending(m.ctx) {
		return nil
	}
	return m.loadTrending()
}

// submitSearch starts a search for the current text and category.
func (m Model) submitSearch() tea.Cmd {
	done, err := m.home.StartSearch(m.ctx)
	if err != nil {
		return reportError(err, "search")
	}
	return waitSearch(done)
}

// quickTag starts a quick-tag search.
func (m Model) quickTag(tag string) tea.Cmd {
	done, err := m.home.StartQuickTag(m.ctx, tag)
	if err != nil {
		return reportError(err, "quick tag")
	}
	return waitSearch(done)
}

// generate starts a recommend request for the current selection.
func (m Model) generate() tea.Cmd {
	done, err := m.rec.StartGenerate(m.ctx)
	if err != nil {
		return reportError(err, "recommend")
	}
	return func() tea.Msg {
		return recommendDoneMsg{state: <-done}
	}
}

// startExport exports the list shown on the active tab.
func (m Model) startExport() tea.Cmd {
	var (
		done <-chan mutation.State[export.Result]
		err  error
	)
	tab := m.tab
	if tab == TabPersonalized {
		done, err = m.rec.StartExport(m.ctx)
	} else {
		done, err = m.home.StartExport(m.ctx)
	}
	if err != nil {
		return reportError(err, "export")
	}
	return func() tea.Msg {
		return exportDoneMsg{tab: tab, state: <-done}
	}
}

func waitSearch(done <-chan mutation.State[[]model.RecItem]) tea.Cmd {
	return func() tea.Msg {
		return searchDoneMsg{state: <-done}
	}
}

func reportError(err error, context string) tea.Cmd {
	return func() tea.Msg {
		return errorMsg{err: err, context: context}
	}
}

// subscribe forwards controller notifications to send as redraws.
func subscribe(home *controller.Home, rec *controller.Recommend, alerts *Alerts, send func(tea.Msg)) func() {
	notify := func() { send(changedMsg{}) }
	cancelHome := home.Subscribe(notify)
	cancelRec := rec.Subscribe(notify)
	if alerts != nil {
		alerts.setNotify(notify)
	}
	return func() {
		cancelHome()
		cancelRec()
		if alerts != nil {
			alerts.setNotify(nil)
		}
	}
}
