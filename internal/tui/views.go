package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/newsflow/internal/controller"
	"github.com/Veraticus/newsflow/internal/tui/components"
	"github.com/Veraticus/newsflow/internal/tui/viewmodel"
)

// cardHeight is the usual number of lines one article card takes.
const cardHeight = 4

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.alert != nil {
		return components.RenderAlert(m.alert.Title, m.alert.Message, m.width, m.height, m.theme)
	}

	header := m.renderHeader()
	footer := m.renderFooter()

	var top string
	if m.tab == TabPersonalized {
		top = m.renderRecommendForm()
	} else {
		top = m.renderSearchBar()
	}

	used := lipgloss.Height(header) + lipgloss.Height(top) + lipgloss.Height(footer) + 3
	list := m.renderList(max(m.height-used, cardHeight*2))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		top,
		"",
		list,
		"",
		footer,
	)
}

// listView builds the view model for the active tab.
func (m Model) listView() viewmodel.ListView {
	if m.tab == TabPersonalized {
		rec, _ := m.rec.Result()
		return viewmodel.RecommendList(m.rec.RenderState(), rec)
	}
	return viewmodel.HomeList(
		m.home.Title(),
		m.home.EffectiveList(),
		m.home.ShowSkeleton(),
		m.home.IsSearchActive(),
	)
}

func (m Model) renderHeader() string {
	names := make([]string, len(Tabs))
	for i, t := range Tabs {
		names[i] = t.String()
	}
	title := m.theme.Bold.Foreground(m.theme.Primary).Render("📰 Smart News")
	return lipgloss.JoinHorizontal(lipgloss.Center,
		title,
		"  ",
		components.RenderTabs(names, int(m.tab), m.theme),
	)
}

func (m Model) renderSearchBar() string {
	bar := viewmodel.NewSearchBar(m.home.Category(), m.home.CanSearch())
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)

	category := m.theme.Normal.Render("Category: ") +
		m.theme.Bold.Render(bar.Category) +
		muted.Render("  (c next, C all)")

	return lipgloss.JoinVertical(lipgloss.Left,
		m.search.View(),
		category,
		components.RenderTags(bar.QuickTags, m.home.Category(), m.theme),
	)
}

func (m Model) renderRecommendForm() string {
	form := viewmodel.NewRecommendForm(m.rec.UserID(), m.rec.Count(), m.rec.Model(), m.rec.CanGenerate())
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)

	action := muted.Render("Enter a user ID to generate recommendations")
	if form.CanGenerate {
		action = m.theme.StatusInfo.Render("Enter/g Generate Recommendations")
	} else if m.rec.RenderState() == controller.RenderSkeleton {
		action = muted.Render("Generating...")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.user.View(),
		m.theme.Normal.Render("Count: ")+m.theme.Bold.Render(form.Count)+muted.Render("  (n)"),
		m.theme.Normal.Render("Model: ")+m.theme.Bold.Render(form.Model)+muted.Render("  (m)"),
		action,
	)
}

func (m Model) renderList(height int) string {
	view := m.listView()
	width := max(m.width-4, 20)

	var header []string
	if view.Title != "" {
		title := m.theme.Title.UnsetMarginBottom().Render(view.Title)
		if view.Badge != "" {
			title += "  " + m.theme.Tag.Render(view.Badge)
		}
		header = append(header, title)
	}
	if view.Subtitle != "" {
		header = append(header, m.theme.Subtitle.UnsetMarginBottom().Render(view.Subtitle))
	}
	if m.tab == TabTrending && m.home.IsSearchActive() {
		header = append(header, lipgloss.NewStyle().Foreground(m.theme.Muted).Render("← b Back to Trending"))
	}

	var body string
	switch view.Mode {
	case viewmodel.ListSkeleton:
		body = components.RenderSkeleton(m.spinner.View(), max(height/cardHeight-1, 1), width, m.theme)
	case viewmodel.ListArticles:
		perPage := max(height/cardHeight, 1)
		offset := max(0, m.cursor-perPage+1)
		body = components.RenderArticles(view.Articles, m.cursor, offset, width, height-len(header), m.theme)
	case viewmodel.ListEmpty:
		body = components.RenderEmpty(view.EmptyTitle, view.EmptyMessage, m.theme)
	default:
		return ""
	}

	if len(header) == 0 {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, strings.Join(header, "\n"), "", body)
}

func (m Model) renderFooter() string {
	var lines []string
	if status := m.exportStatus(); status.Text != "" {
		style := m.theme.StatusSuccess
		switch {
		case status.Pending:
			style = m.theme.StatusPending
		case status.Failed:
			style = m.theme.StatusError
		}
		lines = append(lines, style.Render(status.Text))
	}

	switch {
	case !m.config.ShowHelp:
	case m.tab == TabPersonalized:
		lines = append(lines, m.help.View(personalizedHelp{m.keymap}))
	default:
		lines = append(lines, m.help.View(m.keymap))
	}
	return strings.Join(lines, "\n")
}

func (m Model) exportStatus() viewmodel.ExportStatus {
	state := m.home.ExportState()
	if m.tab == TabPersonalized {
		state = m.rec.ExportState()
	}
	return viewmodel.NewExportStatus(state.IsPending(), state.IsError(), state.Data.Filename, state.Data.Location)
}
