package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/newsflow/internal/tui/themes"
)

// RenderSkeleton draws the loading placeholder: a spinner frame and rows of
// shaded bars.
func RenderSkeleton(frame string, rows, width int, theme themes.Theme) string {
	width = max(width, 10)
	bar := lipgloss.NewStyle().Foreground(theme.Border)

	lines := []string{
		lipgloss.NewStyle().Foreground(theme.Primary).Render(frame) + " " +
			lipgloss.NewStyle().Foreground(theme.Muted).Render("Loading..."),
		"",
	}
	for i := 0; i < rows; i++ {
		lines = append(lines,
			bar.Render(strings.Repeat("▒", width*3/4)),
			bar.Render(strings.Repeat("░", width/2)),
			"",
		)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// RenderEmpty draws an empty-state title with its hint.
func RenderEmpty(title, message string, theme themes.Theme) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		theme.Bold.Render("📰 "+title),
		lipgloss.NewStyle().Foreground(theme.Muted).Render(message),
	)
}

// RenderAlert draws a blocking dialog centered in width x height.
func RenderAlert(title, message string, width, height int, theme themes.Theme) string {
	box := theme.RoundedBox.
		BorderForeground(theme.Error).
		Width(min(max(width-10, 30), 60)).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			theme.StatusError.Render(title),
			"",
			theme.Normal.Render(message),
			"",
			lipgloss.NewStyle().Foreground(theme.Muted).Render("Press Enter to dismiss"),
		))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// RenderTabs draws the tab bar with active highlighted.
func RenderTabs(names []string, active int, theme themes.Theme) string {
	tabs := make([]string, 0, len(names))
	for i, name := range names {
		if i == active {
			tabs = append(tabs, theme.ActiveTab.Render(name))
		} else {
			tabs = append(tabs, theme.InactiveTab.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// RenderTags draws the numbered quick tags. The tag matching active is
// highlighted.
func RenderTags(tags []string, active string, theme themes.Theme) string {
	rendered := make([]string, 0, len(tags))
	for i, tag := range tags {
		label := string(rune('1'+i)) + " " + themes.GetCategoryIcon(tag) + " " + tag
		style := theme.Tag
		if tag == active {
			style = theme.ActiveTag
		}
		rendered = append(rendered, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
