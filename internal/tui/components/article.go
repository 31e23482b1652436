// Package components renders the reusable pieces of the news views.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/newsflow/internal/tui/themes"
	"github.com/Veraticus/newsflow/internal/tui/viewmodel"
)

// RenderArticle draws one article card.
func RenderArticle(article viewmodel.ArticleView, selected bool, width int, theme themes.Theme) string {
	width = max(width, 20)

	title := fmt.Sprintf("%d. %s", article.Rank, article.Title)
	titleStyle := theme.Bold
	if selected {
		titleStyle = theme.Selected
	}

	meta := lipgloss.NewStyle().Foreground(theme.Muted).
		Render(fmt.Sprintf("%s  score %s", article.ID, article.Score))

	lines := []string{
		titleStyle.MaxWidth(width).Render(truncate(title, width)),
		meta,
	}
	if article.Reason != "" {
		lines = append(lines, theme.Italic.Render(truncate(article.Reason, width)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderArticles draws cards starting at offset until height lines are used.
func RenderArticles(articles []viewmodel.ArticleView, cursor, offset, width, height int, theme themes.Theme) string {
	var cards []string
	used := 0
	for i := offset; i < len(articles); i++ {
		card := RenderArticle(articles[i], i == cursor, width, theme)
		h := lipgloss.Height(card) + 1
		if used+h > height && len(cards) > 0 {
			break
		}
		cards = append(cards, card, "")
		used += h
	}
	return strings.TrimRight(lipgloss.JoinVertical(lipgloss.Left, cards...), "\n")
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
