package tui

import (
	"context"
	"errors"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/newsflow/internal/common"
	"github.com/Veraticus/newsflow/internal/controller"
	"github.com/Veraticus/newsflow/internal/model"
	"github.com/Veraticus/newsflow/internal/mutation"
	"github.com/Veraticus/newsflow/internal/tui/themes"
)

// focus is the widget receiving key presses.
type focus int

const (
	focusList focus = iota
	focusSearch
	focusUser
)

// Model holds the main TUI state. Domain state lives in the controllers;
// the model keeps only widget state.
type Model struct {
	ctx      context.Context
	logger   *slog.Logger
	home     *controller.Home
	rec      *controller.Recommend
	alerts   *Alerts
	alert    *Alert
	theme    themes.Theme
	queued   []Alert
	help     help.Model
	search   textinput.Model
	user     textinput.Model
	spinner  spinner.Model
	keymap   KeyMap
	config   Config
	catalog  []string
	tab      Tab
	focus    focus
	cursor   int
	width    int
	height   int
	quitting bool
}

// New creates the model from cfg.
func New(ctx context.Context, cfg Config) (Model, error) {
	if cfg.Home == nil || cfg.Recommend == nil {
		return Model{}, errors.New("tui: home and recommend controllers are required")
	}
	return newModel(ctx, cfg), nil
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, cfg Config) Model {
	search := textinput.New()
	search.Placeholder = "Search for news topics, keywords, or categories (try: sports, health, finance)..."
	search.Prompt = "🔍 "
	search.CharLimit = 200
	search.SetValue(cfg.Home.Query())

	user := textinput.New()
	user.Placeholder = "Enter your user ID (try: U13740, U91836, U73700)..."
	user.Prompt = "👤 "
	user.CharLimit = 64
	user.SetValue(cfg.Recommend.UserID())

	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(cfg.Theme.Primary)),
	)

	h := help.New()
	h.ShowAll = false

	m := Model{
		ctx:     ctx,
		logger:  slog.Default().With("component", "tui"),
		home:    cfg.Home,
		rec:     cfg.Recommend,
		alerts:  cfg.Alerts,
		theme:   cfg.Theme,
		help:    h,
		search:  search,
		user:    user,
		spinner: spin,
		keymap:  DefaultKeyMap(),
		config:  cfg,
		tab:     TabTrending,
		width:   cfg.Width,
		height:  cfg.Height,
	}
	m.resize()
	return m
}

// Init starts the shared queries and the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadTrending(),
		m.loadCategories(),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case trendingLoadedMsg:
		if msg.err != nil {
			common.LogError(msg.err, "Failed to load trending", nil)
		}
		m.clampCursor()

	case categoriesLoadedMsg:
		if msg.err != nil {
			common.LogError(msg.err, "Failed to load categories", nil)
			break
		}
		m.catalog = msg.categories

	case searchDoneMsg:
		m.search.SetValue(m.home.Query())
		m.search.CursorEnd()
		m.cursor = 0

	case recommendDoneMsg:
		m.cursor = 0

	case exportDoneMsg:
		if msg.state.IsSuccess() {
			m.logger.Info("Export saved",
				"tab", msg.tab.String(),
				"filename", msg.state.Data.Filename,
				"location", msg.state.Data.Location)
		}
		m.takeAlerts()

	case changedMsg:
		m.takeAlerts()
		m.clampCursor()

	case errorMsg:
		m.logError(msg)
	}

	return m, nil
}

// handleKey routes key presses to the overlay, the focused input, or the
// active tab.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.alert != nil {
		if key.Matches(msg, m.keymap.Dismiss) {
			m.alert = nil
			m.takeAlerts()
		}
		return m, nil
	}

	switch m.focus {
	case focusSearch:
		return m.handleSearchInput(msg)
	case focusUser:
		return m.handleUserInput(msg)
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keymap.SwitchTab):
		m.tab = Tabs[(int(m.tab)+1)%len(Tabs)]
		m.cursor = 0
		return m, nil
	case key.Matches(msg, m.keymap.Up):
		m.cursor = max(m.cursor-1, 0)
		return m, nil
	case key.Matches(msg, m.keymap.Down):
		m.cursor++
		m.clampCursor()
		return m, nil
	case key.Matches(msg, m.keymap.Export):
		if !m.canExport() {
			return m, nil
		}
		return m, m.startExport()
	}

	if m.tab == TabPersonalized {
		return m.handlePersonalizedKey(msg)
	}
	return m.handleTrendingKey(msg)
}

func (m Model) handleTrendingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Search):
		m.focus = focusSearch
		return m, m.search.Focus()

	case key.Matches(msg, m.keymap.Submit):
		if !m.home.CanSearch() {
			return m, nil
		}
		return m, m.submitSearch()

	case key.Matches(msg, m.keymap.Category):
		m.home.SetCategory(nextCategory(m.catalog, m.home.Category()))

	case key.Matches(msg, m.keymap.ClearCat):
		m.home.SetCategory("")

	case key.Matches(msg, m.keymap.QuickTag):
		idx := int(msg.Runes[0] - '1')
		if idx < 0 || idx >= len(model.QuickTags) {
			return m, nil
		}
		if m.home.SearchState().IsPending() {
			return m, nil
		}
		tag := model.QuickTags[idx]
		m.search.SetValue(tag)
		return m, m.quickTag(tag)

	case key.Matches(msg, m.keymap.Back):
		m.home.ResetToTrending()
		m.cursor = 0

	case key.Matches(msg, m.keymap.Refresh):
		return m, m.refreshTrending()
	}
	return m, nil
}

func (m Model) handlePersonalizedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.EditUser):
		m.focus = focusUser
		return m, m.user.Focus()

	case key.Matches(msg, m.keymap.Count):
		if err := m.rec.SetCount(model.NextRecommendCount(m.rec.Count())); err != nil {
			m.logger.Warn("Invalid count", "error", err)
		}

	case key.Matches(msg, m.keymap.Model):
		if err := m.rec.SetModel(m.rec.Model().Next()); err != nil {
			m.logger.Warn("Invalid model", "error", err)
		}

	case key.Matches(msg, m.keymap.Generate):
		if !m.rec.CanGenerate() {
			return m, nil
		}
		return m, m.generate()

	case key.Matches(msg, m.keymap.Clear):
		m.rec.Reset()
		m.cursor = 0
	}
	return m, nil
}

func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Submit):
		m.home.SetQuery(m.search.Value())
		m.search.Blur()
		m.focus = focusList
		if !m.home.CanSearch() {
			return m, nil
		}
		return m, m.submitSearch()

	case key.Matches(msg, m.keymap.Cancel):
		m.search.Blur()
		m.focus = focusList
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.home.SetQuery(m.search.Value())
	return m, cmd
}

func (m Model) handleUserInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Submit):
		m.rec.SetUserID(m.user.Value())
		m.user.Blur()
		m.focus = focusList
		if !m.rec.CanGenerate() {
			return m, nil
		}
		return m, m.generate()

	case key.Matches(msg, m.keymap.Cancel):
		m.user.Blur()
		m.focus = focusList
		return m, nil
	}

	var cmd tea.Cmd
	m.user, cmd = m.user.Update(msg)
	m.rec.SetUserID(m.user.Value())
	return m, cmd
}

// takeAlerts moves queued controller alerts into the overlay, one at a time.
func (m *Model) takeAlerts() {
	if m.alerts != nil {
		m.queued = append(m.queued, m.alerts.Drain()...)
	}
	if m.alert == nil && len(m.queued) > 0 {
		next := m.queued[0]
		m.queued = m.queued[1:]
		m.alert = &next
	}
}

func (m Model) canExport() bool {
	if m.tab == TabPersonalized {
		return m.rec.CanExport()
	}
	return m.home.CanExport()
}

func (m *Model) clampCursor() {
	n := len(m.listView().Articles)
	m.cursor = max(min(m.cursor, n-1), 0)
}

func (m *Model) resize() {
	m.help.Width = m.width
	inputWidth := max(m.width-8, 20)
	m.search.Width = inputWidth
	m.user.Width = inputWidth
}

// logError records failures to start an operation. Refused triggers are
// expected and only logged at debug.
func (m Model) logError(msg errorMsg) {
	switch {
	case errors.Is(msg.err, mutation.ErrInFlight),
		errors.Is(msg.err, common.ErrEmptyQuery),
		errors.Is(msg.err, common.ErrMissingUser),
		errors.Is(msg.err, controller.ErrNothingToExport):
		m.logger.Debug("Trigger refused", "operation", msg.context, "reason", msg.err)
	default:
		m.logger.Error("Operation failed", "operation", msg.context, "error", msg.err)
	}
}

// nextCategory cycles through categories and then back to none.
func nextCategory(categories []string, current string) string {
	if len(categories) == 0 {
		return ""
	}
	if current == "" {
		return categories[0]
	}
	for i, c := range categories {
		if c == current {
			if i+1 < len(categories) {
				return categories[i+1]
			}
			return ""
		}
	}
	return categories[0]
}
