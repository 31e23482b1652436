package tui

import (
	"github.com/Veraticus/newsflow/internal/controller"
	"github.com/Veraticus/newsflow/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme     themes.Theme
	Home      *controller.Home
	Recommend *controller.Recommend
	Alerts    *Alerts
	Width     int
	Height    int
	ShowHelp  bool
	AltScreen bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:     themes.Default,
		Width:     80,
		Height:    24,
		ShowHelp:  true,
		AltScreen: true,
	}
}

// WithControllers sets the view controllers.
func WithControllers(home *controller.Home, recommend *controller.Recommend) Option {
	return func(c *Config) {
		c.Home = home
		c.Recommend = recommend
	}
}

// WithAlerts sets the alert queue the controllers report into.
func WithAlerts(alerts *Alerts) Option {
	return func(c *Config) {
		c.Alerts = alerts
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithAltScreen toggles the alternate screen buffer.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}
