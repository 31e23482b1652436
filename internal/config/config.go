package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/newsflow/internal/common"
	"github.com/Veraticus/newsflow/internal/model"
)

// Gateway modes.
const (
	ModeHTTP    = "http"
	ModeOffline = "offline"
)

// Config is the validated application configuration.
type Config struct {
	API       APIConfig
	Export    ExportConfig
	Recommend RecommendConfig
	Logging   LoggingConfig
	Mode      string
	Feeds     []string
	UI        UIConfig
	Cache     CacheConfig
}

// APIConfig configures the HTTP gateway.
type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	Retries   int
	RateLimit float64
}

// ExportConfig configures where and how exports are written.
type ExportConfig struct {
	Dir    string
	Format model.ExportFormat
}

// UIConfig holds list sizes used by the views.
type UIConfig struct {
	Theme         string
	PageSize      int
	TrendingCount int
}

// RecommendConfig holds the recommend form defaults.
type RecommendConfig struct {
	UserID    string
	Locale    string
	SeedItems []string
}

// CacheConfig configures the query cache.
type CacheConfig struct {
	GCTime time.Duration
}

// LoggingConfig configures slog.
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8000")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.retries", 2)
	v.SetDefault("api.rate_limit", 10)
	v.SetDefault("gateway.mode", ModeHTTP)
	v.SetDefault("feeds.urls", []string{})
	v.SetDefault("export.dir", "~/Downloads")
	v.SetDefault("export.format", string(model.ExportFormatPDF))
	v.SetDefault("ui.theme", "default")
	v.SetDefault("ui.page_size", 20)
	v.SetDefault("ui.trending_count", 20)
	v.SetDefault("recommend.user_id", "U13740")
	v.SetDefault("recommend.seed_items", []string{"n101", "n205"})
	v.SetDefault("recommend.locale", "en")
	v.SetDefault("cache.gc_time", 5*time.Minute)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")
}

// Load reads the configuration from v and validates it. Defaults must
// already be registered with SetDefaults.
func Load(v *viper.Viper) (*Config, error) {
	format, err := model.ParseExportFormat(v.GetString("export.format"))
	if err != nil {
		return nil, fmt.Errorf("%w: export.format: %w", common.ErrInvalidConfig, err)
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL:   strings.TrimSpace(v.GetString("api.base_url")),
			Timeout:   v.GetDuration("api.timeout"),
			Retries:   v.GetInt("api.retries"),
			RateLimit: v.GetFloat64("api.rate_limit"),
		},
		Mode:  strings.ToLower(strings.TrimSpace(v.GetString("gateway.mode"))),
		Feeds: v.GetStringSlice("feeds.urls"),
		Export: ExportConfig{
			Dir:    ExpandPath(v.GetString("export.dir")),
			Format: format,
		},
		UI: UIConfig{
			Theme:         strings.ToLower(strings.TrimSpace(v.GetString("ui.theme"))),
			PageSize:      v.GetInt("ui.page_size"),
			TrendingCount: v.GetInt("ui.trending_count"),
		},
		Recommend: RecommendConfig{
			UserID:    strings.TrimSpace(v.GetString("recommend.user_id")),
			SeedItems: v.GetStringSlice("recommend.seed_items"),
			Locale:    v.GetString("recommend.locale"),
		},
		Cache: CacheConfig{
			GCTime: v.GetDuration("cache.gc_time"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
			File:   ExpandPath(v.GetString("logging.file")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the application cannot use.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeHTTP:
		if c.API.BaseURL == "" {
			return fmt.Errorf("%w: api.base_url", common.ErrMissingConfig)
		}
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: api.base_url %q is not an http(s) url", common.ErrInvalidConfig, c.API.BaseURL)
		}
	case ModeOffline:
	default:
		return fmt.Errorf("%w: gateway.mode must be %q or %q, got %q", common.ErrInvalidConfig, ModeHTTP, ModeOffline, c.Mode)
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", common.ErrInvalidConfig)
	}
	if c.API.Retries < 0 {
		return fmt.Errorf("%w: api.retries must not be negative", common.ErrInvalidConfig)
	}
	if c.API.RateLimit <= 0 {
		return fmt.Errorf("%w: api.rate_limit must be positive", common.ErrInvalidConfig)
	}
	if c.UI.PageSize <= 0 || c.UI.TrendingCount <= 0 {
		return fmt.Errorf("%w: ui.page_size and ui.trending_count must be positive", common.ErrInvalidConfig)
	}
	if c.Export.Dir == "" {
		return fmt.Errorf("%w: export.dir", common.ErrMissingConfig)
	}
	if c.Cache.GCTime < 0 {
		return fmt.Errorf("%w: cache.gc_time must not be negative", common.ErrInvalidConfig)
	}
	if c.Recommend.Locale == "" {
		c.Recommend.Locale = "en"
	}
	return nil
}
