package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/newsflow/internal/config"
	"github.com/Veraticus/newsflow/internal/controller"
	"github.com/Veraticus/newsflow/internal/export"
	"github.com/Veraticus/newsflow/internal/gateway"
	"github.com/Veraticus/newsflow/internal/gateway/offline"
	"github.com/Veraticus/newsflow/internal/query"
	"github.com/Veraticus/newsflow/internal/service"
)

// app is the wired object graph shared by the browser and the one-shot
// commands.
type app struct {
	cfg      *config.Config
	gateway  service.Gateway
	pipeline *export.Pipeline
	home     *controller.Home
	rec      *controller.Recommend
}

func newApp(ctx context.Context, cfg *config.Config, alerter controller.Alerter, host export.Host) (*app, error) {
	logger := slog.Default()

	gw, err := newGateway(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	pipeline := export.NewPipeline(gw, host, export.WithLogger(logger))
	cache := query.NewCache(
		query.WithGCTime(cfg.Cache.GCTime),
		query.WithLogger(logger),
	)

	home := controller.NewHome(gw, cache, pipeline, alerter, controller.HomeConfig{
		Format:        cfg.Export.Format,
		PageSize:      cfg.UI.PageSize,
		TrendingCount: cfg.UI.TrendingCount,
	}, controller.WithLogger(logger))

	rec := controller.NewRecommend(gw, pipeline, alerter, controller.RecommendConfig{
		UserID:    cfg.Recommend.UserID,
		Locale:    cfg.Recommend.Locale,
		Format:    cfg.Export.Format,
		SeedItems: cfg.Recommend.SeedItems,
	}, controller.WithLogger(logger))

	return &app{
		cfg:      cfg,
		gateway:  gw,
		pipeline: pipeline,
		home:     home,
		rec:      rec,
	}, nil
}

// newGateway picks the HTTP client or the offline catalog from cfg.Mode.
func newGateway(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Gateway, error) {
	if cfg.Mode == config.ModeOffline {
		gw := offline.New(
			offline.WithFeeds(cfg.Feeds),
			offline.WithLogger(logger),
		)
		if len(cfg.Feeds) > 0 {
			n, err := gw.LoadFeeds(ctx)
			if err != nil {
				logger.Warn("Some feeds failed to load", "error", err)
			}
			logger.Info("Offline catalog ready", "feed_articles", n, "total", gw.Catalog().Len())
		}
		return gw, nil
	}

	client, err := gateway.New(gateway.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		Retries:   cfg.API.Retries,
		RateLimit: cfg.API.RateLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway: %w", err)
	}
	return client, nil
}
