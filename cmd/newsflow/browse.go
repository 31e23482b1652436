package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/newsflow/internal/export"
	"github.com/Veraticus/newsflow/internal/tui"
	"github.com/Veraticus/newsflow/internal/tui/themes"
)

func (o *rootOptions) browseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive news browser",
		Long: `Open the interactive browser with the Trending and Personalized tabs.

Trending shows the most popular articles and lets you search by keyword,
category or quick tag. Personalized generates recommendations for a user
with the selected model. Press e on either tab to export the shown list.`,
		RunE: o.runBrowse,
	}
	cmd.Flags().Bool("no-alt-screen", false, "render inline instead of in the alternate screen")
	return cmd
}

func (o *rootOptions) runBrowse(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// The terminal belongs to the UI, so logs go to a file.
	logPath := o.cfg.Logging.File
	if logPath == "" {
		logPath = filepath.Join(os.TempDir(), "newsflow.log")
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	if err := setupLogging(o.cfg.Logging, logFile); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	alerts := tui.NewAlerts()
	host := export.NewFileHost(o.cfg.Export.Dir)
	a, err := newApp(ctx, o.cfg, alerts, host)
	if err != nil {
		return err
	}

	noAlt, _ := cmd.Flags().GetBool("no-alt-screen")
	return tui.Run(ctx,
		tui.WithControllers(a.home, a.rec),
		tui.WithAlerts(alerts),
		tui.WithTheme(themes.GetTheme(o.cfg.UI.Theme)),
		tui.WithAltScreen(!noAlt),
	)
}
