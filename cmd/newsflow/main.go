package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/newsflow/internal/cli"
	"github.com/Veraticus/newsflow/internal/common"
	"github.com/Veraticus/newsflow/internal/config"
)

var version = "dev"

// rootOptions carries state shared by every subcommand of one root.
type rootOptions struct {
	v       *viper.Viper
	cfg     *config.Config
	cfgFile string
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{v: viper.New()}

	root := &cobra.Command{
		Use:   "newsflow",
		Short: "📰 Smart news browser",
		Long: `newsflow: browse trending news, search articles and generate personalized
recommendations from a news recommendation API, then export them as
PDF or DOCX reports.

Run without a subcommand to open the interactive browser.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: o.initConfig,
		RunE:              o.runBrowse,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&o.cfgFile, "config", "", "config file (default: $HOME/.config/newsflow/config.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.String("api-url", "", "news API base URL")
	flags.Bool("offline", false, "serve the built-in catalog instead of calling the API")
	flags.StringSlice("feed", nil, "RSS or Atom feed added to the offline catalog (repeatable)")

	_ = o.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = o.v.BindPFlag("logging.format", flags.Lookup("log-format"))
	_ = o.v.BindPFlag("api.base_url", flags.Lookup("api-url"))
	_ = o.v.BindPFlag("feeds.urls", flags.Lookup("feed"))

	root.AddCommand(o.browseCmd())
	root.AddCommand(o.trendingCmd())
	root.AddCommand(o.categoriesCmd())
	root.AddCommand(o.searchCmd())
	root.AddCommand(o.recommendCmd())
	root.AddCommand(o.exportCmd())
	root.AddCommand(o.healthCmd())
	root.AddCommand(versionCmd())

	return root
}

func main() {
	handler := cli.NewInterruptHandler(os.Stderr)
	ctx, cancel := handler.HandleInterrupts(context.Background(), "newsflow")

	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil && !(errors.Is(err, context.Canceled) && handler.WasInterrupted()) {
		fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		os.Exit(1)
	}
}

func (o *rootOptions) initConfig(cmd *cobra.Command, _ []string) error {
	if o.cfgFile != "" {
		o.v.SetConfigFile(o.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		o.v.AddConfigPath(fmt.Sprintf("%s/.config/newsflow", home))
		o.v.AddConfigPath(".")
		o.v.SetConfigName("config")
		o.v.SetConfigType("yaml")
	}

	o.v.SetEnvPrefix("NEWSFLOW")
	o.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	o.v.AutomaticEnv()
	config.SetDefaults(o.v)

	if err := o.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if offline, _ := cmd.Flags().GetBool("offline"); offline {
		o.v.Set("gateway.mode", config.ModeOffline)
	}

	cfg, err := config.Load(o.v)
	if err != nil {
		return err
	}
	o.cfg = cfg

	if err := setupLogging(cfg.Logging, cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

func setupLogging(cfg config.LoggingConfig, w io.Writer) error {
	level, err := common.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	return common.SetupLogger(level, cfg.Format, w)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "newsflow version %s\n", version)
		},
	}
}
