package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/newsflow/internal/cli"
	"github.com/Veraticus/newsflow/internal/common"
	"github.com/Veraticus/newsflow/internal/config"
	"github.com/Veraticus/newsflow/internal/controller"
	"github.com/Veraticus/newsflow/internal/export"
	"github.com/Veraticus/newsflow/internal/model"
	"github.com/Veraticus/newsflow/internal/mutation"
	"github.com/Veraticus/newsflow/internal/tui/viewmodel"
)

// Export sources.
const (
	sourceTrending  = "trending"
	sourceSearch    = "search"
	sourceRecommend = "recommend"
)

func (o *rootOptions) printer(cmd *cobra.Command) *cli.Printer {
	return cli.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), cli.ColorsEnabled())
}

// oneShot wires an app whose alerts go to the printer. Exports land in the
// configured download directory.
func (o *rootOptions) oneShot(cmd *cobra.Command, p *cli.Printer) (*app, error) {
	host := export.NewFileHost(o.cfg.Export.Dir, export.WithProgress(cmd.ErrOrStderr()))
	return newApp(cmd.Context(), o.cfg, p, host)
}

func (o *rootOptions) trendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trending",
		Short: "List trending articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := o.printer(cmd)
			a, err := o.oneShot(cmd, p)
			if err != nil {
				return err
			}
			items, err := a.home.FetchTrending(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load trending: %w", err)
			}
			p.Items(controller.TitleTrending, items, viewmodel.EmptyTrendingTitle, viewmodel.EmptyTrendingMessage)
			return nil
		},
	}
}

func (o *rootOptions) categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories the search filter accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := o.printer(cmd)
			a, err := o.oneShot(cmd, p)
			if err != nil {
				return err
			}
			categories, err := a.home.FetchCategories(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load categories: %w", err)
			}
			p.List("Categories", categories)
			return nil
		},
	}
}

func (o *rootOptions) searchCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search articles by keyword",
		Example: `  newsflow search "mental health"
  newsflow search --category sports championship`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := o.printer(cmd)
			a, err := o.oneShot(cmd, p)
			if err != nil {
				return err
			}
			items, err := runSearch(cmd, a, strings.Join(args, " "), category)
			if err != nil {
				return err
			}
			p.Items(controller.TitleSearchResults, items, viewmodel.EmptySearchTitle, viewmodel.EmptySearchMessage)
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "restrict results to a category")
	return cmd
}

func runSearch(cmd *cobra.Command, a *app, query, category string) ([]model.RecItem, error) {
	a.home.SetQuery(query)
	a.home.SetCategory(category)
	state, err := a.home.SubmitSearch(cmd.Context())
	if err != nil {
		return nil, err
	}
	if state.IsError() {
		return nil, fmt.Errorf("search failed: %w", state.Err)
	}
	return state.Data, nil
}

// recommendFlags holds the selection shared by recommend and export.
type recommendFlags struct {
	user  string
	model string
	count int
}

func (f *recommendFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.user, "user", "u", "", "user id (default from recommend.user_id)")
	cmd.Flags().IntVarP(&f.count, "count", "n", model.DefaultRecommendCount, "number of recommendations (5, 10, 15 or 20)")
	cmd.Flags().StringVarP(&f.model, "model", "m", string(model.DefaultVariant), "model variant (bert, hybrid, collaborative, content)")
}

func (f *recommendFlags) apply(rec *controller.Recommend) error {
	if f.user != "" {
		rec.SetUserID(f.user)
	}
	if err := rec.SetCount(f.count); err != nil {
		return err
	}
	variant, err := model.ParseModelVariant(f.model)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidModel, err)
	}
	return rec.SetModel(variant)
}

func runRecommend(cmd *cobra.Command, a *app, f *recommendFlags) (controller.Recommendation, error) {
	if err := f.apply(a.rec); err != nil {
		return controller.Recommendation{}, err
	}
	state, err := a.rec.Generate(cmd.Context())
	if err != nil {
		return controller.Recommendation{}, err
	}
	if state.IsError() {
		return controller.Recommendation{}, fmt.Errorf("recommendation failed: %w", state.Err)
	}
	return state.Data, nil
}

func (o *rootOptions) recommendCmd() *cobra.Command {
	var flags recommendFlags
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Generate personalized recommendations",
		Example: `  newsflow recommend --user U13740
  newsflow recommend -u U91836 -n 5 -m bert`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := o.printer(cmd)
			a, err := o.oneShot(cmd, p)
			if err != nil {
				return err
			}
			result, err := runRecommend(cmd, a, &flags)
			if err != nil {
				return err
			}
			p.Items("Recommendations for "+result.UserID, result.Items,
				viewmodel.EmptyRecommendTitle, viewmodel.EmptyRecommendMessage)
			if len(result.Items) > 0 {
				p.Info("%s", result.Variant.Attribution())
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (o *rootOptions) exportCmd() *cobra.Command {
	var (
		source   string
		query    string
		category string
		format   string
		dir      string
		flags    recommendFlags
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a list as a PDF or DOCX report",
		Long: `Export trending articles, search results or recommendations.

The report is rendered by the gateway and saved to the download directory
(export.dir, default ~/Downloads) under a name derived from the list.`,
		Example: `  newsflow export
  newsflow export --source search --query health
  newsflow export --source recommend --user U13740 --model bert`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir != "" {
				o.cfg.Export.Dir = dir
			}
			if format != "" {
				f, err := model.ParseExportFormat(format)
				if err != nil {
					return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
				}
				o.cfg.Export.Format = f
			}

			p := o.printer(cmd)
			a, err := o.oneShot(cmd, p)
			if err != nil {
				return err
			}

			var exportList func() (mutation.State[export.Result], error)
			switch source {
			case sourceTrending:
				if _, err := a.home.FetchTrending(cmd.Context()); err != nil {
					return fmt.Errorf("failed to load trending: %w", err)
				}
				exportList = func() (mutation.State[export.Result], error) { return a.home.Export(cmd.Context()) }
			case sourceSearch:
				if _, err := runSearch(cmd, a, query, category); err != nil {
					return err
				}
				exportList = func() (mutation.State[export.Result], error) { return a.home.Export(cmd.Context()) }
			case sourceRecommend:
				if _, err := runRecommend(cmd, a, &flags); err != nil {
					return err
				}
				exportList = func() (mutation.State[export.Result], error) { return a.rec.Export(cmd.Context()) }
			default:
				return fmt.Errorf("%w: --source must be %s, %s or %s", common.ErrInvalidConfig,
					sourceTrending, sourceSearch, sourceRecommend)
			}

			state, err := exportList()
			if err != nil {
				return err
			}
			if state.IsError() {
				return fmt.Errorf("export failed: %w", state.Err)
			}
			p.Success("Saved %s to %s", state.Data.Filename, state.Data.Location)
			return nil
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", sourceTrending, "list to export (trending, search, recommend)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search text when --source=search")
	cmd.Flags().StringVarP(&category, "category", "c", "", "search category when --source=search")
	cmd.Flags().StringVarP(&format, "format", "f", "", "report format (pdf, docx)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "download directory")
	flags.register(cmd)
	return cmd
}

func (o *rootOptions) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the news API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := o.printer(cmd)
			gw, err := newGateway(cmd.Context(), o.cfg, slog.Default())
			if err != nil {
				return err
			}
			if err := gw.Health(cmd.Context()); err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			if o.cfg.Mode == config.ModeOffline {
				p.Success("Offline catalog ready")
			} else {
				p.Success("API reachable at %s", o.cfg.API.BaseURL)
			}
			return nil
		},
	}
}
