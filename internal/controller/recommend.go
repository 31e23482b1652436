package controller

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/Veraticus/newsflow/internal/common"
	"github.com/Veraticus/newsflow/internal/export"
	"github.com/Veraticus/newsflow/internal/model"
	"github.com/Veraticus/newsflow/internal/mutation"
	"github.com/Veraticus/newsflow/internal/service"
)

// RenderState is what the recommend view shows in place of its list.
type RenderState int

const (
	// RenderNone shows neither a grid nor the empty message.
	RenderNone RenderState = iota
	// RenderSkeleton shows the loading placeholder.
	RenderSkeleton
	// RenderGrid shows the recommendations.
	RenderGrid
	// RenderEmpty shows the no-results message.
	RenderEmpty
)

func (s RenderState) String() string {
	switch s {
	case RenderNone:
		return "none"
	case RenderSkeleton:
		return "skeleton"
	case RenderGrid:
		return "grid"
	case RenderEmpty:
		return "empty"
	default:
		return fmt.Sprintf("render(%d)", int(s))
	}
}

// Recommendation is one successful generate result together with the
// selection that produced it.
type Recommendation struct {
	UserID  string
	Variant model.ModelVariant
	Items   []model.RecItem
	Count   int
}

// RecommendConfig holds the recommend form defaults.
type RecommendConfig struct {
	UserID    string
	Locale    string
	Format    model.ExportFormat
	SeedItems []string
}

// Recommend composes the recommend and export slots keyed by the user,
// count and model selection.
type Recommend struct {
	gateway   service.Gateway
	exporter  Exporter
	alerter   Alerter
	logger    *slog.Logger
	recommend *mutation.Runner[Recommendation]
	export    *mutation.Runner[export.Result]
	userID    string
	variant   model.ModelVariant
	changes   listeners
	cfg       RecommendConfig
	count     int
	mu        sync.Mutex
}

// NewRecommend creates the recommend controller.
func NewRecommend(gateway service.Gateway, exporter Exporter, alerter Alerter, cfg RecommendConfig, opts ...Option) *Recommend {
	o := buildOptions(opts)
	if cfg.Locale == "" {
		cfg.Locale = "en"
	}
	if cfg.Format == "" {
		cfg.Format = model.ExportFormatPDF
	}
	cfg.SeedItems = slices.Clone(cfg.SeedItems)

	r := &Recommend{
		gateway:  gateway,
		exporter: exporter,
		alerter:  alerter,
		logger:   o.logger.With("view", "recommend"),
		cfg:      cfg,
		userID:   cfg.UserID,
		count:    model.DefaultRecommendCount,
		variant:  model.DefaultVariant,
	}
	r.recommend = mutation.NewRunner(SlotRecommend,
		mutation.WithLogger[Recommendation](r.logger),
	)
	r.export = mutation.NewRunner(SlotExport,
		mutation.OnError[export.Result](func(err error) {
			alertExportFailure(r.alerter, r.logger, r.cfg.Format, err)
		}),
		mutation.WithLogger[export.Result](r.logger),
	)
	return r
}

// UserID returns the user id input.
func (r *Recommend) UserID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.userID
}

// SetUserID replaces the user id input.
func (r *Recommend) SetUserID(id string) {
	r.mu.Lock()
	r.userID = id
	r.mu.Unlock()
	r.changes.notify()
}

// Count returns the requested number of recommendations.
func (r *Recommend) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// SetCount selects one of model.RecommendCounts.
func (r *Recommend) SetCount(n int) error {
	if !model.ValidRecommendCount(n) {
		return fmt.Errorf("%w: %d (want one of %v)", common.ErrInvalidCount, n, model.RecommendCounts)
	}
	r.mu.Lock()
	r.count = n
	r.mu.Unlock()
	r.changes.notify()
	return nil
}

// Model returns the selected variant.
func (r *Recommend) Model() model.ModelVariant {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.variant
}

// SetModel selects a variant.
func (r *Recommend) SetModel(v model.ModelVariant) error {
	if !v.Valid() {
		return fmt.Errorf("%w: %q", common.ErrInvalidModel, v)
	}
	r.mu.Lock()
	r.variant = v
	r.mu.Unlock()
	r.changes.notify()
	return nil
}

// CanGenerate reports whether generate may be triggered now.
func (r *Recommend) CanGenerate() bool {
	return strings.TrimSpace(r.UserID()) != "" && !r.recommend.Busy()
}

// Generate requests recommendations for the current selection and waits
// for them. A success replaces the items wholesale; a failure leaves none.
func (r *Recommend) Generate(ctx context.Context) (mutation.State[Recommendation], error) {
	req, err := r.request()
	if err != nil {
		return r.recommend.Snapshot(), err
	}
	return r.recommend.Invoke(ctx, r.generateAction(req))
}

// StartGenerate is the non-blocking form of Generate.
func (r *Recommend) StartGenerate(ctx context.Context) (<-chan mutation.State[Recommendation], error) {
	req, err := r.request()
	if err != nil {
		return nil, err
	}
	return r.recommend.Start(ctx, r.generateAction(req))
}

// Reset clears the recommendations.
func (r *Recommend) Reset() {
	r.recommend.Reset()
}

// State returns the recommend slot state.
func (r *Recommend) State() mutation.State[Recommendation] {
	state := r.recommend.Snapshot()
	state.Data.Items = model.CloneItems(state.Data.Items)
	return state
}

// Result returns the last successful recommendation.
func (r *Recommend) Result() (Recommendation, bool) {
	state := r.State()
	if !state.IsSuccess() {
		return Recommendation{}, false
	}
	return state.Data, true
}

// Items is the list currently shown; empty unless the last generate
// succeeded.
func (r *Recommend) Items() []model.RecItem {
	if rec, ok := r.Result(); ok && rec.Items != nil {
		return rec.Items
	}
	return []model.RecItem{}
}

// RenderState selects between skeleton, grid and empty message.
func (r *Recommend) RenderState() RenderState {
	state := r.recommend.Snapshot()
	switch {
	case state.IsPending():
		return RenderSkeleton
	case state.IsSuccess() && len(state.Data.Items) > 0:
		return RenderGrid
	case state.IsSuccess():
		return RenderEmpty
	default:
		return RenderNone
	}
}

// CanExport reports whether the shown recommendations may be exported now.
func (r *Recommend) CanExport() bool {
	return len(r.Items()) > 0 && !r.export.Busy()
}

// Export exports the shown recommendations and waits for the download.
// The artifact is named after the user and variant that produced them.
func (r *Recommend) Export(ctx context.Context) (mutation.State[export.Result], error) {
	job, err := r.exportJob()
	if err != nil {
		return r.export.Snapshot(), err
	}
	return r.export.Invoke(ctx, r.exportAction(job))
}

// StartExport is the non-blocking form of Export.
func (r *Recommend) StartExport(ctx context.Context) (<-chan mutation.State[export.Result], error) {
	job, err := r.exportJob()
	if err != nil {
		return nil, err
	}
	return r.export.Start(ctx, r.exportAction(job))
}

// ExportState returns the export slot state.
func (r *Recommend) ExportState() mutation.State[export.Result] {
	return r.export.Snapshot()
}

// Subscribe registers fn to run after any change the view depends on.
func (r *Recommend) Subscribe(fn func()) func() {
	return combine(
		r.recommend.Subscribe(fn),
		r.export.Subscribe(fn),
		r.changes.add(fn),
	)
}

func (r *Recommend) request() (model.RecommendRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID := strings.TrimSpace(r.userID)
	if userID == "" {
		return model.RecommendRequest{}, common.ErrMissingUser
	}
	return model.RecommendRequest{
		UserID:       userID,
		K:            r.count,
		RecentClicks: slices.Clone(r.cfg.SeedItems),
		Locale:       r.cfg.Locale,
		Algorithm:    r.variant,
	}, nil
}

func (r *Recommend) generateAction(req model.RecommendRequest) mutation.Action[Recommendation] {
	return func(ctx context.Context) (Recommendation, error) {
		resp, err := r.gateway.Recommend(ctx, req)
		if err != nil {
			return Recommendation{}, err
		}
		items := resp.Items
		if items == nil {
			items = []model.RecItem{}
		}
		return Recommendation{
			UserID:  req.UserID,
			Variant: req.Algorithm,
			Count:   req.K,
			Items:   items,
		}, nil
	}
}

func (r *Recommend) exportJob() (model.ExportJob, error) {
	rec, ok := r.Result()
	if !ok || len(rec.Items) == 0 {
		return model.ExportJob{}, ErrNothingToExport
	}
	return model.ExportJob{
		SubjectID: rec.UserID,
		Variant:   rec.Variant,
		Format:    r.cfg.Format,
		Items:     rec.Items,
	}, nil
}

func (r *Recommend) exportAction(job model.ExportJob) mutation.Action[export.Result] {
	return func(ctx context.Context) (export.Result, error) {
		return r.exporter.Export(ctx, job)
	}
}
