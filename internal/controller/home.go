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
	"github.com/Veraticus/newsflow/internal/query"
	"github.com/Veraticus/newsflow/internal/service"
)

// HomeSubject identifies the unpersonalized view in export artifacts.
const HomeSubject = "home_user"

// Home view titles.
const (
	TitleTrending      = "Trending Stories"
	TitleSearchResults = "Search Results"
)

// Option configures a controller.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the controller logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// HomeConfig sizes the home view requests.
type HomeConfig struct {
	Format        model.ExportFormat
	PageSize      int
	TrendingCount int
}

// Home composes the trending and categories queries with the search and
// export slots.
type Home struct {
	gateway       service.Gateway
	cache         *query.Cache
	exporter      Exporter
	alerter       Alerter
	logger        *slog.Logger
	search        *mutation.Runner[[]model.RecItem]
	export        *mutation.Runner[export.Result]
	trendingKey   query.Key
	categoriesKey query.Key
	text          string
	category      string
	changes       listeners
	cfg           HomeConfig
	mu            sync.Mutex
}

// NewHome creates the home controller. The cache is shared with other views.
func NewHome(gateway service.Gateway, cache *query.Cache, exporter Exporter, alerter Alerter, cfg HomeConfig, opts ...Option) *Home {
	o := buildOptions(opts)
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	if cfg.TrendingCount <= 0 {
		cfg.TrendingCount = 20
	}
	if cfg.Format == "" {
		cfg.Format = model.ExportFormatPDF
	}

	h := &Home{
		gateway:       gateway,
		cache:         cache,
		exporter:      exporter,
		alerter:       alerter,
		logger:        o.logger.With("view", "home"),
		cfg:           cfg,
		trendingKey:   query.NewKey("trending", cfg.TrendingCount),
		categoriesKey: query.NewKey("categories"),
	}
	h.search = mutation.NewRunner(SlotSearch,
		mutation.OnSuccess(func([]model.RecItem) { h.clearText() }),
		mutation.WithLogger[[]model.RecItem](h.logger),
	)
	h.export = mutation.NewRunner(SlotExport,
		mutation.OnError[export.Result](func(err error) {
			alertExportFailure(h.alerter, h.logger, h.cfg.Format, err)
		}),
		mutation.WithLogger[export.Result](h.logger),
	)
	return h
}

// Trending returns the trending query state, starting the request on first
// read.
func (h *Home) Trending(ctx context.Context) query.State[[]model.RecItem] {
	state := query.Get(ctx, h.cache, h.trendingKey, h.fetchTrending)
	state.Data = model.CloneItems(state.Data)
	return state
}

// FetchTrending waits for the trending list.
func (h *Home) FetchTrending(ctx context.Context) ([]model.RecItem, error) {
	items, err := query.Fetch(ctx, h.cache, h.trendingKey, h.fetchTrending)
	return model.CloneItems(items), err
}

// RefreshTrending re-runs the trending request. It reports false when the
// request is already running or was never issued.
func (h *Home) RefreshTrending(ctx context.Context) bool {
	return h.cache.Refetch(ctx, h.trendingKey)
}

// Categories returns the categories query state, starting the request on
// first read.
func (h *Home) Categories(ctx context.Context) query.State[[]string] {
	state := query.Get(ctx, h.cache, h.categoriesKey, h.fetchCategories)
	state.Data = slices.Clone(state.Data)
	return state
}

// FetchCategories waits for the category list.
func (h *Home) FetchCategories(ctx context.Context) ([]string, error) {
	categories, err := query.Fetch(ctx, h.cache, h.categoriesKey, h.fetchCategories)
	return slices.Clone(categories), err
}

// Query returns the search text.
func (h *Home) Query() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.text
}

// SetQuery replaces the search text.
func (h *Home) SetQuery(text string) {
	h.mu.Lock()
	h.text = text
	h.mu.Unlock()
	h.changes.notify()
}

// Category returns the selected category; empty means none.
func (h *Home) Category() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.category
}

// SetCategory selects a category; empty clears the selection.
func (h *Home) SetCategory(category string) {
	h.mu.Lock()
	h.category = category
	h.mu.Unlock()
	h.changes.notify()
}

// CanSearch reports whether a search may be submitted now.
func (h *Home) CanSearch() bool {
	return strings.TrimSpace(h.Query()) != "" && !h.search.Busy()
}

// SubmitSearch runs a search for the current text and category and waits
// for it. The text is cleared only when the search succeeds.
func (h *Home) SubmitSearch(ctx context.Context) (mutation.State[[]model.RecItem], error) {
	req, err := h.searchRequest()
	if err != nil {
		return h.search.Snapshot(), err
	}
	return h.search.Invoke(ctx, h.searchAction(req))
}

// StartSearch is the non-blocking form of SubmitSearch.
func (h *Home) StartSearch(ctx context.Context) (<-chan mutation.State[[]model.RecItem], error) {
	req, err := h.searchRequest()
	if err != nil {
		return nil, err
	}
	return h.search.Start(ctx, h.searchAction(req))
}

// QuickTag sets both the text and the category to tag and searches. While
// a search is pending it returns ErrInFlight and leaves the query untouched.
func (h *Home) QuickTag(ctx context.Context, tag string) (mutation.State[[]model.RecItem], error) {
	if err := h.applyTag(tag); err != nil {
		return h.search.Snapshot(), err
	}
	return h.SubmitSearch(ctx)
}

// StartQuickTag is the non-blocking form of QuickTag.
func (h *Home) StartQuickTag(ctx context.Context, tag string) (<-chan mutation.State[[]model.RecItem], error) {
	if err := h.applyTag(tag); err != nil {
		return nil, err
	}
	return h.StartSearch(ctx)
}

// ResetToTrending drops the search result so the trending list shows again.
func (h *Home) ResetToTrending() {
	h.search.Reset()
}

// SearchState returns the search slot state.
func (h *Home) SearchState() mutation.State[[]model.RecItem] {
	state := h.search.Snapshot()
	state.Data = model.CloneItems(state.Data)
	return state
}

// IsSearchActive reports whether a search result overrides trending.
func (h *Home) IsSearchActive() bool {
	return h.search.Snapshot().IsSuccess()
}

// EffectiveList is the list currently shown: the search result when the
// last search succeeded (even if empty), else the trending result, else
// nothing.
func (h *Home) EffectiveList() []model.RecItem {
	if s := h.search.Snapshot(); s.IsSuccess() {
		if s.Data == nil {
			return []model.RecItem{}
		}
		return model.CloneItems(s.Data)
	}
	if t := query.Peek[[]model.RecItem](h.cache, h.trendingKey); t.HasData && t.Data != nil {
		return model.CloneItems(t.Data)
	}
	return []model.RecItem{}
}

// ShowSkeleton reports whether the placeholder replaces the list.
func (h *Home) ShowSkeleton() bool {
	if h.search.Snapshot().IsPending() {
		return true
	}
	t := query.Peek[[]model.RecItem](h.cache, h.trendingKey)
	return t.IsLoading() && !t.HasData
}

// Title names the list currently shown.
func (h *Home) Title() string {
	if h.IsSearchActive() {
		return TitleSearchResults
	}
	return TitleTrending
}

// CanExport reports whether the shown list may be exported now.
func (h *Home) CanExport() bool {
	return len(h.EffectiveList()) > 0 && !h.export.Busy()
}

// Export exports the shown list and waits for the download. Failures raise
// an alert.
func (h *Home) Export(ctx context.Context) (mutation.State[export.Result], error) {
	job, err := h.exportJob()
	if err != nil {
		return h.export.Snapshot(), err
	}
	return h.export.Invoke(ctx, h.exportAction(job))
}

// StartExport is the non-blocking form of Export.
func (h *Home) StartExport(ctx context.Context) (<-chan mutation.State[export.Result], error) {
	job, err := h.exportJob()
	if err != nil {
		return nil, err
	}
	return h.export.Start(ctx, h.exportAction(job))
}

// ExportState returns the export slot state.
func (h *Home) ExportState() mutation.State[export.Result] {
	return h.export.Snapshot()
}

// Subscribe registers fn to run after any change the view depends on.
func (h *Home) Subscribe(fn func()) func() {
	return combine(
		h.cache.Subscribe(h.trendingKey, fn),
		h.cache.Subscribe(h.categoriesKey, fn),
		h.search.Subscribe(fn),
		h.export.Subscribe(fn),
		h.changes.add(fn),
	)
}

func (h *Home) fetchTrending(ctx context.Context) ([]model.RecItem, error) {
	return h.gateway.Trending(ctx, h.cfg.TrendingCount)
}

func (h *Home) fetchCategories(ctx context.Context) ([]string, error) {
	return h.gateway.Categories(ctx)
}

func (h *Home) searchRequest() (model.SearchRequest, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	text := strings.TrimSpace(h.text)
	if text == "" {
		return model.SearchRequest{}, common.ErrEmptyQuery
	}
	req := model.SearchRequest{Query: text, K: h.cfg.PageSize}
	if h.category != "" {
		req.Category = model.StringPtr(h.category)
	}
	return req, nil
}

func (h *Home) searchAction(req model.SearchRequest) mutation.Action[[]model.RecItem] {
	return func(ctx context.Context) ([]model.RecItem, error) {
		items, err := h.gateway.Search(ctx, req)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []model.RecItem{}
		}
		return items, nil
	}
}

func (h *Home) applyTag(tag string) error {
	if h.search.Busy() {
		return fmt.Errorf("quick tag %q: %w", tag, mutation.ErrInFlight)
	}
	h.mu.Lock()
	h.text = tag
	h.category = tag
	h.mu.Unlock()
	h.changes.notify()
	return nil
}

func (h *Home) clearText() {
	h.mu.Lock()
	h.text = ""
	h.mu.Unlock()
}

func (h *Home) exportJob() (model.ExportJob, error) {
	items := h.EffectiveList()
	if len(items) == 0 {
		return model.ExportJob{}, ErrNothingToExport
	}
	return model.ExportJob{
		SubjectID: HomeSubject,
		Format:    h.cfg.Format,
		Items:     items,
	}, nil
}

func (h *Home) exportAction(job model.ExportJob) mutation.Action[export.Result] {
	return func(ctx context.Context) (export.Result, error) {
		return h.exporter.Export(ctx, job)
	}
}
