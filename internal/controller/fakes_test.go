package controller

import (
	"context"
	"errors"
	"sync"

	"github.com/Veraticus/newsflow/internal/export"
	"github.com/Veraticus/newsflow/internal/model"
)

var errGatewayDown = errors.New("gateway down")

// fakeGateway answers from canned data and records every request.
type fakeGateway struct {
	trendingFn   func(ctx context.Context, k int) ([]model.RecItem, error)
	searchFn     func(ctx context.Context, req model.SearchRequest) ([]model.RecItem, error)
	recommendFn  func(ctx context.Context, req model.RecommendRequest) (model.RecommendResponse, error)
	exportErr    error
	categories   []string
	searches     []model.SearchRequest
	recommends   []model.RecommendRequest
	trendingHits int
	exportHits   int
	mu           sync.Mutex
}

func (f *fakeGateway) Trending(ctx context.Context, k int) ([]model.RecItem, error) {
	f.mu.Lock()
	f.trendingHits++
	fn := f.trendingFn
	f.mu.Unlock()
	if fn == nil {
		return trendingItems(), nil
	}
	return fn(ctx, k)
}

func (f *fakeGateway) Categories(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.categories, nil
}

func (f *fakeGateway) Search(ctx context.Context, req model.SearchRequest) ([]model.RecItem, error) {
	f.mu.Lock()
	f.searches = append(f.searches, req)
	fn := f.searchFn
	f.mu.Unlock()
	if fn == nil {
		return []model.RecItem{}, nil
	}
	return fn(ctx, req)
}

func (f *fakeGateway) Recommend(ctx context.Context, req model.RecommendRequest) (model.RecommendResponse, error) {
	f.mu.Lock()
	f.recommends = append(f.recommends, req)
	fn := f.recommendFn
	f.mu.Unlock()
	if fn == nil {
		return model.RecommendResponse{UserID: req.UserID, Items: threeItems()}, nil
	}
	return fn(ctx, req)
}

func (f *fakeGateway) Export(_ context.Context, items []model.RecItem, _ string, _ model.ExportFormat) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exportHits++
	if f.exportErr != nil {
		return nil, f.exportErr
	}
	return []byte("%PDF-1.4 " + items[0].ItemID), nil
}

func (f *fakeGateway) Health(context.Context) error { return nil }

func (f *fakeGateway) Searches() []model.SearchRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.SearchRequest(nil), f.searches...)
}

func (f *fakeGateway) Recommends() []model.RecommendRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.RecommendRequest(nil), f.recommends...)
}

func (f *fakeGateway) TrendingHits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.trendingHits
}

// fakeExporter records jobs instead of downloading.
type fakeExporter struct {
	err  error
	jobs []model.ExportJob
	mu   sync.Mutex
}

func (f *fakeExporter) Export(_ context.Context, job model.ExportJob) (export.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	if f.err != nil {
		return export.Result{}, f.err
	}
	return export.Result{Filename: export.Filename(job), Size: 1}, nil
}

func (f *fakeExporter) Jobs() []model.ExportJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.ExportJob(nil), f.jobs...)
}

type alert struct {
	title   string
	message string
}

// recordingAlerter collects alerts.
type recordingAlerter struct {
	alerts []alert
	mu     sync.Mutex
}

func (a *recordingAlerter) Alert(title, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, alert{title: title, message: message})
}

func (a *recordingAlerter) Alerts() []alert {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]alert(nil), a.alerts...)
}

func trendingItems() []model.RecItem {
	return []model.RecItem{
		{ItemID: "n1", Title: model.StringPtr("A"), Score: 0.9},
		{ItemID: "n2", Title: model.StringPtr("B"), Score: 0.5},
	}
}

func threeItems() []model.RecItem {
	return []model.RecItem{
		{ItemID: "r1", Title: model.StringPtr("One"), Score: 0.8},
		{ItemID: "r2", Title: model.StringPtr("Two"), Score: 0.7},
		{ItemID: "r3", Score: 0.6},
	}
}
