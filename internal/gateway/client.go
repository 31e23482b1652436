// Package gateway implements service.Gateway against the news HTTP API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Veraticus/newsflow/internal/common"
	"github.com/Veraticus/newsflow/internal/model"
	"github.com/Veraticus/newsflow/internal/service"
)

// ErrUnsupportedFormat is returned for export formats the server cannot render.
var ErrUnsupportedFormat = errors.New("export format not supported by the server")

const (
	defaultTimeout   = 30 * time.Second
	defaultRateLimit = 10
	rateBurst        = 5
	maxResponseBytes = 32 << 20
	maxErrorBody     = 512
)

// Config configures the HTTP gateway.
type Config struct {
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	Retries    int
	// RateLimit is the sustained number of requests per second.
	RateLimit float64
}

// Client talks to the news API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    *url.URL
	retry      service.RetryOptions
}

var _ service.Gateway = (*Client)(nil)

type itemsResponse struct {
	Items []model.RecItem `json:"items"`
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type exportRequest struct {
	UserID   string          `json:"user_id"`
	Articles []model.RecItem `json:"articles"`
}

// New creates a gateway client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: api base url", common.ErrMissingConfig)
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: api base url: %w", common.ErrInvalidConfig, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("%w: api base url must be http or https, got %q", common.ErrInvalidConfig, cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	return &Client{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(limit), rateBurst),
		baseURL:    base,
		retry: service.RetryOptions{
			MaxAttempts:  retries + 1,
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			Multiplier:   2,
		},
	}, nil
}

// Trending returns the k most popular items.
func (c *Client) Trending(ctx context.Context, k int) ([]model.RecItem, error) {
	var resp itemsResponse
	query := url.Values{"k": []string{strconv.Itoa(k)}}
	if err := c.getJSON(ctx, "/trending", query, &resp); err != nil {
		return nil, fmt.Errorf("trending: %w", err)
	}
	return normalizeItems(resp.Items)
}

// Categories returns the selectable category names.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var resp categoriesResponse
	if err := c.getJSON(ctx, "/categories", nil, &resp); err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	if resp.Categories == nil {
		return []string{}, nil
	}
	return resp.Categories, nil
}

// Search runs a keyword search. An empty result is a valid answer.
func (c *Client) Search(ctx context.Context, req model.SearchRequest) ([]model.RecItem, error) {
	var resp itemsResponse
	if err := c.postJSON(ctx, "/search", req, &resp); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return normalizeItems(resp.Items)
}

// Recommend requests personalized recommendations.
func (c *Client) Recommend(ctx context.Context, req model.RecommendRequest) (model.RecommendResponse, error) {
	if req.RecentClicks == nil {
		req.RecentClicks = []string{}
	}
	var resp model.RecommendResponse
	if err := c.postJSON(ctx, "/recommend", req, &resp); err != nil {
		return model.RecommendResponse{}, fmt.Errorf("recommend: %w", err)
	}
	items, err := normalizeItems(resp.Items)
	if err != nil {
		return model.RecommendResponse{}, err
	}
	resp.Items = items
	return resp, nil
}

// Export asks the server to render items as a PDF report.
func (c *Client) Export(ctx context.Context, items []model.RecItem, subjectID string, format model.ExportFormat) ([]byte, error) {
	if format != "" && format != model.ExportFormatPDF {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	body, err := c.do(ctx, http.MethodPost, "/export/pdf", nil, exportRequest{
		Articles: items,
		UserID:   subjectID,
	})
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return body, nil
}

// Health checks that the server answers with status ok.
func (c *Client) Health(ctx context.Context) error {
	var resp healthResponse
	if err := c.getJSON(ctx, "/health", nil, &resp); err != nil {
		return fmt.Errorf("health: %w", err)
	}
	if resp.Status != "ok" {
		return fmt.Errorf("health: %w: status %q", common.ErrGateway, resp.Status)
	}
	return nil
}

// getJSON performs an idempotent GET, retrying transient failures.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return common.WithRetry(ctx, func() error {
		body, err := c.do(ctx, http.MethodGet, path, query, nil)
		if err != nil {
			return err
		}
		return decode(body, out)
	}, c.retry)
}

// postJSON performs a single POST; compute endpoints are never retried.
func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := c.do(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return err
	}
	return decode(body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json, application/pdf")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s %s: %w", common.ErrGatewayTimeout, method, path, err)
		}
		return nil, fmt.Errorf("%w: %s %s: %w", common.ErrGateway, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text := strings.TrimSpace(string(body))
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return nil, &common.StatusError{StatusCode: resp.StatusCode, Body: text}
	}

	return body, nil
}

func decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %w", common.ErrBadResponse, err)
	}
	return nil
}

func normalizeItems(items []model.RecItem) ([]model.RecItem, error) {
	if items == nil {
		return []model.RecItem{}, nil
	}
	if err := model.ValidateItems(items); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrBadResponse, err)
	}
	return items, nil
}
