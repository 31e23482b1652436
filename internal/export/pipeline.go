// Package export turns a displayed result set into a downloaded artifact.
//
// An export builds the artifact bytes through the gateway, wraps them in a
// transient handle supplied by a Host, triggers exactly one download of that
// handle and always releases it afterwards. No handle outlives the call that
// created it.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Veraticus/newsflow/internal/model"
)

var (
	// ErrNothingToExport is returned for jobs without items.
	ErrNothingToExport = errors.New("nothing to export")
	// ErrEmptyArtifact is returned when the gateway produced no bytes.
	ErrEmptyArtifact = errors.New("export produced an empty artifact")
	// ErrUnknownHandle is returned by hosts for handles they did not issue
	// or have already released.
	ErrUnknownHandle = errors.New("unknown export handle")
	// ErrHandleLeak is returned when a handle from an earlier export is
	// still live when a new one would be acquired.
	ErrHandleLeak = errors.New("previous export handle was not released")
)

// Exporter builds artifact bytes. service.Gateway satisfies it.
type Exporter interface {
	Export(ctx context.Context, items []model.RecItem, subjectID string, format model.ExportFormat) ([]byte, error)
}

// Handle is a transient reference to an artifact owned by a Host.
type Handle struct {
	ID     string
	Format model.ExportFormat
	Size   int64
}

// Host provides the environment-specific download sequence.
type Host interface {
	// Acquire makes artifact addressable and returns its handle.
	Acquire(artifact []byte, format model.ExportFormat) (Handle, error)
	// Trigger delivers the handle's artifact under filename and reports
	// where it ended up.
	Trigger(h Handle, filename string) (string, error)
	// Release frees the handle. It must be called exactly once per Acquire.
	Release(h Handle) error
}

// Result describes a finished export.
type Result struct {
	Filename string
	Location string
	Size     int64
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for export events.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// Pipeline runs exports against one Host.
type Pipeline struct {
	exporter    Exporter
	host        Host
	logger      *slog.Logger
	outstanding atomic.Int32
	// handleMu serializes the acquire/trigger/release section so the
	// outstanding count is always zero when a new handle is acquired.
	handleMu sync.Mutex
}

// NewPipeline creates a pipeline.
func NewPipeline(exporter Exporter, host Host, opts ...Option) *Pipeline {
	p := &Pipeline{
		exporter: exporter,
		host:     host,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Export builds the artifact for job and downloads it. A gateway failure
// returns before any handle exists. Once a handle is acquired it is released
// whether or not the download succeeds.
func (p *Pipeline) Export(ctx context.Context, job model.ExportJob) (result Result, err error) {
	if len(job.Items) == 0 {
		return Result{}, ErrNothingToExport
	}
	if job.Format == "" {
		job.Format = model.ExportFormatPDF
	}

	filename := Filename(job)
	logger := p.logger.With("filename", filename, "items", len(job.Items))

	artifact, err := p.exporter.Export(ctx, job.Items, job.SubjectID, job.Format)
	if err != nil {
		logger.Error("Failed to build export artifact", "error", err)
		return Result{}, fmt.Errorf("failed to build %s artifact: %w", job.Format, err)
	}
	if len(artifact) == 0 {
		logger.Error("Export artifact is empty")
		return Result{}, ErrEmptyArtifact
	}

	p.handleMu.Lock()
	defer p.handleMu.Unlock()

	if n := p.outstanding.Load(); n != 0 {
		logger.Error("Export handle leaked", "outstanding", n)
		return Result{}, fmt.Errorf("%w: %d outstanding", ErrHandleLeak, n)
	}

	handle, err := p.host.Acquire(artifact, job.Format)
	if err != nil {
		logger.Error("Failed to acquire export handle", "error", err)
		return Result{}, fmt.Errorf("failed to acquire export handle: %w", err)
	}
	p.outstanding.Add(1)

	defer func() {
		if releaseErr := p.host.Release(handle); releaseErr != nil {
			logger.Warn("Failed to release export handle", "handle", handle.ID, "error", releaseErr)
			if err == nil {
				err = fmt.Errorf("failed to release export handle: %w", releaseErr)
			}
		}
		p.outstanding.Add(-1)
	}()

	location, err := p.host.Trigger(handle, filename)
	if err != nil {
		logger.Error("Failed to trigger export download", "handle", handle.ID, "error", err)
		return Result{}, fmt.Errorf("failed to download %s: %w", filename, err)
	}

	logger.Info("Export downloaded", "location", location, "bytes", handle.Size)
	return Result{
		Filename: filename,
		Location: location,
		Size:     handle.Size,
	}, nil
}

// Outstanding reports how many handles are currently live.
func (p *Pipeline) Outstanding() int {
	return int(p.outstanding.Load())
}

// Filename names the downloaded artifact for job.
//
//	smart_news_report_<subject>.<ext>              unpersonalized
//	recommendations_<subject>_<variant>.<ext>      personalized
func Filename(job model.ExportJob) string {
	subject := sanitize(job.SubjectID)
	if job.Personalized() {
		return fmt.Sprintf("recommendations_%s_%s.%s", subject, sanitize(string(job.Variant)), job.Format.Extension())
	}
	return fmt.Sprintf("smart_news_report_%s.%s", subject, job.Format.Extension())
}

func sanitize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "anonymous"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}
