package export

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/newsflow/internal/model"
)

type fakeExporter struct {
	err      error
	artifact []byte
	subjects []string
	calls    int
	mu       sync.Mutex
}

func (f *fakeExporter) Export(_ context.Context, items []model.RecItem, subjectID string, _ model.ExportFormat) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.subjects = append(f.subjects, subjectID)
	if f.err != nil {
		return nil, f.err
	}
	if f.artifact != nil {
		return f.artifact, nil
	}
	return []byte(fmt.Sprintf("%%PDF-1.4 %d items", len(items))), nil
}

// recordingHost logs every host call in order.
type recordingHost struct {
	acquireErr error
	triggerErr error
	releaseErr error
	live       map[string]bool
	events     []string
	next       int
	mu         sync.Mutex
}

func newRecordingHost() *recordingHost {
	return &recordingHost{live: make(map[string]bool)}
}

func (h *recordingHost) Acquire(artifact []byte, format model.ExportFormat) (Handle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.acquireErr != nil {
		return Handle{}, h.acquireErr
	}
	h.next++
	id := fmt.Sprintf("h%d", h.next)
	h.live[id] = true
	h.events = append(h.events, "acquire:"+id)
	return Handle{ID: id, Format: format, Size: int64(len(artifact))}, nil
}

func (h *recordingHost) Trigger(handle Handle, filename string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "trigger:"+handle.ID+":"+filename)
	if h.triggerErr != nil {
		return "", h.triggerErr
	}
	return "/downloads/" + filename, nil
}

func (h *recordingHost) Release(handle Handle) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "release:"+handle.ID)
	delete(h.live, handle.ID)
	return h.releaseErr
}

func (h *recordingHost) Events() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.events...)
}

func items(ids ...string) []model.RecItem {
	out := make([]model.RecItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.RecItem{ItemID: id, Title: model.StringPtr("Title " + id), Score: 0.5})
	}
	return out
}

func TestPipeline_ExportSuccess(t *testing.T) {
	exporter := &fakeExporter{}
	host := newRecordingHost()
	p := NewPipeline(exporter, host)

	result, err := p.Export(context.Background(), model.ExportJob{
		SubjectID: "home_user",
		Items:     items("a", "b", "c"),
	})
	require.NoError(t, err)

	assert.Equal(t, "smart_news_report_home_user.pdf", result.Filename)
	assert.Equal(t, "/downloads/smart_news_report_home_user.pdf", result.Location)
	assert.Positive(t, result.Size)
	assert.Equal(t, []string{
		"acquire:h1",
		"trigger:h1:smart_news_report_home_user.pdf",
		"release:h1",
	}, host.Events())
	assert.Equal(t, []string{"home_user"}, exporter.subjects)
	assert.Equal(t, 0, p.Outstanding())
	assert.Empty(t, host.live)
}

func TestPipeline_GatewayFailureAllocatesNothing(t *testing.T) {
	errDown := errors.New("export service down")
	host := newRecordingHost()
	p := NewPipeline(&fakeExporter{err: errDown}, host)

	_, err := p.Export(context.Background(), model.ExportJob{SubjectID: "U1", Items: items("a")})
	require.ErrorIs(t, err, errDown)

	assert.Empty(t, host.Events())
	assert.Equal(t, 0, p.Outstanding())
}

func TestPipeline_EmptyArtifact(t *testing.T) {
	host := newRecordingHost()
	p := NewPipeline(&fakeExporter{artifact: []byte{}}, host)

	_, err := p.Export(context.Background(), model.ExportJob{SubjectID: "U1", Items: items("a")})
	require.ErrorIs(t, err, ErrEmptyArtifact)
	assert.Empty(t, host.Events())
}

func TestPipeline_NothingToExport(t *testing.T) {
	exporter := &fakeExporter{}
	host := newRecordingHost()
	p := NewPipeline(exporter, host)

	_, err := p.Export(context.Background(), model.ExportJob{SubjectID: "home_user"})
	require.ErrorIs(t, err, ErrNothingToExport)
	assert.Equal(t, 0, exporter.calls)
	assert.Empty(t, host.Events())
}

func TestPipeline_ReleasesWhenTriggerFails(t *testing.T) {
	errDisk := errors.New("disk full")
	host := newRecordingHost()
	host.triggerErr = errDisk
	p := NewPipeline(&fakeExporter{}, host)

	_, err := p.Export(context.Background(), model.ExportJob{SubjectID: "U1", Items: items("a")})
	require.ErrorIs(t, err, errDisk)

	assert.Equal(t, []string{
		"acquire:h1",
		"trigger:h1:smart_news_report_U1.pdf",
		"release:h1",
	}, host.Events())
	assert.Equal(t, 0, p.Outstanding())
}

func TestPipeline_ReleaseFailureIsReported(t *testing.T) {
	errRelease := errors.New("busy")
	host := newRecordingHost()
	host.releaseErr = errRelease
	p := NewPipeline(&fakeExporter{}, host)

	_, err := p.Export(context.Background(), model.ExportJob{SubjectID: "U1", Items: items("a")})
	require.ErrorIs(t, err, errRelease)
	assert.Equal(t, 0, p.Outstanding())
}

func TestPipeline_AcquireFailure(t *testing.T) {
	errAcquire := errors.New("no space")
	host := newRecordingHost()
	host.acquireErr = errAcquire
	p := NewPipeline(&fakeExporter{}, host)

	_, err := p.Export(context.Background(), model.ExportJob{SubjectID: "U1", Items: items("a")})
	require.ErrorIs(t, err, errAcquire)
	assert.Empty(t, host.Events())
	assert.Equal(t, 0, p.Outstanding())
}

func TestPipeline_RepeatedExportsDoNotLeak(t *testing.T) {
	host := newRecordingHost()
	p := NewPipeline(&fakeExporter{}, host)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.Export(context.Background(), model.ExportJob{SubjectID: "U1", Items: items("a")})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	events := host.Events()
	assert.Len(t, events, 30)
	for i := 0; i < len(events); i += 3 {
		id := events[i][len("acquire:"):]
		assert.Equal(t, "acquire:"+id, events[i])
		assert.Equal(t, "trigger:"+id+":smart_news_report_U1.pdf", events[i+1])
		assert.Equal(t, "release:"+id, events[i+2])
	}
	assert.Equal(t, 0, p.Outstanding())
	assert.Empty(t, host.live)
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		job  model.ExportJob
		want string
	}{
		{
			name: "home export",
			job:  model.ExportJob{SubjectID: "home_user", Items: items("a", "b", "c")},
			want: "smart_news_report_home_user.pdf",
		},
		{
			name: "recommendation export",
			job:  model.ExportJob{SubjectID: "U1", Variant: model.VariantBERT, Format: model.ExportFormatPDF},
			want: "recommendations_U1_bert.pdf",
		},
		{
			name: "docx",
			job:  model.ExportJob{SubjectID: "U13740", Variant: model.VariantHybrid, Format: model.ExportFormatDOCX},
			want: "recommendations_U13740_hybrid.docx",
		},
		{
			name: "unsafe subject",
			job:  model.ExportJob{SubjectID: "../etc/pass wd"},
			want: "smart_news_report_.._etc_pass_wd.pdf",
		},
		{
			name: "blank subject",
			job:  model.ExportJob{SubjectID: "  "},
			want: "smart_news_report_anonymous.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.job))
		})
	}
}
