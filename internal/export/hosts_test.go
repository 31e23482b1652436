package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/newsflow/internal/model"
)

func TestFileHost_Lifecycle(t *testing.T) {
	spool := t.TempDir()
	downloads := t.TempDir()
	host := NewFileHost(downloads, WithSpoolDir(spool))

	handle, err := host.Acquire([]byte("%PDF-1.4 test"), model.ExportFormatPDF)
	require.NoError(t, err)
	assert.NotEmpty(t, handle.ID)
	assert.Equal(t, int64(13), handle.Size)
	assert.Equal(t, 1, host.Live())

	spooled, err := os.ReadDir(spool)
	require.NoError(t, err)
	require.Len(t, spooled, 1)

	dest, err := host.Trigger(handle, "smart_news_report_home_user.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(downloads, "smart_news_report_home_user.pdf"), dest)

	data, err := os.ReadFile(dest) //nolint:gosec // test path
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(data))

	require.NoError(t, host.Release(handle))
	assert.Equal(t, 0, host.Live())

	spooled, err = os.ReadDir(spool)
	require.NoError(t, err)
	assert.Empty(t, spooled)

	require.ErrorIs(t, host.Release(handle), ErrUnknownHandle)
	_, err = host.Trigger(handle, "again.pdf")
	require.ErrorIs(t, err, ErrUnknownHandle)
}

func TestFileHost_DoesNotOverwrite(t *testing.T) {
	downloads := t.TempDir()
	host := NewFileHost(downloads, WithSpoolDir(t.TempDir()))

	var got []string
	for i := 0; i < 3; i++ {
		handle, err := host.Acquire([]byte("report"), model.ExportFormatPDF)
		require.NoError(t, err)
		dest, err := host.Trigger(handle, "report.pdf")
		require.NoError(t, err)
		require.NoError(t, host.Release(handle))
		got = append(got, filepath.Base(dest))
	}

	assert.Equal(t, []string{"report.pdf", "report (1).pdf", "report (2).pdf"}, got)
}

func TestFileHost_FailedSpoolIsRemoved(t *testing.T) {
	spool := t.TempDir()
	host := NewFileHost(t.TempDir(), WithSpoolDir(spool))
	errDiskFull := errors.New("no space left on device")
	host.writeFile = func(name string, data []byte, perm os.FileMode) error {
		require.NoError(t, os.WriteFile(name, data[:1], perm))
		return errDiskFull
	}

	_, err := host.Acquire([]byte("%PDF-1.4"), model.ExportFormatPDF)
	require.ErrorIs(t, err, errDiskFull)

	entries, err := os.ReadDir(spool)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileHost_Progress(t *testing.T) {
	var progress bytes.Buffer
	host := NewFileHost(t.TempDir(), WithSpoolDir(t.TempDir()), WithProgress(&progress))

	handle, err := host.Acquire(bytes.Repeat([]byte("x"), 4096), model.ExportFormatDOCX)
	require.NoError(t, err)
	defer func() { _ = host.Release(handle) }()

	_, err = host.Trigger(handle, "report.docx")
	require.NoError(t, err)
	assert.Contains(t, progress.String(), "Downloading report.docx")
}

func TestFileHost_WithPipeline(t *testing.T) {
	spool := t.TempDir()
	downloads := t.TempDir()
	p := NewPipeline(&fakeExporter{}, NewFileHost(downloads, WithSpoolDir(spool)))

	for i := 0; i < 3; i++ {
		_, err := p.Export(context.Background(), model.ExportJob{
			SubjectID: "U1",
			Variant:   model.VariantBERT,
			Items:     items("a", "b"),
		})
		require.NoError(t, err)
		assert.Equal(t, 0, p.Outstanding())
	}

	spooled, err := os.ReadDir(spool)
	require.NoError(t, err)
	assert.Empty(t, spooled, "spool files are released after every export")

	saved, err := os.ReadDir(downloads)
	require.NoError(t, err)
	assert.Len(t, saved, 3)
}

func TestMemoryHost(t *testing.T) {
	host := NewMemoryHost()
	artifact := []byte("%PDF")

	handle, err := host.Acquire(artifact, model.ExportFormatPDF)
	require.NoError(t, err)
	artifact[0] = 'X'

	location, err := host.Trigger(handle, "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "memory://a.pdf", location)
	require.NoError(t, host.Release(handle))
	assert.Equal(t, 0, host.Live())

	downloads := host.Downloads()
	require.Len(t, downloads, 1)
	assert.Equal(t, "a.pdf", downloads[0].Filename)
	assert.Equal(t, "%PDF", string(downloads[0].Data))

	_, err = host.Trigger(handle, "b.pdf")
	require.ErrorIs(t, err, ErrUnknownHandle)
	require.ErrorIs(t, host.Release(handle), ErrUnknownHandle)
}
