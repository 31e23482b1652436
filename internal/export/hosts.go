package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/Veraticus/newsflow/internal/model"
)

// FileHost spools artifacts to temporary files and downloads them by
// copying into a destination directory.
type FileHost struct {
	writeFile   func(name string, data []byte, perm os.FileMode) error
	progress    io.Writer
	handles     map[string]string
	spoolDir    string
	downloadDir string
	mu          sync.Mutex
}

// FileHostOption configures a FileHost.
type FileHostOption func(*FileHost)

// WithSpoolDir sets where transient artifacts are written.
func WithSpoolDir(dir string) FileHostOption {
	return func(h *FileHost) {
		h.spoolDir = dir
	}
}

// WithProgress renders a download progress bar to w.
func WithProgress(w io.Writer) FileHostOption {
	return func(h *FileHost) {
		h.progress = w
	}
}

// NewFileHost creates a host that downloads into downloadDir.
func NewFileHost(downloadDir string, opts ...FileHostOption) *FileHost {
	h := &FileHost{
		downloadDir: downloadDir,
		spoolDir:    filepath.Join(os.TempDir(), "newsflow"),
		handles:     make(map[string]string),
		writeFile:   os.WriteFile,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Acquire writes artifact to a uniquely named spool file.
func (h *FileHost) Acquire(artifact []byte, format model.ExportFormat) (Handle, error) {
	if err := os.MkdirAll(h.spoolDir, 0700); err != nil {
		return Handle{}, fmt.Errorf("failed to create spool directory: %w", err)
	}

	id := uuid.New().String()
	path := filepath.Join(h.spoolDir, fmt.Sprintf("artifact_%s.%s", id, format.Extension()))
	if err := h.writeFile(path, artifact, 0600); err != nil {
		_ = os.Remove(path)
		return Handle{}, fmt.Errorf("failed to write spool file: %w", err)
	}

	h.mu.Lock()
	h.handles[id] = path
	h.mu.Unlock()

	return Handle{ID: id, Format: format, Size: int64(len(artifact))}, nil
}

// Trigger copies the spooled artifact into the download directory. An
// existing file is never overwritten; a numeric suffix is added instead.
func (h *FileHost) Trigger(handle Handle, filename string) (string, error) {
	h.mu.Lock()
	src, ok := h.handles[handle.ID]
	h.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownHandle, handle.ID)
	}

	if err := os.MkdirAll(h.downloadDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	in, err := os.Open(src) //nolint:gosec // spool path is generated by Acquire
	if err != nil {
		return "", fmt.Errorf("failed to open spool file: %w", err)
	}
	defer func() { _ = in.Close() }()

	dest, out, err := createUnique(h.downloadDir, filename)
	if err != nil {
		return "", err
	}

	var w io.Writer = out
	var bar *progressbar.ProgressBar
	if h.progress != nil {
		bar = progressbar.NewOptions64(handle.Size,
			progressbar.OptionSetWriter(h.progress),
			progressbar.OptionSetDescription("Downloading "+filepath.Base(dest)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(30),
		)
		w = io.MultiWriter(out, bar)
	}

	if _, err := io.Copy(w, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return "", fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("failed to close %s: %w", dest, err)
	}
	if bar != nil {
		_ = bar.Finish()
		_, _ = fmt.Fprintln(h.progress)
	}

	return dest, nil
}

// Release removes the spool file.
func (h *FileHost) Release(handle Handle) error {
	h.mu.Lock()
	path, ok := h.handles[handle.ID]
	delete(h.handles, handle.ID)
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, handle.ID)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove spool file: %w", err)
	}
	return nil
}

// Live returns the number of handles not yet released.
func (h *FileHost) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handles)
}

// DownloadDir returns the destination directory.
func (h *FileHost) DownloadDir() string {
	return h.downloadDir
}

func createUnique(dir, filename string) (string, *os.File, error) {
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)

	for i := 0; i < 100; i++ {
		name := filename
		if i > 0 {
			name = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		path := filepath.Join(dir, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600) //nolint:gosec // path is built from a sanitized name
		if err == nil {
			return path, f, nil
		}
		if !os.IsExist(err) {
			return "", nil, fmt.Errorf("failed to create %s: %w", path, err)
		}
	}
	return "", nil, fmt.Errorf("too many existing copies of %s in %s", filename, dir)
}

// Download is one artifact delivered by a MemoryHost.
type Download struct {
	Filename string
	Format   model.ExportFormat
	Data     []byte
}

// MemoryHost keeps artifacts in memory. Triggered downloads are recorded
// and can be read back with Downloads.
type MemoryHost struct {
	handles   map[string][]byte
	downloads []Download
	mu        sync.Mutex
}

// NewMemoryHost creates an empty in-memory host.
func NewMemoryHost() *MemoryHost {
	return &MemoryHost{
		handles: make(map[string][]byte),
	}
}

// Acquire stores a private copy of artifact.
func (h *MemoryHost) Acquire(artifact []byte, format model.ExportFormat) (Handle, error) {
	id := uuid.New().String()
	data := append([]byte(nil), artifact...)

	h.mu.Lock()
	h.handles[id] = data
	h.mu.Unlock()

	return Handle{ID: id, Format: format, Size: int64(len(data))}, nil
}

// Trigger records a download of the handle's artifact.
func (h *MemoryHost) Trigger(handle Handle, filename string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, ok := h.handles[handle.ID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownHandle, handle.ID)
	}
	h.downloads = append(h.downloads, Download{
		Filename: filename,
		Format:   handle.Format,
		Data:     data,
	})
	return "memory://" + filename, nil
}

// Release drops the handle.
func (h *MemoryHost) Release(handle Handle) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.handles[handle.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, handle.ID)
	}
	delete(h.handles, handle.ID)
	return nil
}

// Live returns the number of handles not yet released.
func (h *MemoryHost) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handles)
}

// Downloads returns the recorded downloads in trigger order.
func (h *MemoryHost) Downloads() []Download {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Download(nil), h.downloads...)
}
