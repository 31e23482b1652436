// Package controller holds the view controllers that compose the query
// cache, mutation slots and export pipeline into what a screen displays.
//
// Controllers are safe for concurrent use. Every read recomputes derived
// values from the underlying state; nothing derived is stored.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Veraticus/newsflow/internal/export"
	"github.com/Veraticus/newsflow/internal/model"
)

// ErrNothingToExport is returned when export is triggered on an empty list.
var ErrNothingToExport = export.ErrNothingToExport

// Slot names used in logs.
const (
	SlotSearch    = "search"
	SlotRecommend = "recommend"
	SlotExport    = "export"
)

// Alerter presents a blocking message to the user.
type Alerter interface {
	Alert(title, message string)
}

// AlerterFunc adapts a function to Alerter.
type AlerterFunc func(title, message string)

// Alert calls f.
func (f AlerterFunc) Alert(title, message string) {
	f(title, message)
}

// Exporter runs one export job. *export.Pipeline satisfies it.
type Exporter interface {
	Export(ctx context.Context, job model.ExportJob) (export.Result, error)
}

// ExportFailedTitle is the alert title for failed exports.
const ExportFailedTitle = "Export failed"

// ExportFailedMessage returns the alert text for a failed export.
func ExportFailedMessage(format model.ExportFormat) string {
	return fmt.Sprintf("Failed to export %s. Please try again.", strings.ToUpper(format.Extension()))
}

// alertExportFailure reports err unless it is a gating error the caller
// should have prevented.
func alertExportFailure(alerter Alerter, logger *slog.Logger, format model.ExportFormat, err error) {
	if errors.Is(err, ErrNothingToExport) {
		return
	}
	logger.Error("Export failed", "slot", SlotExport, "error", err)
	if alerter != nil {
		alerter.Alert(ExportFailedTitle, ExportFailedMessage(format))
	}
}

// listeners is a set of change callbacks.
type listeners struct {
	fns    map[uint64]func()
	nextID uint64
	mu     sync.Mutex
}

func (l *listeners) add(fn func()) func() {
	l.mu.Lock()
	if l.fns == nil {
		l.fns = make(map[uint64]func())
	}
	l.nextID++
	id := l.nextID
	l.fns[id] = fn
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.fns, id)
			l.mu.Unlock()
		})
	}
}

func (l *listeners) notify() {
	l.mu.Lock()
	fns := make([]func(), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// combine returns a function that calls every cancel func once.
func combine(cancels ...func()) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			for _, cancel := range cancels {
				cancel()
			}
		})
	}
}
