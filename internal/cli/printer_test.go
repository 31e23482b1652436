package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/newsflow/internal/model"
)

func newTestPrinter() (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewPrinter(&out, &errOut, false), &out, &errOut
}

func TestPrinter_Items(t *testing.T) {
	p, out, _ := newTestPrinter()

	p.Items("Trending Stories", []model.RecItem{
		{ItemID: "n101", Title: model.StringPtr("Underdogs clinch the championship"), Score: 0.97, Reason: model.StringPtr("Trending")},
		{ItemID: "n102", Score: 0.5},
	}, "No trending articles", "Check back later.")

	got := out.String()
	lines := strings.Split(strings.TrimSpace(got), "\n")
	assert.Equal(t, "Trending Stories", lines[0])
	assert.Contains(t, got, "SCORE")
	assert.Contains(t, got, "n101")
	assert.Contains(t, got, "Underdogs clinch the championship")
	assert.Contains(t, got, "0.970")
	assert.Contains(t, got, "Untitled Article")
	assert.Less(t, strings.Index(got, "n101"), strings.Index(got, "n102"))
}

func TestPrinter_ItemsEmpty(t *testing.T) {
	p, out, _ := newTestPrinter()

	p.Items("Search Results", nil, "No articles found", "Try different keywords.")

	assert.Equal(t, "Search Results\nNo articles found. Try different keywords.\n", out.String())
}

func TestPrinter_Messages(t *testing.T) {
	tests := []struct {
		name  string
		print func(p *Printer)
		want  string
	}{
		{name: "info", print: func(p *Printer) { p.Info("loading %d", 3) }, want: "loading 3\n"},
		{name: "success", print: func(p *Printer) { p.Success("saved %s", "a.pdf") }, want: "✓ saved a.pdf\n"},
		{name: "warning", print: func(p *Printer) { p.Warning("slow") }, want: "! slow\n"},
		{name: "error", print: func(p *Printer) { p.Error("boom") }, want: "✗ boom\n"},
		{name: "alert", print: func(p *Printer) { p.Alert("Export failed", "Failed to export PDF. Please try again.") }, want: "[ALERT] Export failed: Failed to export PDF. Please try again.\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, out, errOut := newTestPrinter()
			tt.print(p)
			assert.Equal(t, tt.want, errOut.String())
			assert.Empty(t, out.String())
		})
	}
}

func TestPrinter_List(t *testing.T) {
	p, out, _ := newTestPrinter()

	p.List("Categories", []string{"health", "sports"})

	assert.Equal(t, "Categories\nhealth\nsports\n", out.String())
}

func TestColorsEnabled(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	t.Setenv("NO_COLOR", "1")
	assert.False(t, ColorsEnabled())
}

func TestFormatHelpers(t *testing.T) {
	assert.Contains(t, FormatSuccess("done"), "✓ done")
	assert.Contains(t, FormatError("bad"), "✗ bad")
	assert.Contains(t, FormatTitle("Smart News"), "📰 Smart News")
}
