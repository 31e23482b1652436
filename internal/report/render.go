// Package report renders result sets into downloadable documents.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/gingfrederik/docx"
	"github.com/go-pdf/fpdf"

	"github.com/Veraticus/newsflow/internal/model"
)

// DefaultTitle heads every report.
const DefaultTitle = "Smart News Report"

// ErrNoItems is returned when there is nothing to render.
var ErrNoItems = errors.New("report has no items")

// Render builds a report document in the requested format.
func Render(format model.ExportFormat, title, subject string, items []model.RecItem) ([]byte, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if title == "" {
		title = DefaultTitle
	}

	switch format {
	case model.ExportFormatPDF, "":
		return renderPDF(title, subject, items)
	case model.ExportFormatDOCX:
		return renderDOCX(title, subject, items)
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

func subtitle(subject string, n int) string {
	if subject == "" {
		return fmt.Sprintf("%d articles", n)
	}
	return fmt.Sprintf("Prepared for %s | %d articles", subject, n)
}

func metadata(item model.RecItem) string {
	return fmt.Sprintf("ID: %s | Score: %s", item.ItemID, item.FormatScore())
}

func renderPDF(title, subject string, items []model.RecItem) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(title, true)
	pdf.SetAuthor("newsflow", true)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 6, tr(subtitle(subject, len(items))), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for i, item := range items {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(20, 20, 20)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", i+1, item.DisplayTitle())), "", "L", false)

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(0, 5, tr(metadata(item)), "", 1, "L", false, 0, "")

		if item.HasReason() {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.SetTextColor(30, 90, 160)
			pdf.MultiCell(0, 5, tr(item.ReasonText()), "", "L", false)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func renderDOCX(title, subject string, items []model.RecItem) ([]byte, error) {
	f := docx.NewFile()

	run := f.AddParagraph().AddText(title)
	run.Size(20)

	run = f.AddParagraph().AddText(subtitle(subject, len(items)))
	run.Size(10)
	run.Color("808080")
	f.AddParagraph()

	for i, item := range items {
		run = f.AddParagraph().AddText(fmt.Sprintf("%d. %s", i+1, item.DisplayTitle()))
		run.Size(14)

		run = f.AddParagraph().AddText(metadata(item))
		run.Size(9)
		run.Color("808080")

		if item.HasReason() {
			run = f.AddParagraph().AddText(item.ReasonText())
			run.Size(9)
			run.Color("1E5AA0")
		}
		f.AddParagraph()
	}

	// The docx writer only saves to a path.
	tmp, err := os.CreateTemp("", "newsflow-report-*.docx")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := tmp.Name()
	_ = tmp.Close()
	defer func() { _ = os.Remove(path) }()

	if err := f.Save(path); err != nil {
		return nil, fmt.Errorf("failed to render docx: %w", err)
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from os.CreateTemp
	if err != nil {
		return nil, fmt.Errorf("failed to read rendered docx: %w", err)
	}
	return data, nil
}
