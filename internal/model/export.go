package model

import (
	"fmt"
	"strings"
)

// ExportFormat is the artifact type an export produces.
type ExportFormat string

const (
	// ExportFormatPDF is the default report format.
	ExportFormatPDF ExportFormat = "pdf"
	// ExportFormatDOCX renders a Word document.
	ExportFormatDOCX ExportFormat = "docx"
)

// ParseExportFormat converts user input into a format.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case ExportFormatPDF, ExportFormatDOCX:
		return f, nil
	case "":
		return ExportFormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// Extension returns the file extension without the dot.
func (f ExportFormat) Extension() string {
	if f == "" {
		return string(ExportFormatPDF)
	}
	return string(f)
}

// ContentType returns the MIME type of the artifact.
func (f ExportFormat) ContentType() string {
	if f == ExportFormatDOCX {
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/pdf"
}

// ExportJob is consumed exactly once by the export pipeline.
// Variant is empty for exports that are not personalized.
type ExportJob struct {
	SubjectID string
	Variant   ModelVariant
	Format    ExportFormat
	Items     []RecItem
}

// Personalized reports whether the job came from a recommendation run.
func (j ExportJob) Personalized() bool {
	return j.Variant != ""
}
