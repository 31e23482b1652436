package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/Veraticus/newsflow/internal/model"
)

// ColorsEnabled reports whether colored output should be used. NO_COLOR
// and a dumb terminal turn it off.
func ColorsEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// Printer writes command results to out and messages to errOut.
type Printer struct {
	out       io.Writer
	errOut    io.Writer
	useColors bool
}

// NewPrinter creates a printer. Nil writers default to stdout and stderr.
func NewPrinter(out, errOut io.Writer, useColors bool) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Printer{out: out, errOut: errOut, useColors: useColors}
}

// Out returns the result writer.
func (p *Printer) Out() io.Writer {
	return p.out
}

// Info prints an informational message to the message stream.
func (p *Printer) Info(format string, args ...any) {
	p.print(p.errOut, color.FgCyan, "", format, args...)
}

// Success prints a success message to the message stream.
func (p *Printer) Success(format string, args ...any) {
	p.print(p.errOut, color.FgGreen, SuccessIcon+" ", format, args...)
}

// Warning prints a warning to the message stream.
func (p *Printer) Warning(format string, args ...any) {
	p.print(p.errOut, color.FgYellow, "! ", format, args...)
}

// Error prints an error to the message stream.
func (p *Printer) Error(format string, args ...any) {
	p.print(p.errOut, color.FgRed, ErrorIcon+" ", format, args...)
}

// Alert presents a blocking alert. In a terminal session that means
// printing it prominently on the message stream.
func (p *Printer) Alert(title, message string) {
	if p.useColors {
		color.New(color.FgRed, color.Bold).Fprintf(p.errOut, "%s %s\n", ErrorIcon, title)
		color.New(color.FgRed).Fprintf(p.errOut, "  %s\n", message)
		return
	}
	fmt.Fprintf(p.errOut, "[ALERT] %s: %s\n", title, message)
}

// Items prints a ranked article table. An empty list prints emptyTitle
// and emptyMessage instead.
func (p *Printer) Items(title string, items []model.RecItem, emptyTitle, emptyMessage string) {
	if title != "" {
		p.heading(title)
	}
	if len(items) == 0 {
		p.print(p.out, color.FgHiBlack, "", "%s. %s", emptyTitle, emptyMessage)
		return
	}

	table := newTable(p.out)
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			item.ItemID,
			item.DisplayTitle(),
			item.FormatScore(),
			item.ReasonText(),
		})
	}
	table.Header([]string{"#", "ID", "Title", "Score", "Reason"})
	if err := table.Bulk(rows); err != nil {
		p.Error("render table: %v", err)
		return
	}
	if err := table.Render(); err != nil {
		p.Error("render table: %v", err)
	}
}

// List prints one value per line under title.
func (p *Printer) List(title string, values []string) {
	if title != "" {
		p.heading(title)
	}
	for _, v := range values {
		fmt.Fprintln(p.out, v)
	}
}

func (p *Printer) heading(title string) {
	if p.useColors {
		color.New(color.Bold).Fprintln(p.out, title)
		return
	}
	fmt.Fprintln(p.out, title)
}

func (p *Printer) print(w io.Writer, attr color.Attribute, prefix, format string, args ...any) {
	if p.useColors {
		color.New(attr).Fprintf(w, prefix+format+"\n", args...)
		return
	}
	fmt.Fprintf(w, prefix+format+"\n", args...)
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)
}
