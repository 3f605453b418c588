// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"vin-reconcile/internal/formatters"
	"vin-reconcile/internal/formatters/shared"
	"vin-reconcile/internal/reconcile"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	ptext "github.com/jedib0t/go-pretty/v6/text"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[reconcile.Status]*color.Color
	bold   *color.Color
	warn   *color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[reconcile.Status]*color.Color{
			reconcile.StatusFound:        color.New(color.FgGreen),
			reconcile.StatusNotFound:     color.New(color.FgRed),
			reconcile.StatusDocumentOnly: color.New(color.FgCyan),
			reconcile.StatusInvalid:      color.New(color.FgYellow),
		},
		bold: color.New(color.FgWhite, color.Bold),
		warn: color.New(color.FgYellow),
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable summary and table with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Binary() bool {
	return false
}

func (f *Formatter) Format(result *reconcile.Result, options formatters.FormatterOptions) ([]byte, error) {
	var b strings.Builder

	title := "VIN reconciliation"
	if !options.NoColor {
		title = f.bold.Sprint(title)
	}
	b.WriteString(title)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Policy: %s\n", result.Policy)
	fmt.Fprintf(&b, "Documents (%d): %s\n", len(result.Documents), strings.Join(result.Documents, ", "))
	if options.Verbose {
		fmt.Fprintf(&b, "Run: %s\n", result.RunID)
	}
	b.WriteString("\n")

	f.appendSummary(&b, result.Summary)
	b.WriteString("\n")

	if len(result.Records) == 0 {
		b.WriteString("No VINs found in the reference table or the documents.\n")
	} else {
		b.WriteString(f.renderTable(result, options))
		b.WriteString("\n")
	}

	if len(result.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range result.Warnings {
			line := "Warning: " + w
			if !options.NoColor {
				line = f.warn.Sprint(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return []byte(b.String()), nil
}

func (f *Formatter) appendSummary(b *strings.Builder, s reconcile.Summary) {
	lines := shared.SummaryLines(s)
	width := 0
	for _, l := range lines {
		if len(l.Label) > width {
			width = len(l.Label)
		}
	}
	for _, l := range lines {
		fmt.Fprintf(b, "  %-*s : %d\n", width, l.Label, l.Value)
	}
}

func (f *Formatter) renderTable(result *reconcile.Result, options formatters.FormatterOptions) string {
	headers := shared.Headers(options.Verbose)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = ptext.FormatDefault

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for i, row := range shared.Rows(result) {
		cells := row.Cells(options.Verbose)
		r := make(table.Row, len(cells))
		for j, c := range cells {
			r[j] = c
		}
		if !options.NoColor {
			if c, ok := f.colors[result.Records[i].Status]; ok {
				r[1] = c.Sprint(cells[1])
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, len(headers))
	for i := range headers {
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       ptext.AlignLeft,
			AlignHeader: ptext.AlignLeft,
		}
	}
	// Long document lists wrap instead of widening the table.
	configs[2].WidthMax = 60
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
