// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package pdftext extracts the text layer of PDF documents.
package pdftext

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Options control extraction.
type Options struct {
	// MaxPages limits the pages read per document. Zero reads every page.
	MaxPages int
	// Validate runs a structural pdfcpu validation before extraction.
	Validate bool
}

// TextContent is the text extracted from one PDF.
type TextContent struct {
	Filename  string
	Text      string
	PageCount int
	// PagesRead is the number of pages visited, PageCount unless truncated.
	PagesRead int
	Truncated bool
	// FailedPages counts pages whose content stream could not be read.
	FailedPages int
}

// Warnings describes the pages whose text is missing from Text.
func (c *TextContent) Warnings() []string {
	var warnings []string
	if c.FailedPages > 0 {
		warnings = append(warnings, fmt.Sprintf("%d of %d pages could not be read", c.FailedPages, c.PagesRead))
	}
	if c.Truncated {
		warnings = append(warnings, fmt.Sprintf("only the first %d of %d pages were read", c.PagesRead, c.PageCount))
	}
	return warnings
}

// Validate checks the structure of the PDF at path with pdfcpu.
func Validate(path string) error {
	if err := api.ValidateFile(path, model.NewDefaultConfiguration()); err != nil {
		return fmt.Errorf("invalid PDF %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ExtractText reads every page of the PDF at path (up to the page limit) and
// any AcroForm field values.
func ExtractText(path string, opts Options) (content *TextContent, err error) {
	content = &TextContent{Filename: filepath.Base(path)}

	// The PDF reader panics on objects it cannot parse.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF %s: %v", content.Filename, r)
		}
	}()

	if opts.Validate {
		if err := Validate(path); err != nil {
			return content, err
		}
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return content, fmt.Errorf("error opening PDF: %w", err)
	}
	defer f.Close()

	content.PageCount = r.NumPage()
	content.PagesRead = content.PageCount
	if opts.MaxPages > 0 && content.PageCount > opts.MaxPages {
		content.PagesRead = opts.MaxPages
		content.Truncated = true
	}

	// Pages are separated by a bare newline so no marker text can merge with a
	// token at a page boundary.
	var buf bytes.Buffer
	for i := 1; i <= content.PagesRead; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			content.FailedPages++
			continue
		}
		text, err := pageText(p)
		if err != nil {
			content.FailedPages++
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(text)
	}

	if formData := extractFormData(r); formData != "" {
		buf.WriteString("\n")
		buf.WriteString(formData)
	}

	content.Text = cleanText(buf.String())
	return content, nil
}

// extractFormData returns "name: value" lines for filled AcroForm fields.
func extractFormData(r *pdf.Reader) string {
	root := r.Trailer().Key("Root")
	if root.IsNull() {
		return ""
	}
	fields := root.Key("AcroForm").Key("Fields")
	if fields.IsNull() || fields.Kind() != pdf.Array {
		return ""
	}

	var buf bytes.Buffer
	for i := 0; i < fields.Len(); i++ {
		name, value := fieldNameValue(fields.Index(i))
		if name != "" && value != "" {
			fmt.Fprintf(&buf, "%s: %s\n", name, value)
		}
	}
	return buf.String()
}

func fieldNameValue(field pdf.Value) (string, string) {
	if field.Kind() != pdf.Dict {
		return "", ""
	}

	var name string
	if t := field.Key("T"); t.Kind() == pdf.String {
		name = t.Text()
	}

	value := valueText(field.Key("V"))
	if value == "" {
		value = valueText(field.Key("DV"))
	}
	return name, value
}

func valueText(v pdf.Value) string {
	switch v.Kind() {
	case pdf.String:
		return v.Text()
	case pdf.Name:
		return v.Name()
	}
	return ""
}

// pageText extracts a page row by row, falling back to plain text when the
// row layout cannot be computed. GetTextByRow returns no rows and no error
// when the content stream is broken, so an empty result for a page that has
// content is retried with GetPlainText, which does report the failure.
func pageText(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil || (len(rows) == 0 && p.V.Key("Contents").Kind() != pdf.Null) {
		return p.GetPlainText(nil)
	}

	sorted := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sorted = append(sorted, row)
		}
	}
	// PDF Y grows upwards; higher rows come first.
	sort.SliceStable(sorted, func(i, j int) bool {
		return averageY(sorted[i].Content) > averageY(sorted[j].Content)
	})

	var buf bytes.Buffer
	for _, row := range sorted {
		if text := rowText(row.Content); strings.TrimSpace(text) != "" {
			buf.WriteString(text)
			buf.WriteString("\n")
		}
	}
	return buf.String(), nil
}

func averageY(texts []pdf.Text) float64 {
	if len(texts) == 0 {
		return 0
	}
	var total float64
	for _, t := range texts {
		total += t.Y
	}
	return total / float64(len(texts))
}

// rowText joins the glyph runs of a row left to right, inserting a space
// where the horizontal gap exceeds a fifth of the font size.
func rowText(texts []pdf.Text) string {
	if len(texts) == 0 {
		return ""
	}

	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var buf bytes.Buffer
	for i, t := range sorted {
		buf.WriteString(t.S)
		if i == len(sorted)-1 {
			break
		}
		fontSize := t.FontSize
		if fontSize <= 0 {
			fontSize = 12
		}
		if gap := sorted[i+1].X - (t.X + t.W); gap > fontSize*0.2 {
			buf.WriteString(" ")
		}
	}
	return buf.String()
}

// cleanText trims every line, drops empty ones and turns tabs into spaces.
func cleanText(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\t", " "), "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
