// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package xlsx writes the reconciliation report as an Excel workbook.
package xlsx

import (
	"fmt"

	"vin-reconcile/internal/formatters"
	"vin-reconcile/internal/formatters/shared"
	"vin-reconcile/internal/reconcile"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the generated workbook.
const (
	ResultsSheet = "Results"
	SummarySheet = "Summary"
)

// Formatter implements Excel workbook output
type Formatter struct{}

// NewFormatter creates a new workbook formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "xlsx"
}

func (f *Formatter) Description() string {
	return "Excel workbook with a Results sheet and a Summary sheet"
}

func (f *Formatter) FileExtension() string {
	return ".xlsx"
}

func (f *Formatter) Binary() bool {
	return true
}

func (f *Formatter) Format(result *reconcile.Result, options formatters.FormatterOptions) ([]byte, error) {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName(wb.GetSheetName(0), ResultsSheet); err != nil {
		return nil, fmt.Errorf("error creating workbook: %w", err)
	}

	headerStyle, err := wb.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("error creating workbook: %w", err)
	}

	headers := shared.Headers(options.Verbose)
	if err := writeRow(wb, ResultsSheet, 1, headers); err != nil {
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := wb.SetCellStyle(ResultsSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("error styling header: %w", err)
	}

	for i, row := range shared.Rows(result) {
		if err := writeRow(wb, ResultsSheet, i+2, row.Cells(options.Verbose)); err != nil {
			return nil, err
		}
	}

	widths := []float64{22, 28, 50, 20, 40}
	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := wb.SetColWidth(ResultsSheet, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("error sizing columns: %w", err)
		}
	}

	if err := writeSummary(wb, result, headerStyle); err != nil {
		return nil, err
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(wb *excelize.File, result *reconcile.Result, style int) error {
	if _, err := wb.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("error creating summary sheet: %w", err)
	}

	rowNum := 1
	for _, l := range shared.SummaryLines(result.Summary) {
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := wb.SetSheetRow(SummarySheet, cell, &[]interface{}{l.Label, l.Value}); err != nil {
			return fmt.Errorf("error writing summary: %w", err)
		}
		rowNum++
	}

	rowNum++
	meta := [][]interface{}{
		{"Policy", result.Policy},
		{"Run", result.RunID},
	}
	for _, w := range result.Warnings {
		meta = append(meta, []interface{}{"Warning", w})
	}
	for _, m := range meta {
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := wb.SetSheetRow(SummarySheet, cell, &m); err != nil {
			return fmt.Errorf("error writing summary: %w", err)
		}
		rowNum++
	}

	if err := wb.SetColWidth(SummarySheet, "A", "A", 28); err != nil {
		return fmt.Errorf("error sizing columns: %w", err)
	}
	return wb.SetCellStyle(SummarySheet, "A1", fmt.Sprintf("A%d", rowNum), style)
}

func writeRow(wb *excelize.File, sheet string, rowNum int, cells []string) error {
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("error writing row %d: %w", rowNum, err)
	}
	return nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
