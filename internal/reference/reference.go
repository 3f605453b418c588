// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package reference reads the reference table of declared VINs from a
// spreadsheet.
package reference

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"vin-reconcile/internal/reconcile"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for reference files that are neither
// workbooks nor CSV.
var ErrUnsupportedFormat = errors.New("unsupported reference table format")

// Options select what part of the file holds the VINs.
type Options struct {
	// Sheet names the worksheet to read. Empty means the first sheet.
	Sheet string
	// VINColumn is the zero-based column index. Negative means the default.
	VINColumn int
}

// DefaultOptions reads the first sheet and the second column.
func DefaultOptions() Options {
	return Options{VINColumn: reconcile.DefaultVINColumn}
}

// ReadTable reads path according to its extension.
func ReadTable(path string, opts Options) (reconcile.ReferenceTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return ReadWorkbook(path, opts)
	case ".csv":
		return ReadCSV(path, opts)
	}
	return reconcile.ReferenceTable{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
}

// ReadWorkbook reads one worksheet of an Office Open XML workbook.
func ReadWorkbook(path string, opts Options) (reconcile.ReferenceTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return reconcile.ReferenceTable{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return reconcile.ReferenceTable{}, fmt.Errorf("sheet %q not found in %s (sheets: %s)",
			sheet, filepath.Base(path), strings.Join(f.GetSheetList(), ", "))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return reconcile.ReferenceTable{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	return table(path, rows, opts), nil
}

// ReadCSV reads a comma-separated reference table. Rows may have differing
// widths.
func ReadCSV(path string, opts Options) (reconcile.ReferenceTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return reconcile.ReferenceTable{}, fmt.Errorf("failed to open CSV: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return reconcile.ReferenceTable{}, fmt.Errorf("failed to parse CSV: %w", err)
		}
		rows = append(rows, rec)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}

	return table(path, rows, opts), nil
}

func table(path string, rows [][]string, opts Options) reconcile.ReferenceTable {
	t := reconcile.NewReferenceTable(filepath.Base(path), rows)
	if opts.VINColumn >= 0 {
		t.VINColumn = opts.VINColumn
	}
	return t
}
