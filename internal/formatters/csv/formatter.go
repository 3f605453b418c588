// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"fmt"

	"vin-reconcile/internal/formatters"
	"vin-reconcile/internal/formatters/shared"
	"vin-reconcile/internal/reconcile"

	"github.com/gocarina/gocsv"
)

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated values for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Binary() bool {
	return false
}

func (f *Formatter) Format(result *reconcile.Result, options formatters.FormatterOptions) ([]byte, error) {
	if options.Verbose {
		return f.formatVerbose(result)
	}

	rows := shared.Rows(result)
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("error formatting CSV: %w", err)
	}
	return data, nil
}

// verboseRow adds the details column, which gocsv skips on ReportRow.
type verboseRow struct {
	VIN       string `csv:"VIN"`
	Status    string `csv:"Status"`
	Documents string `csv:"Matching Documents"`
	Duplicate string `csv:"Duplicate in Source"`
	Details   string `csv:"Details"`
}

func (f *Formatter) formatVerbose(result *reconcile.Result) ([]byte, error) {
	base := shared.Rows(result)
	rows := make([]verboseRow, len(base))
	for i, r := range base {
		rows[i] = verboseRow(r)
	}
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("error formatting CSV: %w", err)
	}
	return data, nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
