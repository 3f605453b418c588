// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"fmt"

	"vin-reconcile/internal/reconcile"
)

// Report column headers, shared by every tabular format.
const (
	HeaderVIN       = "VIN"
	HeaderStatus    = "Status"
	HeaderDocuments = "Matching Documents"
	HeaderDuplicate = "Duplicate in Source"
	HeaderDetails   = "Details"
)

// Headers returns the tabular report header, with the details column when
// verbose.
func Headers(verbose bool) []string {
	h := []string{HeaderVIN, HeaderStatus, HeaderDocuments, HeaderDuplicate}
	if verbose {
		h = append(h, HeaderDetails)
	}
	return h
}

// ReportRow is one flattened report line.
type ReportRow struct {
	VIN       string `csv:"VIN"`
	Status    string `csv:"Status"`
	Documents string `csv:"Matching Documents"`
	Duplicate string `csv:"Duplicate in Source"`
	Details   string `csv:"-"`
}

// Cells returns the row as ordered cell values.
func (r ReportRow) Cells(verbose bool) []string {
	c := []string{r.VIN, r.Status, r.Documents, r.Duplicate}
	if verbose {
		c = append(c, r.Details)
	}
	return c
}

// Rows flattens the records of result in report order.
func Rows(result *reconcile.Result) []ReportRow {
	rows := make([]ReportRow, 0, len(result.Records))
	for _, rec := range result.Records {
		rows = append(rows, ReportRow{
			VIN:       rec.VIN,
			Status:    string(rec.Status),
			Documents: rec.DocumentsLabel(),
			Duplicate: rec.Duplicate.String(),
			Details:   Details(rec),
		})
	}
	return rows
}

// Details describes what a record carries beyond the four report columns.
func Details(rec reconcile.Record) string {
	switch {
	case rec.Status == reconcile.StatusInvalid:
		return fmt.Sprintf("source cell %q, %d characters", rec.Raw, rec.Length)
	case rec.Suggestion != "":
		return fmt.Sprintf("possible typo of %s", rec.Suggestion)
	}
	return ""
}

// SummaryLine is one labelled counter of the summary block.
type SummaryLine struct {
	Label string
	Value int
}

// SummaryLines returns the summary counters in display order.
func SummaryLines(s reconcile.Summary) []SummaryLine {
	return []SummaryLine{
		{"Unique reference VINs", s.UniqueReference},
		{"Found in documents", s.Matched},
		{"Found only in documents", s.DocumentOnly},
		{"Not found in documents", s.ReferenceOnly},
		{"Duplicated in source", s.Duplicates},
		{"Invalid format or pattern", s.Invalid},
	}
}
