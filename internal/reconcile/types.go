// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package reconcile

import "strings"

// NotApplicable is the sentinel shown for fields that do not apply to a record.
const NotApplicable = "N/A"

// DefaultVINColumn is the zero-based column that holds VINs in a reference table.
const DefaultVINColumn = 1

// ReferenceTable is the spreadsheet listing the expected VINs, as ordered rows
// of cell text. The first row may be a header; it is detected, not flagged.
// VINColumn is zero-based.
type ReferenceTable struct {
	Name      string
	Rows      [][]string
	VINColumn int
}

// NewReferenceTable returns a table reading VINs from DefaultVINColumn.
func NewReferenceTable(name string, rows [][]string) ReferenceTable {
	return ReferenceTable{Name: name, Rows: rows, VINColumn: DefaultVINColumn}
}

// Document is the extracted text of one PDF, keyed by its name. Warnings
// name parts of the document whose text could not be extracted.
type Document struct {
	Name     string
	Text     string
	Warnings []string
}

// Input is everything one run reconciles.
type Input struct {
	Reference ReferenceTable
	Documents []Document
}

// Status classifies one output record.
type Status string

const (
	StatusFound        Status = "Found in documents"
	StatusNotFound     Status = "Not found"
	StatusDocumentOnly Status = "Found only in documents"
	StatusInvalid      Status = "Invalid format or pattern"
)

// Duplicate tells whether a VIN occurred more than once in the reference table.
type Duplicate int

const (
	DuplicateNotApplicable Duplicate = iota
	DuplicateNo
	DuplicateYes
)

func (d Duplicate) String() string {
	switch d {
	case DuplicateYes:
		return "Yes"
	case DuplicateNo:
		return "No"
	default:
		return NotApplicable
	}
}

// MarshalText renders the flag the way reports show it.
func (d Duplicate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Record is one row of the reconciliation report.
type Record struct {
	VIN       string    `json:"vin" yaml:"vin"`
	Status    Status    `json:"status" yaml:"status"`
	Documents []string  `json:"documents,omitempty" yaml:"documents,omitempty"`
	Duplicate Duplicate `json:"duplicate" yaml:"duplicate"`

	// Raw is the reference cell as read, set for invalid entries.
	Raw string `json:"raw,omitempty" yaml:"raw,omitempty"`
	// Length is the normalized length of an invalid entry.
	Length int `json:"length,omitempty" yaml:"length,omitempty"`
	// Suggestion is a document-only VIN close enough to a reference-only VIN
	// to be a likely typo of it.
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// DocumentsLabel joins the matching document names, or returns NotApplicable.
func (r Record) DocumentsLabel() string {
	if len(r.Documents) == 0 {
		return NotApplicable
	}
	return strings.Join(r.Documents, ", ")
}

// Summary holds the counters shown above the report table.
type Summary struct {
	UniqueReference int `json:"unique_reference" yaml:"unique_reference"`
	Matched         int `json:"matched" yaml:"matched"`
	ReferenceOnly   int `json:"reference_only" yaml:"reference_only"`
	DocumentOnly    int `json:"document_only" yaml:"document_only"`
	Duplicates      int `json:"duplicates" yaml:"duplicates"`
	Invalid         int `json:"invalid" yaml:"invalid"`
}

// Result is the outcome of one run.
type Result struct {
	RunID     string   `json:"run_id" yaml:"run_id"`
	Policy    string   `json:"policy" yaml:"policy"`
	Documents []string `json:"documents" yaml:"documents"`
	Records   []Record `json:"records" yaml:"records"`
	Summary   Summary  `json:"summary" yaml:"summary"`
	Warnings  []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}
