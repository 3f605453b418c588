// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"fmt"

	"vin-reconcile/internal/formatters"
	"vin-reconcile/internal/reconcile"
)

// Formatter implements JSON output formatting
type Formatter struct{}

// NewFormatter creates a new JSON formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "JSON document with records, summary and warnings"
}

func (f *Formatter) FileExtension() string {
	return ".json"
}

func (f *Formatter) Binary() bool {
	return false
}

func (f *Formatter) Format(result *reconcile.Result, options formatters.FormatterOptions) ([]byte, error) {
	out := *result
	if !options.Verbose {
		out.Records = withoutSuggestions(result.Records)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error formatting JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// withoutSuggestions copies records, dropping the verbose-only hint.
func withoutSuggestions(records []reconcile.Record) []reconcile.Record {
	out := make([]reconcile.Record, len(records))
	for i, rec := range records {
		rec.Suggestion = ""
		out[i] = rec
	}
	return out
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
