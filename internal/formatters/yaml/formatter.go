// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"fmt"

	"vin-reconcile/internal/formatters"
	"vin-reconcile/internal/reconcile"

	"gopkg.in/yaml.v3"
)

// Formatter implements YAML output formatting
type Formatter struct{}

// NewFormatter creates a new YAML formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "yaml"
}

func (f *Formatter) Description() string {
	return "YAML format output, same structure as JSON"
}

func (f *Formatter) FileExtension() string {
	return ".yaml"
}

func (f *Formatter) Binary() bool {
	return false
}

func (f *Formatter) Format(result *reconcile.Result, options formatters.FormatterOptions) ([]byte, error) {
	out := *result
	if !options.Verbose {
		out.Records = make([]reconcile.Record, len(result.Records))
		for i, rec := range result.Records {
			rec.Suggestion = ""
			out.Records[i] = rec
		}
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("error formatting YAML: %w", err)
	}
	return data, nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
