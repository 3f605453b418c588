// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"fmt"
	"strings"
	"time"
)

// DebugObserver provides detailed step-by-step debugging
type DebugObserver struct {
	parent *StandardObserver
	indent int
}

func newDebugObserver(parent *StandardObserver) *DebugObserver {
	return &DebugObserver{parent: parent}
}

// StartStep begins a processing step with indentation
func (d *DebugObserver) StartStep(component, step, target string) func(success bool, details string) {
	start := time.Now()

	d.parent.mu.Lock()
	fmt.Fprintf(d.parent.writer, "%s> %s: %s (%s)\n", strings.Repeat("  ", d.indent), component, step, target)
	d.indent++
	d.parent.mu.Unlock()

	return func(success bool, details string) {
		d.parent.mu.Lock()
		defer d.parent.mu.Unlock()

		d.indent--
		state := "completed"
		if !success {
			state = "failed"
		}
		fmt.Fprintf(d.parent.writer, "%s< %s: %s %s (%dms) %s\n",
			strings.Repeat("  ", d.indent), component, step, state, time.Since(start).Milliseconds(), details)
	}
}

// LogDetail logs a detail within the current step
func (d *DebugObserver) LogDetail(component, detail string) {
	d.parent.mu.Lock()
	defer d.parent.mu.Unlock()
	fmt.Fprintf(d.parent.writer, "%s   - %s: %s\n", strings.Repeat("  ", d.indent), component, detail)
}

// LogMetric logs a metric value
func (d *DebugObserver) LogMetric(component, metric string, value interface{}) {
	d.parent.mu.Lock()
	defer d.parent.mu.Unlock()
	fmt.Fprintf(d.parent.writer, "%s   # %s: %s = %v\n", strings.Repeat("  ", d.indent), component, metric, value)
}
