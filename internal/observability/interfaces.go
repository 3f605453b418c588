// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import "time"

// Step is the tracing helper used by components. It combines the timing
// record of the standard observer with the indented debug trace.
type Step struct {
	observer   *StandardObserver
	component  string
	operation  string
	target     string
	start      time.Time
	finishStep func(bool, string)
}

// Begin starts a step on o. A nil observer yields a no-op step.
func Begin(o *StandardObserver, component, operation, target string) *Step {
	s := &Step{observer: o, component: component, operation: operation, target: target, start: time.Now()}
	if o != nil && o.DebugObserver != nil {
		s.finishStep = o.DebugObserver.StartStep(component, operation, target)
	}
	return s
}

// End completes the step. details doubles as the error message of a failed
// step.
func (s *Step) End(success bool, metadata map[string]interface{}, details string) {
	if s.observer == nil {
		return
	}
	data := StandardObservabilityData{
		Component:  s.component,
		Operation:  s.operation,
		Target:     s.target,
		DurationMs: time.Since(s.start).Milliseconds(),
		Success:    success,
		Metadata:   metadata,
	}
	if !success {
		data.Error = details
	}
	s.observer.LogOperation(data)
	if s.finishStep != nil {
		s.finishStep(success, details)
	}
}
