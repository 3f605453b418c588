// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"encoding/json"
	"io"
	"sync"
)

// StandardObserver records timed operations of a reconciliation run
type StandardObserver struct {
	level         ObservabilityLevel
	writer        io.Writer
	mu            sync.Mutex
	runID         string
	DebugObserver *DebugObserver // Reference to debug observer when in debug mode
}

type ObservabilityLevel int

const (
	ObservabilityOff     ObservabilityLevel = 0
	ObservabilityMetrics ObservabilityLevel = 1
	ObservabilityDebug   ObservabilityLevel = 2
)

// NewStandardObserver creates observability component
func NewStandardObserver(level ObservabilityLevel, writer io.Writer) *StandardObserver {
	o := &StandardObserver{
		level:  level,
		writer: writer,
	}
	if level == ObservabilityDebug {
		o.DebugObserver = newDebugObserver(o)
	}
	return o
}

// Level returns the configured level
func (o *StandardObserver) Level() ObservabilityLevel {
	return o.level
}

// SetRunID tags every following record with the given run identifier
func (o *StandardObserver) SetRunID(id string) {
	o.mu.Lock()
	o.runID = id
	o.mu.Unlock()
}

// LogOperation logs operation data
func (o *StandardObserver) LogOperation(data StandardObservabilityData) {
	if o.level == ObservabilityOff {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	data.RunID = o.runID

	if o.level == ObservabilityDebug || !data.Success {
		json.NewEncoder(o.writer).Encode(data)
	}
}

// StandardObservabilityData for all components
type StandardObservabilityData struct {
	Component  string                 `json:"component"`
	Operation  string                 `json:"operation"`
	RunID      string                 `json:"run_id,omitempty"`
	Target     string                 `json:"target,omitempty"`
	DurationMs int64                  `json:"duration_ms"`
	Success    bool                   `json:"success"`
	Error      string                 `json:"error,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}
