// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package documents

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// ErrorKind classifies why a document could not be loaded.
type ErrorKind string

const (
	KindFileAccess       ErrorKind = "file_access"
	KindInvalidFormat    ErrorKind = "invalid_format"
	KindExtractionFailed ErrorKind = "extraction_failed"
	KindCancelled        ErrorKind = "cancelled"
	KindUnknown          ErrorKind = "unknown"
)

// ErrNoDocumentsMatched is returned when the inputs name no PDF at all.
var ErrNoDocumentsMatched = errors.New("no PDF documents matched the given inputs")

// LoadError reports a document that could not be read.
type LoadError struct {
	Path  string
	Kind  ErrorKind
	Cause error
}

// Error implements the error interface
func (e *LoadError) Error() string {
	parts := []string{fmt.Sprintf("cannot read document %s", e.Path), fmt.Sprintf("error=%s", e.Kind)}
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%v", e.Cause))
	}
	return strings.Join(parts, " ")
}

// Unwrap returns the underlying error
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// newLoadError wraps cause for path, classifying it.
func newLoadError(path string, cause error) *LoadError {
	return &LoadError{Path: path, Kind: classify(cause), Cause: cause}
}

func classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCancelled
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return KindFileAccess
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "invalid pdf"), strings.Contains(msg, "malformed"), strings.Contains(msg, "not a pdf"):
		return KindInvalidFormat
	case strings.Contains(msg, "opening pdf"), strings.Contains(msg, "extract"):
		return KindExtractionFailed
	}
	return KindUnknown
}
