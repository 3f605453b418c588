// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package reconcile

import "errors"

var (
	// ErrNoDocuments is returned when a run has no document to search.
	ErrNoDocuments = errors.New("at least one document is required")

	// ErrNoVINColumn is recorded as a warning when no reference row reaches
	// the VIN column.
	ErrNoVINColumn = errors.New("reference table has no VIN column; no reference VINs extracted")
)
