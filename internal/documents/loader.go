// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package documents turns PDF files into named document texts for the
// reconciliation engine.
package documents

import (
	"context"
	"errors"
	"fmt"

	"vin-reconcile/internal/observability"
	"vin-reconcile/internal/parallel"
	"vin-reconcile/internal/preprocessors/pdftext"
	"vin-reconcile/internal/reconcile"
)

// ExtractFunc returns the text of the document at path, with notes about
// parts of the document that could not be read.
type ExtractFunc func(path string) (text string, warnings []string, err error)

// PDFExtractor returns an ExtractFunc backed by the PDF text layer.
func PDFExtractor(opts pdftext.Options) ExtractFunc {
	return func(path string) (string, []string, error) {
		content, err := pdftext.ExtractText(path, opts)
		if err != nil {
			return "", nil, err
		}
		return content.Text, content.Warnings(), nil
	}
}

// Loader reads documents with a bounded number of workers.
type Loader struct {
	Extract  ExtractFunc
	Workers  int
	Observer *observability.StandardObserver
}

// Load extracts every file and returns the documents in input order, named
// by File.Name. The first unreadable document fails the whole load.
func (l *Loader) Load(ctx context.Context, files []File) ([]reconcile.Document, error) {
	if l.Extract == nil {
		return nil, fmt.Errorf("documents: no extractor configured")
	}

	docs := make([]reconcile.Document, len(files))
	err := parallel.Run(ctx, l.Workers, len(files), func(ctx context.Context, i int) error {
		path := files[i].Path
		step := observability.Begin(l.Observer, "documents", "extract", path)
		text, warnings, err := l.Extract(path)
		if err != nil {
			step.End(false, nil, err.Error())
			return newLoadError(path, err)
		}
		step.End(true, map[string]interface{}{"chars": len(text), "warnings": len(warnings)}, "")
		docs[i] = reconcile.Document{Name: files[i].Name, Text: text, Warnings: warnings}
		return nil
	})
	if err != nil {
		var le *LoadError
		if !errors.As(err, &le) {
			return nil, newLoadError("", err)
		}
		return nil, err
	}
	return docs, nil
}
