// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package reconcile compares the VINs of a reference table with the VINs found
// in a set of document texts and classifies every VIN it sees.
package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"vin-reconcile/internal/observability"
	"vin-reconcile/internal/parallel"
	"vin-reconcile/internal/policy"
	"vin-reconcile/internal/vin"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// DocumentOnlyCheck selects the filter applied to raw tokens scanned out of
// document text.
type DocumentOnlyCheck string

const (
	// CheckValidator applies the run's format and prefix validator.
	CheckValidator DocumentOnlyCheck = "validator"
	// CheckPlausibility applies the looser plausibility heuristic.
	CheckPlausibility DocumentOnlyCheck = "plausibility"
)

// MatchStrategy selects how reference VINs are searched in documents.
type MatchStrategy string

const (
	// MatchRegex runs one whitespace-tolerant pattern per VIN and document.
	MatchRegex MatchStrategy = "regex"
	// MatchIndexed searches all VINs at once per document.
	MatchIndexed MatchStrategy = "indexed"
)

// maxSuggestionDistance is the largest edit distance reported as a likely typo.
const maxSuggestionDistance = 2

// Options configure an Engine. The zero value is a valid, format-only,
// sequential configuration.
type Options struct {
	Policy       policy.Policy
	DocumentOnly DocumentOnlyCheck
	Matcher      MatchStrategy
	Workers      int
	Suggest      bool
	Observer     *observability.StandardObserver
}

// ParseDocumentOnlyCheck maps a configuration value to a DocumentOnlyCheck.
func ParseDocumentOnlyCheck(s string) (DocumentOnlyCheck, error) {
	switch DocumentOnlyCheck(strings.ToLower(strings.TrimSpace(s))) {
	case "", CheckValidator:
		return CheckValidator, nil
	case CheckPlausibility:
		return CheckPlausibility, nil
	}
	return "", fmt.Errorf("unknown document-only check %q (want %s or %s)", s, CheckValidator, CheckPlausibility)
}

// ParseMatchStrategy maps a configuration value to a MatchStrategy.
func ParseMatchStrategy(s string) (MatchStrategy, error) {
	switch MatchStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchRegex:
		return MatchRegex, nil
	case MatchIndexed:
		return MatchIndexed, nil
	}
	return "", fmt.Errorf("unknown matcher %q (want %s or %s)", s, MatchRegex, MatchIndexed)
}

// Engine runs reconciliations. It keeps no state between runs and is safe
// for concurrent use.
type Engine struct {
	opts Options
}

// NewEngine returns an engine for opts.
func NewEngine(opts Options) *Engine {
	if opts.DocumentOnly == "" {
		opts.DocumentOnly = CheckValidator
	}
	if opts.Matcher == "" {
		opts.Matcher = MatchRegex
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Engine{opts: opts}
}

// reference is the classified content of a reference table.
type reference struct {
	counts  map[string]int
	unique  []string // ascending
	invalid []Record // input order
}

// Run reconciles in. Recoverable conditions end up in the result; only a
// missing document set or cancellation fails the run.
func (e *Engine) Run(ctx context.Context, in Input) (*Result, error) {
	if len(in.Documents) == 0 {
		return nil, ErrNoDocuments
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Policy:    e.opts.Policy.String(),
		Documents: make([]string, len(in.Documents)),
	}
	docs := make([]Document, len(in.Documents))
	for i, d := range in.Documents {
		result.Documents[i] = d.Name
		docs[i] = Document{Name: d.Name, Text: vin.NormalizeDocumentText(d.Text)}
		for _, w := range d.Warnings {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s", d.Name, w))
		}
	}
	if e.opts.Observer != nil {
		e.opts.Observer.SetRunID(result.RunID)
	}

	run := observability.Begin(e.opts.Observer, "reconcile", "run", in.Reference.Name)

	step := observability.Begin(e.opts.Observer, "reconcile", "parse_reference", in.Reference.Name)
	ref, validator, warnings := e.classifyReference(in.Reference)
	result.Warnings = append(result.Warnings, warnings...)
	step.End(true, map[string]interface{}{
		"unique":  len(ref.unique),
		"invalid": len(ref.invalid),
	}, fmt.Sprintf("%d unique, %d invalid", len(ref.unique), len(ref.invalid)))

	if err := ctx.Err(); err != nil {
		run.End(false, nil, err.Error())
		return nil, err
	}

	step = observability.Begin(e.opts.Observer, "reconcile", "match_reference", string(e.opts.Matcher))
	found, err := e.match(ctx, ref.unique, docs)
	if err != nil {
		step.End(false, nil, err.Error())
		run.End(false, nil, err.Error())
		return nil, err
	}
	step.End(true, map[string]interface{}{"vins": len(ref.unique), "documents": len(docs)}, "")

	step = observability.Begin(e.opts.Observer, "reconcile", "scan_documents", string(e.opts.DocumentOnly))
	documentOnly := e.scanDocumentOnly(docs, ref.counts, validator)
	step.End(true, map[string]interface{}{"document_only": len(documentOnly)}, "")

	if err := ctx.Err(); err != nil {
		run.End(false, nil, err.Error())
		return nil, err
	}

	step = observability.Begin(e.opts.Observer, "reconcile", "assemble", "")
	e.assemble(result, ref, found, documentOnly)
	step.End(true, map[string]interface{}{"records": len(result.Records)}, "")

	run.End(true, map[string]interface{}{
		"matched":        result.Summary.Matched,
		"reference_only": result.Summary.ReferenceOnly,
		"document_only":  result.Summary.DocumentOnly,
	}, "")

	return result, nil
}

// classifyReference skips the header row, normalizes every VIN cell and
// splits the values into valid (counted) and invalid (kept in input order).
func (e *Engine) classifyReference(table ReferenceTable) (reference, policy.Validator, []string) {
	var warnings []string
	ref := reference{counts: make(map[string]int)}

	col := table.VINColumn
	if col < 0 {
		col = DefaultVINColumn
	}

	width := 0
	for _, row := range table.Rows {
		if len(row) > width {
			width = len(row)
		}
	}

	type entry struct {
		raw        string
		normalized string
	}
	var entries []entry

	if width > col {
		start := 0
		if len(table.Rows) > 0 && !vin.IsWellFormed(vin.Normalize(cell(table.Rows[0], col))) {
			start = 1
		}
		for _, row := range table.Rows[start:] {
			raw := cell(row, col)
			if n := vin.Normalize(raw); n != "" {
				entries = append(entries, entry{raw: raw, normalized: n})
			}
		}
	} else if len(table.Rows) > 0 {
		warnings = append(warnings, ErrNoVINColumn.Error())
	}

	normalized := make([]string, len(entries))
	for i, en := range entries {
		normalized[i] = en.normalized
	}

	// The only error is policy.ErrEmptyPrefixSet, which degrades to
	// format-only validation.
	validator, err := e.opts.Policy.Validator(normalized)
	if err != nil {
		warnings = append(warnings, err.Error())
	}

	for _, en := range entries {
		if !validator.IsValid(en.normalized) {
			ref.invalid = append(ref.invalid, Record{
				VIN:       en.normalized,
				Status:    StatusInvalid,
				Duplicate: DuplicateNotApplicable,
				Raw:       en.raw,
				Length:    len(en.normalized),
			})
			continue
		}
		if ref.counts[en.normalized] == 0 {
			ref.unique = append(ref.unique, en.normalized)
		}
		ref.counts[en.normalized]++
	}
	sort.Strings(ref.unique)

	return ref, validator, warnings
}

func cell(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}

// match returns, for every VIN of vins, the names of the documents it occurs
// in, in document order.
func (e *Engine) match(ctx context.Context, vins []string, docs []Document) ([][]string, error) {
	found := make([][]string, len(vins))
	if len(vins) == 0 {
		return found, nil
	}

	if e.opts.Matcher == MatchIndexed {
		idx := vin.NewIndex(vins)
		pos := make(map[string]int, len(vins))
		for i, v := range vins {
			pos[v] = i
		}
		for _, d := range docs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			for _, v := range idx.Find(d.Text) {
				found[pos[v]] = append(found[pos[v]], d.Name)
			}
		}
		return found, nil
	}

	err := parallel.Run(ctx, e.opts.Workers, len(vins), func(ctx context.Context, i int) error {
		m := vin.NewMatcher(vins[i])
		for _, d := range docs {
			if m.In(d.Text) {
				found[i] = append(found[i], d.Name)
			}
		}
		return ctx.Err()
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// scanDocumentOnly enumerates candidate tokens in the despaced concatenation
// of all documents and keeps the accepted ones absent from the reference set.
func (e *Engine) scanDocumentOnly(docs []Document, referenced map[string]int, validator policy.Validator) []string {
	var sb strings.Builder
	for _, d := range docs {
		sb.WriteString(d.Text)
	}

	accept := validator.IsValid
	switch {
	case e.opts.DocumentOnly == CheckPlausibility:
		accept = vin.IsPlausible
	case validator.Prefixes().Len() == 0:
		// Without a prefix set the validator is a bare format check, which
		// any 17-character run of capitals passes.
		accept = func(token string) bool {
			return validator.IsValid(token) && vin.IsPlausible(token)
		}
	}

	seen := make(map[string]struct{})
	var out []string
	for _, token := range vin.ScanCandidates(sb.String()) {
		if _, ok := referenced[token]; ok {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		if !accept(token) {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	sort.Strings(out)
	return out
}

// assemble builds the ordered record list and the summary counters.
func (e *Engine) assemble(result *Result, ref reference, found [][]string, documentOnly []string) {
	records := make([]Record, 0, len(ref.unique)+len(documentOnly)+len(ref.invalid))
	summary := Summary{
		UniqueReference: len(ref.unique),
		DocumentOnly:    len(documentOnly),
		Invalid:         len(ref.invalid),
	}

	for i, v := range ref.unique {
		rec := Record{
			VIN:       v,
			Status:    StatusNotFound,
			Duplicate: DuplicateNo,
		}
		if len(found[i]) > 0 {
			rec.Status = StatusFound
			rec.Documents = found[i]
			summary.Matched++
		} else {
			summary.ReferenceOnly++
			if e.opts.Suggest {
				rec.Suggestion = closest(v, documentOnly)
			}
		}
		if ref.counts[v] > 1 {
			rec.Duplicate = DuplicateYes
			summary.Duplicates++
		}
		records = append(records, rec)
	}

	for _, v := range documentOnly {
		records = append(records, Record{
			VIN:       v,
			Status:    StatusDocumentOnly,
			Duplicate: DuplicateNotApplicable,
		})
	}

	records = append(records, ref.invalid...)

	result.Records = records
	result.Summary = summary
}

// closest returns the candidate nearest to v by edit distance when it is
// within maxSuggestionDistance. Ties go to the first candidate.
func closest(v string, candidates []string) string {
	best, bestDistance := "", maxSuggestionDistance+1
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(v, c); d < bestDistance {
			best, bestDistance = c, d
		}
	}
	return best
}
