// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package reconcile

import (
	"context"
	"errors"
	"testing"

	"vin-reconcile/internal/policy"
	"vin-reconcile/internal/vin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	honda  = "1HGCM82633A123456"
	toyota = "JT2BU4HE0JC012345"
	vw     = "WVWZZZ3CZWE123456"
)

func table(vins ...string) ReferenceTable {
	rows := [][]string{{"#", "VIN"}}
	for i, v := range vins {
		rows = append(rows, []string{string(rune('1' + i)), v})
	}
	return NewReferenceTable("reference.xlsx", rows)
}

func run(t *testing.T, opts Options, in Input) *Result {
	t.Helper()
	res, err := NewEngine(opts).Run(context.Background(), in)
	require.NoError(t, err)
	return res
}

func TestRunDuplicateAndInvalid(t *testing.T) {
	res := run(t, Options{}, Input{
		Reference: table(honda, honda, "BADVIN123"),
		Documents: []Document{{Name: "invoice.pdf", Text: "VIN " + honda + " END"}},
	})

	assert.Equal(t, Summary{
		UniqueReference: 1,
		Matched:         1,
		ReferenceOnly:   0,
		DocumentOnly:    0,
		Duplicates:      1,
		Invalid:         1,
	}, res.Summary)

	require.Len(t, res.Records, 2)
	assert.Equal(t, Record{
		VIN:       honda,
		Status:    StatusFound,
		Documents: []string{"invoice.pdf"},
		Duplicate: DuplicateYes,
	}, res.Records[0])
	assert.Equal(t, Record{
		VIN:       "BADVIN123",
		Status:    StatusInvalid,
		Duplicate: DuplicateNotApplicable,
		Raw:       "BADVIN123",
		Length:    9,
	}, res.Records[1])
	assert.Empty(t, res.Warnings)
	assert.NotEmpty(t, res.RunID)
}

func TestRunDocumentOnly(t *testing.T) {
	for _, check := range []DocumentOnlyCheck{CheckValidator, CheckPlausibility} {
		t.Run(string(check), func(t *testing.T) {
			res := run(t, Options{Policy: policy.Learned(), DocumentOnly: check}, Input{
				Reference: NewReferenceTable("empty.xlsx", nil),
				Documents: []Document{
					{Name: "a.pdf", Text: "STRAY: " + toyota + " / AGAIN: " + toyota},
					{Name: "b.pdf", Text: "ONCE MORE: JT2BU4HE0J\nC012345."},
				},
			})

			require.Len(t, res.Records, 1)
			assert.Equal(t, Record{VIN: toyota, Status: StatusDocumentOnly, Duplicate: DuplicateNotApplicable}, res.Records[0])
			assert.Equal(t, 1, res.Summary.DocumentOnly)
			assert.Equal(t, 0, res.Summary.UniqueReference)
			assert.Contains(t, res.Warnings, policy.ErrEmptyPrefixSet.Error())
		})
	}
}

func TestRunDocumentOnlyExcludesReferenceVINs(t *testing.T) {
	res := run(t, Options{}, Input{
		Reference: table(honda),
		Documents: []Document{{Name: "a.pdf", Text: "VINS: " + honda + ", " + toyota}},
	})

	assert.Equal(t, []Record{
		{VIN: honda, Status: StatusFound, Documents: []string{"a.pdf"}, Duplicate: DuplicateNo},
		{VIN: toyota, Status: StatusDocumentOnly, Duplicate: DuplicateNotApplicable},
	}, res.Records)
}

func TestRunFormatOnlyValidatorRequiresPlausibleTokens(t *testing.T) {
	// 17 capitals in a row pass the bare format check.
	const acronym = "ABCDEFGHJKLMNPRST"
	require.True(t, vin.IsWellFormed(acronym))

	in := Input{
		Reference: table(honda),
		Documents: []Document{{Name: "a.pdf", Text: "REF: " + acronym + " / " + toyota}},
	}

	res := run(t, Options{Policy: policy.Format()}, in)
	assert.Equal(t, 1, res.Summary.DocumentOnly)
	assert.Equal(t, toyota, res.Records[1].VIN)

	prefixes, err := policy.ParsePrefixList("ABC,JT2")
	require.NoError(t, err)
	res = run(t, Options{Policy: policy.Fixed(prefixes)}, in)
	assert.Equal(t, 2, res.Summary.DocumentOnly, "a prefix list is trusted on its own")
}

func TestRunCarriesDocumentWarnings(t *testing.T) {
	res := run(t, Options{}, Input{
		Reference: table(honda),
		Documents: []Document{
			{Name: "a.pdf", Text: honda},
			{Name: "scans/b.pdf", Warnings: []string{"1 of 4 pages could not be read"}},
		},
	})

	assert.Equal(t, []string{"scans/b.pdf: 1 of 4 pages could not be read"}, res.Warnings)
}

func TestRunOrdering(t *testing.T) {
	res := run(t, Options{}, Input{
		Reference: table(vw, "SHORT1", honda, "ALSO-BAD", toyota),
		Documents: []Document{
			{Name: "b.pdf", Text: vw + " AND " + honda},
			{Name: "a.pdf", Text: "TRUCK " + vw},
		},
	})

	var vins []string
	for _, r := range res.Records {
		vins = append(vins, r.VIN)
	}
	assert.Equal(t, []string{honda, toyota, vw, "SHORT1", "ALSO-BAD"}, vins)

	assert.Equal(t, []string{"b.pdf"}, res.Records[0].Documents)
	assert.Equal(t, StatusNotFound, res.Records[1].Status)
	assert.Nil(t, res.Records[1].Documents)
	assert.Equal(t, []string{"b.pdf", "a.pdf"}, res.Records[2].Documents, "document input order is kept")
	assert.Equal(t, 1, res.Summary.ReferenceOnly)
	assert.Equal(t, []string{"b.pdf", "a.pdf"}, res.Documents)
}

func TestRunFlexibleMatchAcrossLineBreaks(t *testing.T) {
	res := run(t, Options{}, Input{
		Reference: table(honda),
		Documents: []Document{{Name: "wrapped.pdf", Text: "CHASSIS NO.\n1HGCM82633A1\n23456\nEND"}},
	})
	require.Len(t, res.Records, 1)
	assert.Equal(t, StatusFound, res.Records[0].Status)
}

func TestRunHeaderDetection(t *testing.T) {
	t.Run("no header", func(t *testing.T) {
		res := run(t, Options{}, Input{
			Reference: NewReferenceTable("r", [][]string{{"1", honda}, {"2", vw}}),
			Documents: []Document{{Name: "a.pdf", Text: ""}},
		})
		assert.Equal(t, 2, res.Summary.UniqueReference)
		assert.Equal(t, 0, res.Summary.Invalid)
	})

	t.Run("header skipped", func(t *testing.T) {
		res := run(t, Options{}, Input{
			Reference: NewReferenceTable("r", [][]string{{"ROW", "VIN NUMBER"}, {"1", honda}}),
			Documents: []Document{{Name: "a.pdf", Text: ""}},
		})
		assert.Equal(t, 1, res.Summary.UniqueReference)
		assert.Equal(t, 0, res.Summary.Invalid, "the header is not an invalid entry")
	})

	t.Run("blank cells ignored", func(t *testing.T) {
		res := run(t, Options{}, Input{
			Reference: NewReferenceTable("r", [][]string{{"#", "VIN"}, {"1", " "}, {"2"}, {"3", honda}}),
			Documents: []Document{{Name: "a.pdf", Text: ""}},
		})
		assert.Equal(t, 1, res.Summary.UniqueReference)
		assert.Equal(t, 0, res.Summary.Invalid)
	})

	t.Run("custom column", func(t *testing.T) {
		ref := ReferenceTable{Name: "r", Rows: [][]string{{honda}, {vw}}, VINColumn: 0}
		res := run(t, Options{}, Input{Reference: ref, Documents: []Document{{Name: "a.pdf"}}})
		assert.Equal(t, 2, res.Summary.UniqueReference)
	})
}

func TestRunSingleColumnTable(t *testing.T) {
	res := run(t, Options{}, Input{
		Reference: NewReferenceTable("r", [][]string{{"VIN"}, {honda}}),
		Documents: []Document{{Name: "a.pdf", Text: honda}},
	})

	assert.Contains(t, res.Warnings, ErrNoVINColumn.Error())
	assert.Equal(t, 0, res.Summary.UniqueReference)
	require.Len(t, res.Records, 1)
	assert.Equal(t, StatusDocumentOnly, res.Records[0].Status)
}

func TestRunFixedPrefixPolicy(t *testing.T) {
	prefixes, err := policy.ParsePrefixList("1HG,JT2")
	require.NoError(t, err)

	in := Input{
		Reference: table(honda, vw),
		Documents: []Document{{Name: "a.pdf", Text: "JT2BU4HE0JC012345 / WVW2ZZ3CZWE1B2C34"}},
	}

	res := run(t, Options{Policy: policy.Fixed(prefixes)}, in)
	assert.Equal(t, []Record{
		{VIN: honda, Status: StatusNotFound, Duplicate: DuplicateNo},
		{VIN: toyota, Status: StatusDocumentOnly, Duplicate: DuplicateNotApplicable},
		{VIN: vw, Status: StatusInvalid, Duplicate: DuplicateNotApplicable, Raw: vw, Length: 17},
	}, res.Records)

	res = run(t, Options{Policy: policy.Fixed(prefixes), DocumentOnly: CheckPlausibility}, in)
	assert.Equal(t, 2, res.Summary.DocumentOnly, "plausibility ignores the prefix list")
}

func TestRunStrategiesAgree(t *testing.T) {
	in := Input{
		Reference: table(vw, honda, toyota, honda, "1HGCM82633A12345", "JH4KA7660MC012345"),
		Documents: []Document{
			{Name: "one.pdf", Text: "1HGCM 82633A123456 JH4KA7660MC01\n2345"},
			{Name: "two.pdf", Text: "nothing relevant here"},
			{Name: "three.pdf", Text: "jt2bu4he0jc012345 WAUZZZ8K9BA123456"},
		},
	}

	base := run(t, Options{}, in)
	for name, opts := range map[string]Options{
		"indexed":  {Matcher: MatchIndexed},
		"parallel": {Workers: 4},
	} {
		t.Run(name, func(t *testing.T) {
			got := run(t, opts, in)
			assert.Equal(t, base.Records, got.Records)
			assert.Equal(t, base.Summary, got.Summary)
		})
	}
}

func TestRunSuggestion(t *testing.T) {
	res := run(t, Options{Suggest: true}, Input{
		Reference: table(honda),
		Documents: []Document{{Name: "a.pdf", Text: "TYPO: 1HGCM82633A123465"}},
	})

	require.Len(t, res.Records, 2)
	assert.Equal(t, StatusNotFound, res.Records[0].Status)
	assert.Equal(t, "1HGCM82633A123465", res.Records[0].Suggestion)
}

func TestRunRecordsAreCanonical(t *testing.T) {
	res := run(t, Options{}, Input{
		Reference: table(" 1hgcm82633a123456 ", "bad vin", "\tjt2bu4he0jc012345"),
		Documents: []Document{{Name: "a.pdf", Text: vw}},
	})

	var raw []string
	for _, r := range res.Records {
		assert.Equal(t, r.VIN, vin.Normalize(r.VIN))
		if r.Status == StatusInvalid {
			raw = append(raw, r.Raw)
		}
	}
	assert.Equal(t, []string{"bad vin"}, raw)
}

func TestRunIsStateless(t *testing.T) {
	engine := NewEngine(Options{Policy: policy.Learned()})

	first, err := engine.Run(context.Background(), Input{
		Reference: table(honda),
		Documents: []Document{{Name: "a.pdf"}},
	})
	require.NoError(t, err)
	second, err := engine.Run(context.Background(), Input{
		Reference: table(vw),
		Documents: []Document{{Name: "a.pdf", Text: honda}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, first.Summary.UniqueReference)
	assert.Equal(t, 0, second.Summary.DocumentOnly, "prefix learned in the first run must not leak")
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRunErrors(t *testing.T) {
	_, err := NewEngine(Options{}).Run(context.Background(), Input{Reference: table(honda)})
	assert.True(t, errors.Is(err, ErrNoDocuments))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewEngine(Options{}).Run(ctx, Input{Reference: table(honda), Documents: []Document{{Name: "a.pdf"}}})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestParseOptions(t *testing.T) {
	check, err := ParseDocumentOnlyCheck("")
	require.NoError(t, err)
	assert.Equal(t, CheckValidator, check)

	check, err = ParseDocumentOnlyCheck("Plausibility")
	require.NoError(t, err)
	assert.Equal(t, CheckPlausibility, check)

	_, err = ParseDocumentOnlyCheck("loose")
	assert.Error(t, err)

	m, err := ParseMatchStrategy("indexed")
	require.NoError(t, err)
	assert.Equal(t, MatchIndexed, m)

	_, err = ParseMatchStrategy("fuzzy")
	assert.Error(t, err)
}

func TestRecordDocumentsLabel(t *testing.T) {
	assert.Equal(t, NotApplicable, Record{}.DocumentsLabel())
	assert.Equal(t, "a.pdf, b.pdf", Record{Documents: []string{"a.pdf", "b.pdf"}}.DocumentsLabel())
	assert.Equal(t, "Yes", DuplicateYes.String())
	assert.Equal(t, "No", DuplicateNo.String())
	assert.Equal(t, NotApplicable, DuplicateNotApplicable.String())
}
