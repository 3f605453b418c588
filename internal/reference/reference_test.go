// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package reference

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"vin-reconcile/internal/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheets map[string][][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cellRef, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			row := row
			require.NoError(t, f.SetSheetRow(name, cellRef, &row))
		}
	}

	path := filepath.Join(t.TempDir(), "reference.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadWorkbook(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Units": {
			{"Item", "VIN"},
			{1, "1HGCM82633A123456"},
			{2, "jt2bu4he0jc012345"},
		},
	})

	table, err := ReadWorkbook(path, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "reference.xlsx", table.Name)
	assert.Equal(t, reconcile.DefaultVINColumn, table.VINColumn)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"Item", "VIN"}, table.Rows[0])
	assert.Equal(t, "1HGCM82633A123456", table.Rows[1][1])
	assert.Equal(t, "jt2bu4he0jc012345", table.Rows[2][1])
}

func TestReadWorkbookNamedSheetAndColumn(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Summary": {{"nothing here"}},
	})
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	_, err = f.NewSheet("Fleet")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Fleet", "A1", &[]interface{}{"WVWZZZ3CZWE123456"}))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	table, err := ReadWorkbook(path, Options{Sheet: "Fleet", VINColumn: 0})
	require.NoError(t, err)
	assert.Equal(t, 0, table.VINColumn)
	assert.Equal(t, [][]string{{"WVWZZZ3CZWE123456"}}, table.Rows)

	_, err = ReadWorkbook(path, Options{Sheet: "Missing"})
	assert.Error(t, err)
}

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reference.csv")
	content := "\ufeffItem,VIN\n1,1HGCM82633A123456\n2\n3,\"JT2BU4HE0JC012345\",extra\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	table, err := ReadTable(path, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"Item", "VIN"},
		{"1", "1HGCM82633A123456"},
		{"2"},
		{"3", "JT2BU4HE0JC012345", "extra"},
	}, table.Rows)
}

func TestReadTableUnsupported(t *testing.T) {
	_, err := ReadTable("reference.ods", DefaultOptions())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadWorkbookMissingFile(t *testing.T) {
	_, err := ReadWorkbook(filepath.Join(t.TempDir(), "none.xlsx"), DefaultOptions())
	assert.Error(t, err)
}

func TestWorkbookFeedsEngine(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Sheet1": {
			{"Item", "VIN"},
			{1, "1HGCM82633A123456"},
			{2, "1HGCM82633A123456"},
			{3, "bad"},
		},
	})

	table, err := ReadTable(path, DefaultOptions())
	require.NoError(t, err)

	result, err := reconcile.NewEngine(reconcile.Options{}).Run(context.Background(), reconcile.Input{
		Reference: table,
		Documents: []reconcile.Document{{Name: "a.pdf", Text: "VIN 1HGCM82633A123456"}},
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Equal(t, reconcile.StatusFound, result.Records[0].Status)
	assert.Equal(t, reconcile.DuplicateYes, result.Records[0].Duplicate)
	assert.Equal(t, reconcile.StatusInvalid, result.Records[1].Status)
	assert.Equal(t, "bad", result.Records[1].Raw)
}
