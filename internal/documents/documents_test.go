// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package documents

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vin-reconcile/internal/preprocessors/pdftext"
	"vin-reconcile/internal/preprocessors/pdftext/pdffixture"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))
	return path
}

func resolvedPaths(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, filepath.Join(dir, "a.pdf"))
	b := touch(t, filepath.Join(dir, "b.PDF"))
	touch(t, filepath.Join(dir, "notes.txt"))
	nested := touch(t, filepath.Join(dir, "sub", "c.pdf"))

	t.Run("directory takes pdfs only", func(t *testing.T) {
		got, err := Resolve([]string{dir}, false)
		require.NoError(t, err)
		assert.Equal(t, []string{a, b}, resolvedPaths(got))
	})

	t.Run("recursive directory", func(t *testing.T) {
		got, err := Resolve([]string{dir}, true)
		require.NoError(t, err)
		assert.Equal(t, []string{a, b, nested}, resolvedPaths(got))
		assert.Equal(t, []File{
			{Path: a, Name: "a.pdf"},
			{Path: b, Name: "b.PDF"},
			{Path: nested, Name: "sub/c.pdf"},
		}, got)
	})

	t.Run("glob", func(t *testing.T) {
		got, err := Resolve([]string{filepath.Join(dir, "*.pdf")}, false)
		require.NoError(t, err)
		assert.Equal(t, []File{{Path: a, Name: "a.pdf"}}, got)
	})

	t.Run("explicit files keep order and drop repeats", func(t *testing.T) {
		got, err := Resolve([]string{b, a, b}, false)
		require.NoError(t, err)
		assert.Equal(t, []string{b, a}, resolvedPaths(got))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Resolve([]string{filepath.Join(dir, "missing.pdf")}, false)
		assert.Error(t, err)
	})

	t.Run("glob without matches", func(t *testing.T) {
		_, err := Resolve([]string{filepath.Join(dir, "*.docx")}, false)
		assert.Error(t, err)
	})

	t.Run("nothing given", func(t *testing.T) {
		_, err := Resolve([]string{" "}, false)
		assert.ErrorIs(t, err, ErrNoDocumentsMatched)
	})
}

func TestResolveKeepsNamesDistinct(t *testing.T) {
	dir := t.TempDir()
	x1 := touch(t, filepath.Join(dir, "north", "x.pdf"))
	x2 := touch(t, filepath.Join(dir, "south", "x.pdf"))

	got, err := Resolve([]string{dir}, true)
	require.NoError(t, err)
	assert.Equal(t, []File{
		{Path: x1, Name: "north/x.pdf"},
		{Path: x2, Name: "south/x.pdf"},
	}, got)

	got, err = Resolve([]string{x1, x2}, false)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.NotEqual(t, got[0].Name, got[1].Name)
	assert.Equal(t, filepath.ToSlash(x1), got[0].Name)
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF("x.pdf"))
	assert.True(t, IsPDF("X.PDF"))
	assert.False(t, IsPDF("x.pdf.txt"))
}

func files(paths ...string) []File {
	out := make([]File, len(paths))
	for i, p := range paths {
		out[i] = File{Path: p, Name: filepath.Base(p)}
	}
	return out
}

func TestLoaderPreservesOrder(t *testing.T) {
	paths := []string{"/in/one.pdf", "/in/two.pdf", "/in/three.pdf", "/in/four.pdf"}
	l := &Loader{
		Workers: 3,
		Extract: func(path string) (string, []string, error) {
			return "text of " + filepath.Base(path), nil, nil
		},
	}

	docs, err := l.Load(context.Background(), files(paths...))
	require.NoError(t, err)
	require.Len(t, docs, len(paths))
	for i, p := range paths {
		assert.Equal(t, filepath.Base(p), docs[i].Name)
		assert.Equal(t, "text of "+filepath.Base(p), docs[i].Text)
	}
}

func TestLoaderKeepsExtractionWarnings(t *testing.T) {
	l := &Loader{
		Extract: func(path string) (string, []string, error) {
			return "partial", []string{"1 of 3 pages could not be read"}, nil
		},
	}

	docs, err := l.Load(context.Background(), []File{{Path: "/in/a/x.pdf", Name: "a/x.pdf"}})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a/x.pdf", docs[0].Name)
	assert.Equal(t, []string{"1 of 3 pages could not be read"}, docs[0].Warnings)
}

func TestLoaderFailsOnUnreadableDocument(t *testing.T) {
	l := &Loader{
		Workers: 2,
		Extract: func(path string) (string, []string, error) {
			if strings.HasSuffix(path, "bad.pdf") {
				return "", nil, fmt.Errorf("error opening PDF: %w", fs.ErrNotExist)
			}
			return "ok", nil, nil
		},
	}

	docs, err := l.Load(context.Background(), files("good.pdf", "bad.pdf"))
	require.Error(t, err)
	assert.Nil(t, docs)

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "bad.pdf", le.Path)
	assert.Equal(t, KindFileAccess, le.Kind)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "bad.pdf")
}

func TestLoaderMalformedPDF(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.pdf")
	bad := filepath.Join(dir, "garbage.pdf")
	require.NoError(t, os.WriteFile(good, pdffixture.Text([]string{pdffixture.Line(72, 700, "1HGCM82633A123456")}, nil), 0o600))
	require.NoError(t, os.WriteFile(bad, pdffixture.Malformed(), 0o600))

	l := &Loader{Workers: 2, Extract: PDFExtractor(pdftext.Options{})}

	var err error
	require.NotPanics(t, func() {
		_, err = l.Load(context.Background(), files(good, bad))
	})

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, bad, le.Path)
	assert.Equal(t, KindInvalidFormat, le.Kind)
}

func TestLoaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := &Loader{Extract: func(string) (string, []string, error) { return "", nil, nil }}
	_, err := l.Load(ctx, files("a.pdf"))

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, KindCancelled, le.Kind)
}

func TestLoaderWithoutExtractor(t *testing.T) {
	_, err := (&Loader{}).Load(context.Background(), files("a.pdf"))
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{context.Canceled, KindCancelled},
		{fs.ErrPermission, KindFileAccess},
		{errors.New("invalid PDF x.pdf: bad xref"), KindInvalidFormat},
		{errors.New(`malformed PDF x.pdf: unexpected keyword "@@@@" parsing object`), KindInvalidFormat},
		{errors.New("error opening PDF: EOF"), KindExtractionFailed},
		{errors.New("boom"), KindUnknown},
		{nil, KindUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(tt.err), "%v", tt.err)
	}
}
