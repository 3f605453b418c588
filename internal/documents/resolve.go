// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package documents

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File is a resolved document: where to read it and the name reports use.
type File struct {
	Path string
	Name string
}

// Resolve expands document inputs into an ordered, de-duplicated list of
// files. An input may be a file (kept whatever its extension), a glob pattern
// or a directory, from which only .pdf files are taken. Subdirectories are
// walked only when recursive is set.
//
// Files are named by base name, or by their path below the directory input
// that found them. Names that would still collide fall back to the path.
func Resolve(inputs []string, recursive bool) ([]File, error) {
	var files []File
	seen := make(map[string]struct{})
	add := func(path, name string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, File{Path: path, Name: name})
	}

	for _, input := range inputs {
		input = expandHome(strings.TrimSpace(input))
		if input == "" {
			continue
		}

		info, err := os.Stat(input)
		switch {
		case err == nil && info.Mode().IsRegular():
			add(input, filepath.Base(input))
		case err == nil && info.IsDir():
			found, err := pdfsInDir(input, recursive)
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				add(f, relativeName(input, f))
			}
		case err == nil:
			return nil, fmt.Errorf("not a regular file: %s", input)
		case isGlob(input):
			matches, err := filepath.Glob(input)
			if err != nil {
				return nil, fmt.Errorf("invalid glob pattern: %w", err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match pattern: %s", input)
			}
			sort.Strings(matches)
			for _, m := range matches {
				if fi, err := os.Stat(m); err == nil && fi.Mode().IsRegular() {
					add(m, filepath.Base(m))
				}
			}
		default:
			return nil, fmt.Errorf("path does not exist or is not accessible: %w", err)
		}
	}

	if len(files) == 0 {
		return nil, ErrNoDocumentsMatched
	}
	disambiguate(files)
	return files, nil
}

func relativeName(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

// disambiguate renames files whose names are shared by another file to their
// slash-separated path.
func disambiguate(files []File) {
	count := make(map[string]int, len(files))
	for _, f := range files {
		count[f.Name]++
	}
	for i, f := range files {
		if count[f.Name] > 1 {
			files[i].Name = filepath.ToSlash(f.Path)
		}
	}
}

func pdfsInDir(root string, recursive bool) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && IsPDF(path) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error accessing directory: %w", err)
	}
	return found, nil
}

// IsPDF reports whether path has a .pdf extension.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

func isGlob(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
