// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package pdffixture writes small uncompressed PDF files for tests.
package pdffixture

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// Line returns a content stream fragment drawing s at (x, y).
func Line(x, y int, s string) string {
	return fmt.Sprintf("BT 1 0 0 1 %d %d Tm (%s) Tj ET\n", x, y, escape(s))
}

// Build numbers objects from 1 and writes them with a valid xref table.
// Object 1 must be the document catalog.
func Build(objects []string) []byte {
	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objects)+1)
	b.WriteString("0000000000 65535 f\r\n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n\r\n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return b.Bytes()
}

// Text builds a document with one page per content stream and, when fields
// is not empty, an AcroForm with one text field per entry.
func Text(pages []string, fields map[string]string) []byte {
	// 1 catalog, 2 page tree, then a page and its content stream per page,
	// then the form fields.
	objects := make([]string, 2, 2+2*len(pages)+len(fields))

	kids := make([]string, len(pages))
	for i, content := range pages {
		page := 3 + 2*i
		kids[i] = fmt.Sprintf("%d 0 R", page)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> /Contents %d 0 R >>", page+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var refs []string
	for _, name := range names {
		refs = append(refs, fmt.Sprintf("%d 0 R", len(objects)+1))
		objects = append(objects, fmt.Sprintf("<< /FT /Tx /T (%s) /V (%s) >>", escape(name), escape(fields[name])))
	}

	if len(refs) > 0 {
		objects[0] = fmt.Sprintf("<< /Type /Catalog /Pages 2 0 R /AcroForm << /Fields [%s] >> >>", strings.Join(refs, " "))
	} else {
		objects[0] = "<< /Type /Catalog /Pages 2 0 R >>"
	}
	return Build(objects)
}

// Malformed returns a document whose xref is valid but whose only page
// object cannot be parsed.
func Malformed() []byte {
	return Build([]string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"@@@@ garbage",
	})
}

func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(s)
}
