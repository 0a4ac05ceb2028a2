// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pagestest builds small PDFs for tests.
package pagestest

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// BaseWidth is the MediaBox width of the first page built by BuildPDF.
// Page i (0-indexed) is BaseWidth+i points wide.
const BaseWidth = 600

// BuildPDF returns a minimal valid PDF with n empty pages. Each page gets a
// distinct width so tests can tell pages apart after extraction.
func BuildPDF(n int) []byte {
	var b bytes.Buffer
	offsets := make([]int, 0, n+2)

	b.WriteString("%PDF-1.4\n")

	offsets = append(offsets, b.Len())
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	kids := make([]string, n)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}
	offsets = append(offsets, b.Len())
	fmt.Fprintf(&b, "2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n", strings.Join(kids, " "), n)

	for i := 0; i < n; i++ {
		offsets = append(offsets, b.Len())
		fmt.Fprintf(&b, "%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d 792] /Resources << >> >>\nendobj\n", i+3, BaseWidth+i)
	}

	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(offsets)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return b.Bytes()
}

// SourcePages maps each page of a PDF built by BuildPDF, or extracted from
// one, back to its 1-indexed page number in the original document.
func SourcePages(data []byte) ([]int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	dims, err := api.PageDims(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("reading page dimensions: %w", err)
	}
	pages := make([]int, len(dims))
	for i, d := range dims {
		pages[i] = int(math.Round(d.Width)) - BaseWidth + 1
	}
	return pages, nil
}
