// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pages parses page selection expressions and extracts the
// selected pages from a PDF.
//
// An expression is either a range "start-end" or a comma-separated list
// "p1,p2,...". Page numbers are 1-indexed. Numbers outside the document
// are skipped with a warning rather than rejected.
package pages

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrInvalidPageRange is returned for expressions that do not parse.
var ErrInvalidPageRange = errors.New("invalid page selection")

// Selection is a parsed page selection expression. A range is kept as its
// bounds and only expanded against a document in Resolve.
type Selection struct {
	all        bool
	ranged     bool
	start, end int   // 1-indexed, inclusive; set when ranged
	pages      []int // 1-indexed, in expression order; set for lists
}

// All reports whether the selection covers the whole document.
func (s Selection) All() bool { return s.all }

// Range returns the inclusive 1-indexed bounds of a range selection. ok is
// false for lists and whole-document selections.
func (s Selection) Range() (start, end int, ok bool) {
	return s.start, s.end, s.ranged
}

// Pages returns the 1-indexed page numbers of a list selection in
// expression order. It is nil for ranges and whole-document selections.
func (s Selection) Pages() []int { return s.pages }

// Parse parses a page selection expression. A blank expression selects
// every page. A range whose start exceeds its end is rejected; numbers
// below 1 parse successfully and are dropped later by Resolve.
func Parse(expr string) (Selection, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Selection{all: true}, nil
	}

	if strings.Contains(expr, "-") {
		parts := strings.Split(expr, "-")
		if len(parts) != 2 {
			return Selection{}, fmt.Errorf("%w: %q: range must be start-end", ErrInvalidPageRange, expr)
		}
		start, err := parseNumber(expr, parts[0])
		if err != nil {
			return Selection{}, err
		}
		end, err := parseNumber(expr, parts[1])
		if err != nil {
			return Selection{}, err
		}
		if start > end {
			return Selection{}, fmt.Errorf("%w: %q: start %d is after end %d", ErrInvalidPageRange, expr, start, end)
		}
		return Selection{ranged: true, start: start, end: end}, nil
	}

	fields := strings.Split(expr, ",")
	pages := make([]int, 0, len(fields))
	for _, f := range fields {
		p, err := parseNumber(expr, f)
		if err != nil {
			return Selection{}, err
		}
		pages = append(pages, p)
	}
	return Selection{pages: pages}, nil
}

func parseNumber(expr, field string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %q is not a page number", ErrInvalidPageRange, expr, strings.TrimSpace(field))
	}
	return n, nil
}

// Resolve maps the selection onto a document of n pages and returns
// 0-indexed page positions in selection order. Positions outside [0, n)
// are dropped and reported to warn. The part of a range that falls outside
// the document is reported as a single line.
func (s Selection) Resolve(n int, warn io.Writer) []int {
	switch {
	case s.all:
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	case s.ranged:
		return s.resolveRange(n, warn)
	}

	idx := make([]int, 0, len(s.pages))
	for _, p := range s.pages {
		i := p - 1
		if i < 0 || i >= n {
			warnSkipped(warn, p, p)
			continue
		}
		idx = append(idx, i)
	}
	return idx
}

func (s Selection) resolveRange(n int, warn io.Writer) []int {
	lo, hi := max(s.start, 1), min(s.end, n)
	if s.start < 1 {
		warnSkipped(warn, s.start, min(s.end, 0))
	}

	idx := []int{}
	if lo <= hi {
		idx = make([]int, 0, hi-lo+1)
		for p := lo; p <= hi; p++ {
			idx = append(idx, p-1)
		}
	}

	if s.end > n {
		warnSkipped(warn, max(s.start, n+1), s.end)
	}
	return idx
}

func warnSkipped(w io.Writer, from, to int) {
	if from == to {
		fmt.Fprintf(w, "warning: page %d out of range, skipping\n", from)
		return
	}
	fmt.Fprintf(w, "warning: pages %d-%d out of range, skipping\n", from, to)
}

// Select returns a PDF holding the pages of data chosen by expr. A blank
// expr returns data unchanged without parsing it. If no selected page
// exists in the document the result is empty and err is nil.
func Select(data []byte, expr string, warn io.Writer) ([]byte, error) {
	sel, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	if sel.All() {
		return data, nil
	}

	conf := newConfiguration()

	n, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("counting pages: %w", err)
	}

	idx := sel.Resolve(n, warn)
	if len(idx) == 0 {
		return []byte{}, nil
	}

	// pdfcpu page selections are 1-indexed; Collect keeps order and duplicates.
	selected := make([]string, len(idx))
	for i, p := range idx {
		selected[i] = strconv.Itoa(p + 1)
	}

	var out bytes.Buffer
	if err := api.Collect(bytes.NewReader(data), &out, selected, conf); err != nil {
		return nil, fmt.Errorf("extracting pages %s: %w", strings.Join(selected, ","), err)
	}
	return out.Bytes(), nil
}

// Count returns the number of pages in a PDF.
func Count(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), newConfiguration())
	if err != nil {
		return 0, fmt.Errorf("counting pages: %w", err)
	}
	return n, nil
}

func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}
