// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns a PDF into a Markdown file with a sibling images/
// directory. Page text comes from a pluggable Converter backend; this
// package selects pages, saves images, rewrites image links, and writes
// the output.
package convert

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-tools/internal/pages"
	"github.com/pdiddy/paper-tools/pkg/types"
)

const (
	// imagesDir is the subdirectory next to the Markdown output for images.
	imagesDir = "images"
	// pageSeparator joins the Markdown of consecutive pages.
	pageSeparator = "\n\n---\n\n"
)

// ErrEmptyDocument is returned when the page selection leaves no pages.
var ErrEmptyDocument = errors.New("no pages selected")

// Converter transforms PDF bytes into page-level Markdown. Different
// backends (Mistral OCR, markitdown) implement this interface.
type Converter interface {
	// Name identifies the backend in status output.
	Name() string

	// Convert returns one entry per page of pdf, in document order.
	Convert(ctx context.Context, pdf []byte) (*types.OCRResult, error)
}

// Report summarizes a completed conversion.
type Report struct {
	OutputPath string
	Pages      int
	Characters int
	Images     int
}

// ConvertFile converts cfg.InputPath to Markdown at cfg.OutputPath using c,
// writing progress lines to w. Output already written is left in place if
// a later step fails.
func ConvertFile(ctx context.Context, c Converter, cfg types.ConversionConfig, w io.Writer) (Report, error) {
	fmt.Fprintf(w, "converting: %s\n", filepath.Base(cfg.InputPath))
	if cfg.Pages != "" {
		fmt.Fprintf(w, "pages: %s\n", cfg.Pages)
	}

	data, err := os.ReadFile(cfg.InputPath)
	if err != nil {
		return Report{}, fmt.Errorf("reading %s: %w", cfg.InputPath, err)
	}

	selected, err := pages.Select(data, cfg.Pages, w)
	if err != nil {
		return Report{}, fmt.Errorf("selecting pages from %s: %w", cfg.InputPath, err)
	}
	if len(selected) == 0 {
		return Report{}, fmt.Errorf("%w: %q matches no page of %s", ErrEmptyDocument, cfg.Pages, cfg.InputPath)
	}
	fmt.Fprintf(w, "  PDF size: %.1f KB (base64)\n", float64(base64.StdEncoding.EncodedLen(len(selected)))/1024)

	fmt.Fprintf(w, "processing with %s\n", c.Name())
	result, err := c.Convert(ctx, selected)
	if err != nil {
		return Report{}, fmt.Errorf("converting %s with %s: %w", cfg.InputPath, c.Name(), err)
	}

	outDir := filepath.Dir(cfg.OutputPath)
	links, count, err := saveImages(result, filepath.Join(outDir, imagesDir), w)
	if err != nil {
		return Report{}, err
	}

	content := Assemble(result, links)
	if cfg.Frontmatter {
		content, err = addFrontmatter(cfg, result, content)
		if err != nil {
			return Report{}, err
		}
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Report{}, fmt.Errorf("creating directory %s: %w", outDir, err)
	}
	if err := os.WriteFile(cfg.OutputPath, []byte(content), 0o644); err != nil {
		return Report{}, fmt.Errorf("writing %s: %w", cfg.OutputPath, err)
	}

	report := Report{
		OutputPath: cfg.OutputPath,
		Pages:      len(result.Pages),
		Characters: utf8.RuneCountInString(content),
		Images:     count,
	}
	fmt.Fprintf(w, "\nconversion complete\n  markdown:   %s\n  pages:      %d\n  characters: %d\n  images:     %d\n",
		report.OutputPath, report.Pages, report.Characters, report.Images)
	return report, nil
}

// Assemble joins page Markdown with horizontal-rule separators. links
// holds, per page, a map from image ID to the relative path it was saved
// under; matching "](id)" references on that page are rewritten.
func Assemble(result *types.OCRResult, links []map[string]string) string {
	parts := make([]string, len(result.Pages))
	for i, p := range result.Pages {
		md := p.Markdown
		if i < len(links) {
			for id, path := range links[i] {
				md = strings.ReplaceAll(md, "]("+id+")", "]("+path+")")
			}
		}
		parts[i] = md
	}
	return strings.Join(parts, pageSeparator)
}

// saveImages decodes every image payload in result into dir as
// img-<n>.jpeg, numbering sequentially across the document. It returns
// the per-page link rewrites and the number of files written.
func saveImages(result *types.OCRResult, dir string, w io.Writer) ([]map[string]string, int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, 0, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	links := make([]map[string]string, len(result.Pages))
	count := 0
	for i, p := range result.Pages {
		for _, img := range p.Images {
			if img.ImageBase64 == nil || *img.ImageBase64 == "" {
				continue
			}
			data, err := decodeImage(*img.ImageBase64)
			if err != nil {
				return nil, count, fmt.Errorf("decoding image %q on page %d: %w", img.ID, i+1, err)
			}

			name := fmt.Sprintf("img-%d.jpeg", count)
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return nil, count, fmt.Errorf("writing image %s: %w", path, err)
			}
			fmt.Fprintf(w, "  saved image: %s (%.1f KB)\n", path, float64(len(data))/1024)

			if img.ID != "" {
				if links[i] == nil {
					links[i] = make(map[string]string)
				}
				links[i][img.ID] = imagesDir + "/" + name
			}
			count++
		}
	}
	return links, count, nil
}

// decodeImage accepts raw base64 or a data URI such as
// "data:image/jpeg;base64,....".
func decodeImage(payload string) ([]byte, error) {
	if strings.HasPrefix(payload, "data:") {
		_, after, ok := strings.Cut(payload, ",")
		if !ok {
			return nil, fmt.Errorf("malformed data URI")
		}
		payload = after
	}
	return base64.StdEncoding.DecodeString(payload)
}

// frontmatter is the YAML header written when requested.
type frontmatter struct {
	SourcePDF   string `yaml:"source_pdf"`
	Pages       string `yaml:"pages,omitempty"`
	PageCount   int    `yaml:"page_count"`
	Model       string `yaml:"model,omitempty"`
	ConvertedAt string `yaml:"converted_at"`
}

// addFrontmatter prepends YAML frontmatter to the converted Markdown content.
func addFrontmatter(cfg types.ConversionConfig, result *types.OCRResult, body string) (string, error) {
	data, err := yaml.Marshal(frontmatter{
		SourcePDF:   cfg.InputPath,
		Pages:       cfg.Pages,
		PageCount:   len(result.Pages),
		Model:       result.Model,
		ConvertedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", fmt.Errorf("marshaling frontmatter: %w", err)
	}
	var b strings.Builder
	b.WriteString("---\n")
	b.Write(data)
	b.WriteString("---\n\n")
	b.WriteString(body)
	return b.String(), nil
}
