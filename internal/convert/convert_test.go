// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-tools/internal/pages"
	"github.com/pdiddy/paper-tools/internal/pages/pagestest"
	"github.com/pdiddy/paper-tools/pkg/types"
)

// fakeConverter implements Converter for testing. It returns a canned
// result or an error and records what it was given.
type fakeConverter struct {
	result *types.OCRResult
	err    error
	calls  int
	got    []byte
}

func (f *fakeConverter) Name() string { return "fake" }

func (f *fakeConverter) Convert(_ context.Context, pdf []byte) (*types.OCRResult, error) {
	f.calls++
	f.got = pdf
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func ptr(s string) *string { return &s }

var jpegBytes = []byte{0xff, 0xd8, 0xff, 0xe0, 'j', 'p', 'e', 'g'}

func sampleResult() *types.OCRResult {
	enc := base64.StdEncoding.EncodeToString(jpegBytes)
	return &types.OCRResult{
		Model: "mistral-ocr-2505",
		Pages: []types.OCRPage{
			{
				Index:    0,
				Markdown: "# Title\n\n![img-0.jpeg](img-0.jpeg)",
				Images:   []types.OCRImage{{ID: "img-0.jpeg", ImageBase64: ptr("data:image/jpeg;base64," + enc)}},
			},
			{
				Index:    1,
				Markdown: "Text only.\n\n![missing](img-1.jpeg)",
				Images:   []types.OCRImage{{ID: "img-1.jpeg"}},
			},
			{
				Index:    2,
				Markdown: "![fig](img-2.jpeg)",
				Images:   []types.OCRImage{{ID: "img-2.jpeg", ImageBase64: ptr(enc)}},
			},
		},
	}
}

func setupInput(t *testing.T, data []byte) (input, output string) {
	t.Helper()
	dir := t.TempDir()
	input = filepath.Join(dir, "paper.pdf")
	require.NoError(t, os.WriteFile(input, data, 0o644))
	return input, filepath.Join(dir, "out", "paper.md")
}

func TestAssemble(t *testing.T) {
	tests := []struct {
		name   string
		result *types.OCRResult
		links  []map[string]string
		want   string
	}{
		{
			name:   "single page",
			result: &types.OCRResult{Pages: []types.OCRPage{{Markdown: "only"}}},
			want:   "only",
		},
		{
			name:   "pages joined with rule",
			result: &types.OCRResult{Pages: []types.OCRPage{{Markdown: "a"}, {Markdown: "b"}, {Markdown: "c"}}},
			want:   "a\n\n---\n\nb\n\n---\n\nc",
		},
		{
			name: "links rewritten per page",
			result: &types.OCRResult{Pages: []types.OCRPage{
				{Markdown: "![x](img-0.jpeg)"},
				{Markdown: "![y](img-0.jpeg)"},
			}},
			links: []map[string]string{
				{"img-0.jpeg": "images/img-0.jpeg"},
				{"img-0.jpeg": "images/img-1.jpeg"},
			},
			want: "![x](images/img-0.jpeg)\n\n---\n\n![y](images/img-1.jpeg)",
		},
		{
			name:   "no pages",
			result: &types.OCRResult{},
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Assemble(tt.result, tt.links))
		})
	}
}

func TestConvertFile(t *testing.T) {
	input, output := setupInput(t, []byte("%PDF-1.4 opaque"))
	conv := &fakeConverter{result: sampleResult()}
	var log bytes.Buffer

	report, err := ConvertFile(context.Background(), conv, types.ConversionConfig{
		InputPath:  input,
		OutputPath: output,
	}, &log)
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-1.4 opaque"), conv.got, "no selection must pass the file through unchanged")
	assert.Equal(t, 3, report.Pages)
	assert.Equal(t, 2, report.Images)
	assert.Equal(t, output, report.OutputPath)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	content := string(data)
	assert.Equal(t, len([]rune(content)), report.Characters)

	assert.Contains(t, content, "![img-0.jpeg](images/img-0.jpeg)")
	assert.Contains(t, content, "![fig](images/img-1.jpeg)")
	assert.Contains(t, content, "![missing](img-1.jpeg)", "images without payload keep their link")
	assert.Equal(t, 2, strings.Count(content, pageSeparator))

	imgDir := filepath.Join(filepath.Dir(output), "images")
	for _, name := range []string{"img-0.jpeg", "img-1.jpeg"} {
		got, err := os.ReadFile(filepath.Join(imgDir, name))
		require.NoError(t, err)
		assert.Equal(t, jpegBytes, got)
	}
	_, err = os.Stat(filepath.Join(imgDir, "img-2.jpeg"))
	assert.True(t, os.IsNotExist(err))

	out := log.String()
	assert.Contains(t, out, "converting: paper.pdf")
	assert.Contains(t, out, "saved image:")
	assert.Contains(t, out, "conversion complete")
}

func TestConvertFileWithPages(t *testing.T) {
	input, output := setupInput(t, pagestest.BuildPDF(5))
	conv := &fakeConverter{result: &types.OCRResult{Pages: []types.OCRPage{{Markdown: "p2"}, {Markdown: "p3"}}}}
	var log bytes.Buffer

	_, err := ConvertFile(context.Background(), conv, types.ConversionConfig{
		InputPath:  input,
		OutputPath: output,
		Pages:      "2-3",
	}, &log)
	require.NoError(t, err)

	src, err := pagestest.SourcePages(conv.got)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, src)
	assert.Contains(t, log.String(), "pages: 2-3")
}

func TestConvertFileEmptySelection(t *testing.T) {
	input, output := setupInput(t, pagestest.BuildPDF(2))
	conv := &fakeConverter{result: sampleResult()}
	var log bytes.Buffer

	_, err := ConvertFile(context.Background(), conv, types.ConversionConfig{
		InputPath:  input,
		OutputPath: output,
		Pages:      "7,8",
	}, &log)
	require.ErrorIs(t, err, ErrEmptyDocument)
	assert.Equal(t, 0, conv.calls)
	assert.Contains(t, log.String(), "page 7 out of range")

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConvertFileInvalidPages(t *testing.T) {
	input, output := setupInput(t, pagestest.BuildPDF(2))
	var log bytes.Buffer

	_, err := ConvertFile(context.Background(), &fakeConverter{}, types.ConversionConfig{
		InputPath:  input,
		OutputPath: output,
		Pages:      "one-two",
	}, &log)
	assert.ErrorIs(t, err, pages.ErrInvalidPageRange)
}

func TestConvertFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		conv    *fakeConverter
		input   bool
		wantErr string
	}{
		{
			name:    "missing input",
			conv:    &fakeConverter{result: sampleResult()},
			wantErr: "reading",
		},
		{
			name:    "backend failure",
			conv:    &fakeConverter{err: errors.New("service unavailable")},
			input:   true,
			wantErr: "service unavailable",
		},
		{
			name: "bad image payload",
			conv: &fakeConverter{result: &types.OCRResult{Pages: []types.OCRPage{{
				Markdown: "x",
				Images:   []types.OCRImage{{ID: "img-0.jpeg", ImageBase64: ptr("data:image/jpeg;base64,!!!")}},
			}}}},
			input:   true,
			wantErr: "decoding image",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, output := setupInput(t, []byte("pdf"))
			if !tt.input {
				input = filepath.Join(t.TempDir(), "absent.pdf")
			}
			var log bytes.Buffer
			_, err := ConvertFile(context.Background(), tt.conv, types.ConversionConfig{
				InputPath:  input,
				OutputPath: output,
			}, &log)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConvertFileFrontmatter(t *testing.T) {
	input, output := setupInput(t, []byte("pdf"))
	conv := &fakeConverter{result: &types.OCRResult{Model: "m1", Pages: []types.OCRPage{{Markdown: "# Body"}}}}
	var log bytes.Buffer

	_, err := ConvertFile(context.Background(), conv, types.ConversionConfig{
		InputPath:   input,
		OutputPath:  output,
		Frontmatter: true,
	}, &log)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	content := string(data)

	assert.True(t, strings.HasPrefix(content, "---\n"))
	assert.Contains(t, content, "source_pdf: "+input)
	assert.Contains(t, content, "page_count: 1")
	assert.Contains(t, content, "model: m1")
	assert.Contains(t, content, "converted_at:")
	assert.NotContains(t, content, "pages:")
	assert.True(t, strings.HasSuffix(content, "---\n\n# Body"))
}

func TestDecodeImage(t *testing.T) {
	raw := base64.StdEncoding.EncodeToString([]byte("abc"))
	tests := []struct {
		name    string
		payload string
		want    string
		wantErr bool
	}{
		{"raw base64", raw, "abc", false},
		{"jpeg data uri", "data:image/jpeg;base64," + raw, "abc", false},
		{"png data uri", "data:image/png;base64," + raw, "abc", false},
		{"data uri without comma", "data:image/png;base64", "", true},
		{"invalid base64", "%%%", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeImage(tt.payload)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
