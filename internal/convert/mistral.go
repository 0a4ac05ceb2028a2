// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"

	"github.com/pdiddy/paper-tools/internal/ocr"
	"github.com/pdiddy/paper-tools/pkg/types"
)

// MistralConverter sends PDFs to the Mistral OCR API.
type MistralConverter struct {
	client *ocr.Client
}

// NewMistralConverter wraps an OCR client.
func NewMistralConverter(client *ocr.Client) *MistralConverter {
	return &MistralConverter{client: client}
}

// Name returns the backend identifier.
func (m *MistralConverter) Name() string { return string(types.BackendMistral) }

// Convert runs OCR over pdf.
func (m *MistralConverter) Convert(ctx context.Context, pdf []byte) (*types.OCRResult, error) {
	return m.client.Process(ctx, pdf)
}
