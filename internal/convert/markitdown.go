// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdiddy/paper-tools/internal/container"
	"github.com/pdiddy/paper-tools/pkg/types"
)

const imageMarkitdown = "markitdown:latest"

// MarkitdownConverter converts PDFs offline by piping them through the
// markitdown container image. It yields a single page with no images.
type MarkitdownConverter struct {
	runtime container.Runtime
}

// NewMarkitdownConverter verifies that the markitdown image exists in rt.
func NewMarkitdownConverter(ctx context.Context, rt container.Runtime) (*MarkitdownConverter, error) {
	if err := rt.ImageExists(ctx, imageMarkitdown); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &MarkitdownConverter{runtime: rt}, nil
}

// Name returns the backend identifier.
func (m *MarkitdownConverter) Name() string { return string(types.BackendMarkitdown) }

// Convert pipes pdf through the markitdown container.
func (m *MarkitdownConverter) Convert(ctx context.Context, pdf []byte) (*types.OCRResult, error) {
	var out bytes.Buffer
	if err := m.runtime.Filter(ctx, imageMarkitdown, bytes.NewReader(pdf), &out); err != nil {
		return nil, fmt.Errorf("converting with markitdown: %w", err)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("markitdown produced empty output")
	}
	return &types.OCRResult{
		Model: "markitdown",
		Pages: []types.OCRPage{{Index: 0, Markdown: out.String()}},
	}, nil
}
