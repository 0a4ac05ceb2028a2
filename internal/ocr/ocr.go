// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ocr is a client for the Mistral OCR API. It sends a PDF as a
// base64 data URI and returns page Markdown with embedded images.
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/paper-tools/internal/httputil"
	"github.com/pdiddy/paper-tools/pkg/types"
)

// DefaultBaseURL is the public Mistral API root.
const DefaultBaseURL = "https://api.mistral.ai"

const ocrPath = "/v1/ocr"

// ErrNoAPIKey is returned by NewClient when the config carries no key.
var ErrNoAPIKey = errors.New("ocr: API key is required")

// Client calls the OCR endpoint. The zero value is not usable; use NewClient.
type Client struct {
	http *http.Client
	cfg  types.OCRConfig
}

// NewClient returns a client for cfg. A nil httpClient gets one with
// cfg.Timeout.
func NewClient(httpClient *http.Client, cfg types.OCRConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{http: httpClient, cfg: cfg}, nil
}

type processRequest struct {
	Model              string   `json:"model"`
	Document           document `json:"document"`
	IncludeImageBase64 bool     `json:"include_image_base64"`
}

type document struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url"`
}

type processResponse struct {
	Model string `json:"model"`
	Pages []struct {
		Index    int    `json:"index"`
		Markdown string `json:"markdown"`
		Images   []struct {
			ID          string  `json:"id"`
			ImageBase64 *string `json:"image_base64"`
		} `json:"images"`
	} `json:"pages"`
}

// Process runs OCR over pdf and returns the pages in document order.
func (c *Client) Process(ctx context.Context, pdf []byte) (*types.OCRResult, error) {
	body, err := json.Marshal(processRequest{
		Model: c.cfg.Model,
		Document: document{
			Type:        "document_url",
			DocumentURL: "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(pdf),
		},
		IncludeImageBase64: true,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding OCR request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(c.cfg.BaseURL, "/")+ocrPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("OCR API request: %w", err)
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus(resp, "OCR API"); err != nil {
		return nil, err
	}

	var pr processResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("parsing OCR response: %w", err)
	}

	result := &types.OCRResult{Model: pr.Model, Pages: make([]types.OCRPage, 0, len(pr.Pages))}
	for _, p := range pr.Pages {
		page := types.OCRPage{Index: p.Index, Markdown: p.Markdown}
		for _, img := range p.Images {
			page.Images = append(page.Images, types.OCRImage{ID: img.ID, ImageBase64: img.ImageBase64})
		}
		result.Pages = append(result.Pages, page)
	}
	return result, nil
}
