// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package zotero is a read-only client for the Zotero Web API v3. It looks
// up attachment metadata and downloads attachment files.
package zotero

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/paper-tools/internal/httputil"
	"github.com/pdiddy/paper-tools/pkg/types"
)

// DefaultBaseURL is the public Zotero Web API root.
const DefaultBaseURL = "https://api.zotero.org"

const apiVersion = "3"

// ErrNoFilename is returned when an item's metadata carries no filename.
var ErrNoFilename = errors.New("item has no filename")

// Client talks to one Zotero library.
type Client struct {
	http *http.Client
	cfg  types.ZoteroConfig
}

// NewClient returns a client for the library in cfg. A nil httpClient
// gets one with cfg.Timeout; the default client follows the file
// endpoint's redirect to storage.
func NewClient(httpClient *http.Client, cfg types.ZoteroConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.LibraryType == "" {
		cfg.LibraryType = types.LibraryUser
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{http: httpClient, cfg: cfg}
}

// itemResponse captures the fields we need from an item record. Filename
// is only present on file attachments.
type itemResponse struct {
	Key  string `json:"key"`
	Data struct {
		ItemType    string  `json:"itemType"`
		Filename    *string `json:"filename"`
		ContentType string  `json:"contentType"`
	} `json:"data"`
}

// itemURL returns the URL for key, with an optional trailing path segment.
func (c *Client) itemURL(key, suffix string) string {
	prefix := "users"
	if c.cfg.LibraryType == types.LibraryGroup {
		prefix = "groups"
	}
	u := fmt.Sprintf("%s/%s/%s/items/%s", strings.TrimSuffix(c.cfg.BaseURL, "/"),
		prefix, url.PathEscape(c.cfg.LibraryID), url.PathEscape(key))
	if suffix != "" {
		u += "/" + suffix
	}
	return u
}

func (c *Client) get(ctx context.Context, rawURL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Zotero-API-Version", apiVersion)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: Zotero API request: %w", httputil.ErrRemoteRequest, err)
	}
	if err := httputil.CheckStatus(resp, "Zotero API"); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

// Filename returns the stored filename of the attachment item key.
func (c *Client) Filename(ctx context.Context, key string) (string, error) {
	resp, err := c.get(ctx, c.itemURL(key, ""), "application/json")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var item itemResponse
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return "", fmt.Errorf("parsing Zotero item %s: %w", key, err)
	}
	if item.Data.Filename == nil || strings.TrimSpace(*item.Data.Filename) == "" {
		return "", fmt.Errorf("%w: %s", ErrNoFilename, key)
	}
	return *item.Data.Filename, nil
}

// Download streams the file of attachment item key to w and returns the
// number of bytes written.
func (c *Client) Download(ctx context.Context, key string, w io.Writer) (int64, error) {
	resp, err := c.get(ctx, c.itemURL(key, "file"), "")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("%w: reading file for %s: %w", httputil.ErrRemoteRequest, key, err)
	}
	return n, nil
}
