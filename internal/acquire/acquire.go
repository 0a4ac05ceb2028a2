// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire resolves a Zotero attachment key to a PDF on disk. It
// prefers the local Zotero storage directory and falls back to a single
// download through the Web API.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pdiddy/paper-tools/pkg/types"
)

const (
	// DefaultMinSize is the smallest download accepted as a real PDF.
	// Anything shorter is almost certainly an error payload.
	DefaultMinSize = 1024

	// DefaultDownloadDir receives remote downloads. It is fixed rather than
	// taken from $TMPDIR so the resolved path is predictable.
	DefaultDownloadDir = "/tmp"

	pdfExt = ".pdf"
)

var (
	// ErrNotFound is returned when neither local storage nor the remote
	// library yields the attachment. It wraps the underlying cause.
	ErrNotFound = errors.New("could not find or download PDF")

	// ErrFileTooSmall is returned when a download is below the minimum size.
	ErrFileTooSmall = errors.New("downloaded file is too small")
)

// Fetcher is the remote side of resolution.
type Fetcher interface {
	// Filename returns the attachment's stored filename.
	Filename(ctx context.Context, key string) (string, error)

	// Download streams the attachment's bytes to w.
	Download(ctx context.Context, key string, w io.Writer) (int64, error)
}

// Resolver implements the cache-then-remote policy. It holds no state
// between calls; every Resolve re-checks storage.
type Resolver struct {
	cfg    types.ResolverConfig
	remote Fetcher
}

// DefaultConfig returns ~/Zotero/storage as the storage root,
// DefaultDownloadDir for downloads, and DefaultMinSize.
func DefaultConfig() (types.ResolverConfig, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return types.ResolverConfig{}, fmt.Errorf("locating home directory: %w", err)
	}
	return types.ResolverConfig{
		StorageDir:  filepath.Join(home, "Zotero", "storage"),
		DownloadDir: defaultDownloadDir(),
		MinSize:     DefaultMinSize,
	}, nil
}

// NewResolver returns a Resolver. Zero fields in cfg other than
// StorageDir take their defaults.
func NewResolver(cfg types.ResolverConfig, remote Fetcher) *Resolver {
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = defaultDownloadDir()
	}
	if cfg.MinSize <= 0 {
		cfg.MinSize = DefaultMinSize
	}
	return &Resolver{cfg: cfg, remote: remote}
}

// defaultDownloadDir is DefaultDownloadDir, or the system temp directory
// on Windows where /tmp does not exist.
func defaultDownloadDir() string {
	if runtime.GOOS == "windows" {
		return os.TempDir()
	}
	return DefaultDownloadDir
}

// Resolve returns the path of the PDF for key. A local hit returns
// immediately without touching the Fetcher. Otherwise one remote attempt
// is made; any failure is reported as ErrNotFound wrapping the cause.
// Status lines go to w.
func (r *Resolver) Resolve(ctx context.Context, key string, w io.Writer) (*types.Resolution, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	path, err := r.FindLocal(key)
	if err != nil {
		fmt.Fprintf(w, "warning: checking local storage: %v\n", err)
	}
	if path != "" {
		fmt.Fprintf(w, "found local PDF: %s\n", path)
		return &types.Resolution{Key: key, Path: path, Source: types.SourceLocal}, nil
	}

	fmt.Fprintln(w, "PDF not found locally, downloading from web library...")
	path, err = r.fetch(ctx, key, w)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, key, err)
	}
	fmt.Fprintf(w, "downloaded PDF: %s\n", path)
	return &types.Resolution{Key: key, Path: path, Source: types.SourceRemote}, nil
}

// FindLocal returns the first PDF (by name) in the storage folder for key,
// or "" when the folder is missing or holds no PDF.
func (r *Resolver) FindLocal(key string) (string, error) {
	if r.cfg.StorageDir == "" {
		return "", nil
	}
	dir := filepath.Join(r.cfg.StorageDir, key)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), pdfExt) {
			continue
		}
		return filepath.Join(dir, e.Name()), nil
	}
	return "", nil
}

// fetch downloads key into the download directory under its remote
// filename and validates the size.
func (r *Resolver) fetch(ctx context.Context, key string, w io.Writer) (string, error) {
	switch f := r.remote.(type) {
	case nil:
		return "", errors.New("no remote library configured")
	case unavailable:
		return "", f.err
	}

	name, err := r.remote.Filename(ctx, key)
	if err == nil {
		name = safeFilename(name)
	}
	if err != nil || name == "" {
		fallback := key + pdfExt
		if err != nil {
			fmt.Fprintf(w, "warning: could not get original filename (%v), using %s\n", err, fallback)
		} else {
			fmt.Fprintf(w, "warning: unusable original filename, using %s\n", fallback)
		}
		name = fallback
	}

	if err := os.MkdirAll(r.cfg.DownloadDir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", r.cfg.DownloadDir, err)
	}
	destPath := filepath.Join(r.cfg.DownloadDir, name)

	fmt.Fprintf(w, "downloading: %s -> %s\n", key, destPath)
	if err := r.download(ctx, key, destPath); err != nil {
		return "", err
	}
	return destPath, nil
}

// download writes the remote file to a temporary file next to destPath,
// rejects it when it is below the minimum size, and renames it into place
// on success.
func (r *Resolver) download(ctx context.Context, key, destPath string) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".get-pdf-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	n, dlErr := r.remote.Download(ctx, key, tmpFile)
	closeErr := tmpFile.Close()
	if dlErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("downloading %s: %w", key, dlErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if n < r.cfg.MinSize {
		os.Remove(tmpPath)
		return fmt.Errorf("%w (%d bytes, minimum %d), likely an error response", ErrFileTooSmall, n, r.cfg.MinSize)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
