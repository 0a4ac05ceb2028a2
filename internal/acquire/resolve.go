// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrInvalidKey is returned for keys that cannot name a storage folder.
var ErrInvalidKey = errors.New("invalid attachment key")

// keyPattern admits Zotero item keys ("ABCD2345") and similar opaque
// identifiers while excluding path separators and glob characters.
var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateKey rejects keys that are empty or could escape the storage root.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// safeFilename reduces a remote filename to its final path element so a
// download cannot land outside the download directory. It returns "" when
// nothing usable remains.
func safeFilename(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	if name == "" {
		return ""
	}
	base := filepath.Base(name)
	switch base {
	case ".", "..", "/":
		return ""
	}
	return base
}

// Unavailable returns a Fetcher that fails every call with err. It stands
// in for the remote library when its configuration is incomplete, so a
// local hit still succeeds.
func Unavailable(err error) Fetcher {
	return unavailable{err: err}
}

type unavailable struct{ err error }

func (u unavailable) Filename(context.Context, string) (string, error) { return "", u.err }

func (u unavailable) Download(context.Context, string, io.Writer) (int64, error) { return 0, u.err }
