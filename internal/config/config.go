// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads API credentials and library identifiers from a
// key=value env file. Environment variables of the same name take
// precedence over file values, and key lookup is case-insensitive.
//
// Recognized keys: mistral_api_key, ZOTERO_API_KEY, ZOTERO_LIBRARY_ID,
// ZOTERO_LIBRARY_TYPE.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/paper-tools/pkg/types"
)

// DefaultEnvFile is the env file location, relative to the working directory.
const DefaultEnvFile = "Notes/.env"

// Keys read from the env file.
const (
	KeyMistralAPIKey     = "mistral_api_key"
	KeyMistralBaseURL    = "mistral_base_url"
	KeyZoteroAPIKey      = "ZOTERO_API_KEY"
	KeyZoteroLibraryID   = "ZOTERO_LIBRARY_ID"
	KeyZoteroLibraryType = "ZOTERO_LIBRARY_TYPE"
)

const defaultOCRModel = "mistral-ocr-latest"

// ErrMissingKey is returned when a required key is absent or empty.
var ErrMissingKey = errors.New("missing required configuration key")

// ErrInvalidValue is returned when a key holds a value outside its allowed set.
var ErrInvalidValue = errors.New("invalid configuration value")

// Env is a loaded env file plus the process environment.
type Env struct {
	v    *viper.Viper
	path string
}

// Load reads the env file at path. A missing file is not an error: keys
// may still come from the environment, and Require reports whatever is
// absent. Any other read or parse failure is returned.
func Load(path string) (*Env, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return &Env{v: v, path: path}, nil
}

// Path returns the env file path the Env was loaded from.
func (e *Env) Path() string { return e.path }

// Get returns the trimmed value for key, or fallback when it is unset.
func (e *Env) Get(key, fallback string) string {
	if s := strings.TrimSpace(e.v.GetString(key)); s != "" {
		return s
	}
	return fallback
}

// Require returns the trimmed value for key or an ErrMissingKey naming it.
func (e *Env) Require(key string) (string, error) {
	s := e.Get(key, "")
	if s == "" {
		return "", fmt.Errorf("%w: %s not found in %s or environment", ErrMissingKey, key, e.path)
	}
	return s, nil
}

// OCR builds the OCR collaborator config. The API key is required.
func (e *Env) OCR(http types.HTTPConfig) (types.OCRConfig, error) {
	key, err := e.Require(KeyMistralAPIKey)
	if err != nil {
		return types.OCRConfig{}, err
	}
	return types.OCRConfig{
		HTTPConfig: http,
		APIKey:     key,
		Model:      defaultOCRModel,
		BaseURL:    e.Get(KeyMistralBaseURL, ""),
	}, nil
}

// Zotero builds the Zotero Web API config. The API key and library ID are
// required; the library type defaults to "user".
func (e *Env) Zotero(http types.HTTPConfig) (types.ZoteroConfig, error) {
	key, err := e.Require(KeyZoteroAPIKey)
	if err != nil {
		return types.ZoteroConfig{}, err
	}
	id, err := e.Require(KeyZoteroLibraryID)
	if err != nil {
		return types.ZoteroConfig{}, err
	}

	libType := types.LibraryType(strings.ToLower(e.Get(KeyZoteroLibraryType, string(types.LibraryUser))))
	switch libType {
	case types.LibraryUser, types.LibraryGroup:
	default:
		return types.ZoteroConfig{}, fmt.Errorf("%w: %s=%q (want user or group)", ErrInvalidValue, KeyZoteroLibraryType, libType)
	}

	return types.ZoteroConfig{
		HTTPConfig:  http,
		APIKey:      key,
		LibraryID:   id,
		LibraryType: libType,
	}, nil
}
