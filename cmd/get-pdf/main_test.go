// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-tools/internal/acquire"
	"github.com/pdiddy/paper-tools/internal/config"
	"github.com/pdiddy/paper-tools/internal/zotero"
)

// runRoot executes rootCmd with args and returns stdout, stderr and the error.
func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func clearZoteroEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.KeyZoteroAPIKey, config.KeyZoteroLibraryID, config.KeyZoteroLibraryType} {
		t.Setenv(k, "")
	}
}

func TestGetPDFLocalHitPrintsOnlyPath(t *testing.T) {
	clearZoteroEnv(t)
	storage := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(storage, "ABCD1234"), 0o755))
	pdf := filepath.Join(storage, "ABCD1234", "paper.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4"), 0o644))

	stdout, stderr, err := runRoot(t,
		"--env-file", filepath.Join(t.TempDir(), "missing.env"),
		"--storage-dir", storage,
		"--download-dir", t.TempDir(),
		"ABCD1234")

	require.NoError(t, err)
	assert.Equal(t, pdf+"\n", stdout)
	assert.Contains(t, stderr, "found local PDF")
}

func TestGetPDFMissingCredentialsFails(t *testing.T) {
	clearZoteroEnv(t)

	stdout, stderr, err := runRoot(t,
		"--env-file", filepath.Join(t.TempDir(), "missing.env"),
		"--storage-dir", t.TempDir(),
		"--download-dir", t.TempDir(),
		"NOPE1234")

	require.Error(t, err)
	assert.ErrorIs(t, err, acquire.ErrNotFound)
	assert.ErrorIs(t, err, config.ErrMissingKey)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error:")
}

func TestGetPDFRequiresOneArgument(t *testing.T) {
	_, _, err := runRoot(t)
	assert.Error(t, err)
}

func TestNewFetcherUnavailableWithoutConfig(t *testing.T) {
	clearZoteroEnv(t)
	f := newFetcher(filepath.Join(t.TempDir(), "missing.env"), defaultTimeout)

	_, err := f.Filename(context.Background(), "KEY")
	assert.ErrorIs(t, err, config.ErrMissingKey)
}

func TestNewFetcherReadsEnvFile(t *testing.T) {
	clearZoteroEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("ZOTERO_API_KEY=secret\nZOTERO_LIBRARY_ID=12345\n"), 0o600))

	f := newFetcher(envFile, defaultTimeout)
	assert.IsType(t, &zotero.Client{}, f)
}
