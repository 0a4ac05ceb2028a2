// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the get_pdf CLI, which finds the PDF
// for a Zotero attachment key locally or downloads it from the web library.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-tools/internal/acquire"
	"github.com/pdiddy/paper-tools/internal/config"
	"github.com/pdiddy/paper-tools/internal/zotero"
	"github.com/pdiddy/paper-tools/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultTimeout = 60 * time.Second

var rootCmd = &cobra.Command{
	Use:   "get_pdf <attachment_key>",
	Short: "Find or download the PDF of a Zotero attachment",
	Long: `get_pdf looks for the attachment's PDF in local Zotero storage
(~/Zotero/storage/<key>/). If none is found it downloads the file from the
Zotero web library into the download directory (default /tmp), keeping the
attachment's original filename.

On success the path is the only thing printed to standard output. Status
lines go to standard error.

Web library access needs ZOTERO_API_KEY and ZOTERO_LIBRARY_ID, plus
ZOTERO_LIBRARY_TYPE for group libraries, in the env file (default
Notes/.env) or the environment.`,
	Args:         cobra.ExactArgs(1),
	Version:      version,
	SilenceUsage: true,
	RunE:         runGetPDF,
}

func init() {
	rootCmd.Flags().String("env-file", config.DefaultEnvFile, "key=value file holding Zotero credentials")
	rootCmd.Flags().String("storage-dir", "", "local Zotero storage directory (default ~/Zotero/storage)")
	rootCmd.Flags().String("download-dir", "", "directory for downloaded PDFs (default /tmp, not $TMPDIR)")
	rootCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
}

func runGetPDF(cmd *cobra.Command, args []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	storageDir, _ := cmd.Flags().GetString("storage-dir")
	downloadDir, _ := cmd.Flags().GetString("download-dir")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	cfg, err := acquire.DefaultConfig()
	if err != nil && storageDir == "" {
		return err
	}
	if storageDir != "" {
		cfg.StorageDir = storageDir
	}
	if downloadDir != "" {
		cfg.DownloadDir = downloadDir
	}

	resolver := acquire.NewResolver(cfg, newFetcher(envFile, timeout))
	res, err := resolver.Resolve(cmd.Context(), args[0], cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Path)
	return nil
}

// newFetcher returns a Zotero client, or an unavailable Fetcher carrying
// the configuration error so that a local hit still succeeds.
func newFetcher(envFile string, timeout time.Duration) acquire.Fetcher {
	env, err := config.Load(envFile)
	if err != nil {
		return acquire.Unavailable(err)
	}
	zcfg, err := env.Zotero(types.HTTPConfig{Timeout: timeout, UserAgent: "paper-tools/" + version})
	if err != nil {
		return acquire.Unavailable(err)
	}
	return zotero.NewClient(&http.Client{Timeout: timeout}, zcfg)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
