// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the convert CLI, which turns a PDF
// into Markdown plus an images/ directory using a cloud OCR service.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-tools/internal/config"
	"github.com/pdiddy/paper-tools/internal/container"
	"github.com/pdiddy/paper-tools/internal/convert"
	"github.com/pdiddy/paper-tools/internal/ocr"
	"github.com/pdiddy/paper-tools/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultTimeout = 5 * time.Minute
	defaultModel   = "mistral-ocr-latest"
)

var rootCmd = &cobra.Command{
	Use:   "convert <input.pdf> <output.md>",
	Short: "Convert a PDF to Markdown with the Mistral OCR API",
	Long: `convert sends a PDF (or a selection of its pages) to the Mistral OCR API
and writes the returned Markdown to the output file. Embedded images are
saved to an images/ directory next to the output and the Markdown links
are rewritten to point there.

Pages are selected with --pages as a range ("1-5") or a list ("1,3,5").
Pages outside the document are skipped with a warning.

The API key is read from mistral_api_key in the env file (default Notes/.env)
or the MISTRAL_API_KEY environment variable.`,
	Args:         cobra.ExactArgs(2),
	Version:      version,
	SilenceUsage: true,
	RunE:         runConvert,
}

func init() {
	rootCmd.Flags().String("pages", "", `page selection: "1,3,5" or "1-5" (default all pages)`)
	rootCmd.Flags().String("env-file", config.DefaultEnvFile, "key=value file holding API credentials")
	rootCmd.Flags().String("backend", string(types.BackendMistral), "conversion backend: mistral or markitdown")
	rootCmd.Flags().String("model", defaultModel, "OCR model identifier")
	rootCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	rootCmd.Flags().Int("max-retries", 0, "retries on HTTP 429 (0 disables)")
	rootCmd.Flags().Bool("frontmatter", false, "prepend YAML frontmatter describing the conversion")
}

func runConvert(cmd *cobra.Command, args []string) error {
	pagesExpr, _ := cmd.Flags().GetString("pages")
	backend, _ := cmd.Flags().GetString("backend")
	frontmatter, _ := cmd.Flags().GetBool("frontmatter")

	cfg := types.ConversionConfig{
		Backend:     types.ConversionBackend(backend),
		InputPath:   args[0],
		OutputPath:  args[1],
		Pages:       pagesExpr,
		Frontmatter: frontmatter,
	}

	ctx := cmd.Context()
	conv, err := newConverter(ctx, cmd, cfg.Backend)
	if err != nil {
		return err
	}

	_, err = convert.ConvertFile(ctx, conv, cfg, cmd.OutOrStdout())
	return err
}

// newConverter builds the backend named by backend. Credentials are only
// loaded for backends that need them.
func newConverter(ctx context.Context, cmd *cobra.Command, backend types.ConversionBackend) (convert.Converter, error) {
	switch backend {
	case types.BackendMistral:
		envFile, _ := cmd.Flags().GetString("env-file")
		model, _ := cmd.Flags().GetString("model")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		maxRetries, _ := cmd.Flags().GetInt("max-retries")

		env, err := config.Load(envFile)
		if err != nil {
			return nil, err
		}
		ocrCfg, err := env.OCR(types.HTTPConfig{Timeout: timeout, UserAgent: "paper-tools/" + version})
		if err != nil {
			return nil, err
		}
		ocrCfg.Model = model
		ocrCfg.MaxRetries = maxRetries

		client, err := ocr.NewClient(&http.Client{Timeout: timeout}, ocrCfg)
		if err != nil {
			return nil, err
		}
		return convert.NewMistralConverter(client), nil

	case types.BackendMarkitdown:
		rt, err := container.DetectRuntime(ctx)
		if err != nil {
			return nil, err
		}
		return convert.NewMarkitdownConverter(ctx, rt)

	default:
		return nil, fmt.Errorf("unknown backend %q (want %s or %s)", backend, types.BackendMistral, types.BackendMarkitdown)
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
