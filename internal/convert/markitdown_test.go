// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-tools/internal/ocr"
	"github.com/pdiddy/paper-tools/pkg/types"
)

// fakeRuntime implements container.Runtime.
type fakeRuntime struct {
	imageErr error
	output   string
	runErr   error
	stdin    []byte
}

func (f *fakeRuntime) Name() string { return "docker" }
func (f *fakeRuntime) Available(context.Context) bool { return true }
func (f *fakeRuntime) ImageExists(context.Context, string) error { return f.imageErr }

func (f *fakeRuntime) Filter(_ context.Context, _ string, stdin io.Reader, stdout io.Writer) error {
	f.stdin, _ = io.ReadAll(stdin)
	if f.runErr != nil {
		return f.runErr
	}
	_, err := io.WriteString(stdout, f.output)
	return err
}

func TestMarkitdownConverter(t *testing.T) {
	rt := &fakeRuntime{output: "# Converted"}
	c, err := NewMarkitdownConverter(context.Background(), rt)
	require.NoError(t, err)
	assert.Equal(t, "markitdown", c.Name())

	res, err := c.Convert(context.Background(), []byte("pdf bytes"))
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), rt.stdin)
	require.Len(t, res.Pages, 1)
	assert.Equal(t, "# Converted", res.Pages[0].Markdown)
	assert.Empty(t, res.Pages[0].Images)
}

func TestMarkitdownConverterErrors(t *testing.T) {
	_, err := NewMarkitdownConverter(context.Background(), &fakeRuntime{imageErr: errors.New("no such image")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "markitdown image not available in docker")

	c, err := NewMarkitdownConverter(context.Background(), &fakeRuntime{runErr: errors.New("exit status 2")})
	require.NoError(t, err)
	_, err = c.Convert(context.Background(), []byte("pdf"))
	assert.ErrorContains(t, err, "exit status 2")

	c, err = NewMarkitdownConverter(context.Background(), &fakeRuntime{})
	require.NoError(t, err)
	_, err = c.Convert(context.Background(), []byte("pdf"))
	assert.ErrorContains(t, err, "empty output")
}

func TestMistralConverter(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"model":"mistral-ocr-2505","pages":[{"index":0,"markdown":"hello","images":[]}]}`)
	}))
	defer ts.Close()

	client, err := ocr.NewClient(ts.Client(), types.OCRConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second},
		APIKey:     "k",
		Model:      "mistral-ocr-latest",
		BaseURL:    ts.URL,
	})
	require.NoError(t, err)

	c := NewMistralConverter(client)
	assert.Equal(t, "mistral", c.Name())

	res, err := c.Convert(context.Background(), []byte("pdf"))
	require.NoError(t, err)
	require.Len(t, res.Pages, 1)
	assert.Equal(t, "hello", res.Pages[0].Markdown)
}
