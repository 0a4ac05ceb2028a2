// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the remote collaborators.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

// ErrRemoteRequest marks a failed call to a remote API: a transport error
// or a non-2xx status.
var ErrRemoteRequest = errors.New("remote request failed")

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

// maxBodyExcerpt bounds how much of an error response body is quoted.
const maxBodyExcerpt = 200

// DoWithRetry executes an HTTP request and retries on HTTP 429 (Too Many
// Requests) with exponential backoff. The delay starts at RetryBaseDelay
// and doubles each attempt.
//
// When maxRetries is 0 the request is sent exactly once. On each 429 the
// response body is drained and closed before sleeping. If the context is
// cancelled during a backoff wait the function returns ctx.Err(). After
// exhausting retries the last 429 response is returned so the caller can
// inspect it.
//
// Requests with a body must set GetBody so the body can be replayed;
// http.NewRequest does this for in-memory readers.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries < 0 {
		maxRetries = 0
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("rewinding request body: %w", err)
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRemoteRequest, err)
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// CheckStatus returns nil for 2xx responses. Otherwise it drains the body
// and returns an ErrRemoteRequest naming the service, the status code, and
// the start of the response body.
func CheckStatus(resp *http.Response, service string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyExcerpt))
	io.Copy(io.Discard, resp.Body)

	excerpt := strings.TrimSpace(string(body))
	if excerpt == "" {
		return fmt.Errorf("%w: %s returned HTTP %d", ErrRemoteRequest, service, resp.StatusCode)
	}
	return fmt.Errorf("%w: %s returned HTTP %d: %s", ErrRemoteRequest, service, resp.StatusCode, excerpt)
}
