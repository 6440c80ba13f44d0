// Copyright 2025 Quellwerk
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package stage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxAttempts = 3
	defaultBaseDelay   = 500 * time.Millisecond

	// Error bodies are truncated in messages past this size.
	maxErrorBody = 512
)

// Client calls the external stage services over HTTP.
// All calls carry a per-request timeout and retry transient failures
// (connection errors, timeouts, 5xx responses) with exponential backoff.
type Client struct {
	http        *http.Client
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client) error

// WithTimeout sets the per-request timeout.
// Default is 30 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout must be greater than zero")
		}
		c.http.Timeout = timeout
		return nil
	}
}

// WithMaxAttempts sets the retry budget for transient failures.
// Default is 3.
func WithMaxAttempts(attempts int) Option {
	return func(c *Client) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		c.maxAttempts = attempts
		return nil
	}
}

// WithBaseDelay sets the base delay for exponential backoff.
// Default is 500ms.
func WithBaseDelay(delay time.Duration) Option {
	return func(c *Client) error {
		if delay <= 0 {
			return fmt.Errorf("base delay must be greater than zero")
		}
		c.baseDelay = delay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewClient creates a stage service client.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		http:        &http.Client{Timeout: defaultTimeout},
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		logger:      slog.Default().With("component", "stage-client"),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// PostJSON posts a JSON body to url and decodes the JSON response into out.
// The body is rebuilt for every retry attempt.
func (c *Client) PostJSON(ctx context.Context, url string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}

	return c.post(ctx, url, func() (io.Reader, string, error) {
		return bytes.NewReader(payload), "application/json", nil
	}, out)
}

// PostFile posts a file as a multipart form upload to url and decodes the
// JSON response into out. The multipart body is rebuilt for every retry
// attempt.
func (c *Client) PostFile(ctx context.Context, url, field, filename string, data []byte, out any) error {
	return c.post(ctx, url, func() (io.Reader, string, error) {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		part, err := writer.CreateFormFile(field, filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(data); err != nil {
			return nil, "", err
		}
		if err := writer.Close(); err != nil {
			return nil, "", err
		}
		return &buf, writer.FormDataContentType(), nil
	}, out)
}

func (c *Client) post(ctx context.Context, url string, makeBody func() (io.Reader, string, error), out any) error {
	err := RetryWithBackoff(ctx, func() error {
		body, contentType, err := makeBody()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRejected, err)
		}
		return c.doOnce(ctx, url, body, contentType, out)
	}, c.maxAttempts, c.baseDelay)

	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, ErrRejected) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrUnreachable, url, err)
}

func (c *Client) doOnce(ctx context.Context, url string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("stage request failed", "url", url, "err", err)
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("server error: %s", resp.Status)
	case resp.StatusCode >= 400:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s: %s", ErrRejected, resp.Status, bytes.TrimSpace(detail))
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: malformed response body: %v", ErrRejected, err)
	}
	return nil
}
