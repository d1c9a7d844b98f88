package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/figslides/pkg/buildinfo"
	"github.com/matzehuels/figslides/pkg/errors"
)

// Defaults for [Client].
const (
	DefaultTimeout  = 30 * time.Second
	DefaultMaxBytes = 50 << 20
	DefaultAttempts = 3
)

// Client downloads documents.
type Client struct {
	HTTP     *http.Client
	MaxBytes int64
	Attempts int
	Delay    time.Duration
}

// NewClient returns a client with the package defaults.
func NewClient() *Client {
	return &Client{
		HTTP:     &http.Client{Timeout: DefaultTimeout},
		MaxBytes: DefaultMaxBytes,
		Attempts: DefaultAttempts,
		Delay:    time.Second,
	}
}

// Fetch GETs rawURL and returns the body. Bodies over MaxBytes fail with
// PAYLOAD_TOO_LARGE.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return nil, err
	}

	var body []byte
	err := Retry(ctx, c.Attempts, c.Delay, func() error {
		var err error
		body, err = c.get(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid URL")
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &TransientError{Err: fmt.Errorf("fetch %s: %w", rawURL, err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &TransientError{
			Err:   fmt.Errorf("fetch %s: %s", rawURL, resp.Status),
			After: retryAfter(resp.Header),
		}
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeNotFound, "document not found: %s", rawURL)
	case resp.StatusCode >= 400:
		return nil, errors.New(errors.ErrCodeInvalidInput, "fetch %s: %s", rawURL, resp.Status)
	}

	limit := c.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &TransientError{Err: fmt.Errorf("read %s: %w", rawURL, err)}
	}
	if int64(len(data)) > limit {
		return nil, errors.New(errors.ErrCodeTooLarge, "document exceeds %d bytes", limit)
	}
	return data, nil
}
