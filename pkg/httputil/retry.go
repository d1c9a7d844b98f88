package httputil

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"
)

// maxRetryAfter caps how long a server's Retry-After header can stall a
// fetch.
const maxRetryAfter = 30 * time.Second

// TransientError marks a failure worth another attempt. After, when
// positive, replaces the backoff delay for the next attempt.
type TransientError struct {
	Err   error
	After time.Duration
}

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// Retry runs fn at most attempts times. The wait after failure n is
// delay<<n unless the error carries its own delay. Errors that are not a
// [TransientError] end the loop at once, as does cancelling ctx.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	for n := 0; ; n++ {
		err := fn()
		var te *TransientError
		if err == nil || !errors.As(err, &te) || n+1 >= attempts {
			return err
		}

		wait := delay << n
		if te.After > 0 {
			wait = te.After
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// retryAfter reads a Retry-After header given in seconds. HTTP-date values
// are ignored.
func retryAfter(h http.Header) time.Duration {
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return min(time.Duration(secs)*time.Second, maxRetryAfter)
}
