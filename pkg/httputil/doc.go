// Package httputil fetches design exports over HTTP.
//
// Exports are often published by a plugin or a build step and referenced by
// URL. [Client.Fetch] downloads one with a size cap and retries transient
// failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Retries use exponential backoff (see [Retry]); a Retry-After header on a
// 429 or 5xx response sets the next wait instead. Other 4xx responses fail
// immediately with a NOT_FOUND or INVALID_INPUT coded error.
//
//	c := httputil.NewClient()
//	data, err := c.Fetch(ctx, "https://example.com/deck.json")
package httputil
