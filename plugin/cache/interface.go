// Package cache provides the response cache used to memoize model gateway
// output. Entries are keyed by a content fingerprint and expire by TTL;
// there is no invalidation API.
package cache

import (
	"context"
	"time"
)

// ResponseCache memoizes generated text keyed by a content fingerprint.
type ResponseCache interface {
	// Get retrieves a cached response.
	// Returns: text, whether a live (non-expired) entry exists.
	Get(ctx context.Context, key string) (string, bool)

	// Set stores a response with the given TTL.
	Set(ctx context.Context, key string, text string, ttl time.Duration) error
}
