package batch

import (
	"context"
	"time"

	"github.com/remarkablejames/richtext"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, source string) ([]byte, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetryDelays fetches source, retrying after each delay in turn.
// Errors with code EINVALID or ENOTFOUND are returned without retrying,
// since repeating the request cannot change them.
func FetchWithRetryDelays(ctx context.Context, source string, fetch FetchFunc, logger LogFunc, delays []time.Duration) ([]byte, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		body, err := fetch(ctx, source)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !retryable(err) || attempt >= maxAttempts-1 {
			break
		}

		if logger != nil {
			logger("retry %s (attempt %d): %v", source, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}

func retryable(err error) bool {
	switch richtext.ErrorCode(err) {
	case richtext.EINVALID, richtext.ENOTFOUND:
		return false
	}
	return true
}
