package batch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/remarkablejames/richtext"
	"github.com/remarkablejames/richtext/batch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	delays := []time.Duration{time.Millisecond, time.Millisecond}

	t.Run("retries transient failures", func(t *testing.T) {
		t.Parallel()

		var attempts int
		var logged []string
		fetch := func(context.Context, string) ([]byte, error) {
			attempts++
			if attempts < 3 {
				return nil, errors.New("connection reset")
			}
			return []byte("ok"), nil
		}

		body, err := batch.FetchWithRetryDelays(context.Background(), "u", fetch, func(format string, args ...any) {
			logged = append(logged, format)
		}, delays)

		require.NoError(t, err)
		assert.Equal(t, "ok", string(body))
		assert.Equal(t, 3, attempts)
		assert.Len(t, logged, 2)
	})

	t.Run("returns last error after final attempt", func(t *testing.T) {
		t.Parallel()

		var attempts int
		fetch := func(context.Context, string) ([]byte, error) {
			attempts++
			return nil, errors.New("timeout")
		}

		_, err := batch.FetchWithRetryDelays(context.Background(), "u", fetch, nil, delays)

		assert.EqualError(t, err, "timeout")
		assert.Equal(t, 3, attempts)
	})

	t.Run("does not retry permanent failures", func(t *testing.T) {
		t.Parallel()

		var attempts int
		fetch := func(context.Context, string) ([]byte, error) {
			attempts++
			return nil, richtext.Errorf(richtext.ENOTFOUND, "gone")
		}

		_, err := batch.FetchWithRetryDelays(context.Background(), "u", fetch, nil, delays)

		assert.Equal(t, richtext.ENOTFOUND, richtext.ErrorCode(err))
		assert.Equal(t, 1, attempts)
	})

	t.Run("stops waiting when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetch := func(context.Context, string) ([]byte, error) {
			cancel()
			return nil, errors.New("boom")
		}

		_, err := batch.FetchWithRetryDelays(ctx, "u", fetch, nil, []time.Duration{time.Hour})

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestTruncateSource(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", batch.TruncateSource("short", 10))
	assert.Equal(t, "...ef", batch.TruncateSource("abcdef", 5))
	assert.Equal(t, "ab", batch.TruncateSource("abcdef", 2))
	assert.Empty(t, batch.TruncateSource("abcdef", 0))
}
