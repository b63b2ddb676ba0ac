package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/docai/docai/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter(t *testing.T) {
	t.Parallel()

	t.Run("first request per domain proceeds immediately", func(t *testing.T) {
		t.Parallel()
		limiter := crawl.NewDomainLimiter(1.0)

		start := time.Now()
		err := limiter.Wait(context.Background(), "example.com")
		require.NoError(t, err)
		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("second request to same domain is paced", func(t *testing.T) {
		t.Parallel()
		limiter := crawl.NewDomainLimiter(10.0) // 100ms between requests

		ctx := context.Background()
		require.NoError(t, limiter.Wait(ctx, "example.com"))

		start := time.Now()
		require.NoError(t, limiter.Wait(ctx, "example.com"))
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("different domains are independent", func(t *testing.T) {
		t.Parallel()
		limiter := crawl.NewDomainLimiter(1.0)

		ctx := context.Background()
		require.NoError(t, limiter.Wait(ctx, "a.example.com"))

		start := time.Now()
		require.NoError(t, limiter.Wait(ctx, "b.example.com"))
		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("canceled context returns error", func(t *testing.T) {
		t.Parallel()
		limiter := crawl.NewDomainLimiter(0.001) // effectively blocking

		ctx := context.Background()
		require.NoError(t, limiter.Wait(ctx, "example.com"))

		ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		assert.Error(t, limiter.Wait(ctx, "example.com"))
	})

	t.Run("delay constructor converts politeness delay to rate", func(t *testing.T) {
		t.Parallel()
		limiter := crawl.NewDomainLimiterDelay(100 * time.Millisecond)

		ctx := context.Background()
		require.NoError(t, limiter.Wait(ctx, "example.com"))

		start := time.Now()
		require.NoError(t, limiter.Wait(ctx, "example.com"))
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	})
}
