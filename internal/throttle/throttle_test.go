package throttle

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupThrottle(t *testing.T) (*Throttle, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, 3, 15*time.Minute), mr
}

func TestThrottle(t *testing.T) {
	ctx := context.Background()

	t.Run("Should allow logins below the limit", func(t *testing.T) {
		th, _ := setupThrottle(t)
		require.NoError(t, th.Fail(ctx, "bob@x.com"))
		require.NoError(t, th.Fail(ctx, "bob@x.com"))

		ok, err := th.Allow(ctx, "bob@x.com")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Should block after the maximum number of failures", func(t *testing.T) {
		th, _ := setupThrottle(t)
		for i := 0; i < 3; i++ {
			require.NoError(t, th.Fail(ctx, "bob@x.com"))
		}

		ok, err := th.Allow(ctx, "BOB@x.com")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = th.Allow(ctx, "carol@x.com")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Should forget failures after the window", func(t *testing.T) {
		th, mr := setupThrottle(t)
		for i := 0; i < 3; i++ {
			require.NoError(t, th.Fail(ctx, "bob@x.com"))
		}
		assert.Equal(t, 15*time.Minute, mr.TTL(key("bob@x.com")))

		mr.FastForward(16 * time.Minute)

		ok, err := th.Allow(ctx, "bob@x.com")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Should clear failures on reset", func(t *testing.T) {
		th, mr := setupThrottle(t)
		for i := 0; i < 3; i++ {
			require.NoError(t, th.Fail(ctx, "bob@x.com"))
		}
		require.NoError(t, th.Reset(ctx, "bob@x.com"))

		assert.False(t, mr.Exists(key("bob@x.com")))
		ok, err := th.Allow(ctx, "bob@x.com")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
