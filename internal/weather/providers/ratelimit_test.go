package providers

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlidingWindow(t *testing.T) {
	t.Run("rejects once capacity is reached", func(t *testing.T) {
		clock := clockwork.NewFakeClock()
		limiter := newSlidingWindow(3, time.Minute, clock)

		for i := 0; i < 3; i++ {
			require.NoError(t, limiter.Acquire())
		}
		assert.ErrorIs(t, limiter.Acquire(), ErrRateLimited)
	})

	t.Run("capacity returns after the period", func(t *testing.T) {
		clock := clockwork.NewFakeClock()
		limiter := newSlidingWindow(1, time.Minute, clock)

		require.NoError(t, limiter.Acquire())
		assert.ErrorIs(t, limiter.Acquire(), ErrRateLimited)

		clock.Advance(time.Minute + time.Second)
		assert.NoError(t, limiter.Acquire())
	})

	t.Run("window slides rather than resets", func(t *testing.T) {
		clock := clockwork.NewFakeClock()
		limiter := newSlidingWindow(2, time.Minute, clock)

		require.NoError(t, limiter.Acquire())
		clock.Advance(40 * time.Second)
		require.NoError(t, limiter.Acquire())

		// First acquisition has aged out, second has not.
		clock.Advance(30 * time.Second)
		require.NoError(t, limiter.Acquire())
		assert.ErrorIs(t, limiter.Acquire(), ErrRateLimited)
	})

	t.Run("rejection records nothing", func(t *testing.T) {
		clock := clockwork.NewFakeClock()
		limiter := newSlidingWindow(1, time.Minute, clock)

		require.NoError(t, limiter.Acquire())
		require.ErrorIs(t, limiter.Acquire(), ErrRateLimited)
		assert.Len(t, limiter.events, 1)
	})
}
