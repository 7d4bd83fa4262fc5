package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(limit int, period time.Duration) (*Limiter, *time.Time) {
	l := NewLimiter(limit, period)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiterAllowsUpToLimit(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		require.True(t, l.Allow("a"), "send %d should pass", i)
	}
	assert.False(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
}

func TestLimiterSlidesWindow(t *testing.T) {
	l, now := newTestLimiter(2, time.Minute)

	require.True(t, l.Allow("a"))
	*now = now.Add(30 * time.Second)
	require.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))

	// 61s after the first send: only the second send remains in the window.
	*now = now.Add(31 * time.Second)
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
}

func TestLimiterDeniedAttemptsDoNotExtendWindow(t *testing.T) {
	l, now := newTestLimiter(1, time.Minute)

	require.True(t, l.Allow("a"))
	for i := 0; i < 10; i++ {
		assert.False(t, l.Allow("a"))
	}

	*now = now.Add(time.Minute + time.Second)
	assert.True(t, l.Allow("a"), "rejected sends must not count against the window")
}

func TestLimiterIsolatesConnections(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	require.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))
}

func TestLimiterForgetResetsConnection(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	require.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))

	l.Forget("a")
	assert.True(t, l.Allow("a"))
}
