package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJoinRateLimiter(t *testing.T) {
	rl := NewJoinRateLimiter(3, time.Minute)

	for n := 0; n < 3; n++ {
		assert.True(t, rl.Allow("alice"), "attempt %d", n)
	}
	assert.False(t, rl.Allow("alice"))

	// Per-session buckets: another id is unaffected.
	assert.True(t, rl.Allow("bob"))
}

func TestJoinRateLimiterWindowExpiry(t *testing.T) {
	rl := NewJoinRateLimiter(2, 10*time.Millisecond)

	assert.True(t, rl.Allow("alice"))
	assert.True(t, rl.Allow("alice"))
	assert.False(t, rl.Allow("alice"))

	time.Sleep(15 * time.Millisecond)
	assert.True(t, rl.Allow("alice"))
}
