package bridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextDelayGrowsAndCaps(t *testing.T) {
	min := 1 * time.Second
	max := 10 * time.Second

	for failures := 1; failures <= 10; failures++ {
		delay := NextDelay(failures, min, max)
		assert.GreaterOrEqual(t, delay, min, "failure %d", failures)
		assert.LessOrEqual(t, delay, max, "failure %d", failures)
	}

	// By the fifth consecutive failure the base delay has hit the cap.
	for i := 0; i < 20; i++ {
		assert.Equal(t, max, NextDelay(5, min, max))
	}
}

func TestNextDelayJitterWithinQuarter(t *testing.T) {
	min := 1 * time.Second
	max := 100 * time.Second

	// failures=2 -> base 2s, jitter at most 25% of base.
	for i := 0; i < 50; i++ {
		delay := NextDelay(2, min, max)
		assert.GreaterOrEqual(t, delay, 2*time.Second)
		assert.LessOrEqual(t, delay, 2*time.Second+500*time.Millisecond)
	}
}

func TestNextDelayTreatsZeroFailuresAsOne(t *testing.T) {
	delay := NextDelay(0, time.Second, 10*time.Second)
	assert.GreaterOrEqual(t, delay, time.Second)
	assert.LessOrEqual(t, delay, time.Second+250*time.Millisecond)
}

func TestPongOverdue(t *testing.T) {
	now := time.Now()

	// Limit is the pong timeout when it dominates.
	assert.False(t, PongOverdue(now.Add(-9*time.Second), now, 10*time.Second, time.Second))
	assert.True(t, PongOverdue(now.Add(-11*time.Second), now, 10*time.Second, time.Second))

	// Twice the retry delay wins when it is larger than the timeout.
	assert.False(t, PongOverdue(now.Add(-11*time.Second), now, 10*time.Second, 6*time.Second))
	assert.True(t, PongOverdue(now.Add(-13*time.Second), now, 10*time.Second, 6*time.Second))
}

func TestAdminQuiet(t *testing.T) {
	now := time.Now()
	window := 60 * time.Second

	assert.False(t, AdminQuiet(now.Add(-59*time.Second), now, window))
	assert.True(t, AdminQuiet(now.Add(-61*time.Second), now, window))
}
