package bridge

import (
	"math/rand"
	"time"
)

// NextDelay computes the reconnect delay for the given consecutive failure
// count: exponential from min, capped at max, with up to 25% jitter so a
// fleet of bridges does not reconnect in lockstep. Pure function of its
// inputs apart from the jitter draw.
func NextDelay(failures int, min, max time.Duration) time.Duration {
	if failures < 1 {
		failures = 1
	}
	delay := min
	for i := 1; i < failures; i++ {
		delay *= 2
		if delay >= max {
			delay = max
			break
		}
	}
	jitter := time.Duration(rand.Int63n(int64(delay)/4 + 1))
	delay += jitter
	if delay > max {
		delay = max
	}
	return delay
}

// PongOverdue reports whether the last acknowledgment is stale enough to
// force a reconnect: older than the pong timeout, or twice the minimum
// reconnect delay, whichever is larger.
func PongOverdue(lastPong, now time.Time, pongTimeout, minRetryDelay time.Duration) bool {
	limit := pongTimeout
	if d := 2 * minRetryDelay; d > limit {
		limit = d
	}
	return now.Sub(lastPong) > limit
}

// AdminQuiet reports whether no traffic at all has been seen on the admin
// channel for the quiet window, indicating a silently lapsed subscription.
func AdminQuiet(lastTraffic, now time.Time, quietWindow time.Duration) bool {
	return now.Sub(lastTraffic) > quietWindow
}
