package bridge

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hfglabs/vendor-dashboard/utils"
)

// RunHealth is the heartbeat watchdog. It runs on its own timer, never on
// the connection's goroutine, so a wedged socket cannot starve it. Each tick:
// probe with a nonce, re-subscribe the admin tap after a quiet window, and
// force a reconnect when the acknowledgment is overdue (cooldown-limited so
// a pathological RTT cannot cause a reconnect storm).
func (c *Client) RunHealth(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.healthCheck()
		}
	}
}

func (c *Client) healthCheck() {
	if !c.state.Connected() {
		// The supervisor loop owns reconnection; nothing to probe.
		return
	}
	now := time.Now()

	// A transport can report "connected" while its admin subscription has
	// silently lapsed. Total silence for the quiet window means re-subscribe.
	if AdminQuiet(c.state.LastTraffic(), now, c.cfg.QuietWindow) {
		utils.ErrorLogger.Printf("Health: admin channel quiet for >%s, rejoining admin tap", c.cfg.QuietWindow)
		c.SubscribeAdmin()
	}

	nonce := uuid.NewString()
	if err := c.emit("ping", map[string]interface{}{"nonce": nonce, "ts": now.Unix()}); err != nil {
		utils.ErrorLogger.Printf("Health: ping emit failed: %v", err)
	}

	if PongOverdue(c.state.LastPong(), now, c.cfg.PongTimeout, c.cfg.MinRetryDelay) {
		if c.state.AllowForcedReconnect(c.cfg.ReconnectCooldown) {
			c.forceReconnect("pong overdue")
		}
	}
}
