package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hfglabs/vendor-dashboard/utils"
)

// Config holds the tunables of the upstream connection. Zero values are
// filled in by DefaultConfig.
type Config struct {
	URL               string
	AuthToken         string
	HandshakeTimeout  time.Duration
	WriteTimeout      time.Duration
	MinRetryDelay     time.Duration
	MaxRetryDelay     time.Duration
	PingInterval      time.Duration
	PongTimeout       time.Duration
	QuietWindow       time.Duration
	ReconnectCooldown time.Duration
}

func DefaultConfig() Config {
	return Config{
		URL:               "wss://hfg-booking.onrender.com",
		HandshakeTimeout:  10 * time.Second,
		WriteTimeout:      5 * time.Second,
		MinRetryDelay:     1 * time.Second,
		MaxRetryDelay:     10 * time.Second,
		PingInterval:      15 * time.Second,
		PongTimeout:       10 * time.Second,
		QuietWindow:       60 * time.Second,
		ReconnectCooldown: 30 * time.Second,
	}
}

// RelayFunc delivers a transformed upstream event into the local hub.
type RelayFunc func(vendorID uint, event string, data interface{})

// Client maintains the single persistent connection to the booking feed.
// The reader runs in Run, the heartbeat watchdog in RunHealth; both are
// long-lived goroutines independent of request handling.
type Client struct {
	cfg   Config
	state *State
	relay RelayFunc

	mu   sync.Mutex // guards conn for writes and swaps
	conn *websocket.Conn
}

func NewClient(cfg Config, relay RelayFunc) *Client {
	def := DefaultConfig()
	if cfg.URL == "" {
		cfg.URL = def.URL
	}
	if cfg.HandshakeTimeout == 0 {
		cfg.HandshakeTimeout = def.HandshakeTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.MinRetryDelay == 0 {
		cfg.MinRetryDelay = def.MinRetryDelay
	}
	if cfg.MaxRetryDelay == 0 {
		cfg.MaxRetryDelay = def.MaxRetryDelay
	}
	if cfg.PingInterval == 0 {
		cfg.PingInterval = def.PingInterval
	}
	if cfg.PongTimeout == 0 {
		cfg.PongTimeout = def.PongTimeout
	}
	if cfg.QuietWindow == 0 {
		cfg.QuietWindow = def.QuietWindow
	}
	if cfg.ReconnectCooldown == 0 {
		cfg.ReconnectCooldown = def.ReconnectCooldown
	}
	return &Client{
		cfg:   cfg,
		state: NewState(),
		relay: relay,
	}
}

// State exposes the connection state for the status endpoint and watchdog.
func (c *Client) State() *State {
	return c.state
}

// Join records interest in a vendor's events. The first call for a vendor
// emits a subscribe frame if connected; otherwise the id is replayed on the
// next successful connect. Subsequent calls are no-ops.
func (c *Client) Join(vendorID uint) {
	if !c.state.AddVendor(vendorID) {
		return
	}
	if c.state.Connected() {
		if err := c.emit("connect_vendor", map[string]interface{}{"vendor_id": vendorID}); err != nil {
			utils.ErrorLogger.Printf("Upstream join failed for vendor_%d: %v", vendorID, err)
			return
		}
		utils.InfoLogger.Printf("Upstream join requested: vendor_%d", vendorID)
	}
}

// Run is the connection supervisor: connect, read until failure, back off,
// repeat. Disconnects are never fatal; the loop ends only when ctx does.
func (c *Client) Run(ctx context.Context) {
	failures := 0
	for {
		if ctx.Err() != nil {
			return
		}

		err := c.connectAndRead(ctx)
		if ctx.Err() != nil {
			return
		}
		failures++
		delay := NextDelay(failures, c.cfg.MinRetryDelay, c.cfg.MaxRetryDelay)
		utils.ErrorLogger.Printf("Upstream bridge disconnected (%v), retrying in %s", err, delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) connectAndRead(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.HandshakeTimeout}
	header := http.Header{}
	if c.cfg.AuthToken != "" {
		header.Set("Authorization", "Bearer "+c.cfg.AuthToken)
	}

	conn, _, err := dialer.DialContext(ctx, c.cfg.URL, header)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.state.MarkConnected()
	utils.InfoLogger.Printf("Connected to booking upstream: %s", c.cfg.URL)

	// Admin tap first, then replay every vendor joined so far. Re-subscribing
	// to an already-subscribed vendor is a no-op upstream.
	c.SubscribeAdmin()
	for _, id := range c.state.Vendors() {
		if err := c.emit("connect_vendor", map[string]interface{}{"vendor_id": id}); err != nil {
			utils.ErrorLogger.Printf("Replay join failed for vendor_%d: %v", id, err)
		}
	}

	err = c.readLoop(conn)
	c.state.MarkDisconnected()
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
	conn.Close()
	return err
}

func (c *Client) readLoop(conn *websocket.Conn) error {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		c.state.RecordTraffic()

		var frame Frame
		if err := json.Unmarshal(payload, &frame); err != nil {
			utils.ErrorLogger.Printf("Dropping malformed upstream frame: %v", err)
			continue
		}
		c.dispatch(frame)
	}
}

func (c *Client) dispatch(frame Frame) {
	switch frame.Event {
	case EventPong:
		c.state.RecordPong()
	case EventBooking, EventBookingAdmin:
		// Booking traffic doubles as an acknowledgment.
		c.state.RecordPong()

		evt, err := ParseBookingEvent(frame.Data)
		if err != nil {
			utils.ErrorLogger.Printf("Dropping upstream booking: %v", err)
			return
		}
		utils.InfoLogger.Printf("Upstream booking: vendor=%d bookingId=%d", evt.VendorID, evt.BookingID)

		if c.relay == nil {
			return
		}
		// Raw event for generic consumers, always.
		c.relay(evt.VendorID, EventRelayBooking, evt.Raw)
		// Canonical upcoming view model, only for confirmed upcoming bookings.
		if upcoming := FormatUpcomingBooking(evt); upcoming != nil {
			c.relay(evt.VendorID, EventRelayUpcoming, upcoming)
		}
	default:
		utils.InfoLogger.Printf("Ignoring upstream event %q", frame.Event)
	}
}

// SubscribeAdmin requests the admin tap that carries every vendor's events.
func (c *Client) SubscribeAdmin() {
	if err := c.emit("connect_admin", map[string]interface{}{}); err != nil {
		utils.ErrorLogger.Printf("Failed to request admin tap: %v", err)
		return
	}
	utils.InfoLogger.Printf("Requested admin tap: dashboard_admin")
}

func (c *Client) emit(event string, data interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return websocket.ErrCloseSent
	}
	frame := map[string]interface{}{"event": event, "data": data}
	c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return c.conn.WriteJSON(frame)
}

// forceReconnect tears the connection down; the supervisor loop then dials
// again with backoff.
func (c *Client) forceReconnect(reason string) {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn != nil {
		utils.ErrorLogger.Printf("Forcing upstream reconnect: %s", reason)
		conn.Close()
	}
}
