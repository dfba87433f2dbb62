package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hfglabs/vendor-dashboard/utils"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 50 * time.Second
	sendBuffer = 32
)

// Client wraps one websocket connection. Writes go through a buffered send
// channel drained by a single write pump, so room broadcasts never contend
// on the connection.
type Client struct {
	conn  *websocket.Conn
	send  chan []byte
	rooms map[string]struct{}

	// mu guards closed and the send side of the channel. A broadcast can
	// race the client's disconnect cleanup; the flag keeps trySend from
	// writing into a closed channel.
	mu     sync.Mutex
	closed bool

	VendorID uint
	Role     string
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		conn:  conn,
		send:  make(chan []byte, sendBuffer),
		rooms: make(map[string]struct{}),
	}
}

// trySend queues a payload without blocking. False means the client is
// closed or its buffer is full and the caller should evict it.
func (c *Client) trySend(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// Send queues one event directly to this client, outside any room. These
// are replies to requests the client made, so a drop is worth a log line.
func (c *Client) Send(event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		return
	}
	if !c.trySend(payload) {
		utils.ErrorLogger.Printf("Dropping %s reply: client closed or send buffer full", event)
	}
}

// WritePump drains the send channel onto the wire and keeps the connection
// alive with control pings. Runs as one goroutine per client.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadMessage blocks for the next text frame from the client.
func (c *Client) ReadMessage() ([]byte, error) {
	_, payload, err := c.conn.ReadMessage()
	return payload, err
}

// Close marks the client closed and releases the write pump. Safe to call
// any number of times and concurrently with trySend.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}
