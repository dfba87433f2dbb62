package hub

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hfglabs/vendor-dashboard/utils"
)

// Local event names.
const (
	EventUnlockRequest   = "unlock_request"
	EventLinkClosed      = "link_closed"
	EventExtensionOffer  = "extension_candidate"
	EventExtensionOK     = "extension_confirm"
	EventExtensionError  = "extension_error"
	EventBookingUpdate   = "booking_update"
	EventPongHealth      = "pong_health"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub fans events out to dashboard and kiosk clients grouped into rooms:
// vendor_{id} for dashboards, console:{id} for kiosks. Delivery is
// best-effort: a client that cannot keep up is dropped, nothing is buffered
// or replayed.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*Client]struct{}

	// JoinUpstream is invoked when a client declares interest in a vendor,
	// creating the upstream subscription lazily. The bridge dedupes repeats.
	JoinUpstream func(vendorID uint)
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
	}
}

func VendorRoom(vendorID uint) string {
	return fmt.Sprintf("vendor_%d", vendorID)
}

func ConsoleRoom(consoleID uint) string {
	return fmt.Sprintf("console:%d", consoleID)
}

func (h *Hub) join(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][client] = struct{}{}
	client.rooms[room] = struct{}{}
}

// JoinVendor subscribes a dashboard client to a vendor room and lazily
// creates the upstream subscription.
func (h *Hub) JoinVendor(client *Client, vendorID uint) {
	h.join(client, VendorRoom(vendorID))
	utils.InfoLogger.Printf("Client joined local room %s", VendorRoom(vendorID))
	if h.JoinUpstream != nil {
		h.JoinUpstream(vendorID)
	}
}

// JoinConsole subscribes a kiosk client to its console room for
// point-to-point messages (unlock commands, extension confirms).
func (h *Hub) JoinConsole(client *Client, consoleID uint) {
	h.join(client, ConsoleRoom(consoleID))
	utils.InfoLogger.Printf("Client joined local room %s", ConsoleRoom(consoleID))
}

// Remove detaches a client from every room it joined.
func (h *Hub) Remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room := range client.rooms {
		if members, ok := h.rooms[room]; ok {
			delete(members, client)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	client.rooms = make(map[string]struct{})
}

func (h *Hub) broadcast(room, event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling %s message: %v", event, err)
		return
	}

	h.mu.Lock()
	members := make([]*Client, 0, len(h.rooms[room]))
	for client := range h.rooms[room] {
		members = append(members, client)
	}
	h.mu.Unlock()

	for _, client := range members {
		if !client.trySend(payload) {
			// Slow consumer: drop it rather than block the relay.
			h.Remove(client)
			client.Close()
		}
	}
}

// BroadcastToVendor relays an event to every dashboard in the vendor room,
// in arrival order. Clients not connected at this moment miss the event.
func (h *Hub) BroadcastToVendor(vendorID uint, event string, data interface{}) {
	h.broadcast(VendorRoom(vendorID), event, data)
}

// SendToConsole delivers a point-to-point message to a kiosk.
func (h *Hub) SendToConsole(consoleID uint, event string, data interface{}) {
	h.broadcast(ConsoleRoom(consoleID), event, data)
}

// RoomSize reports current membership, used by the status endpoint and tests.
func (h *Hub) RoomSize(room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[room])
}
