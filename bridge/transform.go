package bridge

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Frame is the wire envelope shared with the upstream feed and with local
// hub clients: an event name plus an arbitrary JSON payload.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Upstream event names.
const (
	EventBooking      = "booking"
	EventBookingAdmin = "booking_admin"
	EventPong         = "pong"
)

// Events relayed to local rooms.
const (
	EventRelayBooking  = "booking"
	EventRelayUpcoming = "upcoming_booking"
)

// BookingEvent is the validated form of an upstream booking payload. The
// feed is loosely typed and mixes camelCase and snake_case keys, so parsing
// tolerates both; required fields are checked here at the boundary.
type BookingEvent struct {
	VendorID      uint
	BookingID     uint
	SlotID        uint
	GameID        uint
	Status        string
	BookingStatus string
	Username      string
	UserID        uint
	Game          string
	ConsoleType   string
	ConsoleNumber string
	TimeBlock     string
	Date          string
	SlotPrice     float64
	Raw           map[string]interface{}
}

// UpcomingBooking is the canonical view model relayed to vendor dashboards
// for confirmed upcoming bookings.
type UpcomingBooking struct {
	SlotID      uint    `json:"slotId"`
	BookingID   uint    `json:"bookingId"`
	Username    string  `json:"username"`
	UserID      uint    `json:"userId,omitempty"`
	Game        string  `json:"game,omitempty"`
	GameID      uint    `json:"game_id,omitempty"`
	ConsoleType string  `json:"consoleType,omitempty"`
	Time        string  `json:"time,omitempty"`
	Status      string  `json:"status"`
	Date        string  `json:"date,omitempty"`
	SlotPrice   float64 `json:"slot_price,omitempty"`
}

func pickString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func pickUint(m map[string]interface{}, keys ...string) uint {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			if n > 0 {
				return uint(n)
			}
		case string:
			var parsed uint
			if _, err := fmt.Sscanf(n, "%d", &parsed); err == nil && parsed > 0 {
				return parsed
			}
		}
	}
	return 0
}

func pickFloat(m map[string]interface{}, keys ...string) float64 {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if f, ok := v.(float64); ok {
				return f
			}
		}
	}
	return 0
}

// ParseBookingEvent validates a raw upstream booking payload. A payload
// without a vendor id is unusable for room routing and is rejected.
func ParseBookingEvent(data json.RawMessage) (*BookingEvent, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("malformed booking payload: %w", err)
	}

	evt := &BookingEvent{
		VendorID:      pickUint(raw, "vendorId", "vendor_id"),
		BookingID:     pickUint(raw, "bookingId", "booking_id"),
		SlotID:        pickUint(raw, "slotId", "slot_id"),
		GameID:        pickUint(raw, "game_id", "gameId"),
		Status:        pickString(raw, "status"),
		BookingStatus: pickString(raw, "booking_status", "book_status", "bookingStatus"),
		Username:      pickString(raw, "username"),
		UserID:        pickUint(raw, "userId", "user_id"),
		Game:          pickString(raw, "game"),
		ConsoleType:   pickString(raw, "consoleType"),
		ConsoleNumber: pickString(raw, "consoleNumber"),
		TimeBlock:     pickString(raw, "time", "processed_time"),
		Date:          pickString(raw, "date"),
		SlotPrice:     pickFloat(raw, "slot_price", "slotPrice"),
		Raw:           raw,
	}
	if evt.VendorID == 0 {
		return nil, fmt.Errorf("booking payload missing vendor id")
	}
	return evt, nil
}

// FormatUpcomingBooking maps a booking event to the dashboard's upcoming
// view model. It returns nil unless the booking is confirmed AND upcoming;
// this filter is the only business rule on the relay path.
func FormatUpcomingBooking(evt *BookingEvent) *UpcomingBooking {
	if evt == nil {
		return nil
	}
	if strings.ToLower(evt.Status) != "confirmed" || strings.ToLower(evt.BookingStatus) != "upcoming" {
		return nil
	}
	if evt.BookingID == 0 || evt.SlotID == 0 {
		return nil
	}

	return &UpcomingBooking{
		SlotID:      evt.SlotID,
		BookingID:   evt.BookingID,
		Username:    evt.Username,
		UserID:      evt.UserID,
		Game:        evt.Game,
		GameID:      evt.GameID,
		ConsoleType: evt.ConsoleType,
		Time:        evt.TimeBlock,
		Status:      "Confirmed",
		Date:        evt.Date,
		SlotPrice:   evt.SlotPrice,
	}
}
