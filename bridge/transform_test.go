package bridge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBookingEventCamelCase(t *testing.T) {
	payload := json.RawMessage(`{
		"vendorId": 3,
		"bookingId": 42,
		"slotId": 7,
		"status": "Confirmed",
		"bookingStatus": "upcoming",
		"username": "reza",
		"consoleType": "pc",
		"time": "14:00 - 15:00",
		"slot_price": 15000
	}`)

	evt, err := ParseBookingEvent(payload)
	assert.NoError(t, err)
	assert.Equal(t, uint(3), evt.VendorID)
	assert.Equal(t, uint(42), evt.BookingID)
	assert.Equal(t, uint(7), evt.SlotID)
	assert.Equal(t, "upcoming", evt.BookingStatus)
	assert.Equal(t, "reza", evt.Username)
	assert.Equal(t, 15000.0, evt.SlotPrice)
}

func TestParseBookingEventSnakeCase(t *testing.T) {
	payload := json.RawMessage(`{
		"vendor_id": "8",
		"booking_id": 9,
		"slot_id": 2,
		"status": "confirmed",
		"booking_status": "upcoming"
	}`)

	evt, err := ParseBookingEvent(payload)
	assert.NoError(t, err)
	assert.Equal(t, uint(8), evt.VendorID)
	assert.Equal(t, uint(9), evt.BookingID)
}

func TestParseBookingEventRejectsMissingVendor(t *testing.T) {
	_, err := ParseBookingEvent(json.RawMessage(`{"bookingId": 1}`))
	assert.Error(t, err)

	_, err = ParseBookingEvent(json.RawMessage(`not json`))
	assert.Error(t, err)
}

func TestFormatUpcomingBookingFilters(t *testing.T) {
	base := func() *BookingEvent {
		return &BookingEvent{
			VendorID:      1,
			BookingID:     5,
			SlotID:        3,
			Status:        "Confirmed",
			BookingStatus: "Upcoming",
			Username:      "andi",
		}
	}

	got := FormatUpcomingBooking(base())
	assert.NotNil(t, got)
	assert.Equal(t, uint(5), got.BookingID)
	assert.Equal(t, "Confirmed", got.Status)

	pending := base()
	pending.Status = "pending"
	assert.Nil(t, FormatUpcomingBooking(pending))

	current := base()
	current.BookingStatus = "current"
	assert.Nil(t, FormatUpcomingBooking(current))

	noSlot := base()
	noSlot.SlotID = 0
	assert.Nil(t, FormatUpcomingBooking(noSlot))

	assert.Nil(t, FormatUpcomingBooking(nil))
}
