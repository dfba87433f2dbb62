package hub

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hfglabs/vendor-dashboard/utils"
)

func drain(t *testing.T, c *Client) []Message {
	t.Helper()
	var out []Message
	for {
		select {
		case payload := <-c.send:
			var msg Message
			require.NoError(t, json.Unmarshal(payload, &msg))
			out = append(out, msg)
		default:
			return out
		}
	}
}

func TestBroadcastToVendorReachesOnlyThatRoom(t *testing.T) {
	utils.InitLogger()
	h := NewHub()

	a := NewClient(nil)
	b := NewClient(nil)
	other := NewClient(nil)

	h.JoinVendor(a, 1)
	h.JoinVendor(b, 1)
	h.JoinVendor(other, 2)

	h.BroadcastToVendor(1, EventBookingUpdate, map[string]interface{}{"booking_id": 9})

	for _, c := range []*Client{a, b} {
		msgs := drain(t, c)
		require.Len(t, msgs, 1)
		assert.Equal(t, EventBookingUpdate, msgs[0].Event)
	}
	assert.Empty(t, drain(t, other))
}

func TestJoinVendorArmsUpstream(t *testing.T) {
	utils.InitLogger()
	h := NewHub()

	var joined []uint
	h.JoinUpstream = func(vendorID uint) {
		joined = append(joined, vendorID)
	}

	h.JoinVendor(NewClient(nil), 3)
	h.JoinVendor(NewClient(nil), 3)

	// The hub forwards every join; deduping is the bridge's job.
	assert.Equal(t, []uint{3, 3}, joined)
}

func TestSendToConsoleIsPointToPoint(t *testing.T) {
	utils.InitLogger()
	h := NewHub()

	kiosk := NewClient(nil)
	dashboard := NewClient(nil)
	h.JoinConsole(kiosk, 12)
	h.JoinVendor(dashboard, 1)

	h.SendToConsole(12, EventUnlockRequest, map[string]interface{}{"console_id": 12})

	msgs := drain(t, kiosk)
	require.Len(t, msgs, 1)
	assert.Equal(t, EventUnlockRequest, msgs[0].Event)
	assert.Empty(t, drain(t, dashboard))
}

func TestRemoveDetachesFromAllRooms(t *testing.T) {
	utils.InitLogger()
	h := NewHub()

	c := NewClient(nil)
	h.JoinVendor(c, 1)
	h.JoinConsole(c, 5)

	assert.Equal(t, 1, h.RoomSize(VendorRoom(1)))
	assert.Equal(t, 1, h.RoomSize(ConsoleRoom(5)))

	h.Remove(c)

	assert.Equal(t, 0, h.RoomSize(VendorRoom(1)))
	assert.Equal(t, 0, h.RoomSize(ConsoleRoom(5)))
}

func TestSlowConsumerIsEvicted(t *testing.T) {
	utils.InitLogger()
	h := NewHub()

	slow := NewClient(nil)
	h.JoinVendor(slow, 1)

	// Fill the send buffer; the next broadcast cannot queue and evicts.
	for i := 0; i < sendBuffer; i++ {
		require.True(t, slow.trySend([]byte("{}")))
	}
	h.BroadcastToVendor(1, EventBookingUpdate, nil)

	assert.Equal(t, 0, h.RoomSize(VendorRoom(1)))
}

func TestBroadcastAfterCloseDoesNotPanic(t *testing.T) {
	utils.InitLogger()
	h := NewHub()

	c := NewClient(nil)
	h.JoinVendor(c, 1)

	// Disconnect cleanup can run between a broadcast's member snapshot and
	// its send; a closed client must reject the payload, not blow up.
	c.Close()
	c.Close()

	assert.NotPanics(t, func() {
		h.BroadcastToVendor(1, EventBookingUpdate, nil)
	})
	assert.False(t, c.trySend([]byte("{}")))
	assert.Equal(t, 0, h.RoomSize(VendorRoom(1)))
}

func TestBroadcastSurvivesDisconnectChurn(t *testing.T) {
	utils.InitLogger()
	h := NewHub()

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				h.BroadcastToVendor(1, EventBookingUpdate, nil)
			}
		}
	}()

	for i := 0; i < 500; i++ {
		c := NewClient(nil)
		h.JoinVendor(c, 1)
		h.Remove(c)
		c.Close()
	}

	close(done)
	wg.Wait()
}
