package bridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAddVendorDeduplicates(t *testing.T) {
	s := NewState()

	assert.True(t, s.AddVendor(4))
	assert.False(t, s.AddVendor(4))
	assert.True(t, s.AddVendor(9))

	vendors := s.Vendors()
	assert.Len(t, vendors, 2)
	assert.ElementsMatch(t, []uint{4, 9}, vendors)
}

func TestAllowForcedReconnectCooldown(t *testing.T) {
	s := NewState()
	cooldown := 30 * time.Second

	assert.True(t, s.AllowForcedReconnect(cooldown))
	assert.False(t, s.AllowForcedReconnect(cooldown))
}

func TestSnapshotReflectsConnection(t *testing.T) {
	s := NewState()
	s.AddVendor(2)

	snap := s.Snapshot()
	assert.False(t, snap.Connected)

	s.MarkConnected()
	s.RecordPong()
	snap = s.Snapshot()
	assert.True(t, snap.Connected)
	assert.ElementsMatch(t, []uint{2}, snap.JoinedVendorIDs)
	assert.WithinDuration(t, time.Now(), snap.LastPong, time.Second)

	s.MarkDisconnected()
	assert.False(t, s.Snapshot().Connected)
}
