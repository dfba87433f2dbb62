package bridge

import (
	"sync"
	"time"
)

// State is the process-wide connection state shared between the reader
// goroutine, the health watchdog and request handlers. All access goes
// through mutex-guarded methods; the raw fields are never exported.
type State struct {
	mu                  sync.Mutex
	connected           bool
	joinedVendors       map[uint]struct{}
	lastTraffic         time.Time
	lastPong            time.Time
	lastForcedReconnect time.Time
}

// Snapshot is a copy of the state safe to serialize in status responses.
type Snapshot struct {
	Connected       bool      `json:"connected"`
	JoinedVendorIDs []uint    `json:"joined_vendor_ids"`
	LastTraffic     time.Time `json:"last_traffic"`
	LastPong        time.Time `json:"last_pong"`
}

func NewState() *State {
	return &State{
		joinedVendors: make(map[uint]struct{}),
	}
}

func (s *State) MarkConnected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = true
	now := time.Now()
	s.lastTraffic = now
	s.lastPong = now
}

func (s *State) MarkDisconnected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
}

func (s *State) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// AddVendor records interest in a vendor's upstream room. Returns true only
// the first time the vendor is added, so callers can dedupe subscribe frames.
func (s *State) AddVendor(vendorID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.joinedVendors[vendorID]; ok {
		return false
	}
	s.joinedVendors[vendorID] = struct{}{}
	return true
}

func (s *State) Vendors() []uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint, 0, len(s.joinedVendors))
	for id := range s.joinedVendors {
		ids = append(ids, id)
	}
	return ids
}

// RecordTraffic notes that any frame arrived on the admin channel.
func (s *State) RecordTraffic() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTraffic = time.Now()
}

// RecordPong notes an application-level acknowledgment. Any upstream
// response counts; an explicit pong is not required.
func (s *State) RecordPong() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.lastPong = now
	s.lastTraffic = now
}

func (s *State) LastTraffic() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTraffic
}

func (s *State) LastPong() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPong
}

// AllowForcedReconnect rate-limits watchdog-driven reconnects: it returns
// true and stamps the attempt only if the cooldown has elapsed.
func (s *State) AllowForcedReconnect(cooldown time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if now.Sub(s.lastForcedReconnect) < cooldown {
		return false
	}
	s.lastForcedReconnect = now
	return true
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint, 0, len(s.joinedVendors))
	for id := range s.joinedVendors {
		ids = append(ids, id)
	}
	return Snapshot{
		Connected:       s.connected,
		JoinedVendorIDs: ids,
		LastTraffic:     s.lastTraffic,
		LastPong:        s.lastPong,
	}
}
