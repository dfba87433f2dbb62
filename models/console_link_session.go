package models

import "time"

const (
	LinkStatusActive = "active"
	LinkStatusClosed = "closed"
	LinkStatusStale  = "stale"
)

// ConsoleLinkSession binds one physical console to one kiosk client for a
// duration. At most one active session may exist per console; the number of
// active sessions per vendor is capped by the subscription's PCLimit.
type ConsoleLinkSession struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	VendorID     uint       `gorm:"not null;index" json:"vendor_id"`
	ConsoleID    uint       `gorm:"not null;index" json:"console_id"`
	KioskID      string     `gorm:"type:varchar(80)" json:"kiosk_id,omitempty"`
	SessionToken string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	Status       string     `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	StartedAt    time.Time  `gorm:"not null" json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	CloseReason  string     `gorm:"type:varchar(120)" json:"close_reason,omitempty"`
}
