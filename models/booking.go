package models

import "time"

const (
	BookingStatusUpcoming  = "upcoming"
	BookingStatusCurrent   = "current"
	BookingStatusCompleted = "completed"
)

// Booking lifecycle moves forward only: upcoming -> current -> completed.
// ContinuityTag links a slot-extension booking to the booking it extends.
type Booking struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	VendorID      uint      `gorm:"not null;index" json:"vendor_id"`
	ConsoleID     *uint     `gorm:"index" json:"console_id,omitempty"`
	GameID        uint      `gorm:"not null" json:"game_id"`
	SlotID        uint      `gorm:"not null" json:"slot_id"`
	Date          string    `gorm:"type:varchar(10);not null" json:"date"`
	StartTime     string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime       string    `gorm:"type:varchar(5);not null" json:"end_time"`
	Username      string    `gorm:"type:varchar(120)" json:"username"`
	Status        string    `gorm:"type:varchar(20);not null;default:'upcoming';index" json:"status"`
	Amount        float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"amount"`
	ContinuityTag string    `gorm:"type:varchar(64);index" json:"continuity_tag,omitempty"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}
