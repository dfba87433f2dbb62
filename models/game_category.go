package models

import "time"

// GameCategory groups consoles of one rental class (PC, PS5, ...) for a
// vendor and carries its default per-slot price and the slot catalog.
type GameCategory struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	VendorID        uint      `gorm:"not null;index" json:"vendor_id"`
	GameName        string    `gorm:"type:varchar(80);not null" json:"game_name"`
	TotalSlot       int       `gorm:"not null;default:0" json:"total_slot"`
	SingleSlotPrice float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"single_slot_price"`
	Slots           []Slot    `gorm:"foreignKey:GameID" json:"slots,omitempty"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}
