package models

// VendorSlot is the per (vendor, date, slot) availability counter. Invariant:
// AvailableSlot >= 0 and IsAvailable <=> AvailableSlot > 0. Mutated only
// inside a locked transaction.
type VendorSlot struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	VendorID      uint   `gorm:"not null;uniqueIndex:idx_vendor_date_slot" json:"vendor_id"`
	Date          string `gorm:"type:varchar(10);not null;uniqueIndex:idx_vendor_date_slot" json:"date"`
	SlotID        uint   `gorm:"not null;uniqueIndex:idx_vendor_date_slot" json:"slot_id"`
	AvailableSlot int    `gorm:"not null;default:0" json:"available_slot"`
	IsAvailable   bool   `gorm:"not null;default:false" json:"is_available"`
}
