package models

import "time"

// Subscription is owned by the billing layer; this service only reads
// PCLimit as the vendor's capacity plan.
type Subscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VendorID  uint      `gorm:"not null;index" json:"vendor_id"`
	PlanName  string    `gorm:"type:varchar(50);not null" json:"plan_name"`
	PCLimit   int       `gorm:"not null;default:1" json:"pc_limit"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
