package models

import "time"

// PricingOffer is a time-boxed discount on a category's slot price. When an
// offer is currently running its OfferedPrice replaces the default price.
type PricingOffer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	VendorID     uint      `gorm:"not null;index" json:"vendor_id"`
	GameID       uint      `gorm:"not null;index" json:"game_id"`
	OfferName    string    `gorm:"type:varchar(120);not null" json:"offer_name"`
	DefaultPrice float64   `gorm:"type:decimal(10,2);not null" json:"default_price"`
	OfferedPrice float64   `gorm:"type:decimal(10,2);not null" json:"offered_price"`
	StartDate    string    `gorm:"type:varchar(10);not null" json:"start_date"`
	StartTime    string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndDate      string    `gorm:"type:varchar(10);not null" json:"end_date"`
	EndTime      string    `gorm:"type:varchar(5);not null" json:"end_time"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

// IsCurrentlyRunning reports whether the offer window covers the given
// date ("2006-01-02") and wall-clock time ("15:04").
func (p *PricingOffer) IsCurrentlyRunning(date, clock string) bool {
	if !p.IsActive {
		return false
	}
	if date < p.StartDate || date > p.EndDate {
		return false
	}
	if date == p.StartDate && clock < p.StartTime {
		return false
	}
	if date == p.EndDate && clock > p.EndTime {
		return false
	}
	return true
}
