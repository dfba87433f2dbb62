package models

import "time"

const (
	ConsoleStatusAvailable   = "available"
	ConsoleStatusOccupied    = "occupied"
	ConsoleStatusMaintenance = "maintenance"
)

type Console struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	VendorID      uint      `gorm:"not null;index" json:"vendor_id"`
	ConsoleNumber string    `gorm:"type:varchar(50);not null" json:"console_number"`
	Brand         string    `gorm:"type:varchar(80)" json:"brand"`
	ModelNumber   string    `gorm:"type:varchar(80)" json:"model_number"`
	ConsoleType   string    `gorm:"type:varchar(20);not null;default:'pc'" json:"console_type"`
	Status        string    `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}
