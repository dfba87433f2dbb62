package models

import "time"

type Vendor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CafeName  string    `gorm:"type:varchar(120);not null" json:"cafe_name"`
	OwnerName string    `gorm:"type:varchar(120)" json:"owner_name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
