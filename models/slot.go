package models

// Slot is one fixed time window in a category's daily catalog. Times are
// stored as "HH:MM" wall-clock strings; two slots are adjacent exactly when
// one's EndTime equals the other's StartTime.
type Slot struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	GameID    uint   `gorm:"not null;index" json:"game_id"`
	StartTime string `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime   string `gorm:"type:varchar(5);not null" json:"end_time"`
}
