package database

import (
	"fmt"
	"sort"
	"time"

	"github.com/hfglabs/vendor-dashboard/models"
	"github.com/hfglabs/vendor-dashboard/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedVendorSlots materializes availability rows for every (vendor, date,
// slot) combination over the next `days` days. Existing rows are left
// untouched so already-sold capacity survives reruns.
func SeedVendorSlots(db *gorm.DB, days int) error {
	var categories []models.GameCategory
	if err := db.Preload("Slots").Find(&categories).Error; err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	now := time.Now()
	seeded := 0

	for _, cat := range categories {
		if err := validateCatalog(cat); err != nil {
			utils.ErrorLogger.Printf("Skipping category %d: %v", cat.ID, err)
			continue
		}

		for d := 0; d < days; d++ {
			date := now.AddDate(0, 0, d).Format("2006-01-02")
			for _, slot := range cat.Slots {
				row := models.VendorSlot{
					VendorID:      cat.VendorID,
					Date:          date,
					SlotID:        slot.ID,
					AvailableSlot: cat.TotalSlot,
					IsAvailable:   cat.TotalSlot > 0,
				}
				res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
				if res.Error != nil {
					return fmt.Errorf("seed vendor %d slot %d on %s: %w",
						cat.VendorID, slot.ID, date, res.Error)
				}
				seeded += int(res.RowsAffected)
			}
		}
	}

	utils.InfoLogger.Printf("Slot seeding done, %d new availability rows", seeded)
	return nil
}

// validateCatalog rejects catalogs whose slots are out of order or leave
// gaps, since extension lookups rely on end-to-start adjacency.
func validateCatalog(cat models.GameCategory) error {
	sort.Slice(cat.Slots, func(i, j int) bool {
		return cat.Slots[i].StartTime < cat.Slots[j].StartTime
	})
	for i := 1; i < len(cat.Slots); i++ {
		prev, cur := cat.Slots[i-1], cat.Slots[i]
		if prev.EndTime != cur.StartTime {
			return fmt.Errorf("slot catalog gap between %s and %s", prev.EndTime, cur.StartTime)
		}
	}
	for _, slot := range cat.Slots {
		if slot.StartTime >= slot.EndTime {
			return fmt.Errorf("slot %d has non-positive duration", slot.ID)
		}
	}
	return nil
}
