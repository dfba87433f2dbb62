package services

import (
	"time"

	"github.com/hfglabs/vendor-dashboard/hub"
	"github.com/hfglabs/vendor-dashboard/models"
	"github.com/hfglabs/vendor-dashboard/utils"
	"gorm.io/gorm"
)

// BookingMonitor advances booking lifecycles by wall clock: upcoming goes
// current at its start boundary, current goes completed at its end boundary,
// and consoles whose last current booking ended are released. Lifecycle only
// ever moves forward. Runs as a self-supervising background loop.
type BookingMonitor struct {
	DB       *gorm.DB
	Sink     EventSink
	StopChan chan struct{}
	Interval time.Duration
}

func NewBookingMonitor(db *gorm.DB, sink EventSink) *BookingMonitor {
	return &BookingMonitor{
		DB:       db,
		Sink:     sink,
		StopChan: make(chan struct{}),
		Interval: 30 * time.Second,
	}
}

func (bm *BookingMonitor) Start() {
	go func() {
		ticker := time.NewTicker(bm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				bm.advance(time.Now())
			case <-bm.StopChan:
				return
			}
		}
	}()
}

func (bm *BookingMonitor) Stop() {
	close(bm.StopChan)
}

func (bm *BookingMonitor) advance(now time.Time) {
	date := now.Format("2006-01-02")
	clock := now.Format("15:04")

	var started []models.Booking
	if err := bm.DB.
		Where("status = ? AND date = ? AND start_time <= ? AND console_id IS NOT NULL",
			models.BookingStatusUpcoming, date, clock).
		Find(&started).Error; err != nil {
		utils.ErrorLogger.Printf("Booking monitor: fetching upcoming failed: %v", err)
		return
	}
	for i := range started {
		if err := bm.DB.Model(&started[i]).Update("status", models.BookingStatusCurrent).Error; err != nil {
			utils.ErrorLogger.Printf("Booking monitor: promoting booking %d failed: %v", started[i].ID, err)
			continue
		}
		started[i].Status = models.BookingStatusCurrent
		if bm.Sink != nil {
			bm.Sink.BroadcastToVendor(started[i].VendorID, hub.EventBookingUpdate, started[i])
		}
	}

	var ended []models.Booking
	if err := bm.DB.
		Where("status = ? AND (date < ? OR (date = ? AND end_time <= ?))",
			models.BookingStatusCurrent, date, date, clock).
		Find(&ended).Error; err != nil {
		utils.ErrorLogger.Printf("Booking monitor: fetching current failed: %v", err)
		return
	}
	for i := range ended {
		if err := bm.complete(&ended[i]); err != nil {
			utils.ErrorLogger.Printf("Booking monitor: completing booking %d failed: %v", ended[i].ID, err)
			continue
		}
		if bm.Sink != nil {
			bm.Sink.BroadcastToVendor(ended[i].VendorID, hub.EventBookingUpdate, ended[i])
		}
	}
}

// complete closes one booking and, when no other current booking holds the
// console, releases it.
func (bm *BookingMonitor) complete(booking *models.Booking) error {
	return bm.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(booking).Update("status", models.BookingStatusCompleted).Error; err != nil {
			return err
		}
		booking.Status = models.BookingStatusCompleted

		if booking.ConsoleID == nil {
			return nil
		}
		var holding int64
		if err := tx.Model(&models.Booking{}).
			Where("console_id = ? AND status = ?", *booking.ConsoleID, models.BookingStatusCurrent).
			Count(&holding).Error; err != nil {
			return err
		}
		if holding > 0 {
			return nil
		}
		return tx.Model(&models.Console{}).
			Where("id = ? AND status = ?", *booking.ConsoleID, models.ConsoleStatusOccupied).
			Update("status", models.ConsoleStatusAvailable).Error
	})
}
