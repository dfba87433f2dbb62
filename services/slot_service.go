package services

import (
	"fmt"
	"time"

	"github.com/hfglabs/vendor-dashboard/hub"
	"github.com/hfglabs/vendor-dashboard/models"
	"github.com/hfglabs/vendor-dashboard/utils"
	"gorm.io/gorm"
)

// SlotService implements the check-then-book pair for extending an
// in-progress occupancy into the adjacent time window. Check is a lock-free
// preview; Book re-validates everything under row locks inside a single
// transaction, so losing a race never leaves partial effects.
type SlotService struct {
	DB   *gorm.DB
	Sink EventSink
}

func NewSlotService(db *gorm.DB, sink EventSink) *SlotService {
	return &SlotService{DB: db, Sink: sink}
}

// ExtensionCandidate describes the next adjacent slot and whether it can be
// booked. It carries no reservation; Book re-checks under locks.
type ExtensionCandidate struct {
	SlotID        uint    `json:"slot_id"`
	Date          string  `json:"date"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	Available     bool    `json:"available"`
	AvailableSlot int     `json:"available_count"`
	Price         float64 `json:"price"`
	PriceDisplay  string  `json:"price_display"`
	Reason        string  `json:"reason,omitempty"`
}

// nextSlot resolves adjacency by exact boundary match: the slot whose start
// time equals the current end time. Identifier arithmetic is never used.
func (ss *SlotService) nextSlot(tx *gorm.DB, gameID uint, currentEnd string) (*models.Slot, error) {
	var slot models.Slot
	err := tx.Where("game_id = ? AND start_time = ?", gameID, currentEnd).First(&slot).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// resolvePrice returns the category's slot price, preferring a currently
// running pricing offer over the default.
func (ss *SlotService) resolvePrice(vendorID, gameID uint, date string) (float64, error) {
	var game models.GameCategory
	if err := ss.DB.Where("id = ? AND vendor_id = ?", gameID, vendorID).First(&game).Error; err != nil {
		return 0, err
	}

	clock := time.Now().Format("15:04")
	var offers []models.PricingOffer
	if err := ss.DB.
		Where("vendor_id = ? AND game_id = ? AND is_active = ?", vendorID, gameID, true).
		Find(&offers).Error; err != nil {
		return 0, err
	}
	for i := range offers {
		if offers[i].IsCurrentlyRunning(date, clock) {
			return offers[i].OfferedPrice, nil
		}
	}
	return game.SingleSlotPrice, nil
}

// Check previews the extension: resolves the adjacent slot, reads its
// availability without locks and prices it. Purely informational; the
// counter may change before Book runs.
func (ss *SlotService) Check(vendorID, consoleID, gameID uint, date, currentEnd string) (*ExtensionCandidate, error) {
	var console models.Console
	err := ss.DB.Where("id = ? AND vendor_id = ?", consoleID, vendorID).First(&console).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrConsoleNotFound
	}
	if err != nil {
		return nil, err
	}

	slot, err := ss.nextSlot(ss.DB, gameID, currentEnd)
	if err != nil {
		return nil, err
	}

	price, err := ss.resolvePrice(vendorID, gameID, date)
	if err != nil {
		return nil, err
	}

	cand := &ExtensionCandidate{
		SlotID:       slot.ID,
		Date:         date,
		StartTime:    slot.StartTime,
		EndTime:      slot.EndTime,
		Price:        price,
		PriceDisplay: utils.FormatPrice(price),
	}

	var row models.VendorSlot
	err = ss.DB.
		Where("vendor_id = ? AND date = ? AND slot_id = ?", vendorID, date, slot.ID).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		cand.Reason = Reason(ErrUnavailable)
		return cand, nil
	}
	if err != nil {
		return nil, err
	}

	cand.AvailableSlot = row.AvailableSlot
	cand.Available = row.AvailableSlot > 0
	if !cand.Available {
		cand.Reason = Reason(ErrUnavailable)
	}
	return cand, nil
}

// Book commits the extension atomically: re-validate the candidate, take
// the slot counter under a row lock, create the continuation booking, and
// flip the console occupancy. Any failure rolls back every step.
func (ss *SlotService) Book(vendorID, consoleID, gameID, currentBookingID uint, cand *ExtensionCandidate) (*models.Booking, error) {
	var booking models.Booking

	err := ss.DB.Transaction(func(tx *gorm.DB) error {
		// The client's candidate may be stale: somebody may have shifted the
		// catalog or the current booking since Check ran.
		var current models.Booking
		err := tx.Where("id = ? AND vendor_id = ?", currentBookingID, vendorID).First(&current).Error
		if err == gorm.ErrRecordNotFound {
			return ErrStaleCandidate
		}
		if err != nil {
			return err
		}
		// Only a running booking bound to this console can be extended;
		// anything else would mint occupancy out of thin air.
		if current.Status != models.BookingStatusCurrent ||
			current.ConsoleID == nil || *current.ConsoleID != consoleID {
			return ErrStaleCandidate
		}

		slot, err := ss.nextSlot(tx, gameID, current.EndTime)
		if err != nil {
			return ErrStaleCandidate
		}
		if slot.ID != cand.SlotID {
			return ErrStaleCandidate
		}

		var row models.VendorSlot
		err = utils.RowLock(tx).
			Where("vendor_id = ? AND date = ? AND slot_id = ?", vendorID, cand.Date, slot.ID).
			First(&row).Error
		if err == gorm.ErrRecordNotFound {
			return ErrUnavailable
		}
		if err != nil {
			return err
		}
		if row.AvailableSlot <= 0 {
			return ErrUnavailable
		}

		row.AvailableSlot--
		row.IsAvailable = row.AvailableSlot > 0
		if err := tx.Save(&row).Error; err != nil {
			return err
		}

		consoleRef := consoleID
		booking = models.Booking{
			VendorID:      vendorID,
			ConsoleID:     &consoleRef,
			GameID:        gameID,
			SlotID:        slot.ID,
			Date:          cand.Date,
			StartTime:     slot.StartTime,
			EndTime:       slot.EndTime,
			Username:      current.Username,
			Status:        models.BookingStatusUpcoming,
			Amount:        cand.Price,
			ContinuityTag: fmt.Sprintf("extend-%d", currentBookingID),
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		// Defensive occupancy re-check. The caller believes it owns the
		// console, but a competing booking may have claimed it.
		var console models.Console
		err = utils.RowLock(tx).
			Where("id = ? AND vendor_id = ?", consoleID, vendorID).
			First(&console).Error
		if err == gorm.ErrRecordNotFound {
			return ErrConsoleNotFound
		}
		if err != nil {
			return err
		}
		switch console.Status {
		case models.ConsoleStatusAvailable:
			// Free, claim it below.
		case models.ConsoleStatusOccupied:
			// Occupied is fine only when the occupant is the booking being
			// extended.
			var occupant int64
			if err := tx.Model(&models.Booking{}).
				Where("console_id = ? AND status = ? AND id <> ?",
					consoleID, models.BookingStatusCurrent, currentBookingID).
				Count(&occupant).Error; err != nil {
				return err
			}
			if occupant > 0 {
				return ErrResourceConflict
			}
		default:
			return ErrResourceConflict
		}

		console.Status = models.ConsoleStatusOccupied
		if err := tx.Save(&console).Error; err != nil {
			return err
		}

		// Lifecycle moves forward only: the continuation goes current the
		// moment it is bound to the console.
		booking.Status = models.BookingStatusCurrent
		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Extended booking %d into slot %d for vendor %d (booking %d)",
		currentBookingID, booking.SlotID, vendorID, booking.ID)

	if ss.Sink != nil {
		payload := map[string]interface{}{
			"booking_id":  booking.ID,
			"console_id":  consoleID,
			"slot_id":     booking.SlotID,
			"date":        booking.Date,
			"end_time":    booking.EndTime,
			"amount":      booking.Amount,
			"provisional": true,
		}
		ss.Sink.SendToConsole(consoleID, hub.EventExtensionOK, payload)
		ss.Sink.BroadcastToVendor(vendorID, hub.EventExtensionOK, payload)
	}
	return &booking, nil
}
