package services

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/hfglabs/vendor-dashboard/hub"
	"github.com/hfglabs/vendor-dashboard/models"
	"github.com/hfglabs/vendor-dashboard/utils"
	"gorm.io/gorm"
)

// EventSink is the slice of the local hub the services need. *hub.Hub
// satisfies it; tests substitute a recorder.
type EventSink interface {
	BroadcastToVendor(vendorID uint, event string, data interface{})
	SendToConsole(consoleID uint, event string, data interface{})
}

// LinkService enforces the capacity ledger: at most one active link per
// console, at most PCLimit active links per vendor. Every mutation runs in
// one transaction over row-level locks, because independent server processes
// may call Link concurrently against the same storage.
type LinkService struct {
	DB        *gorm.DB
	Plans     *PlanService
	Sink      EventSink
	WSBaseURL string
}

func NewLinkService(db *gorm.DB, plans *PlanService, sink EventSink, wsBaseURL string) *LinkService {
	return &LinkService{DB: db, Plans: plans, Sink: sink, WSBaseURL: wsBaseURL}
}

// ConsoleSummary is a console plus its derived link status.
type ConsoleSummary struct {
	ID          uint   `json:"id"`
	Number      string `json:"number"`
	Brand       string `json:"brand"`
	ModelNumber string `json:"model"`
	Linked      bool   `json:"linked"`
}

// VendorConsoleList is the read model for the vendor's PC page.
type VendorConsoleList struct {
	PlanLimit         int              `json:"plan_limit"`
	ActiveLinks       int              `json:"active_links"`
	RemainingCapacity int              `json:"remaining_capacity"`
	Consoles          []ConsoleSummary `json:"pcs"`
}

func newSessionToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Link claims a console for a kiosk. All checks and the insert share one
// transaction: the subscription row is locked first and serializes
// concurrent links for the vendor, then the console row lock guards against
// a double claim of the same unit.
func (ls *LinkService) Link(vendorID, consoleID uint, kioskID string) (*models.ConsoleLinkSession, error) {
	var session models.ConsoleLinkSession

	err := ls.DB.Transaction(func(tx *gorm.DB) error {
		// Capacity gate. Locking the subscription row makes the active-count
		// read safe against concurrent Link calls in other processes.
		var sub models.Subscription
		err := utils.RowLock(tx).
			Where("vendor_id = ? AND is_active = ?", vendorID, true).
			Order("created_at DESC").
			First(&sub).Error
		if err == gorm.ErrRecordNotFound {
			return ErrNoActivePlan
		}
		if err != nil {
			return err
		}

		var console models.Console
		err = utils.RowLock(tx).
			Where("id = ? AND vendor_id = ? AND console_type = ?", consoleID, vendorID, "pc").
			First(&console).Error
		if err == gorm.ErrRecordNotFound {
			return ErrConsoleNotFound
		}
		if err != nil {
			return err
		}

		var linked int64
		if err := tx.Model(&models.ConsoleLinkSession{}).
			Where("console_id = ? AND status = ?", consoleID, models.LinkStatusActive).
			Count(&linked).Error; err != nil {
			return err
		}
		if linked > 0 {
			return ErrResourceConflict
		}

		var active int64
		if err := tx.Model(&models.ConsoleLinkSession{}).
			Where("vendor_id = ? AND status = ?", vendorID, models.LinkStatusActive).
			Count(&active).Error; err != nil {
			return err
		}
		if int(active) >= sub.PCLimit {
			return ErrCapacityExceeded
		}

		token, err := newSessionToken()
		if err != nil {
			return err
		}
		session = models.ConsoleLinkSession{
			VendorID:     vendorID,
			ConsoleID:    consoleID,
			KioskID:      kioskID,
			SessionToken: token,
			Status:       models.LinkStatusActive,
			StartedAt:    time.Now().UTC(),
		}
		return tx.Create(&session).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Linked console %d for vendor %d (session %d)", consoleID, vendorID, session.ID)
	return &session, nil
}

// Unlink closes the unique active session matching the filter. Closing an
// already-closed session is a no-op; the returned count is the number of
// sessions actually closed (1 or 0).
func (ls *LinkService) Unlink(sessionID, consoleID, vendorID uint, reason string) (int, error) {
	closed := 0
	var target models.ConsoleLinkSession

	err := ls.DB.Transaction(func(tx *gorm.DB) error {
		q := utils.RowLock(tx).Where("status = ?", models.LinkStatusActive)
		if sessionID != 0 {
			q = q.Where("id = ?", sessionID)
		}
		if consoleID != 0 {
			q = q.Where("console_id = ?", consoleID)
		}
		if vendorID != 0 {
			q = q.Where("vendor_id = ?", vendorID)
		}

		err := q.First(&target).Error
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		target.Status = models.LinkStatusClosed
		target.EndedAt = &now
		target.CloseReason = reason
		if err := tx.Save(&target).Error; err != nil {
			return err
		}
		closed = 1
		return nil
	})
	if err != nil {
		return 0, err
	}

	if closed == 1 && ls.Sink != nil {
		ls.Sink.SendToConsole(target.ConsoleID, hub.EventLinkClosed, map[string]interface{}{
			"session_id": target.ID,
			"reason":     reason,
		})
	}
	return closed, nil
}

// ActiveLinkCount counts the vendor's active sessions; unlocked, so a read
// that races a concurrent link may be momentarily stale.
func (ls *LinkService) ActiveLinkCount(vendorID uint) (int, error) {
	var count int64
	err := ls.DB.Model(&models.ConsoleLinkSession{}).
		Where("vendor_id = ? AND status = ?", vendorID, models.LinkStatusActive).
		Count(&count).Error
	return int(count), err
}

// ListConsoles returns the vendor's PCs with their derived link state and
// the plan utilization. Read-only; stale reads are acceptable.
func (ls *LinkService) ListConsoles(vendorID uint) (*VendorConsoleList, error) {
	limit, err := ls.Plans.GetPCLimit(vendorID)
	if err != nil {
		return nil, err
	}

	var consoles []models.Console
	if err := ls.DB.
		Where("vendor_id = ? AND console_type = ?", vendorID, "pc").
		Order("console_number ASC").
		Find(&consoles).Error; err != nil {
		return nil, err
	}

	var activeIDs []uint
	if err := ls.DB.Model(&models.ConsoleLinkSession{}).
		Where("vendor_id = ? AND status = ?", vendorID, models.LinkStatusActive).
		Pluck("console_id", &activeIDs).Error; err != nil {
		return nil, err
	}
	linked := make(map[uint]bool, len(activeIDs))
	for _, id := range activeIDs {
		linked[id] = true
	}

	list := &VendorConsoleList{
		PlanLimit:   limit,
		ActiveLinks: len(activeIDs),
		Consoles:    make([]ConsoleSummary, 0, len(consoles)),
	}
	if remaining := limit - len(activeIDs); remaining > 0 {
		list.RemainingCapacity = remaining
	}
	for _, c := range consoles {
		list.Consoles = append(list.Consoles, ConsoleSummary{
			ID:          c.ID,
			Number:      c.ConsoleNumber,
			Brand:       c.Brand,
			ModelNumber: c.ModelNumber,
			Linked:      linked[c.ID],
		})
	}
	return list, nil
}
