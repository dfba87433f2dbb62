package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hfglabs/vendor-dashboard/models"
)

func TestMonitorPromotesDueUpcoming(t *testing.T) {
	db := setupTestDB(t)
	fix := seedSlotFixture(t, db, 1)
	sink := &recordingSink{}
	bm := NewBookingMonitor(db, sink)

	cid := fix.consoleID
	due := models.Booking{
		VendorID:  fix.vendorID,
		ConsoleID: &cid,
		GameID:    fix.gameID,
		SlotID:    fix.slotNext,
		Date:      fix.date,
		StartTime: "11:00",
		EndTime:   "12:00",
		Status:    models.BookingStatusUpcoming,
	}
	require.NoError(t, db.Create(&due).Error)

	now, err := time.Parse("2006-01-02 15:04", fix.date+" 11:00")
	require.NoError(t, err)
	bm.advance(now)

	var stored models.Booking
	require.NoError(t, db.First(&stored, due.ID).Error)
	assert.Equal(t, models.BookingStatusCurrent, stored.Status)
}

func TestMonitorLeavesUnboundBookingsAlone(t *testing.T) {
	db := setupTestDB(t)
	fix := seedSlotFixture(t, db, 1)
	bm := NewBookingMonitor(db, &recordingSink{})

	unbound := models.Booking{
		VendorID:  fix.vendorID,
		GameID:    fix.gameID,
		SlotID:    fix.slotNext,
		Date:      fix.date,
		StartTime: "11:00",
		EndTime:   "12:00",
		Status:    models.BookingStatusUpcoming,
	}
	require.NoError(t, db.Create(&unbound).Error)

	now, err := time.Parse("2006-01-02 15:04", fix.date+" 11:30")
	require.NoError(t, err)
	bm.advance(now)

	var stored models.Booking
	require.NoError(t, db.First(&stored, unbound.ID).Error)
	assert.Equal(t, models.BookingStatusUpcoming, stored.Status)
}

func TestMonitorCompletesEndedAndReleasesConsole(t *testing.T) {
	db := setupTestDB(t)
	fix := seedSlotFixture(t, db, 1)
	bm := NewBookingMonitor(db, &recordingSink{})

	// The fixture's current booking ends at 11:00.
	now, err := time.Parse("2006-01-02 15:04", fix.date+" 11:00")
	require.NoError(t, err)
	bm.advance(now)

	var stored models.Booking
	require.NoError(t, db.First(&stored, fix.bookingID).Error)
	assert.Equal(t, models.BookingStatusCompleted, stored.Status)

	var console models.Console
	require.NoError(t, db.First(&console, fix.consoleID).Error)
	assert.Equal(t, models.ConsoleStatusAvailable, console.Status)
}

func TestMonitorKeepsConsoleWhileAnotherBookingRuns(t *testing.T) {
	db := setupTestDB(t)
	fix := seedSlotFixture(t, db, 1)
	bm := NewBookingMonitor(db, &recordingSink{})

	// A continuation booking still running on the same console.
	cid := fix.consoleID
	continuation := models.Booking{
		VendorID:  fix.vendorID,
		ConsoleID: &cid,
		GameID:    fix.gameID,
		SlotID:    fix.slotNext,
		Date:      fix.date,
		StartTime: "11:00",
		EndTime:   "12:00",
		Status:    models.BookingStatusCurrent,
	}
	require.NoError(t, db.Create(&continuation).Error)

	now, err := time.Parse("2006-01-02 15:04", fix.date+" 11:30")
	require.NoError(t, err)
	bm.advance(now)

	var first models.Booking
	require.NoError(t, db.First(&first, fix.bookingID).Error)
	assert.Equal(t, models.BookingStatusCompleted, first.Status)

	var console models.Console
	require.NoError(t, db.First(&console, fix.consoleID).Error)
	assert.Equal(t, models.ConsoleStatusOccupied, console.Status)
}
