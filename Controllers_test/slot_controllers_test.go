package Controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hfglabs/vendor-dashboard/controllers"
	"github.com/hfglabs/vendor-dashboard/models"
	"github.com/hfglabs/vendor-dashboard/services"
)

type slotSeed struct {
	vendorID  uint
	gameID    uint
	consoleID uint
	bookingID uint
	nextSlot  uint
	date      string
}

func seedSlotData(t *testing.T, db *gorm.DB, available int) slotSeed {
	t.Helper()

	vendor := models.Vendor{CafeName: "HFG Lab"}
	require.NoError(t, db.Create(&vendor).Error)

	game := models.GameCategory{
		VendorID:        vendor.ID,
		GameName:        "PC Regular",
		TotalSlot:       2,
		SingleSlotPrice: 10000,
	}
	require.NoError(t, db.Create(&game).Error)

	current := models.Slot{GameID: game.ID, StartTime: "10:00", EndTime: "11:00"}
	next := models.Slot{GameID: game.ID, StartTime: "11:00", EndTime: "12:00"}
	require.NoError(t, db.Create(&current).Error)
	require.NoError(t, db.Create(&next).Error)

	date := time.Now().Format("2006-01-02")
	require.NoError(t, db.Create(&models.VendorSlot{
		VendorID:      vendor.ID,
		Date:          date,
		SlotID:        next.ID,
		AvailableSlot: available,
		IsAvailable:   available > 0,
	}).Error)

	console := models.Console{
		VendorID:      vendor.ID,
		ConsoleNumber: "PC-01",
		ConsoleType:   "pc",
		Status:        models.ConsoleStatusOccupied,
	}
	require.NoError(t, db.Create(&console).Error)

	cid := console.ID
	booking := models.Booking{
		VendorID:  vendor.ID,
		ConsoleID: &cid,
		GameID:    game.ID,
		SlotID:    current.ID,
		Date:      date,
		StartTime: "10:00",
		EndTime:   "11:00",
		Username:  "andi",
		Status:    models.BookingStatusCurrent,
	}
	require.NoError(t, db.Create(&booking).Error)

	return slotSeed{
		vendorID:  vendor.ID,
		gameID:    game.ID,
		consoleID: console.ID,
		bookingID: booking.ID,
		nextSlot:  next.ID,
		date:      date,
	}
}

func setupSlotRouter(db *gorm.DB, vendorID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	ctrl := controllers.NewSlotController(services.NewSlotService(db, nopSink{}))
	api := router.Group("/api/v1", asVendor(vendorID))
	api.POST("/slots/check-extension", ctrl.CheckExtension)
	api.POST("/slots/book-extension", ctrl.BookExtension)
	return router
}

func TestCheckExtensionEndpoint(t *testing.T) {
	db := setupTestDB(t)
	seed := seedSlotData(t, db, 1)
	router := setupSlotRouter(db, seed.vendorID)

	w := doJSON(router, http.MethodPost, "/api/v1/slots/check-extension", gin.H{
		"console_id": seed.consoleID,
		"game_id":    seed.gameID,
		"date":       seed.date,
		"end_time":   "11:00",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data services.ExtensionCandidate `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, seed.nextSlot, resp.Data.SlotID)
	assert.True(t, resp.Data.Available)
	assert.Equal(t, "10,000.00", resp.Data.PriceDisplay)
}

func TestCheckExtensionNoAdjacentSlot(t *testing.T) {
	db := setupTestDB(t)
	seed := seedSlotData(t, db, 1)
	router := setupSlotRouter(db, seed.vendorID)

	w := doJSON(router, http.MethodPost, "/api/v1/slots/check-extension", gin.H{
		"console_id": seed.consoleID,
		"game_id":    seed.gameID,
		"date":       seed.date,
		"end_time":   "12:00",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp struct {
		Reason string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "slot_not_found", resp.Reason)
}

func TestBookExtensionEndpoint(t *testing.T) {
	db := setupTestDB(t)
	seed := seedSlotData(t, db, 1)
	router := setupSlotRouter(db, seed.vendorID)

	w := doJSON(router, http.MethodPost, "/api/v1/slots/check-extension", gin.H{
		"console_id": seed.consoleID,
		"game_id":    seed.gameID,
		"date":       seed.date,
		"end_time":   "11:00",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var checkResp struct {
		Data services.ExtensionCandidate `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &checkResp))

	w = doJSON(router, http.MethodPost, "/api/v1/slots/book-extension", gin.H{
		"console_id": seed.consoleID,
		"game_id":    seed.gameID,
		"booking_id": seed.bookingID,
		"candidate":  checkResp.Data,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var bookResp struct {
		Data models.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bookResp))
	assert.Equal(t, models.BookingStatusCurrent, bookResp.Data.Status)
	assert.Equal(t, "12:00", bookResp.Data.EndTime)
	assert.Equal(t, fmt.Sprintf("extend-%d", seed.bookingID), bookResp.Data.ContinuityTag)

	// The counter hit zero, a rerun loses with a machine-readable reason.
	w = doJSON(router, http.MethodPost, "/api/v1/slots/book-extension", gin.H{
		"console_id": seed.consoleID,
		"game_id":    seed.gameID,
		"booking_id": seed.bookingID,
		"candidate":  checkResp.Data,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	var conflict struct {
		Reason string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conflict))
	assert.Equal(t, "unavailable", conflict.Reason)
}

func TestBookExtensionStaleCandidate(t *testing.T) {
	db := setupTestDB(t)
	seed := seedSlotData(t, db, 1)
	router := setupSlotRouter(db, seed.vendorID)

	w := doJSON(router, http.MethodPost, "/api/v1/slots/book-extension", gin.H{
		"console_id": seed.consoleID,
		"game_id":    seed.gameID,
		"booking_id": seed.bookingID,
		"candidate": gin.H{
			"slot_id": seed.nextSlot + 50,
			"date":    seed.date,
		},
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		Reason string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "stale_candidate", resp.Reason)
}
