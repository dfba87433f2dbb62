package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hfglabs/vendor-dashboard/services"
	"github.com/hfglabs/vendor-dashboard/utils"
)

type SlotController struct {
	Slots *services.SlotService
}

func NewSlotController(slots *services.SlotService) *SlotController {
	return &SlotController{Slots: slots}
}

type checkExtensionRequest struct {
	ConsoleID uint   `json:"console_id" binding:"required"`
	GameID    uint   `json:"game_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// CheckExtension is the read-only probe: which slot comes next and can it
// still be bought. Never takes locks, so the answer may go stale.
func (sc *SlotController) CheckExtension(c *gin.Context) {
	vendorID, ok := vendorIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("missing vendor context"))
		return
	}

	var req checkExtensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	cand, err := sc.Slots.Check(vendorID, req.ConsoleID, req.GameID, req.Date, req.EndTime)
	if err != nil {
		if errors.Is(err, services.ErrSlotNotFound) || errors.Is(err, services.ErrConsoleNotFound) {
			utils.RespondReason(c, http.StatusNotFound, services.Reason(err), err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Extension candidate", cand)
}

type bookExtensionRequest struct {
	ConsoleID uint                        `json:"console_id" binding:"required"`
	GameID    uint                        `json:"game_id" binding:"required"`
	BookingID uint                        `json:"booking_id" binding:"required"`
	Candidate services.ExtensionCandidate `json:"candidate" binding:"required"`
}

// BookExtension commits a previously checked candidate under row locks.
func (sc *SlotController) BookExtension(c *gin.Context) {
	vendorID, ok := vendorIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("missing vendor context"))
		return
	}

	var req bookExtensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := sc.Slots.Book(vendorID, req.ConsoleID, req.GameID, req.BookingID, &req.Candidate)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStaleCandidate), errors.Is(err, services.ErrUnavailable):
			utils.RespondReason(c, http.StatusConflict, services.Reason(err), err)
		case errors.Is(err, services.ErrResourceConflict):
			utils.RespondReason(c, http.StatusConflict, services.Reason(err), err)
		case errors.Is(err, services.ErrSlotNotFound):
			utils.RespondReason(c, http.StatusNotFound, services.Reason(err), err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Extension booked", booking)
}
