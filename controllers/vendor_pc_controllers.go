package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hfglabs/vendor-dashboard/services"
	"github.com/hfglabs/vendor-dashboard/utils"
)

type VendorPCController struct {
	Links *services.LinkService
}

func NewVendorPCController(links *services.LinkService) *VendorPCController {
	return &VendorPCController{Links: links}
}

func vendorIDFromContext(c *gin.Context) (uint, bool) {
	v, ok := c.Get("vendor_id")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// ListConsoles returns the vendor's PC fleet together with the plan limit
// and how much link capacity is left.
func (vc *VendorPCController) ListConsoles(c *gin.Context) {
	vendorID, ok := vendorIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("missing vendor context"))
		return
	}

	list, err := vc.Links.ListConsoles(vendorID)
	if err != nil {
		if errors.Is(err, services.ErrNoActivePlan) {
			utils.RespondReason(c, http.StatusForbidden, services.Reason(err), err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Console list", list)
}

// Link opens a link session on one console, enforcing the plan limit.
func (vc *VendorPCController) Link(c *gin.Context) {
	vendorID, ok := vendorIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("missing vendor context"))
		return
	}

	consoleID, err := strconv.ParseUint(c.Param("console_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid console id"))
		return
	}

	var req struct {
		KioskID string `json:"kiosk_id"`
	}
	_ = c.ShouldBindJSON(&req)

	session, err := vc.Links.Link(vendorID, uint(consoleID), req.KioskID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCapacityExceeded), errors.Is(err, services.ErrResourceConflict):
			utils.RespondReason(c, http.StatusConflict, services.Reason(err), err)
		case errors.Is(err, services.ErrConsoleNotFound):
			utils.RespondReason(c, http.StatusNotFound, services.Reason(err), err)
		case errors.Is(err, services.ErrNoActivePlan):
			utils.RespondReason(c, http.StatusForbidden, services.Reason(err), err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Console linked", gin.H{
		"session_id":    session.ID,
		"session_token": session.SessionToken,
		"ws_url":        fmt.Sprintf("%s/ws/console?token=%s", vc.Links.WSBaseURL, session.SessionToken),
	})
}

// Unlink closes the active link session on a console. Closing an already
// closed console is not an error, the response just reports zero closed.
func (vc *VendorPCController) Unlink(c *gin.Context) {
	vendorID, ok := vendorIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("missing vendor context"))
		return
	}

	consoleID, err := strconv.ParseUint(c.Param("console_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid console id"))
		return
	}

	var req struct {
		SessionID uint   `json:"session_id"`
		Reason    string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.Reason == "" {
		req.Reason = "operator_unlink"
	}

	closed, err := vc.Links.Unlink(req.SessionID, uint(consoleID), vendorID, req.Reason)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Console unlinked", gin.H{"closed": closed})
}
