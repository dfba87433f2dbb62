package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hfglabs/vendor-dashboard/bridge"
	"github.com/hfglabs/vendor-dashboard/utils"
)

type BridgeController struct {
	Client *bridge.Client
}

func NewBridgeController(client *bridge.Client) *BridgeController {
	return &BridgeController{Client: client}
}

// Status exposes the upstream link health for the ops dashboard.
func (bc *BridgeController) Status(c *gin.Context) {
	snap := bc.Client.State().Snapshot()
	utils.RespondJSON(c, http.StatusOK, "Bridge status", snap)
}

// Join subscribes the bridge to the caller's vendor stream. The first call
// per vendor emits the upstream join, repeats are no-ops.
func (bc *BridgeController) Join(c *gin.Context) {
	vendorID, ok := vendorIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("missing vendor context"))
		return
	}
	bc.Client.Join(vendorID)
	utils.RespondJSON(c, http.StatusOK, "Vendor stream joined", gin.H{"vendor_id": vendorID})
}
