package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hfglabs/vendor-dashboard/hub"
	"github.com/hfglabs/vendor-dashboard/utils"
)

// InternalController serves trusted service-to-service endpoints. The
// router guards it with a shared key, not operator JWTs.
type InternalController struct {
	Hub *hub.Hub
}

func NewInternalController(h *hub.Hub) *InternalController {
	return &InternalController{Hub: h}
}

// UnlockConsole pushes an unlock command to a linked console screen.
func (ic *InternalController) UnlockConsole(c *gin.Context) {
	var req struct {
		ConsoleID uint   `json:"console_id" binding:"required"`
		BookingID uint   `json:"booking_id"`
		Message   string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if ic.Hub.RoomSize(hub.ConsoleRoom(req.ConsoleID)) == 0 {
		utils.RespondJSON(c, http.StatusOK, "No console connected", gin.H{"delivered": false})
		return
	}

	ic.Hub.SendToConsole(req.ConsoleID, hub.EventUnlockRequest, gin.H{
		"console_id": req.ConsoleID,
		"booking_id": req.BookingID,
		"message":    req.Message,
	})
	utils.RespondJSON(c, http.StatusOK, "Unlock sent", gin.H{"delivered": true})
}
