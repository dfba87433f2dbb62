package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/hfglabs/vendor-dashboard/bridge"
	"github.com/hfglabs/vendor-dashboard/hub"
	"github.com/hfglabs/vendor-dashboard/models"
	"github.com/hfglabs/vendor-dashboard/services"
	"github.com/hfglabs/vendor-dashboard/utils"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSController struct {
	DB     *gorm.DB
	Hub    *hub.Hub
	Bridge *bridge.Client
	Slots  *services.SlotService
}

func NewWSController(db *gorm.DB, h *hub.Hub, b *bridge.Client, slots *services.SlotService) *WSController {
	return &WSController{DB: db, Hub: h, Bridge: b, Slots: slots}
}

// DashboardWS serves the operator dashboard socket. The auth middleware has
// already validated the JWT and put vendor_id on the context. Joining the
// vendor room also arms the upstream bridge for that vendor.
func (wc *WSController) DashboardWS(c *gin.Context) {
	vendorID, ok := vendorIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("missing vendor context"))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Dashboard WS upgrade failed: %v", err)
		return
	}

	client := hub.NewClient(conn)
	client.VendorID = vendorID
	if role, exists := c.Get("user_role"); exists {
		if s, ok := role.(string); ok {
			client.Role = s
		}
	}

	wc.Hub.JoinVendor(client, vendorID)
	go client.WritePump()

	defer func() {
		wc.Hub.Remove(client)
		client.Close()
	}()

	for {
		payload, err := client.ReadMessage()
		if err != nil {
			return
		}
		var msg hub.Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			continue
		}
		wc.handleDashboardEvent(client, vendorID, msg)
	}
}

func (wc *WSController) handleDashboardEvent(client *hub.Client, vendorID uint, msg hub.Message) {
	switch msg.Event {
	case "ping_health":
		client.Send(hub.EventPongHealth, wc.Bridge.State().Snapshot())

	case "check_extension":
		var req checkExtensionRequest
		if !decodeEventData(msg.Data, &req) {
			client.Send(hub.EventExtensionError, gin.H{"reason": "bad_request"})
			return
		}
		cand, err := wc.Slots.Check(vendorID, req.ConsoleID, req.GameID, req.Date, req.EndTime)
		if err != nil {
			client.Send(hub.EventExtensionError, gin.H{"reason": services.Reason(err)})
			return
		}
		client.Send(hub.EventExtensionOffer, cand)

	case "book_extension":
		var req bookExtensionRequest
		if !decodeEventData(msg.Data, &req) {
			client.Send(hub.EventExtensionError, gin.H{"reason": "bad_request"})
			return
		}
		booking, err := wc.Slots.Book(vendorID, req.ConsoleID, req.GameID, req.BookingID, &req.Candidate)
		if err != nil {
			client.Send(hub.EventExtensionError, gin.H{"reason": services.Reason(err)})
			return
		}
		client.Send(hub.EventExtensionOK, booking)
	}
}

func decodeEventData(data interface{}, out interface{}) bool {
	raw, err := json.Marshal(data)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

// ConsoleWS serves the kiosk screen socket. Kiosks authenticate with the
// session token minted when the console was linked, not with operator JWTs.
// They only listen; inbound frames are drained and dropped.
func (wc *WSController) ConsoleWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("missing session token"))
		return
	}

	var session models.ConsoleLinkSession
	if err := wc.DB.Where("session_token = ? AND status = ?", token, models.LinkStatusActive).
		First(&session).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid or expired session token"))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Console WS upgrade failed: %v", err)
		return
	}

	client := hub.NewClient(conn)
	client.VendorID = session.VendorID
	client.Role = "console"

	wc.Hub.JoinConsole(client, session.ConsoleID)
	go client.WritePump()

	utils.InfoLogger.Printf("Console %d connected (session=%d)", session.ConsoleID, session.ID)

	defer func() {
		wc.Hub.Remove(client)
		client.Close()
	}()

	for {
		if _, err := client.ReadMessage(); err != nil {
			return
		}
	}
}
