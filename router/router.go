package router

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/hfglabs/vendor-dashboard/bridge"
	"github.com/hfglabs/vendor-dashboard/controllers"
	"github.com/hfglabs/vendor-dashboard/hub"
	"github.com/hfglabs/vendor-dashboard/middlewares"
	"github.com/hfglabs/vendor-dashboard/services"
	"gorm.io/gorm"
)

// Deps bundles everything the HTTP layer needs. main builds it once after
// wiring the hub and bridge together.
type Deps struct {
	DB     *gorm.DB
	Hub    *hub.Hub
	Bridge *bridge.Client
	Links  *services.LinkService
	Slots  *services.SlotService
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(os.Getenv("CORS_ALLOW_ORIGIN")))

	userCtrl := controllers.NewUserController(deps.DB)
	pcCtrl := controllers.NewVendorPCController(deps.Links)
	slotCtrl := controllers.NewSlotController(deps.Slots)
	bridgeCtrl := controllers.NewBridgeController(deps.Bridge)
	pricingCtrl := controllers.NewPricingController(deps.DB)
	internalCtrl := controllers.NewInternalController(deps.Hub)
	wsCtrl := controllers.NewWSController(deps.DB, deps.Hub, deps.Bridge, deps.Slots)

	auth := r.Group("/auth")
	auth.Use(middlewares.StrictRateLimiter())
	{
		auth.POST("/register", userCtrl.Register)
		auth.POST("/login", userCtrl.Login)
	}

	api := r.Group("/api/v1")
	api.Use(middlewares.AuthMiddleware())
	{
		api.GET("/consoles", pcCtrl.ListConsoles)
		api.POST("/consoles/:console_id/link", pcCtrl.Link)
		api.POST("/consoles/:console_id/unlink", pcCtrl.Unlink)

		api.POST("/slots/check-extension", slotCtrl.CheckExtension)
		api.POST("/slots/book-extension", slotCtrl.BookExtension)

		api.GET("/bridge/status", bridgeCtrl.Status)
		api.POST("/bridge/join", bridgeCtrl.Join)

		api.GET("/pricing/offers", pricingCtrl.ListOffers)
	}

	ws := r.Group("/ws")
	{
		ws.GET("/dashboard", middlewares.WebSocketAuthMiddleware(), wsCtrl.DashboardWS)
		ws.GET("/console", wsCtrl.ConsoleWS)
	}

	internal := r.Group("/internal")
	internal.Use(middlewares.InternalAuthMiddleware(os.Getenv("INTERNAL_API_KEY")))
	{
		internal.POST("/ws/unlock", internalCtrl.UnlockConsole)
	}

	return r
}
