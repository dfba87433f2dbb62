package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/hfglabs/vendor-dashboard/bridge"
	"github.com/hfglabs/vendor-dashboard/config"
	"github.com/hfglabs/vendor-dashboard/database"
	"github.com/hfglabs/vendor-dashboard/hub"
	"github.com/hfglabs/vendor-dashboard/models"
	"github.com/hfglabs/vendor-dashboard/router"
	"github.com/hfglabs/vendor-dashboard/services"
	"github.com/hfglabs/vendor-dashboard/utils"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InfoLogger = logrus.New()
	utils.ErrorLogger = logrus.New()

	utils.InfoLogger.SetOutput(os.Stdout)
	utils.ErrorLogger.SetOutput(os.Stderr)

	utils.InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   true,
	})
	utils.ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   true,
	})
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := utils.InitRedis(); err != nil {
		utils.InfoLogger.Printf("Redis unavailable, plan cache disabled: %v", err)
	}
	defer utils.CloseRedis()

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	if err := database.SeedVendorSlots(db, config.GetEnvInt("SLOT_SEED_DAYS", 14)); err != nil {
		utils.ErrorLogger.Printf("Slot seeding failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	localHub := hub.NewHub()

	bridgeCfg := bridge.Config{
		URL:       os.Getenv("UPSTREAM_WS_URL"),
		AuthToken: os.Getenv("UPSTREAM_WS_TOKEN"),
	}
	bridgeClient := bridge.NewClient(bridgeCfg, func(vendorID uint, event string, data interface{}) {
		localHub.BroadcastToVendor(vendorID, event, data)
	})

	// The hub arms the upstream stream lazily: the first dashboard of a
	// vendor to connect triggers the upstream join.
	localHub.JoinUpstream = bridgeClient.Join

	go bridgeClient.Run(ctx)
	go bridgeClient.RunHealth(ctx)

	plans := services.NewPlanService(db)
	links := services.NewLinkService(db, plans, localHub, wsBaseURL())
	slots := services.NewSlotService(db, localHub)

	monitor := services.NewBookingMonitor(db, localHub)
	monitor.Start()
	defer monitor.Stop()

	r := router.SetupRouter(router.Deps{
		DB:     db,
		Hub:    localHub,
		Bridge: bridgeClient,
		Links:  links,
		Slots:  slots,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func wsBaseURL() string {
	if v := os.Getenv("WS_BASE_URL"); v != "" {
		return v
	}
	return "ws://localhost:8080"
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Vendor{},
		&models.Subscription{},
		&models.Console{},
		&models.ConsoleLinkSession{},
		&models.GameCategory{},
		&models.Slot{},
		&models.VendorSlot{},
		&models.Booking{},
		&models.PricingOffer{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
