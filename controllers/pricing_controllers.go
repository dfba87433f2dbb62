package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hfglabs/vendor-dashboard/models"
	"github.com/hfglabs/vendor-dashboard/utils"
	"gorm.io/gorm"
)

type PricingController struct {
	DB *gorm.DB
}

func NewPricingController(db *gorm.DB) *PricingController {
	return &PricingController{DB: db}
}

// ListOffers returns the vendor's pricing offers, flagging which ones are
// running right now.
func (pc *PricingController) ListOffers(c *gin.Context) {
	vendorID, ok := vendorIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("missing vendor context"))
		return
	}

	var offers []models.PricingOffer
	if err := pc.DB.Where("vendor_id = ?", vendorID).
		Order("created_at DESC").Find(&offers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	now := time.Now()
	date := now.Format("2006-01-02")
	clock := now.Format("15:04")

	type offerView struct {
		models.PricingOffer
		Running      bool   `json:"running"`
		PriceDisplay string `json:"price_display"`
	}
	views := make([]offerView, 0, len(offers))
	for _, o := range offers {
		views = append(views, offerView{
			PricingOffer: o,
			Running:      o.IsCurrentlyRunning(date, clock),
			PriceDisplay: utils.FormatPrice(o.OfferedPrice),
		})
	}

	utils.RespondJSON(c, http.StatusOK, "Pricing offers", views)
}
