package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/hfglabs/vendor-dashboard/models"
	"github.com/hfglabs/vendor-dashboard/utils"
	"gorm.io/gorm"
)

const planCacheTTL = 60 * time.Second

// PlanService reads the vendor's capacity plan. The subscription row is
// owned by the billing layer; this service only consumes PCLimit. Reads go
// through the redis cache when available and fall back to the database.
type PlanService struct {
	DB *gorm.DB
}

func NewPlanService(db *gorm.DB) *PlanService {
	return &PlanService{DB: db}
}

// GetPCLimit returns the maximum number of concurrently linked consoles the
// vendor's plan allows.
func (ps *PlanService) GetPCLimit(vendorID uint) (int, error) {
	cacheKey := fmt.Sprintf("plan:pc_limit:%d", vendorID)
	if cached, err := utils.CacheGet(cacheKey); err == nil {
		if limit, err := strconv.Atoi(cached); err == nil {
			return limit, nil
		}
	}

	limit, err := ps.lookupPCLimit(ps.DB, vendorID)
	if err != nil {
		return 0, err
	}

	if err := utils.CacheSet(cacheKey, strconv.Itoa(limit), planCacheTTL); err == nil {
		utils.InfoLogger.Printf("Cached pc_limit=%d for vendor %d", limit, vendorID)
	}
	return limit, nil
}

// lookupPCLimit reads the plan limit straight from storage, honoring the
// caller's transaction when one is passed.
func (ps *PlanService) lookupPCLimit(tx *gorm.DB, vendorID uint) (int, error) {
	var sub models.Subscription
	err := tx.Where("vendor_id = ? AND is_active = ?", vendorID, true).
		Order("created_at DESC").
		First(&sub).Error
	if err == gorm.ErrRecordNotFound {
		return 0, ErrNoActivePlan
	}
	if err != nil {
		return 0, err
	}
	return sub.PCLimit, nil
}

// InvalidatePlan drops the cached limit, called when billing updates a plan.
func (ps *PlanService) InvalidatePlan(vendorID uint) {
	utils.CacheDelete(fmt.Sprintf("plan:pc_limit:%d", vendorID))
}
