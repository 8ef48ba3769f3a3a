package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Satlla/itineramio-sub018/services"
	"github.com/Satlla/itineramio-sub018/storage"
	"github.com/Satlla/itineramio-sub018/utils"
	"github.com/kataras/iris/v12"
)

var pendingCacheCtx = context.Background()

const pendingCacheVersionKey = "pending:version"

// GetPendingActivity returns reservations and chargeable expenses not yet
// claimed by any liquidation, grouped owner -> property with rollups.
func GetPendingActivity(ctx iris.Context) {
	filter := services.PendingFilter{
		OwnerID:    uint(ctx.URLParamIntDefault("ownerId", 0)),
		PropertyID: uint(ctx.URLParamIntDefault("propertyId", 0)),
		Year:       ctx.URLParamIntDefault("year", 0),
		Month:      ctx.URLParamIntDefault("month", 0),
	}
	if (filter.Year == 0) != (filter.Month == 0) {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "year and month must be provided together")
		return
	}
	if filter.Month < 0 || filter.Month > 12 {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "month out of range")
		return
	}

	cacheKey := pendingCacheKey(filter)
	if cached, err := storage.Redis.Get(pendingCacheCtx, cacheKey).Result(); err == nil {
		var report []services.OwnerPending
		if json.Unmarshal([]byte(cached), &report) == nil {
			ctx.JSON(iris.Map{"success": true, "data": report, "cached": true})
			return
		}
	}

	report, err := services.PendingReport(storage.DB, filter)
	if err != nil {
		log.Println("pending report failed:", err)
		utils.CreateInternalServerError(ctx)
		return
	}

	if payload, err := json.Marshal(report); err == nil {
		storage.Redis.Set(pendingCacheCtx, cacheKey, payload, 60*time.Second)
	}

	ctx.JSON(iris.Map{"success": true, "data": report})
}

func pendingCacheKey(filter services.PendingFilter) string {
	version, _ := storage.Redis.Get(pendingCacheCtx, pendingCacheVersionKey).Result()
	return fmt.Sprintf("pending:%s:%d:%d:%d:%d", version, filter.OwnerID, filter.PropertyID, filter.Year, filter.Month)
}

// invalidatePendingCache bumps the cache version; keyed entries expire on
// their own TTL.
func invalidatePendingCache() {
	storage.Redis.Incr(pendingCacheCtx, pendingCacheVersionKey)
}
