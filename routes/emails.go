package routes

import (
	"github.com/Satlla/itineramio-sub018/services"
	"github.com/Satlla/itineramio-sub018/storage"
	"github.com/Satlla/itineramio-sub018/utils"
	"github.com/kataras/iris/v12"
)

type ProcessEmailsInput struct {
	EmailIDs        []string `json:"emailIds"`
	BillingConfigID uint     `json:"billingConfigId" validate:"required"`
}

func ProcessEmails(ctx iris.Context) {
	var input ProcessEmailsInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	result, err := services.ProcessEmails(storage.DB, input.BillingConfigID, input.EmailIDs)
	if err != nil {
		if err == services.ErrScopeNotFound {
			utils.JSONError(ctx, iris.StatusNotFound, "not_found", "billing config not found")
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	invalidatePendingCache()

	ctx.JSON(iris.Map{
		"success":   true,
		"processed": result.Processed,
		"created":   result.Created,
		"updated":   result.Updated,
		"cancelled": result.Cancelled,
		"skipped":   result.Skipped,
		"errors":    result.Errors,
	})
}
