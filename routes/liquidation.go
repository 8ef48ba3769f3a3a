package routes

import (
	"errors"
	"time"

	"github.com/Satlla/itineramio-sub018/models"
	"github.com/Satlla/itineramio-sub018/services"
	"github.com/Satlla/itineramio-sub018/storage"
	"github.com/Satlla/itineramio-sub018/utils"
	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

type CreateLiquidationInput struct {
	OwnerID    uint   `json:"ownerId" validate:"required"`
	Year       int    `json:"year" validate:"required,min=2000,max=2100"`
	Month      int    `json:"month" validate:"required,min=1,max=12"`
	PropertyID uint   `json:"propertyId"`
	Notes      string `json:"notes"`
}

type UpdateLiquidationInput struct {
	Status *string `json:"status" validate:"omitempty,oneof=DRAFT SENT CANCELLED"`
	Notes  *string `json:"notes"`
}

func CreateLiquidation(ctx iris.Context) {
	userID, _ := ctx.Values().Get("userID").(uint)

	var input CreateLiquidationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	liquidation, err := services.CreateLiquidation(storage.DB, input.OwnerID, input.Year, input.Month, input.PropertyID, input.Notes)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.JSONError(ctx, iris.StatusNotFound, "not_found", "owner not found")
		case errors.Is(err, services.ErrLiquidationExists):
			utils.JSONError(ctx, iris.StatusConflict, "conflict", err.Error())
		case errors.Is(err, services.ErrNothingPending):
			utils.JSONError(ctx, iris.StatusConflict, "conflict", err.Error())
		default:
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	utils.Audit(ctx, "create", "liquidation", liquidation.ID, nil, liquidation)
	invalidatePendingCache()

	notification := models.Notification{
		UserID:  userID,
		Type:    "liquidation_created",
		Title:   "Liquidation created",
		Message: "Draft liquidation ready for review",
		RefType: "liquidation",
		RefID:   liquidation.ID,
	}
	storage.DB.Create(&notification)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "data": liquidation})
}

func ListLiquidations(ctx iris.Context) {
	query := storage.DB.Preload("Owner").Preload("Invoice").Order("year DESC, month DESC")

	if ownerID := ctx.URLParamIntDefault("ownerId", 0); ownerID > 0 {
		query = query.Where("owner_id = ?", ownerID)
	}
	if year := ctx.URLParamIntDefault("year", 0); year > 0 {
		query = query.Where("year = ?", year)
	}
	if month := ctx.URLParamIntDefault("month", 0); month > 0 {
		query = query.Where("month = ?", month)
	}
	if status := ctx.URLParamDefault("status", ""); status != "" {
		query = query.Where("status = ?", status)
	}

	var liquidations []models.Liquidation
	if err := query.Find(&liquidations).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": liquidations})
}

type liquidationLine struct {
	Reservation models.Reservation `json:"reservation"`
	Commission  float64            `json:"commission"`
	Cleaning    float64            `json:"cleaning"`
}

func GetLiquidation(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var liquidation models.Liquidation
	if err := storage.DB.
		Preload("Owner").
		Preload("Invoice").
		Preload("Reservations").
		Preload("Reservations.Property").
		Preload("Expenses").
		First(&liquidation, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "liquidation not found")
		return
	}

	// per-reservation commission/cleaning breakdown for the detail view
	lines := make([]liquidationLine, 0, len(liquidation.Reservations))
	totalNights := 0
	for _, r := range liquidation.Reservations {
		lines = append(lines, liquidationLine{
			Reservation: r,
			Commission:  services.Round2(r.ManagerAmount - r.CleaningAmount),
			Cleaning:    r.CleaningAmount,
		})
		totalNights += r.Nights
	}

	daysInMonth := time.Date(liquidation.Year, time.Month(liquidation.Month), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 1, -1).Day()
	occupancy := float64(totalNights) / float64(daysInMonth) * 100
	if occupancy > 100 {
		occupancy = 100
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data": iris.Map{
			"liquidation":  liquidation,
			"lines":        lines,
			"totalNights":  totalNights,
			"occupancyPct": services.Round2(occupancy),
		},
	})
}

func UpdateLiquidation(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var input UpdateLiquidationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var before models.Liquidation
	storage.DB.First(&before, id)

	liquidation, err := services.UpdateLiquidation(storage.DB, id, input.Status, input.Notes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLiquidationNotFound):
			utils.JSONError(ctx, iris.StatusNotFound, "not_found", "liquidation not found")
		case errors.Is(err, services.ErrInvoiceLocked), errors.Is(err, services.ErrInvalidTransition):
			utils.JSONError(ctx, iris.StatusConflict, "conflict", err.Error())
		default:
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	utils.Audit(ctx, "update_status", "liquidation", liquidation.ID, before, liquidation)

	if input.Status != nil && *input.Status == models.LiquidationStatusSent {
		userID, _ := ctx.Values().Get("userID").(uint)
		notification := models.Notification{
			UserID:  userID,
			Type:    "liquidation_sent",
			Title:   "Liquidation sent",
			Message: "Liquidation was marked as sent to the owner",
			RefType: "liquidation",
			RefID:   liquidation.ID,
		}
		storage.DB.Create(&notification)
	}

	ctx.JSON(iris.Map{"success": true, "data": liquidation})
}

func DeleteLiquidation(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var before models.Liquidation
	storage.DB.First(&before, id)

	if err := services.DeleteLiquidation(storage.DB, id); err != nil {
		switch {
		case errors.Is(err, services.ErrLiquidationNotFound):
			utils.JSONError(ctx, iris.StatusNotFound, "not_found", "liquidation not found")
		case errors.Is(err, services.ErrNotDeletable), errors.Is(err, services.ErrInvoiceLocked):
			utils.JSONError(ctx, iris.StatusConflict, "conflict", err.Error())
		default:
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	utils.Audit(ctx, "delete", "liquidation", id, before, nil)
	invalidatePendingCache()

	ctx.JSON(iris.Map{"success": true, "message": "Liquidation deleted, activity released to pending"})
}

func AttachInvoice(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	invoice, err := services.AttachInvoice(storage.DB, id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLiquidationNotFound):
			utils.JSONError(ctx, iris.StatusNotFound, "not_found", "liquidation not found")
		case errors.Is(err, services.ErrInvoiceLocked), errors.Is(err, services.ErrInvoiceFromDraft):
			utils.JSONError(ctx, iris.StatusConflict, "conflict", err.Error())
		default:
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	utils.Audit(ctx, "attach_invoice", "liquidation", id, nil, invoice)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "data": invoice})
}
