package routes

import (
	"time"

	"github.com/Satlla/itineramio-sub018/models"
	"github.com/Satlla/itineramio-sub018/storage"
	"github.com/Satlla/itineramio-sub018/utils"
	"github.com/kataras/iris/v12"
)

type ExpenseInput struct {
	Description   string  `json:"description" validate:"required,max=512"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Date          string  `json:"date" validate:"required"`
	ChargeToOwner *bool   `json:"chargeToOwner"`
	PropertyID    uint    `json:"propertyId" validate:"required"`
}

func CreateExpense(ctx iris.Context) {
	var input ExpenseInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "invalid date format, expected YYYY-MM-DD")
		return
	}

	var property models.Property
	if err := storage.DB.First(&property, input.PropertyID).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "property not found")
		return
	}

	chargeToOwner := true
	if input.ChargeToOwner != nil {
		chargeToOwner = *input.ChargeToOwner
	}

	expense := models.Expense{
		Description:   input.Description,
		Amount:        input.Amount,
		Date:          date,
		ChargeToOwner: chargeToOwner,
		PropertyID:    input.PropertyID,
	}
	if err := storage.DB.Create(&expense).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	invalidatePendingCache()
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "data": expense})
}

func ListExpenses(ctx iris.Context) {
	query := storage.DB.Preload("Property").Order("date DESC")
	if propertyID := ctx.URLParamIntDefault("propertyId", 0); propertyID > 0 {
		query = query.Where("property_id = ?", propertyID)
	}
	if pending, _ := ctx.URLParamBool("pending"); pending {
		query = query.Where("liquidation_id IS NULL")
	}

	var expenses []models.Expense
	if err := query.Find(&expenses).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": expenses})
}

func UpdateExpense(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	var expense models.Expense
	if err := storage.DB.First(&expense, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "expense not found")
		return
	}

	// frozen once claimed by a liquidation
	if expense.LiquidationID != nil {
		utils.JSONError(ctx, iris.StatusConflict, "conflict", "expense is part of a liquidation and cannot be modified")
		return
	}

	var input ExpenseInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "invalid date format, expected YYYY-MM-DD")
		return
	}

	expense.Description = input.Description
	expense.Amount = input.Amount
	expense.Date = date
	if input.ChargeToOwner != nil {
		expense.ChargeToOwner = *input.ChargeToOwner
	}
	expense.PropertyID = input.PropertyID

	if err := storage.DB.Save(&expense).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	invalidatePendingCache()
	ctx.JSON(iris.Map{"success": true, "data": expense})
}

func DeleteExpense(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	var expense models.Expense
	if err := storage.DB.First(&expense, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "expense not found")
		return
	}
	if expense.LiquidationID != nil {
		utils.JSONError(ctx, iris.StatusConflict, "conflict", "expense is part of a liquidation and cannot be deleted")
		return
	}

	if err := storage.DB.Delete(&expense).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	invalidatePendingCache()
	ctx.JSON(iris.Map{"success": true, "message": "Expense deleted"})
}
