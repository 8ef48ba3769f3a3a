package routes

import (
	"github.com/Satlla/itineramio-sub018/models"
	"github.com/Satlla/itineramio-sub018/services"
	"github.com/Satlla/itineramio-sub018/storage"
	"github.com/Satlla/itineramio-sub018/utils"
	"github.com/kataras/iris/v12"
)

type BillingUnitInput struct {
	Name       string `json:"name" validate:"required,max=256"`
	PropertyID uint   `json:"propertyId" validate:"required"`
	OwnerID    uint   `json:"ownerId" validate:"required"`
	GroupID    *uint  `json:"groupId"`

	CommissionType    string  `json:"commissionType" validate:"omitempty,oneof=PERCENTAGE FIXED_PER_RESERVATION FIXED_MONTHLY"`
	CommissionValue   float64 `json:"commissionValue" validate:"min=0"`
	CommissionVatRate float64 `json:"commissionVatRate" validate:"min=0,max=100"`
	CleaningType      string  `json:"cleaningType"`
	CleaningValue     float64 `json:"cleaningValue" validate:"min=0"`
	CleaningRecipient string  `json:"cleaningRecipient" validate:"omitempty,oneof=MANAGER OWNER SPLIT"`
	CleaningSplitPct  float64 `json:"cleaningSplitPct" validate:"min=0,max=100"`
}

type BillingUnitGroupInput struct {
	Name    string `json:"name" validate:"required,max=256"`
	OwnerID uint   `json:"ownerId" validate:"required"`

	CommissionType    string  `json:"commissionType" validate:"omitempty,oneof=PERCENTAGE FIXED_PER_RESERVATION FIXED_MONTHLY"`
	CommissionValue   float64 `json:"commissionValue" validate:"min=0"`
	CommissionVatRate float64 `json:"commissionVatRate" validate:"min=0,max=100"`
	CleaningType      string  `json:"cleaningType"`
	CleaningValue     float64 `json:"cleaningValue" validate:"min=0"`
	CleaningRecipient string  `json:"cleaningRecipient" validate:"omitempty,oneof=MANAGER OWNER SPLIT"`
	CleaningSplitPct  float64 `json:"cleaningSplitPct" validate:"min=0,max=100"`
}

func CreateBillingUnit(ctx iris.Context) {
	var input BillingUnitInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	unit := models.BillingUnit{
		Name:              input.Name,
		PropertyID:        input.PropertyID,
		OwnerID:           input.OwnerID,
		GroupID:           input.GroupID,
		CommissionType:    input.CommissionType,
		CommissionValue:   input.CommissionValue,
		CommissionVatRate: input.CommissionVatRate,
		CleaningType:      input.CleaningType,
		CleaningValue:     input.CleaningValue,
		CleaningRecipient: input.CleaningRecipient,
		CleaningSplitPct:  input.CleaningSplitPct,
	}
	if err := storage.DB.Create(&unit).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "data": unit})
}

func ListBillingUnits(ctx iris.Context) {
	query := storage.DB.Preload("Group").Preload("Property").Order("name ASC")
	if propertyID := ctx.URLParamIntDefault("propertyId", 0); propertyID > 0 {
		query = query.Where("property_id = ?", propertyID)
	}
	var units []models.BillingUnit
	if err := query.Find(&units).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": units})
}

// GetBillingUnit includes the effective rules so the mapping UI can show
// what a reservation on this unit would actually be billed under.
func GetBillingUnit(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	var unit models.BillingUnit
	if err := storage.DB.Preload("Group").Preload("Property").First(&unit, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "billing unit not found")
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": iris.Map{
		"unit":           unit,
		"effectiveRules": services.RulesForUnit(&unit),
	}})
}

func UpdateBillingUnit(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	var unit models.BillingUnit
	if err := storage.DB.First(&unit, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "billing unit not found")
		return
	}

	var input BillingUnitInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	unit.Name = input.Name
	unit.PropertyID = input.PropertyID
	unit.OwnerID = input.OwnerID
	unit.GroupID = input.GroupID
	unit.CommissionType = input.CommissionType
	unit.CommissionValue = input.CommissionValue
	unit.CommissionVatRate = input.CommissionVatRate
	unit.CleaningType = input.CleaningType
	unit.CleaningValue = input.CleaningValue
	unit.CleaningRecipient = input.CleaningRecipient
	unit.CleaningSplitPct = input.CleaningSplitPct

	if err := storage.DB.Save(&unit).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": unit})
}

func CreateBillingUnitGroup(ctx iris.Context) {
	var input BillingUnitGroupInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	group := models.BillingUnitGroup{
		Name:              input.Name,
		OwnerID:           input.OwnerID,
		CommissionType:    input.CommissionType,
		CommissionValue:   input.CommissionValue,
		CommissionVatRate: input.CommissionVatRate,
		CleaningType:      input.CleaningType,
		CleaningValue:     input.CleaningValue,
		CleaningRecipient: input.CleaningRecipient,
		CleaningSplitPct:  input.CleaningSplitPct,
	}
	if err := storage.DB.Create(&group).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "data": group})
}

func ListBillingUnitGroups(ctx iris.Context) {
	query := storage.DB.Preload("Units").Order("name ASC")
	if ownerID := ctx.URLParamIntDefault("ownerId", 0); ownerID > 0 {
		query = query.Where("owner_id = ?", ownerID)
	}
	var groups []models.BillingUnitGroup
	if err := query.Find(&groups).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": groups})
}

func UpdateBillingUnitGroup(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	var group models.BillingUnitGroup
	if err := storage.DB.First(&group, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "billing unit group not found")
		return
	}

	var input BillingUnitGroupInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	group.Name = input.Name
	group.OwnerID = input.OwnerID
	group.CommissionType = input.CommissionType
	group.CommissionValue = input.CommissionValue
	group.CommissionVatRate = input.CommissionVatRate
	group.CleaningType = input.CleaningType
	group.CleaningValue = input.CleaningValue
	group.CleaningRecipient = input.CleaningRecipient
	group.CleaningSplitPct = input.CleaningSplitPct

	if err := storage.DB.Save(&group).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": group})
}
