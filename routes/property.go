package routes

import (
	"github.com/Satlla/itineramio-sub018/models"
	"github.com/Satlla/itineramio-sub018/storage"
	"github.com/Satlla/itineramio-sub018/utils"
	"github.com/kataras/iris/v12"
)

type PropertyInput struct {
	OwnerID      uint   `json:"ownerId" validate:"required"`
	Name         string `json:"name" validate:"required,max=256"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	Zip          string `json:"zip"`
	Country      string `json:"country"`
}

func CreateProperty(ctx iris.Context) {
	var input PropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var owner models.Owner
	if err := storage.DB.First(&owner, input.OwnerID).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "owner not found")
		return
	}

	property := models.Property{
		OwnerID:      input.OwnerID,
		Name:         input.Name,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		City:         input.City,
		Zip:          input.Zip,
		Country:      input.Country,
	}
	if err := storage.DB.Create(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "data": property})
}

func ListProperties(ctx iris.Context) {
	query := storage.DB.Preload("Owner").Order("name ASC")
	if ownerID := ctx.URLParamIntDefault("ownerId", 0); ownerID > 0 {
		query = query.Where("owner_id = ?", ownerID)
	}

	var properties []models.Property
	if err := query.Find(&properties).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": properties})
}

func GetProperty(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	var property models.Property
	if err := storage.DB.
		Preload("Owner").
		Preload("BillingUnits").
		Preload("BillingUnits.Group").
		Preload("BillingConfig").
		First(&property, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "property not found")
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": property})
}

func UpdateProperty(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	var property models.Property
	if err := storage.DB.First(&property, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "property not found")
		return
	}

	var input PropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	property.OwnerID = input.OwnerID
	property.Name = input.Name
	property.AddressLine1 = input.AddressLine1
	property.AddressLine2 = input.AddressLine2
	property.City = input.City
	property.Zip = input.Zip
	property.Country = input.Country

	if err := storage.DB.Save(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": property})
}
