package routes

import (
	"github.com/Satlla/itineramio-sub018/models"
	"github.com/Satlla/itineramio-sub018/storage"
	"github.com/Satlla/itineramio-sub018/utils"
	"github.com/kataras/iris/v12"
)

type OwnerInput struct {
	Name          string   `json:"name" validate:"required,max=256"`
	LegalType     string   `json:"legalType" validate:"omitempty,oneof=INDIVIDUAL COMPANY"`
	TaxID         string   `json:"taxId"`
	Email         string   `json:"email" validate:"omitempty,email"`
	Phone         string   `json:"phone"`
	Address       string   `json:"address"`
	IBAN          string   `json:"iban"`
	RetentionRate *float64 `json:"retentionRate" validate:"omitempty,min=0,max=100"`
}

func CreateOwner(ctx iris.Context) {
	var input OwnerInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	owner := models.Owner{
		Name:          input.Name,
		LegalType:     input.LegalType,
		TaxID:         input.TaxID,
		Email:         input.Email,
		Phone:         input.Phone,
		Address:       input.Address,
		IBAN:          input.IBAN,
		RetentionRate: input.RetentionRate,
	}
	if owner.LegalType == "" {
		owner.LegalType = models.OwnerLegalTypeIndividual
	}

	if err := storage.DB.Create(&owner).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "data": owner})
}

func ListOwners(ctx iris.Context) {
	var owners []models.Owner
	if err := storage.DB.Order("name ASC").Find(&owners).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": owners})
}

func GetOwner(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	var owner models.Owner
	if err := storage.DB.Preload("Properties").First(&owner, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "owner not found")
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": iris.Map{
		"owner":                  owner,
		"effectiveRetentionRate": owner.EffectiveRetentionRate(),
	}})
}

func UpdateOwner(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	var owner models.Owner
	if err := storage.DB.First(&owner, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "owner not found")
		return
	}

	var input OwnerInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	owner.Name = input.Name
	if input.LegalType != "" {
		owner.LegalType = input.LegalType
	}
	owner.TaxID = input.TaxID
	owner.Email = input.Email
	owner.Phone = input.Phone
	owner.Address = input.Address
	owner.IBAN = input.IBAN
	owner.RetentionRate = input.RetentionRate

	if err := storage.DB.Save(&owner).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": owner})
}

func DeleteOwner(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var count int64
	storage.DB.Model(&models.Liquidation{}).Where("owner_id = ?", id).Count(&count)
	if count > 0 {
		utils.JSONError(ctx, iris.StatusConflict, "conflict", "owner has liquidations and cannot be deleted")
		return
	}

	if err := storage.DB.Delete(&models.Owner{}, id).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "message": "Owner deleted"})
}
