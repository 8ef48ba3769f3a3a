package routes

import (
	"encoding/json"

	"github.com/Satlla/itineramio-sub018/models"
	"github.com/Satlla/itineramio-sub018/services"
	"github.com/Satlla/itineramio-sub018/storage"
	"github.com/Satlla/itineramio-sub018/utils"
	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"
)

type SpreadsheetImportInput struct {
	Rows           [][]string            `json:"rows" validate:"required,min=1"`
	Mapping        ColumnMappingInput    `json:"mapping"`
	Config         services.ImportConfig `json:"config"`
	PropertyID     uint                  `json:"propertyId" validate:"required"`
	SkipDuplicates bool                  `json:"skipDuplicates"`
}

// ColumnMappingInput is the wire shape of a column mapping. Optional columns
// are pointers so an omitted field is distinguishable from column 0.
type ColumnMappingInput struct {
	GuestName        int  `json:"guestName" validate:"min=0"`
	CheckIn          int  `json:"checkIn" validate:"min=0"`
	CheckOut         int  `json:"checkOut" validate:"min=0"`
	Amount           int  `json:"amount" validate:"min=0"`
	ConfirmationCode *int `json:"confirmationCode"`
	Nights           *int `json:"nights"`
	CleaningFee      *int `json:"cleaningFee"`
	Commission       *int `json:"commission"`
	Status           *int `json:"status"`
}

func (in ColumnMappingInput) toMapping() services.ColumnMapping {
	opt := func(p *int) int {
		if p == nil {
			return -1
		}
		return *p
	}
	return services.ColumnMapping{
		GuestName:        in.GuestName,
		CheckIn:          in.CheckIn,
		CheckOut:         in.CheckOut,
		Amount:           in.Amount,
		ConfirmationCode: opt(in.ConfirmationCode),
		Nights:           opt(in.Nights),
		CleaningFee:      opt(in.CleaningFee),
		Commission:       opt(in.Commission),
		Status:           opt(in.Status),
	}
}

func ImportSpreadsheet(ctx iris.Context) {
	userID, _ := ctx.Values().Get("userID").(uint)

	var input SpreadsheetImportInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	mapping := input.Mapping.toMapping()

	scope, rules, err := services.ScopeForProperty(storage.DB, input.PropertyID)
	if err != nil {
		if err == services.ErrScopeNotFound {
			utils.JSONError(ctx, iris.StatusNotFound, "not_found", "property not found")
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	result, err := services.ImportRows(storage.DB, input.Rows, mapping, input.Config, scope, rules, input.SkipDuplicates)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	errorsJSON, _ := json.Marshal(result.Errors)
	batch := models.ImportBatch{
		BatchID:       services.NewBatchID(),
		PropertyID:    input.PropertyID,
		Platform:      input.Config.Platform,
		TotalRows:     result.TotalRows,
		ImportedCount: result.ImportedCount,
		UpdatedCount:  result.UpdatedCount,
		SkippedCount:  result.SkippedCount,
		ErrorCount:    result.ErrorCount,
		Errors:        datatypes.JSON(errorsJSON),
		CreatedByID:   userID,
	}
	storage.DB.Create(&batch)

	utils.Audit(ctx, "import", "import_batch", batch.ID, nil, result)
	invalidatePendingCache()

	ctx.JSON(iris.Map{
		"success":       true,
		"batchId":       batch.BatchID,
		"totalRows":     result.TotalRows,
		"importedCount": result.ImportedCount,
		"updatedCount":  result.UpdatedCount,
		"skippedCount":  result.SkippedCount,
		"errorCount":    result.ErrorCount,
		"errors":        result.Errors,
	})
}

func ListImportBatches(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("perPage", 20)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var total int64
	if err := storage.DB.Model(&models.ImportBatch{}).Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var batches []models.ImportBatch
	if err := storage.DB.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&batches).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.JSONPage(ctx, batches, page, perPage, total)
}

func GetImportBatch(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	var batch models.ImportBatch
	if err := storage.DB.First(&batch, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "import batch not found")
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": batch})
}
