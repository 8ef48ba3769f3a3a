package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ImportBatch records one spreadsheet import run so failed rows can be
// reviewed and retried later.
type ImportBatch struct {
	gorm.Model
	BatchID       string         `json:"batchId" gorm:"uniqueIndex"`
	PropertyID    uint           `json:"propertyId" gorm:"index"`
	Platform      string         `json:"platform"`
	TotalRows     int            `json:"totalRows"`
	ImportedCount int            `json:"importedCount"`
	UpdatedCount  int            `json:"updatedCount"`
	SkippedCount  int            `json:"skippedCount"`
	ErrorCount    int            `json:"errorCount"`
	Errors        datatypes.JSON `json:"errors"` // [{row, error, data}]
	CreatedByID   uint           `json:"createdById"`
}
