package models

import "gorm.io/gorm"

// BillingUnitGroup bundles units under one owner sharing a single commission
// policy. Its cleaning fields are a fallback for units that declare none.
type BillingUnitGroup struct {
	gorm.Model
	Name    string `json:"name"`
	OwnerID uint   `json:"ownerId" gorm:"index"`

	CommissionType    string  `json:"commissionType" gorm:"type:varchar(30)"`
	CommissionValue   float64 `json:"commissionValue"`
	CommissionVatRate float64 `json:"commissionVatRate"`
	CleaningType      string  `json:"cleaningType" gorm:"type:varchar(30)"`
	CleaningValue     float64 `json:"cleaningValue"`
	CleaningRecipient string  `json:"cleaningRecipient" gorm:"type:varchar(20)"`
	CleaningSplitPct  float64 `json:"cleaningSplitPct"`

	Owner Owner         `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Units []BillingUnit `json:"units,omitempty" gorm:"foreignKey:GroupID"`
}
