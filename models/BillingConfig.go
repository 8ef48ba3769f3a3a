package models

import "gorm.io/gorm"

// BillingConfig is the legacy per-property rule set, kept for reservations
// imported before units/groups existed. One per property, no group
// indirection.
type BillingConfig struct {
	gorm.Model
	PropertyID uint `json:"propertyId" gorm:"uniqueIndex"`
	OwnerID    uint `json:"ownerId" gorm:"index"`

	CommissionType    string  `json:"commissionType" gorm:"type:varchar(30)"`
	CommissionValue   float64 `json:"commissionValue"`
	CommissionVatRate float64 `json:"commissionVatRate"`
	CleaningType      string  `json:"cleaningType" gorm:"type:varchar(30)"`
	CleaningValue     float64 `json:"cleaningValue"`
	CleaningRecipient string  `json:"cleaningRecipient" gorm:"type:varchar(20)"`
	CleaningSplitPct  float64 `json:"cleaningSplitPct"`

	Property Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Owner    Owner    `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}
