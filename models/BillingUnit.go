package models

import "gorm.io/gorm"

// Commission types. FIXED_MONTHLY fees are charged at liquidation time,
// never per reservation.
const (
	CommissionTypePercentage      = "PERCENTAGE"
	CommissionTypeFixedPerBooking = "FIXED_PER_RESERVATION"
	CommissionTypeFixedMonthly    = "FIXED_MONTHLY"
)

// Cleaning fee recipient policies.
const (
	CleaningRecipientManager = "MANAGER"
	CleaningRecipientOwner   = "OWNER"
	CleaningRecipientSplit   = "SPLIT"
)

// BillingUnit is a rentable unit of a property. Its rule fields may be
// zero/blank, which means "defer to the group" when the unit belongs to one.
type BillingUnit struct {
	gorm.Model
	Name       string `json:"name"`
	PropertyID uint   `json:"propertyId" gorm:"index"`
	OwnerID    uint   `json:"ownerId" gorm:"index"`
	GroupID    *uint  `json:"groupId" gorm:"index"`

	CommissionType    string  `json:"commissionType" gorm:"type:varchar(30)"` // PERCENTAGE, FIXED_PER_RESERVATION, FIXED_MONTHLY
	CommissionValue   float64 `json:"commissionValue"`
	CommissionVatRate float64 `json:"commissionVatRate"`
	CleaningType      string  `json:"cleaningType" gorm:"type:varchar(30);default:'FIXED_PER_RESERVATION'"`
	CleaningValue     float64 `json:"cleaningValue"`
	CleaningRecipient string  `json:"cleaningRecipient" gorm:"type:varchar(20);default:'MANAGER'"` // MANAGER, OWNER, SPLIT
	CleaningSplitPct  float64 `json:"cleaningSplitPct"`                                            // manager share when SPLIT

	Property Property          `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Owner    Owner             `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Group    *BillingUnitGroup `json:"group,omitempty" gorm:"foreignKey:GroupID"`
}
