package models

import (
	"time"

	"gorm.io/gorm"
)

// Expense is a chargeable cost inside a billing scope. Like reservations it
// is frozen once claimed by a liquidation.
type Expense struct {
	gorm.Model
	Description   string    `json:"description"`
	Amount        float64   `json:"amount"`
	Date          time.Time `json:"date"`
	ChargeToOwner bool      `json:"chargeToOwner" gorm:"default:true"`

	PropertyID      uint  `json:"propertyId" gorm:"index"`
	BillingUnitID   *uint `json:"billingUnitId" gorm:"index"`
	BillingConfigID *uint `json:"billingConfigId" gorm:"index"`
	LiquidationID   *uint `json:"liquidationId" gorm:"index"`

	Property Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}
