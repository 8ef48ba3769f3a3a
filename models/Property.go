package models

import "gorm.io/gorm"

type Property struct {
	gorm.Model
	OwnerID      uint   `json:"ownerId" gorm:"index"`
	Name         string `json:"name"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	Zip          string `json:"zip"`
	Country      string `json:"country"`

	Owner         Owner          `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	BillingUnits  []BillingUnit  `json:"billingUnits,omitempty"`
	BillingConfig *BillingConfig `json:"billingConfig,omitempty"` // legacy per-property rules
}
