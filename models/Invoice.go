package models

import (
	"time"

	"gorm.io/gorm"
)

// Invoice backs a liquidation once it has been handed to the owner. The
// rendering/delivery of the document itself is an external concern; this is
// only the linkage record that locks the liquidation.
type Invoice struct {
	gorm.Model
	Number     string    `json:"number" gorm:"uniqueIndex"` // LIQ-YYYY-NNNN
	IssuedAt   time.Time `json:"issuedAt"`
	OwnerID    uint      `json:"ownerId" gorm:"index"`
	BaseAmount float64   `json:"baseAmount"`
	VATAmount  float64   `json:"vatAmount"`
	Total      float64   `json:"total"`

	Owner Owner `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}
