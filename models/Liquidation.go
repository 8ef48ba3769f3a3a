package models

import "gorm.io/gorm"

const (
	LiquidationStatusDraft     = "DRAFT"
	LiquidationStatusSent      = "SENT"
	LiquidationStatusCancelled = "CANCELLED"
)

// Liquidation freezes one owner's monthly activity into a settlement handed
// to the owner. Mutable only while DRAFT and not invoice-linked; deletable
// only while DRAFT or CANCELLED.
type Liquidation struct {
	gorm.Model
	// idx_liquidation_period covers per-property liquidations; NULLs compare
	// distinct in unique indexes, so owner-wide rows (property_id NULL) get
	// their own partial index.
	OwnerID    uint  `json:"ownerId" gorm:"index;uniqueIndex:idx_liquidation_period;uniqueIndex:idx_liquidation_owner_period,where:property_id IS NULL"`
	PropertyID *uint `json:"propertyId" gorm:"uniqueIndex:idx_liquidation_period"` // nil -> all of the owner's properties
	Year       int   `json:"year" gorm:"uniqueIndex:idx_liquidation_period;uniqueIndex:idx_liquidation_owner_period"`
	Month      int   `json:"month" gorm:"uniqueIndex:idx_liquidation_period;uniqueIndex:idx_liquidation_owner_period"`

	Status string `json:"status" gorm:"type:varchar(20);default:'DRAFT';index"` // DRAFT, SENT, CANCELLED
	Notes  string `json:"notes" gorm:"type:text"`

	TotalIncome     float64 `json:"totalIncome"`     // host earnings of claimed reservations
	TotalCommission float64 `json:"totalCommission"` // manager commission excl. VAT and cleaning
	CommissionVAT   float64 `json:"commissionVat"`
	TotalCleaning   float64 `json:"totalCleaning"`
	MonthlyFees     float64 `json:"monthlyFees"` // FIXED_MONTHLY commissions, charged here
	TotalExpenses   float64 `json:"totalExpenses"`
	RetentionRate   float64 `json:"retentionRate"`
	RetentionAmount float64 `json:"retentionAmount"`
	FinalAmount     float64 `json:"finalAmount"` // what the owner receives

	InvoiceID *uint `json:"invoiceId" gorm:"index"`

	Owner        Owner         `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Invoice      *Invoice      `json:"invoice,omitempty" gorm:"foreignKey:InvoiceID"`
	Reservations []Reservation `json:"reservations,omitempty" gorm:"foreignKey:LiquidationID"`
	Expenses     []Expense     `json:"expenses,omitempty" gorm:"foreignKey:LiquidationID"`
}

// InvoiceLocked reports whether the liquidation is frozen by an attached
// invoice. No status or notes mutation is allowed past this point.
func (l *Liquidation) InvoiceLocked() bool {
	return l.InvoiceID != nil
}
