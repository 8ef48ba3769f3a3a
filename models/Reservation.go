package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ReservationStatusPending   = "PENDING"
	ReservationStatusConfirmed = "CONFIRMED"
	ReservationStatusCancelled = "CANCELLED"
	ReservationStatusCompleted = "COMPLETED"
	ReservationStatusNoShow    = "NO_SHOW"
)

const (
	ReservationTypeBooking    = "BOOKING"
	ReservationTypeAdjustment = "ADJUSTMENT" // reimbursements, resolution payouts
)

// Reservation is a persisted booking after reconciliation. Exactly one of
// BillingUnitID / BillingConfigID is set and identifies the billing scope.
// Once LiquidationID is set the row is frozen except through liquidation
// deletion, which releases it back to the pending pool.
type Reservation struct {
	gorm.Model
	ConfirmationCode string    `json:"confirmationCode" gorm:"index"`
	CodeSynthesized  bool      `json:"codeSynthesized"` // code was generated at import, not platform-issued
	GuestName        string    `json:"guestName"`
	CheckIn          time.Time `json:"checkIn"`
	CheckOut         time.Time `json:"checkOut"`
	Nights           int       `json:"nights"`
	Platform         string    `json:"platform"` // airbnb, booking, vrbo, direct...
	Currency         string    `json:"currency" gorm:"type:varchar(3);default:'EUR'"`
	Status           string    `json:"status" gorm:"type:varchar(20);index"` // PENDING, CONFIRMED, CANCELLED, COMPLETED, NO_SHOW
	Type             string    `json:"type" gorm:"type:varchar(20);default:'BOOKING'"`

	GrossAmount  float64 `json:"grossAmount"`
	HostEarnings float64 `json:"hostEarnings"`
	CleaningFee  float64 `json:"cleaningFee"`

	// Computed split. ownerAmount + managerAmount == hostEarnings to the cent.
	OwnerAmount    float64 `json:"ownerAmount"`
	ManagerAmount  float64 `json:"managerAmount"`
	CleaningAmount float64 `json:"cleaningAmount"` // manager's cleaning share, reported as its own line item

	PropertyID      uint  `json:"propertyId" gorm:"index"`
	BillingUnitID   *uint `json:"billingUnitId" gorm:"index"`
	BillingConfigID *uint `json:"billingConfigId" gorm:"index"`
	LiquidationID   *uint `json:"liquidationId" gorm:"index"`

	Property    Property       `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	BillingUnit *BillingUnit   `json:"billingUnit,omitempty" gorm:"foreignKey:BillingUnitID"`
	Config      *BillingConfig `json:"config,omitempty" gorm:"foreignKey:BillingConfigID"`
}
