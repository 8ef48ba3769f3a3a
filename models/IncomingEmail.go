package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Email kinds as classified by the upstream mailbox parser. REQUEST
// messages carry no financial data and are filtered out before merging.
const (
	EmailKindConfirmed        = "confirmed"
	EmailKindPayout           = "payout"
	EmailKindCancelled        = "cancelled"
	EmailKindReimbursement    = "reimbursement"
	EmailKindResolutionPayout = "resolution_payout"
	EmailKindRequest          = "request"
)

// IncomingEmail is a platform confirmation email already reduced to a typed
// key/value payload. Several emails sharing a confirmation code are merged
// into one reservation candidate at processing time.
type IncomingEmail struct {
	gorm.Model
	MessageID        string         `json:"messageId" gorm:"uniqueIndex"`
	Kind             string         `json:"kind" gorm:"type:varchar(30);index"`
	ConfirmationCode string         `json:"confirmationCode" gorm:"index"`
	ReceivedAt       time.Time      `json:"receivedAt"`
	Payload          datatypes.JSON `json:"payload"` // parsed key/value fields
	Processed        bool           `json:"processed" gorm:"default:false;index"`

	BillingConfigID uint `json:"billingConfigId" gorm:"index"`
}
