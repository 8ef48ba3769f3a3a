package services

import (
	"testing"

	"github.com/Satlla/itineramio-sub018/models"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{models.LiquidationStatusDraft, models.LiquidationStatusSent, true},
		{models.LiquidationStatusDraft, models.LiquidationStatusCancelled, true},
		{models.LiquidationStatusSent, models.LiquidationStatusCancelled, true},
		{models.LiquidationStatusSent, models.LiquidationStatusDraft, false},
		{models.LiquidationStatusCancelled, models.LiquidationStatusSent, false},
		{models.LiquidationStatusCancelled, models.LiquidationStatusDraft, false},
		{models.LiquidationStatusDraft, models.LiquidationStatusDraft, false},
		{"BOGUS", models.LiquidationStatusSent, false},
	}

	for _, tc := range cases {
		t.Run(tc.from+"_to_"+tc.to, func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to))
		})
	}
}

// cancel a draft, then try to resurrect it
func TestCancelledLiquidationCannotBeSent(t *testing.T) {
	assert.True(t, CanTransition(models.LiquidationStatusDraft, models.LiquidationStatusCancelled))
	assert.False(t, CanTransition(models.LiquidationStatusCancelled, models.LiquidationStatusSent))
}

func TestInvoiceLocked(t *testing.T) {
	l := models.Liquidation{Status: models.LiquidationStatusSent}
	assert.False(t, l.InvoiceLocked())

	invoiceID := uint(9)
	l.InvoiceID = &invoiceID
	assert.True(t, l.InvoiceLocked())
}
