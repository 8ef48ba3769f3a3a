package services

import (
	"testing"

	"github.com/Satlla/itineramio-sub018/models"
	"github.com/stretchr/testify/assert"
)

func TestComputeSplitGroupPercentageWithCleaningSplit(t *testing.T) {
	rules := EffectiveRules{
		CommissionType:    models.CommissionTypePercentage,
		CommissionValue:   20,
		CommissionVatRate: 21,
		CleaningRecipient: models.CleaningRecipientSplit,
		CleaningSplitPct:  50,
	}

	split := ComputeSplit(220.00, 20.00, rules)

	assert.Equal(t, 50.00, split.ManagerAmount)
	assert.Equal(t, 170.00, split.OwnerAmount)
	assert.Equal(t, 10.00, split.CleaningAmount)
}

func TestComputeSplitOwnerPlusManagerEqualsHostEarnings(t *testing.T) {
	cases := []struct {
		name         string
		hostEarnings float64
		cleaningFee  float64
		rules        EffectiveRules
	}{
		{"percentage with odd cents", 333.33, 45.67, EffectiveRules{
			CommissionType: models.CommissionTypePercentage, CommissionValue: 17.5,
			CleaningRecipient: models.CleaningRecipientSplit, CleaningSplitPct: 33,
		}},
		{"fixed per reservation", 150.00, 25.00, EffectiveRules{
			CommissionType: models.CommissionTypeFixedPerBooking, CommissionValue: 30,
			CleaningRecipient: models.CleaningRecipientManager,
		}},
		{"rounding stress", 100.01, 10.01, EffectiveRules{
			CommissionType: models.CommissionTypePercentage, CommissionValue: 33.33,
			CleaningRecipient: models.CleaningRecipientSplit, CleaningSplitPct: 50,
		}},
		{"zero commission defaults", 90.00, 0, DefaultRules()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			split := ComputeSplit(tc.hostEarnings, tc.cleaningFee, tc.rules)
			assert.InDelta(t, Round2(tc.hostEarnings), split.OwnerAmount+split.ManagerAmount, 0.0001,
				"owner + manager must equal rounded host earnings")
		})
	}
}

func TestComputeSplitCleaningRecipients(t *testing.T) {
	base := EffectiveRules{CommissionType: models.CommissionTypePercentage, CommissionValue: 0}

	manager := base
	manager.CleaningRecipient = models.CleaningRecipientManager
	split := ComputeSplit(100, 30, manager)
	assert.Equal(t, 30.00, split.CleaningAmount)
	assert.Equal(t, 30.00, split.ManagerAmount)

	owner := base
	owner.CleaningRecipient = models.CleaningRecipientOwner
	split = ComputeSplit(100, 30, owner)
	assert.Equal(t, 0.00, split.CleaningAmount)
	assert.Equal(t, 100.00, split.OwnerAmount)

	fifty := base
	fifty.CleaningRecipient = models.CleaningRecipientSplit
	fifty.CleaningSplitPct = 50
	split = ComputeSplit(100, 30, fifty)
	ownerCleaning := 30.00 - split.CleaningAmount
	assert.InDelta(t, 30.00, split.CleaningAmount+ownerCleaning, 0.01,
		"manager and owner cleaning shares must sum to the fee")
	assert.Equal(t, 15.00, split.CleaningAmount)
}

func TestComputeSplitFixedMonthlyChargesNothingPerReservation(t *testing.T) {
	rules := EffectiveRules{
		CommissionType:    models.CommissionTypeFixedMonthly,
		CommissionValue:   250,
		CleaningRecipient: models.CleaningRecipientOwner,
	}

	split := ComputeSplit(500, 40, rules)

	assert.Equal(t, 0.00, split.ManagerAmount, "monthly fees are applied at liquidation time only")
	assert.Equal(t, 500.00, split.OwnerAmount)
}
