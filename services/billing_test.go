package services

import (
	"testing"

	"github.com/Satlla/itineramio-sub018/models"
	"github.com/stretchr/testify/assert"
)

func groupID(id uint) *uint { return &id }

func TestRulesForUnitGroupCommissionWins(t *testing.T) {
	unit := models.BillingUnit{
		GroupID:           groupID(7),
		CommissionType:    models.CommissionTypePercentage,
		CommissionValue:   15,
		CommissionVatRate: 10,
		Group: &models.BillingUnitGroup{
			CommissionType:    models.CommissionTypePercentage,
			CommissionValue:   22,
			CommissionVatRate: 21,
		},
	}

	rules := RulesForUnit(&unit)

	assert.Equal(t, 22.0, rules.CommissionValue, "group commission overrides the unit's own")
	assert.Equal(t, 21.0, rules.CommissionVatRate)
}

func TestRulesForUnitWithoutGroupUsesOwnCommission(t *testing.T) {
	unit := models.BillingUnit{
		CommissionType:  models.CommissionTypeFixedPerBooking,
		CommissionValue: 35,
	}

	rules := RulesForUnit(&unit)

	assert.Equal(t, models.CommissionTypeFixedPerBooking, rules.CommissionType)
	assert.Equal(t, 35.0, rules.CommissionValue)
}

func TestRulesForUnitCleaningPrecedence(t *testing.T) {
	group := &models.BillingUnitGroup{
		CommissionType:    models.CommissionTypePercentage,
		CommissionValue:   20,
		CleaningType:      models.CommissionTypeFixedPerBooking,
		CleaningValue:     40,
		CleaningRecipient: models.CleaningRecipientOwner,
	}

	// unit declares its own cleaning value -> unit wins
	unit := models.BillingUnit{
		GroupID:           groupID(1),
		Group:             group,
		CleaningType:      models.CommissionTypeFixedPerBooking,
		CleaningValue:     55,
		CleaningRecipient: models.CleaningRecipientSplit,
		CleaningSplitPct:  60,
	}
	rules := RulesForUnit(&unit)
	assert.Equal(t, 55.0, rules.CleaningValue)
	assert.Equal(t, models.CleaningRecipientSplit, rules.CleaningRecipient)
	assert.Equal(t, 60.0, rules.CleaningSplitPct)

	// unit declares nothing -> fall back to the group's cleaning policy
	unit.CleaningValue = 0
	unit.CleaningRecipient = ""
	unit.CleaningSplitPct = 0
	rules = RulesForUnit(&unit)
	assert.Equal(t, 40.0, rules.CleaningValue)
	assert.Equal(t, models.CleaningRecipientOwner, rules.CleaningRecipient)

	// no group cleaning either -> unit's own possibly-zero values
	group.CleaningValue = 0
	rules = RulesForUnit(&unit)
	assert.Equal(t, 0.0, rules.CleaningValue)
}

func TestRulesForUnitMissingConfigDefaults(t *testing.T) {
	rules := RulesForUnit(&models.BillingUnit{})

	assert.Equal(t, models.CommissionTypePercentage, rules.CommissionType)
	assert.Equal(t, 0.0, rules.CommissionValue)
	assert.Equal(t, 21.0, rules.CommissionVatRate)
	assert.Equal(t, models.CommissionTypeFixedPerBooking, rules.CleaningType)
	assert.Equal(t, 0.0, rules.CleaningValue)
}

func TestRulesForConfigIgnoresGroups(t *testing.T) {
	cfg := models.BillingConfig{
		CommissionType:    models.CommissionTypePercentage,
		CommissionValue:   18,
		CommissionVatRate: 21,
		CleaningType:      models.CommissionTypeFixedPerBooking,
		CleaningValue:     50,
		CleaningRecipient: models.CleaningRecipientManager,
	}

	rules := RulesForConfig(&cfg)

	assert.Equal(t, 18.0, rules.CommissionValue)
	assert.Equal(t, 50.0, rules.CleaningValue)
	assert.Equal(t, models.CleaningRecipientManager, rules.CleaningRecipient)
}
