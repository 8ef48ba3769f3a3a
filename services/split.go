package services

import (
	"github.com/Satlla/itineramio-sub018/models"
	"github.com/shopspring/decimal"
)

// Split is the owner/manager breakdown of one reservation's host earnings.
// CleaningAmount is the manager's cleaning share, reported separately for
// liquidation line items.
type Split struct {
	OwnerAmount    float64
	ManagerAmount  float64
	CleaningAmount float64
}

// ComputeSplit divides host earnings between owner and manager under the
// resolved rules. The manager-side components (commission, cleaning share)
// are each rounded to cents; the owner amount is then derived by
// subtraction so that ownerAmount + managerAmount always equals the rounded
// host earnings exactly.
func ComputeSplit(hostEarnings, cleaningFee float64, rules EffectiveRules) Split {
	earnings := decimal.NewFromFloat(hostEarnings)
	cleaning := decimal.NewFromFloat(cleaningFee)
	accommodation := earnings.Sub(cleaning)

	var commission decimal.Decimal
	switch rules.CommissionType {
	case models.CommissionTypePercentage:
		commission = accommodation.Mul(decimal.NewFromFloat(rules.CommissionValue)).Div(decimal.NewFromInt(100))
	case models.CommissionTypeFixedPerBooking:
		commission = decimal.NewFromFloat(rules.CommissionValue)
	case models.CommissionTypeFixedMonthly:
		// charged once per liquidation, never per reservation
		commission = decimal.Zero
	default:
		commission = decimal.Zero
	}
	commission = commission.Round(2)

	var managerCleaning decimal.Decimal
	switch rules.CleaningRecipient {
	case models.CleaningRecipientManager:
		managerCleaning = cleaning
	case models.CleaningRecipientOwner:
		managerCleaning = decimal.Zero
	case models.CleaningRecipientSplit:
		managerCleaning = cleaning.Mul(decimal.NewFromFloat(rules.CleaningSplitPct)).Div(decimal.NewFromInt(100))
	default:
		managerCleaning = cleaning
	}
	managerCleaning = managerCleaning.Round(2)

	managerAmount := commission.Add(managerCleaning).Round(2)
	ownerAmount := earnings.Round(2).Sub(managerAmount)

	owner, _ := ownerAmount.Float64()
	manager, _ := managerAmount.Float64()
	cleaningShare, _ := managerCleaning.Float64()
	return Split{OwnerAmount: owner, ManagerAmount: manager, CleaningAmount: cleaningShare}
}

// CommissionOf recomputes only the commission component of a stored split,
// used when enriching liquidation detail responses.
func CommissionOf(hostEarnings, cleaningFee float64, rules EffectiveRules) float64 {
	s := ComputeSplit(hostEarnings, cleaningFee, rules)
	c := decimal.NewFromFloat(s.ManagerAmount).Sub(decimal.NewFromFloat(s.CleaningAmount))
	f, _ := c.Float64()
	return f
}
