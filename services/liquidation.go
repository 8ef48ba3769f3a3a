package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Satlla/itineramio-sub018/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrLiquidationNotFound = errors.New("liquidation not found")
	ErrInvalidTransition   = errors.New("status transition not allowed")
	ErrInvoiceLocked       = errors.New("liquidation is locked by an invoice")
	ErrNotDeletable        = errors.New("only DRAFT or CANCELLED liquidations can be deleted")
	ErrNothingPending      = errors.New("no pending activity for the requested period")
	ErrLiquidationExists   = errors.New("a liquidation already exists for this owner and period")
	ErrInvoiceFromDraft    = errors.New("invoice can only be attached to a SENT liquidation")
)

// allowedTransitions is the whole state machine. Anything absent here is
// rejected.
var allowedTransitions = map[string][]string{
	models.LiquidationStatusDraft: {models.LiquidationStatusSent, models.LiquidationStatusCancelled},
	models.LiquidationStatusSent:  {models.LiquidationStatusCancelled},
}

// CanTransition reports whether from -> to exists in the transition table.
func CanTransition(from, to string) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// CreateLiquidation snapshots an owner's pending activity for a period into
// a DRAFT liquidation, claiming every selected reservation and expense by
// stamping its liquidationId. Runs in one transaction with the pending rows
// locked, so a concurrent creation for an overlapping period finds nothing
// left to claim.
func CreateLiquidation(db *gorm.DB, ownerID uint, year, month int, propertyID uint, notes string) (*models.Liquidation, error) {
	var owner models.Owner
	if err := db.First(&owner, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("owner %d: %w", ownerID, gorm.ErrRecordNotFound)
		}
		return nil, err
	}

	var liquidation *models.Liquidation
	err := db.Transaction(func(tx *gorm.DB) error {
		dup := tx.Where("owner_id = ? AND year = ? AND month = ?", ownerID, year, month)
		if propertyID != 0 {
			dup = dup.Where("property_id = ?", propertyID)
		} else {
			dup = dup.Where("property_id IS NULL")
		}
		var count int64
		if err := dup.Model(&models.Liquidation{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrLiquidationExists
		}

		filter := PendingFilter{OwnerID: ownerID, PropertyID: propertyID, Year: year, Month: month}
		reservations, expenses, err := LoadPending(tx, filter, true)
		if err != nil {
			return err
		}
		if len(reservations) == 0 {
			return ErrNothingPending
		}

		income := decimal.Zero
		commission := decimal.Zero
		commissionVAT := decimal.Zero
		cleaning := decimal.Zero
		monthlyFees := decimal.Zero
		expenseTotal := decimal.Zero

		// FIXED_MONTHLY scopes charge their fee once per liquidation
		type scopeKey struct {
			unitID   uint
			configID uint
		}
		seenScopes := map[scopeKey]bool{}

		for i := range reservations {
			r := &reservations[i]
			income = income.Add(decimal.NewFromFloat(r.HostEarnings))
			cleaning = cleaning.Add(decimal.NewFromFloat(r.CleaningAmount))
			lineCommission := decimal.NewFromFloat(r.ManagerAmount).Sub(decimal.NewFromFloat(r.CleaningAmount))
			commission = commission.Add(lineCommission)

			rules, err := RulesForReservation(tx, r)
			if err != nil {
				return err
			}
			vat := lineCommission.Mul(decimal.NewFromFloat(rules.CommissionVatRate)).Div(decimal.NewFromInt(100)).Round(2)
			commissionVAT = commissionVAT.Add(vat)

			key := scopeKey{}
			if r.BillingUnitID != nil {
				key.unitID = *r.BillingUnitID
			}
			if r.BillingConfigID != nil {
				key.configID = *r.BillingConfigID
			}
			if rules.CommissionType == models.CommissionTypeFixedMonthly && !seenScopes[key] {
				seenScopes[key] = true
				fee := decimal.NewFromFloat(rules.CommissionValue).Round(2)
				monthlyFees = monthlyFees.Add(fee)
				feeVAT := fee.Mul(decimal.NewFromFloat(rules.CommissionVatRate)).Div(decimal.NewFromInt(100)).Round(2)
				commissionVAT = commissionVAT.Add(feeVAT)
			}
		}
		for _, e := range expenses {
			expenseTotal = expenseTotal.Add(decimal.NewFromFloat(e.Amount))
		}

		retentionRate := owner.EffectiveRetentionRate()
		retention := income.Sub(cleaning).Mul(decimal.NewFromFloat(retentionRate)).Div(decimal.NewFromInt(100)).Round(2)

		final := income.
			Sub(commission).
			Sub(commissionVAT).
			Sub(cleaning).
			Sub(monthlyFees).
			Sub(expenseTotal).
			Sub(retention).
			Round(2)

		l := models.Liquidation{
			OwnerID: ownerID,
			Year:    year,
			Month:   month,
			Status:  models.LiquidationStatusDraft,
			Notes:   notes,

			TotalIncome:     toFloat(income),
			TotalCommission: toFloat(commission),
			CommissionVAT:   toFloat(commissionVAT),
			TotalCleaning:   toFloat(cleaning),
			MonthlyFees:     toFloat(monthlyFees),
			TotalExpenses:   toFloat(expenseTotal),
			RetentionRate:   retentionRate,
			RetentionAmount: toFloat(retention),
			FinalAmount:     toFloat(final),
		}
		if propertyID != 0 {
			l.PropertyID = &propertyID
		}
		if err := tx.Create(&l).Error; err != nil {
			return err
		}

		reservationIDs := make([]uint, len(reservations))
		for i, r := range reservations {
			reservationIDs[i] = r.ID
		}
		if err := tx.Model(&models.Reservation{}).Where("id IN ?", reservationIDs).
			Update("liquidation_id", l.ID).Error; err != nil {
			return err
		}
		if len(expenses) > 0 {
			expenseIDs := make([]uint, len(expenses))
			for i, e := range expenses {
				expenseIDs[i] = e.ID
			}
			if err := tx.Model(&models.Expense{}).Where("id IN ?", expenseIDs).
				Update("liquidation_id", l.ID).Error; err != nil {
				return err
			}
		}

		liquidation = &l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return liquidation, nil
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// UpdateLiquidation applies a status and/or notes change, enforcing the
// invoice lock and the transition table. No partial effect on rejection.
func UpdateLiquidation(db *gorm.DB, id uint, newStatus, newNotes *string) (*models.Liquidation, error) {
	var l models.Liquidation
	if err := db.First(&l, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLiquidationNotFound
		}
		return nil, err
	}

	if l.InvoiceLocked() {
		return nil, ErrInvoiceLocked
	}
	if newStatus != nil && *newStatus != l.Status {
		if !CanTransition(l.Status, *newStatus) {
			return nil, ErrInvalidTransition
		}
		l.Status = *newStatus
	}
	if newNotes != nil {
		l.Notes = *newNotes
	}

	if err := db.Save(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// DeleteLiquidation removes a DRAFT or CANCELLED liquidation and releases
// every claimed reservation and expense back to the pending pool. Hard
// delete, so the (owner, scope, period) slot frees up for a redo.
func DeleteLiquidation(db *gorm.DB, id uint) error {
	var l models.Liquidation
	if err := db.First(&l, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLiquidationNotFound
		}
		return err
	}
	if l.Status != models.LiquidationStatusDraft && l.Status != models.LiquidationStatusCancelled {
		return ErrNotDeletable
	}
	if l.InvoiceLocked() {
		return ErrInvoiceLocked
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Reservation{}).Where("liquidation_id = ?", l.ID).
			Update("liquidation_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Expense{}).Where("liquidation_id = ?", l.ID).
			Update("liquidation_id", nil).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&l).Error
	})
}

// AttachInvoice issues the invoice backing a SENT liquidation and freezes
// it. The invoice covers the manager's fees (commission + monthly fees) and
// their VAT.
func AttachInvoice(db *gorm.DB, liquidationID uint) (*models.Invoice, error) {
	var l models.Liquidation
	if err := db.First(&l, liquidationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLiquidationNotFound
		}
		return nil, err
	}
	if l.InvoiceLocked() {
		return nil, ErrInvoiceLocked
	}
	if l.Status != models.LiquidationStatusSent {
		return nil, ErrInvoiceFromDraft
	}

	var invoice *models.Invoice
	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Invoice{}).Where("number LIKE ?", fmt.Sprintf("LIQ-%d-%%", l.Year)).Count(&count).Error; err != nil {
			return err
		}

		base := decimal.NewFromFloat(l.TotalCommission).Add(decimal.NewFromFloat(l.MonthlyFees)).Round(2)
		vat := decimal.NewFromFloat(l.CommissionVAT)

		inv := models.Invoice{
			Number:     fmt.Sprintf("LIQ-%d-%04d", l.Year, count+1),
			IssuedAt:   time.Now().UTC(),
			OwnerID:    l.OwnerID,
			BaseAmount: toFloat(base),
			VATAmount:  toFloat(vat),
			Total:      toFloat(base.Add(vat)),
		}
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}
		if err := tx.Model(&l).Update("invoice_id", inv.ID).Error; err != nil {
			return err
		}
		invoice = &inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}
