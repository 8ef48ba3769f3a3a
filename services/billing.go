package services

import (
	"errors"

	"github.com/Satlla/itineramio-sub018/models"
	"gorm.io/gorm"
)

// EffectiveRules is the resolved rule bundle a reservation is billed under,
// after unit/group/legacy precedence has been applied.
type EffectiveRules struct {
	CommissionType    string
	CommissionValue   float64
	CommissionVatRate float64
	CleaningType      string
	CleaningValue     float64
	CleaningRecipient string
	CleaningSplitPct  float64
}

// DefaultRules is what resolution falls back to when no config exists at
// any level: zero percent commission, 21% VAT, no cleaning fee kept.
func DefaultRules() EffectiveRules {
	return EffectiveRules{
		CommissionType:    models.CommissionTypePercentage,
		CommissionValue:   0,
		CommissionVatRate: 21,
		CleaningType:      models.CommissionTypeFixedPerBooking,
		CleaningValue:     0,
		CleaningRecipient: models.CleaningRecipientManager,
		CleaningSplitPct:  0,
	}
}

// BillingScope normalizes the two ownership paths (billing unit vs legacy
// per-property config) into one value so downstream components never branch
// on which path a reservation came from.
type BillingScope struct {
	OwnerID    uint
	PropertyID uint
	UnitID     *uint
	ConfigID   *uint
}

var ErrScopeNotFound = errors.New("billing scope not found")

// ResolveUnitScope loads a billing unit and returns its scope plus
// effective rules.
func ResolveUnitScope(db *gorm.DB, unitID uint) (BillingScope, EffectiveRules, error) {
	var unit models.BillingUnit
	if err := db.Preload("Group").First(&unit, unitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BillingScope{}, EffectiveRules{}, ErrScopeNotFound
		}
		return BillingScope{}, EffectiveRules{}, err
	}
	id := unit.ID
	scope := BillingScope{OwnerID: unit.OwnerID, PropertyID: unit.PropertyID, UnitID: &id}
	return scope, RulesForUnit(&unit), nil
}

// ResolveConfigScope loads a legacy billing config and returns its scope
// plus effective rules. No group indirection on this path.
func ResolveConfigScope(db *gorm.DB, configID uint) (BillingScope, EffectiveRules, error) {
	var cfg models.BillingConfig
	if err := db.First(&cfg, configID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BillingScope{}, EffectiveRules{}, ErrScopeNotFound
		}
		return BillingScope{}, EffectiveRules{}, err
	}
	id := cfg.ID
	scope := BillingScope{OwnerID: cfg.OwnerID, PropertyID: cfg.PropertyID, ConfigID: &id}
	return scope, RulesForConfig(&cfg), nil
}

// RulesForUnit applies the precedence chain for a unit, using its preloaded
// group when present. Commission always prefers the group (one management
// fee across the group); cleaning prefers the unit when it declares a value
// above zero, then the group, then the unit's own fields.
func RulesForUnit(unit *models.BillingUnit) EffectiveRules {
	rules := DefaultRules()

	if unit.GroupID != nil && unit.Group != nil {
		applyCommission(&rules, unit.Group.CommissionType, unit.Group.CommissionValue, unit.Group.CommissionVatRate)
	} else {
		applyCommission(&rules, unit.CommissionType, unit.CommissionValue, unit.CommissionVatRate)
	}

	switch {
	case unit.CleaningValue > 0:
		applyCleaning(&rules, unit.CleaningType, unit.CleaningValue, unit.CleaningRecipient, unit.CleaningSplitPct)
	case unit.GroupID != nil && unit.Group != nil && unit.Group.CleaningValue > 0:
		applyCleaning(&rules, unit.Group.CleaningType, unit.Group.CleaningValue, unit.Group.CleaningRecipient, unit.Group.CleaningSplitPct)
	default:
		applyCleaning(&rules, unit.CleaningType, unit.CleaningValue, unit.CleaningRecipient, unit.CleaningSplitPct)
	}

	return rules
}

// RulesForConfig resolves a legacy config directly.
func RulesForConfig(cfg *models.BillingConfig) EffectiveRules {
	rules := DefaultRules()
	applyCommission(&rules, cfg.CommissionType, cfg.CommissionValue, cfg.CommissionVatRate)
	applyCleaning(&rules, cfg.CleaningType, cfg.CleaningValue, cfg.CleaningRecipient, cfg.CleaningSplitPct)
	return rules
}

func applyCommission(rules *EffectiveRules, commissionType string, value, vatRate float64) {
	if commissionType != "" {
		rules.CommissionType = commissionType
		rules.CommissionValue = value
	}
	if vatRate > 0 {
		rules.CommissionVatRate = vatRate
	}
}

func applyCleaning(rules *EffectiveRules, cleaningType string, value float64, recipient string, splitPct float64) {
	if cleaningType != "" {
		rules.CleaningType = cleaningType
	}
	rules.CleaningValue = value
	if recipient != "" {
		rules.CleaningRecipient = recipient
	}
	rules.CleaningSplitPct = splitPct
}

// ScopeForProperty picks the billing path for imports targeting a property:
// the property's billing unit when one exists, else its legacy config, else
// a property-only scope billed under default rules.
func ScopeForProperty(db *gorm.DB, propertyID uint) (BillingScope, EffectiveRules, error) {
	var property models.Property
	if err := db.First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BillingScope{}, EffectiveRules{}, ErrScopeNotFound
		}
		return BillingScope{}, EffectiveRules{}, err
	}

	var unit models.BillingUnit
	err := db.Preload("Group").Where("property_id = ?", propertyID).First(&unit).Error
	if err == nil {
		id := unit.ID
		scope := BillingScope{OwnerID: unit.OwnerID, PropertyID: propertyID, UnitID: &id}
		return scope, RulesForUnit(&unit), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return BillingScope{}, EffectiveRules{}, err
	}

	var cfg models.BillingConfig
	err = db.Where("property_id = ?", propertyID).First(&cfg).Error
	if err == nil {
		id := cfg.ID
		scope := BillingScope{OwnerID: cfg.OwnerID, PropertyID: propertyID, ConfigID: &id}
		return scope, RulesForConfig(&cfg), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return BillingScope{}, EffectiveRules{}, err
	}

	return BillingScope{OwnerID: property.OwnerID, PropertyID: propertyID}, DefaultRules(), nil
}

// RulesForReservation resolves through whichever scope the reservation
// carries, preferring the unit path.
func RulesForReservation(db *gorm.DB, r *models.Reservation) (EffectiveRules, error) {
	if r.BillingUnitID != nil {
		_, rules, err := ResolveUnitScope(db, *r.BillingUnitID)
		return rules, err
	}
	if r.BillingConfigID != nil {
		_, rules, err := ResolveConfigScope(db, *r.BillingConfigID)
		return rules, err
	}
	return DefaultRules(), nil
}
