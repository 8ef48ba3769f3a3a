package models

import "gorm.io/gorm"

// Legal types for owners. Retention (IRPF withholding) defaults depend on it.
const (
	OwnerLegalTypeIndividual = "INDIVIDUAL"
	OwnerLegalTypeCompany    = "COMPANY"
)

type Owner struct {
	gorm.Model
	Name          string   `json:"name"`
	LegalType     string   `json:"legalType" gorm:"type:varchar(20);default:'INDIVIDUAL'"` // INDIVIDUAL, COMPANY
	TaxID         string   `json:"taxId"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	Address       string   `json:"address"`
	IBAN          string   `json:"iban"`
	RetentionRate *float64 `json:"retentionRate"` // nil -> default by legal type

	Properties []Property `json:"properties,omitempty"`
}

// EffectiveRetentionRate returns the configured retention rate or the
// default for the owner's legal type (19% for individuals, 0 for companies).
func (o *Owner) EffectiveRetentionRate() float64 {
	if o.RetentionRate != nil {
		return *o.RetentionRate
	}
	if o.LegalType == OwnerLegalTypeCompany {
		return 0
	}
	return 19
}
