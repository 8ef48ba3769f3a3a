package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Satlla/itineramio-sub018/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ColumnMapping maps candidate fields to column indexes of an imported row.
// Optional fields use -1 for "not mapped".
type ColumnMapping struct {
	GuestName        int `json:"guestName" validate:"min=0"`
	CheckIn          int `json:"checkIn" validate:"min=0"`
	CheckOut         int `json:"checkOut" validate:"min=0"`
	Amount           int `json:"amount" validate:"min=0"`
	ConfirmationCode int `json:"confirmationCode"`
	Nights           int `json:"nights"`
	CleaningFee      int `json:"cleaningFee"`
	Commission       int `json:"commission"`
	Status           int `json:"status"`
}

const (
	AmountTypeGross = "GROSS"
	AmountTypeNet   = "NET"
)

// ImportConfig carries the per-spreadsheet format hints chosen by the
// manager in the mapping step.
type ImportConfig struct {
	Platform     string `json:"platform"`
	DateFormat   string `json:"dateFormat"`   // ISO, EU, US, AUTO
	NumberFormat string `json:"numberFormat"` // EU (1.234,56), US (1,234.56)
	AmountType   string `json:"amountType"`   // GROSS, NET
}

// Candidate is the transient, normalized shape a parser produces. It dies at
// reconciliation time: converted into a Reservation or discarded.
type Candidate struct {
	ConfirmationCode string
	CodeSynthesized  bool
	GuestName        string
	CheckIn          time.Time
	CheckOut         time.Time
	Nights           int
	GrossAmount      float64
	HostEarnings     float64
	CleaningFee      float64
	Platform         string
	Status           string
	Type             string
	Cancelled        bool
}

type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
	Data  string `json:"data"`
}

type ImportResult struct {
	TotalRows     int        `json:"totalRows"`
	ImportedCount int        `json:"importedCount"`
	UpdatedCount  int        `json:"updatedCount"`
	SkippedCount  int        `json:"skippedCount"`
	ErrorCount    int        `json:"errorCount"`
	Errors        []RowError `json:"errors"`
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// ParseRow turns one spreadsheet row into a candidate. It returns the
// field-level problems instead of failing on the first one so the whole
// batch keeps going.
func ParseRow(row []string, mapping ColumnMapping, config ImportConfig) (Candidate, []string) {
	var problems []string
	c := Candidate{Platform: config.Platform, Status: models.ReservationStatusConfirmed, Type: models.ReservationTypeBooking}

	c.GuestName = cell(row, mapping.GuestName)
	if c.GuestName == "" {
		problems = append(problems, "guest name is empty")
	}

	checkIn, err := ParseFlexibleDate(cell(row, mapping.CheckIn))
	if err != nil {
		problems = append(problems, "check-in: "+err.Error())
	}
	checkOut, err := ParseFlexibleDate(cell(row, mapping.CheckOut))
	if err != nil {
		problems = append(problems, "check-out: "+err.Error())
	}
	if !checkIn.IsZero() && !checkOut.IsZero() && !checkOut.After(checkIn) {
		problems = append(problems, "check-out must be after check-in")
	}
	c.CheckIn, c.CheckOut = checkIn, checkOut

	amount := ParseAmount(cell(row, mapping.Amount), config.NumberFormat)
	if amount <= 0 {
		problems = append(problems, "amount must be positive")
	}
	c.GrossAmount = amount
	c.HostEarnings = amount
	if config.AmountType == AmountTypeGross && mapping.Commission >= 0 {
		// gross sheets may carry the platform's own commission in a column;
		// host earnings are what is left after it
		platformFee := ParseAmount(cell(row, mapping.Commission), config.NumberFormat)
		if platformFee > 0 && platformFee < amount {
			c.HostEarnings = amount - platformFee
		}
	}

	if mapping.CleaningFee >= 0 {
		c.CleaningFee = ParseAmount(cell(row, mapping.CleaningFee), config.NumberFormat)
	}

	if mapping.Nights >= 0 {
		if n, convErr := strconv.Atoi(cell(row, mapping.Nights)); convErr == nil && n > 0 {
			c.Nights = n
		}
	}
	if c.Nights == 0 && !checkIn.IsZero() && !checkOut.IsZero() {
		c.Nights = int(checkOut.Sub(checkIn).Hours() / 24)
	}

	if mapping.Status >= 0 {
		status := strings.ToLower(cell(row, mapping.Status))
		if strings.Contains(status, "cancel") {
			c.Status = models.ReservationStatusCancelled
			c.Cancelled = true
		}
	}

	c.ConfirmationCode = cell(row, mapping.ConfirmationCode)
	if c.ConfirmationCode == "" && len(problems) == 0 {
		c.ConfirmationCode = SynthesizeCode(c.CheckIn, c.GuestName)
		c.CodeSynthesized = true
	}

	return c, problems
}

// ParseFlexibleDate accepts ISO dates and day-first/month-first numeric
// dates with -, / or . separators. Ambiguous numeric dates resolve by
// component magnitude, defaulting to European day-first order.
func ParseFlexibleDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}
	normalized := strings.NewReplacer("/", "-", ".", "-").Replace(value)
	parts := strings.Split(normalized, "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("unrecognized date %q", value)
	}

	a, errA := strconv.Atoi(parts[0])
	b, errB := strconv.Atoi(parts[1])
	c, errC := strconv.Atoi(parts[2])
	if errA != nil || errB != nil || errC != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", value)
	}

	var day, month, year int
	switch {
	case len(parts[0]) == 4:
		// ISO YYYY-MM-DD, unambiguous
		year, month, day = a, b, c
	case a > 12:
		// first component can only be a day
		day, month, year = a, b, c
	case b > 12:
		// second component can only be a day (American order)
		month, day, year = a, b, c
	default:
		// ambiguous, assume European day-first
		day, month, year = a, b, c
	}

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month %d out of range in %q", month, value)
	}
	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("day %d out of range in %q", day, value)
	}
	if year < 2000 || year > 2100 {
		return time.Time{}, fmt.Errorf("year %d out of range in %q", year, value)
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// ParseAmount strips currency noise and resolves EU vs US separator
// conventions. A non-numeric value parses to 0 and is rejected by the row
// validation downstream.
func ParseAmount(value, numberFormat string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			return r
		default:
			return -1
		}
	}, value)
	if cleaned == "" {
		return 0
	}

	if numberFormat == "EU" {
		if strings.Contains(cleaned, ".") && strings.Contains(cleaned, ",") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else if strings.Contains(cleaned, ",") {
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		}
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return amount
}

// SynthesizeCode builds a last-resort identifier for rows without a
// confirmation code. It is intentionally not a reliable reconciliation key;
// the reconciler falls back to guest+dates matching for synthesized codes.
func SynthesizeCode(checkIn time.Time, guestName string) string {
	letters := strings.ToUpper(strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return r
		}
		return -1
	}, guestName))
	for len(letters) < 3 {
		letters += "X"
	}
	suffix := strings.ToUpper(uuid.NewString()[:6])
	return fmt.Sprintf("GEN-%s-%s-%s", checkIn.Format("20060102"), letters[:3], suffix)
}

// findExisting looks up a persisted reservation matching the candidate
// within the scope. Platform-issued codes match on the code alone; for
// synthesized codes two independently generated values never collide, so
// identity falls back to (guest, checkIn, checkOut, scope).
func findExisting(db *gorm.DB, scope BillingScope, c Candidate) (*models.Reservation, error) {
	query := db.Model(&models.Reservation{})
	if scope.UnitID != nil {
		query = query.Where("billing_unit_id = ?", *scope.UnitID)
	} else if scope.ConfigID != nil {
		query = query.Where("billing_config_id = ?", *scope.ConfigID)
	} else {
		query = query.Where("property_id = ?", scope.PropertyID)
	}

	var existing models.Reservation
	if !c.CodeSynthesized {
		err := query.Where("confirmation_code = ?", c.ConfirmationCode).First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, nil
	}

	err := query.Where("guest_name = ? AND check_in = ? AND check_out = ?", c.GuestName, c.CheckIn, c.CheckOut).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return nil, nil
}

// ReconcileCandidate applies one candidate against the persisted store:
// cancellations flip status, financial backfills recompute the split, and
// unseen candidates insert as new reservations. Returns the action taken:
// "imported", "updated" or "skipped".
func ReconcileCandidate(db *gorm.DB, scope BillingScope, rules EffectiveRules, c Candidate, skipDuplicates bool) (string, error) {
	existing, err := findExisting(db, scope, c)
	if err != nil {
		return "", err
	}

	if existing != nil {
		if existing.LiquidationID != nil {
			return "skipped", nil
		}
		if c.Cancelled && existing.Status != models.ReservationStatusCancelled {
			existing.Status = models.ReservationStatusCancelled
			if err := db.Save(existing).Error; err != nil {
				return "", err
			}
			return "updated", nil
		}
		if existing.HostEarnings == 0 && c.HostEarnings > 0 {
			existing.GrossAmount = c.GrossAmount
			existing.HostEarnings = c.HostEarnings
			if c.CleaningFee > 0 {
				existing.CleaningFee = c.CleaningFee
			}
			split := ComputeSplit(existing.HostEarnings, existing.CleaningFee, rules)
			existing.OwnerAmount = split.OwnerAmount
			existing.ManagerAmount = split.ManagerAmount
			existing.CleaningAmount = split.CleaningAmount
			if err := db.Save(existing).Error; err != nil {
				return "", err
			}
			return "updated", nil
		}
		if !skipDuplicates {
			// refresh the descriptive fields, money stays as reconciled
			existing.GuestName = c.GuestName
			existing.Nights = c.Nights
			if c.Platform != "" {
				existing.Platform = c.Platform
			}
			if err := db.Save(existing).Error; err != nil {
				return "", err
			}
			return "updated", nil
		}
		return "skipped", nil
	}

	cleaningFee := c.CleaningFee
	if cleaningFee == 0 {
		cleaningFee = rules.CleaningValue
	}
	split := ComputeSplit(c.HostEarnings, cleaningFee, rules)

	reservation := models.Reservation{
		ConfirmationCode: c.ConfirmationCode,
		CodeSynthesized:  c.CodeSynthesized,
		GuestName:        c.GuestName,
		CheckIn:          c.CheckIn,
		CheckOut:         c.CheckOut,
		Nights:           c.Nights,
		Platform:         c.Platform,
		Status:           c.Status,
		Type:             c.Type,
		GrossAmount:      c.GrossAmount,
		HostEarnings:     c.HostEarnings,
		CleaningFee:      cleaningFee,
		OwnerAmount:      split.OwnerAmount,
		ManagerAmount:    split.ManagerAmount,
		CleaningAmount:   split.CleaningAmount,
		PropertyID:       scope.PropertyID,
		BillingUnitID:    scope.UnitID,
		BillingConfigID:  scope.ConfigID,
	}
	if reservation.Type == "" {
		reservation.Type = models.ReservationTypeBooking
	}
	if err := db.Create(&reservation).Error; err != nil {
		return "", err
	}
	return "imported", nil
}

// ImportRows runs the full spreadsheet import inside one transaction:
// parse every row, reconcile the valid ones, collect per-row failures
// without aborting the batch.
func ImportRows(db *gorm.DB, rows [][]string, mapping ColumnMapping, config ImportConfig, scope BillingScope, rules EffectiveRules, skipDuplicates bool) (ImportResult, error) {
	result := ImportResult{TotalRows: len(rows), Errors: []RowError{}}

	err := db.Transaction(func(tx *gorm.DB) error {
		for i, row := range rows {
			candidate, problems := ParseRow(row, mapping, config)
			if len(problems) > 0 {
				result.ErrorCount++
				result.Errors = append(result.Errors, RowError{
					Row:   i + 1,
					Error: strings.Join(problems, "; "),
					Data:  strings.Join(row, " | "),
				})
				continue
			}

			action, recErr := ReconcileCandidate(tx, scope, rules, candidate, skipDuplicates)
			if recErr != nil {
				result.ErrorCount++
				result.Errors = append(result.Errors, RowError{
					Row:   i + 1,
					Error: recErr.Error(),
					Data:  strings.Join(row, " | "),
				})
				continue
			}
			switch action {
			case "imported":
				result.ImportedCount++
			case "updated":
				result.UpdatedCount++
			default:
				result.SkippedCount++
			}
		}
		return nil
	})
	if err != nil {
		return result, err
	}
	return result, nil
}

// NewBatchID returns the identifier persisted with each import run.
func NewBatchID() string {
	return uuid.NewString()
}
