package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Satlla/itineramio-sub018/models"
	"gorm.io/gorm"
)

// emailPayload is the typed view of an IncomingEmail's key/value payload.
type emailPayload struct {
	GuestName    string  `json:"guestName"`
	CheckIn      string  `json:"checkIn"`
	CheckOut     string  `json:"checkOut"`
	Nights       int     `json:"nights"`
	GrossAmount  float64 `json:"grossAmount"`
	HostEarnings float64 `json:"hostEarnings"`
	CleaningFee  float64 `json:"cleaningFee"`
	Platform     string  `json:"platform"`
}

// MergeEmails folds every message sharing one confirmation code into a
// single candidate. Messages are iterated in chronological order and each
// field keeps the most recently seen non-empty value. Cancellation messages
// force status CANCELLED; reimbursement/resolution messages force type
// ADJUSTMENT.
func MergeEmails(emails []models.IncomingEmail) (Candidate, error) {
	if len(emails) == 0 {
		return Candidate{}, fmt.Errorf("no emails to merge")
	}
	for _, e := range emails {
		if e.ReceivedAt.IsZero() {
			return Candidate{}, fmt.Errorf("email %s has no received timestamp, ordering would be unreliable", e.MessageID)
		}
	}

	sorted := make([]models.IncomingEmail, len(emails))
	copy(sorted, emails)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ReceivedAt.Before(sorted[j].ReceivedAt) })

	c := Candidate{
		ConfirmationCode: sorted[0].ConfirmationCode,
		Status:           models.ReservationStatusConfirmed,
		Type:             models.ReservationTypeBooking,
	}

	for _, email := range sorted {
		if email.Kind == models.EmailKindRequest {
			// non-financial, filtered upstream but tolerated here
			continue
		}

		var p emailPayload
		if len(email.Payload) > 0 {
			if err := json.Unmarshal(email.Payload, &p); err != nil {
				return Candidate{}, fmt.Errorf("email %s: bad payload: %w", email.MessageID, err)
			}
		}

		if email.ConfirmationCode != "" {
			c.ConfirmationCode = email.ConfirmationCode
		}
		if p.GuestName != "" {
			c.GuestName = p.GuestName
		}
		if p.CheckIn != "" {
			if checkIn, err := ParseFlexibleDate(p.CheckIn); err == nil {
				c.CheckIn = checkIn
			}
		}
		if p.CheckOut != "" {
			if checkOut, err := ParseFlexibleDate(p.CheckOut); err == nil {
				c.CheckOut = checkOut
			}
		}
		if p.Nights > 0 {
			c.Nights = p.Nights
		}
		if p.GrossAmount > 0 {
			c.GrossAmount = p.GrossAmount
		}
		if p.HostEarnings > 0 {
			c.HostEarnings = p.HostEarnings
		}
		if p.CleaningFee > 0 {
			c.CleaningFee = p.CleaningFee
		}
		if p.Platform != "" {
			c.Platform = p.Platform
		}

		switch email.Kind {
		case models.EmailKindCancelled:
			c.Status = models.ReservationStatusCancelled
			c.Cancelled = true
		case models.EmailKindReimbursement, models.EmailKindResolutionPayout:
			c.Type = models.ReservationTypeAdjustment
		}
	}

	if c.HostEarnings == 0 && c.GrossAmount > 0 {
		c.HostEarnings = c.GrossAmount
	}
	if c.Nights == 0 && !c.CheckIn.IsZero() && !c.CheckOut.IsZero() {
		c.Nights = int(c.CheckOut.Sub(c.CheckIn).Hours() / 24)
	}

	return c, nil
}

// validateMergedCandidate gates merged email groups the way row validation
// gates spreadsheet rows: a sparse group (payout-only, request-only) must
// not insert a guest-less or amount-less reservation. Cancellations only
// need their platform code, since their job may be just flipping the status
// of an already stored reservation.
func validateMergedCandidate(c Candidate) []string {
	if c.Cancelled {
		if c.ConfirmationCode == "" {
			return []string{"cancellation without a confirmation code"}
		}
		return nil
	}

	var problems []string
	if c.GuestName == "" {
		problems = append(problems, "guest name is empty")
	}
	if c.CheckIn.IsZero() {
		problems = append(problems, "check-in date is missing")
	}
	if c.CheckOut.IsZero() {
		problems = append(problems, "check-out date is missing")
	}
	if !c.CheckIn.IsZero() && !c.CheckOut.IsZero() && !c.CheckOut.After(c.CheckIn) {
		problems = append(problems, "check-out must be after check-in")
	}
	if c.HostEarnings <= 0 {
		problems = append(problems, "amount must be positive")
	}
	return problems
}

type EmailError struct {
	EmailID string `json:"emailId"`
	Error   string `json:"error"`
}

type EmailProcessResult struct {
	Processed int          `json:"processed"`
	Created   int          `json:"created"`
	Updated   int          `json:"updated"`
	Cancelled int          `json:"cancelled"`
	Skipped   int          `json:"skipped"`
	Errors    []EmailError `json:"errors"`
}

// ProcessEmails merges and reconciles stored confirmation emails for one
// legacy billing config. With no explicit ids it takes every unprocessed
// message of the config. Failures stay per confirmation-code group and the
// batch continues.
func ProcessEmails(db *gorm.DB, billingConfigID uint, emailIDs []string) (EmailProcessResult, error) {
	result := EmailProcessResult{Errors: []EmailError{}}

	scope, rules, err := ResolveConfigScope(db, billingConfigID)
	if err != nil {
		return result, err
	}

	query := db.Where("billing_config_id = ? AND processed = ?", billingConfigID, false).
		Where("kind <> ?", models.EmailKindRequest)
	if len(emailIDs) > 0 {
		query = query.Where("message_id IN ?", emailIDs)
	}
	var emails []models.IncomingEmail
	if err := query.Order("received_at asc").Find(&emails).Error; err != nil {
		return result, err
	}

	groups := map[string][]models.IncomingEmail{}
	order := []string{}
	for _, e := range emails {
		if _, ok := groups[e.ConfirmationCode]; !ok {
			order = append(order, e.ConfirmationCode)
		}
		groups[e.ConfirmationCode] = append(groups[e.ConfirmationCode], e)
	}

	for _, code := range order {
		group := groups[code]
		result.Processed += len(group)

		candidate, mergeErr := MergeEmails(group)
		if mergeErr != nil {
			result.Errors = append(result.Errors, EmailError{EmailID: group[0].MessageID, Error: mergeErr.Error()})
			continue
		}

		if problems := validateMergedCandidate(candidate); len(problems) > 0 {
			result.Errors = append(result.Errors, EmailError{EmailID: group[0].MessageID, Error: strings.Join(problems, "; ")})
			continue
		}

		action, recErr := ReconcileCandidate(db, scope, rules, candidate, false)
		if recErr != nil {
			result.Errors = append(result.Errors, EmailError{EmailID: group[0].MessageID, Error: recErr.Error()})
			continue
		}
		switch {
		case candidate.Cancelled && action == "updated":
			result.Cancelled++
		case action == "imported":
			result.Created++
		case action == "updated":
			result.Updated++
		default:
			result.Skipped++
		}

		ids := make([]uint, len(group))
		for i, e := range group {
			ids[i] = e.ID
		}
		if err := db.Model(&models.IncomingEmail{}).Where("id IN ?", ids).Update("processed", true).Error; err != nil {
			return result, err
		}
	}

	return result, nil
}
