package services

import (
	"strings"
	"testing"
	"time"

	"github.com/Satlla/itineramio-sub018/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func email(id, kind, code string, receivedAt time.Time, payload string) models.IncomingEmail {
	return models.IncomingEmail{
		MessageID:        id,
		Kind:             kind,
		ConfirmationCode: code,
		ReceivedAt:       receivedAt,
		Payload:          datatypes.JSON([]byte(payload)),
	}
}

func TestMergeEmailsLastWriteWins(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	// deliberately out of order: the merge must sort by receivedAt first
	emails := []models.IncomingEmail{
		email("m2", models.EmailKindPayout, "HM123", base.Add(2*time.Hour),
			`{"hostEarnings": 480.50, "cleaningFee": 35}`),
		email("m1", models.EmailKindConfirmed, "HM123", base,
			`{"guestName": "Carlos Ruiz", "checkIn": "2025-06-10", "checkOut": "2025-06-14", "grossAmount": 520}`),
	}

	candidate, err := MergeEmails(emails)
	require.NoError(t, err)

	assert.Equal(t, "HM123", candidate.ConfirmationCode)
	assert.Equal(t, "Carlos Ruiz", candidate.GuestName)
	assert.Equal(t, 480.50, candidate.HostEarnings, "payout figure arrived later and wins")
	assert.Equal(t, 35.0, candidate.CleaningFee)
	assert.Equal(t, 4, candidate.Nights)
	assert.Equal(t, models.ReservationStatusConfirmed, candidate.Status)
	assert.Equal(t, models.ReservationTypeBooking, candidate.Type)
}

func TestMergeEmailsCancellationForcesStatus(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	emails := []models.IncomingEmail{
		email("m1", models.EmailKindConfirmed, "HM200", base,
			`{"guestName": "Eva", "checkIn": "2025-06-20", "checkOut": "2025-06-22", "grossAmount": 180}`),
		email("m2", models.EmailKindCancelled, "HM200", base.Add(time.Hour), `{}`),
	}

	candidate, err := MergeEmails(emails)
	require.NoError(t, err)

	assert.Equal(t, models.ReservationStatusCancelled, candidate.Status)
	assert.True(t, candidate.Cancelled)
}

func TestMergeEmailsReimbursementBecomesAdjustment(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	emails := []models.IncomingEmail{
		email("m1", models.EmailKindReimbursement, "HM300", base,
			`{"guestName": "Luis", "hostEarnings": 50}`),
	}

	candidate, err := MergeEmails(emails)
	require.NoError(t, err)

	assert.Equal(t, models.ReservationTypeAdjustment, candidate.Type)
}

func TestMergeEmailsRequiresTimestamps(t *testing.T) {
	emails := []models.IncomingEmail{
		email("m1", models.EmailKindConfirmed, "HM400", time.Time{}, `{}`),
	}

	_, err := MergeEmails(emails)
	assert.Error(t, err, "ordering without timestamps would be unreliable")
}

func TestMergeEmailsSkipsRequestMessages(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	emails := []models.IncomingEmail{
		email("m1", models.EmailKindConfirmed, "HM500", base,
			`{"guestName": "Marta", "grossAmount": 300}`),
		email("m2", models.EmailKindRequest, "HM500", base.Add(time.Hour),
			`{"guestName": "SHOULD NOT WIN"}`),
	}

	candidate, err := MergeEmails(emails)
	require.NoError(t, err)

	assert.Equal(t, "Marta", candidate.GuestName)
	assert.Equal(t, 300.0, candidate.HostEarnings, "gross backfills host earnings when no payout arrived")
}

func TestMergeEmailsEmptySet(t *testing.T) {
	_, err := MergeEmails(nil)
	assert.Error(t, err)
}

// a payout-only group carries no guest, no dates and possibly no amount;
// it must be rejected instead of becoming a CONFIRMED reservation
func TestValidateMergedCandidatePayoutOnlyGroup(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	emails := []models.IncomingEmail{
		email("m1", models.EmailKindPayout, "HM600", base, `{"hostEarnings": 0}`),
	}

	candidate, err := MergeEmails(emails)
	require.NoError(t, err)

	problems := validateMergedCandidate(candidate)
	require.NotEmpty(t, problems)
	joined := strings.Join(problems, "; ")
	assert.Contains(t, joined, "guest name")
	assert.Contains(t, joined, "check-in")
	assert.Contains(t, joined, "check-out")
	assert.Contains(t, joined, "amount must be positive")
}

func TestValidateMergedCandidateCancellationOnlyGroupPasses(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	emails := []models.IncomingEmail{
		email("m1", models.EmailKindCancelled, "HM700", base, `{}`),
	}

	candidate, err := MergeEmails(emails)
	require.NoError(t, err)

	assert.Empty(t, validateMergedCandidate(candidate),
		"a cancellation only needs its code to flip an existing reservation")
}

func TestValidateMergedCandidateReversedDates(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	emails := []models.IncomingEmail{
		email("m1", models.EmailKindConfirmed, "HM800", base,
			`{"guestName": "Iris", "checkIn": "2025-06-20", "checkOut": "2025-06-18", "grossAmount": 150}`),
	}

	candidate, err := MergeEmails(emails)
	require.NoError(t, err)

	problems := validateMergedCandidate(candidate)
	require.NotEmpty(t, problems)
	assert.Contains(t, strings.Join(problems, "; "), "check-out must be after check-in")
}
