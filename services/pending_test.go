package services

import (
	"testing"
	"time"

	"github.com/Satlla/itineramio-sub018/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func property(id, ownerID uint, name string) models.Property {
	p := models.Property{OwnerID: ownerID, Name: name}
	p.ID = id
	return p
}

func pendingReservation(prop models.Property, nights int, hostEarnings, cleaningFee float64) models.Reservation {
	return models.Reservation{
		Status:       models.ReservationStatusConfirmed,
		Nights:       nights,
		HostEarnings: hostEarnings,
		CleaningFee:  cleaningFee,
		CheckIn:      time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:     time.Date(2025, 7, 1+nights, 0, 0, 0, 0, time.UTC),
		PropertyID:   prop.ID,
		Property:     prop,
	}
}

func TestBuildPendingReportGroupsAndRolls(t *testing.T) {
	ownerA := models.Owner{Name: "Alice"}
	ownerA.ID = 1
	ownerB := models.Owner{Name: "Bruno"}
	ownerB.ID = 2
	owners := map[uint]models.Owner{1: ownerA, 2: ownerB}

	propA := property(10, 1, "Beach Flat")
	propB := property(20, 2, "Mountain Cabin")

	reservations := []models.Reservation{
		pendingReservation(propA, 4, 400, 40),
		pendingReservation(propA, 3, 350, 40),
		pendingReservation(propB, 5, 900, 60),
	}
	expenses := []models.Expense{
		{Amount: 80, ChargeToOwner: true, PropertyID: propA.ID, Property: propA},
	}

	report := BuildPendingReport(owners, reservations, expenses, 2025, 7)
	require.Len(t, report, 2)

	// sorted by descending net earnings: Bruno (840) above Alice (670)
	assert.Equal(t, "Bruno", report[0].Owner.Name)
	assert.Equal(t, 840.00, report[0].NetEarnings)

	alice := report[1]
	assert.Equal(t, "Alice", alice.Owner.Name)
	require.Len(t, alice.Properties, 1)
	prop := alice.Properties[0]
	assert.Equal(t, 2, prop.ReservationCount)
	assert.Equal(t, 7, prop.TotalNights)
	assert.Equal(t, 750.00, prop.GrossEarnings)
	assert.Equal(t, 670.00, prop.NetEarnings)
	assert.Equal(t, 80.00, prop.TotalExpenses)

	// July has 31 days: 7/31 nights occupied
	assert.InDelta(t, 22.58, prop.OccupancyPct, 0.01)
}

func TestBuildPendingReportOccupancyCappedAt100(t *testing.T) {
	owner := models.Owner{Name: "Alice"}
	owner.ID = 1
	prop := property(10, 1, "Studio")

	reservations := []models.Reservation{
		pendingReservation(prop, 20, 1000, 0),
		pendingReservation(prop, 20, 1000, 0),
	}

	report := BuildPendingReport(map[uint]models.Owner{1: owner}, reservations, nil, 2025, 2)
	require.Len(t, report, 1)
	assert.Equal(t, 100.00, report[0].Properties[0].OccupancyPct)
}

func TestBuildPendingReportExcludesOwnersWithoutReservations(t *testing.T) {
	owner := models.Owner{Name: "ExpensesOnly"}
	owner.ID = 3
	prop := property(30, 3, "Garage")

	expenses := []models.Expense{
		{Amount: 120, ChargeToOwner: true, PropertyID: prop.ID, Property: prop},
	}

	report := BuildPendingReport(map[uint]models.Owner{3: owner}, nil, expenses, 0, 0)
	assert.Empty(t, report, "owners with zero pending reservations are excluded")
}

func TestBuildPendingReportAllTimeSkipsOccupancy(t *testing.T) {
	owner := models.Owner{Name: "Alice"}
	owner.ID = 1
	prop := property(10, 1, "Studio")

	report := BuildPendingReport(map[uint]models.Owner{1: owner},
		[]models.Reservation{pendingReservation(prop, 10, 500, 0)}, nil, 0, 0)

	require.Len(t, report, 1)
	assert.Equal(t, 0.00, report[0].Properties[0].OccupancyPct)
}

// released reservations must be indistinguishable from never-liquidated ones
func TestReleasedReservationReentersPendingReport(t *testing.T) {
	owner := models.Owner{Name: "Alice"}
	owner.ID = 1
	prop := property(10, 1, "Studio")

	r := pendingReservation(prop, 3, 300, 0)
	r.LiquidationID = nil // as after liquidation deletion

	report := BuildPendingReport(map[uint]models.Owner{1: owner}, []models.Reservation{r}, nil, 2025, 7)
	require.Len(t, report, 1)
	assert.Equal(t, 1, report[0].ReservationCount)
}
