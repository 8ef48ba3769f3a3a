package services

import (
	"sort"
	"time"

	"github.com/Satlla/itineramio-sub018/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PendingFilter narrows the pending-activity query. Zero values mean "no
// filter"; Year and Month come together or not at all.
type PendingFilter struct {
	OwnerID    uint
	PropertyID uint
	Year       int
	Month      int
}

type PropertyPending struct {
	PropertyID       uint                 `json:"propertyId"`
	PropertyName     string               `json:"propertyName"`
	Reservations     []models.Reservation `json:"reservations"`
	Expenses         []models.Expense     `json:"expenses"`
	ReservationCount int                  `json:"reservationCount"`
	TotalNights      int                  `json:"totalNights"`
	GrossEarnings    float64              `json:"grossEarnings"`
	NetEarnings      float64              `json:"netEarnings"`
	TotalExpenses    float64              `json:"totalExpenses"`
	OccupancyPct     float64              `json:"occupancyPct"`
}

type OwnerPending struct {
	Owner            models.Owner      `json:"owner"`
	Properties       []PropertyPending `json:"properties"`
	ReservationCount int               `json:"reservationCount"`
	TotalNights      int               `json:"totalNights"`
	GrossEarnings    float64           `json:"grossEarnings"`
	NetEarnings      float64           `json:"netEarnings"`
	TotalExpenses    float64           `json:"totalExpenses"`
}

func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// monthWindow returns the [start, end) bounds of a year+month.
func monthWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// LoadPending fetches every liquidatable reservation and chargeable expense
// in scope. Reservations settle in the month they check out. With lock set
// the selected rows are claimed FOR UPDATE, which is how liquidation
// creation fences off concurrent claims.
func LoadPending(db *gorm.DB, filter PendingFilter, lock bool) ([]models.Reservation, []models.Expense, error) {
	rq := db.Preload("Property").
		Where("reservations.status IN ?", []string{models.ReservationStatusConfirmed, models.ReservationStatusCompleted}).
		Where("reservations.liquidation_id IS NULL")
	eq := db.Preload("Property").
		Where("expenses.charge_to_owner = ?", true).
		Where("expenses.liquidation_id IS NULL")
	if lock {
		rq = rq.Clauses(clause.Locking{Strength: "UPDATE"})
		eq = eq.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	if filter.PropertyID != 0 {
		rq = rq.Where("reservations.property_id = ?", filter.PropertyID)
		eq = eq.Where("expenses.property_id = ?", filter.PropertyID)
	}
	if filter.OwnerID != 0 {
		rq = rq.Joins("JOIN properties ON properties.id = reservations.property_id").
			Where("properties.owner_id = ?", filter.OwnerID)
		eq = eq.Joins("JOIN properties ON properties.id = expenses.property_id").
			Where("properties.owner_id = ?", filter.OwnerID)
	}
	if filter.Year != 0 && filter.Month != 0 {
		start, end := monthWindow(filter.Year, filter.Month)
		rq = rq.Where("reservations.check_out >= ? AND reservations.check_out < ?", start, end)
		eq = eq.Where("expenses.date >= ? AND expenses.date < ?", start, end)
	}

	var reservations []models.Reservation
	if err := rq.Find(&reservations).Error; err != nil {
		return nil, nil, err
	}
	var expenses []models.Expense
	if err := eq.Find(&expenses).Error; err != nil {
		return nil, nil, err
	}
	return reservations, expenses, nil
}

// BuildPendingReport groups pending activity by owner then property and
// computes the rollups. Owners with zero pending reservations are dropped;
// the result is sorted by descending net earnings. Pure over its inputs so
// the grouping math is testable without a database.
func BuildPendingReport(owners map[uint]models.Owner, reservations []models.Reservation, expenses []models.Expense, year, month int) []OwnerPending {
	type propKey struct {
		ownerID    uint
		propertyID uint
	}
	props := make(map[propKey]*PropertyPending)
	propOrder := []propKey{}

	ensureProp := func(ownerID uint, property models.Property) *PropertyPending {
		key := propKey{ownerID, property.ID}
		if p, ok := props[key]; ok {
			return p
		}
		p := &PropertyPending{
			PropertyID:   property.ID,
			PropertyName: property.Name,
			Reservations: []models.Reservation{},
			Expenses:     []models.Expense{},
		}
		props[key] = p
		propOrder = append(propOrder, key)
		return p
	}

	for _, r := range reservations {
		p := ensureProp(r.Property.OwnerID, r.Property)
		p.Reservations = append(p.Reservations, r)
		p.ReservationCount++
		p.TotalNights += r.Nights
		p.GrossEarnings = Round2(p.GrossEarnings + r.HostEarnings)
		p.NetEarnings = Round2(p.NetEarnings + r.HostEarnings - r.CleaningFee)
	}
	for _, e := range expenses {
		p := ensureProp(e.Property.OwnerID, e.Property)
		p.Expenses = append(p.Expenses, e)
		p.TotalExpenses = Round2(p.TotalExpenses + e.Amount)
	}

	if year != 0 && month != 0 {
		days := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
		for _, key := range propOrder {
			p := props[key]
			occupancy := float64(p.TotalNights) / float64(days) * 100
			if occupancy > 100 {
				occupancy = 100
			}
			p.OccupancyPct = Round2(occupancy)
		}
	}

	byOwner := make(map[uint]*OwnerPending)
	ownerOrder := []uint{}
	for _, key := range propOrder {
		p := props[key]
		op, ok := byOwner[key.ownerID]
		if !ok {
			owner := owners[key.ownerID]
			op = &OwnerPending{Owner: owner, Properties: []PropertyPending{}}
			byOwner[key.ownerID] = op
			ownerOrder = append(ownerOrder, key.ownerID)
		}
		op.Properties = append(op.Properties, *p)
		op.ReservationCount += p.ReservationCount
		op.TotalNights += p.TotalNights
		op.GrossEarnings = Round2(op.GrossEarnings + p.GrossEarnings)
		op.NetEarnings = Round2(op.NetEarnings + p.NetEarnings)
		op.TotalExpenses = Round2(op.TotalExpenses + p.TotalExpenses)
	}

	report := []OwnerPending{}
	for _, id := range ownerOrder {
		op := byOwner[id]
		if op.ReservationCount == 0 {
			// expense-only owners have nothing to liquidate yet
			continue
		}
		report = append(report, *op)
	}
	sort.SliceStable(report, func(i, j int) bool { return report[i].NetEarnings > report[j].NetEarnings })
	return report
}

// PendingReport loads and groups in one call for the route layer.
func PendingReport(db *gorm.DB, filter PendingFilter) ([]OwnerPending, error) {
	reservations, expenses, err := LoadPending(db, filter, false)
	if err != nil {
		return nil, err
	}

	ownerIDs := map[uint]bool{}
	for _, r := range reservations {
		ownerIDs[r.Property.OwnerID] = true
	}
	for _, e := range expenses {
		ownerIDs[e.Property.OwnerID] = true
	}
	ids := make([]uint, 0, len(ownerIDs))
	for id := range ownerIDs {
		ids = append(ids, id)
	}

	owners := map[uint]models.Owner{}
	if len(ids) > 0 {
		var ownerRows []models.Owner
		if err := db.Where("id IN ?", ids).Find(&ownerRows).Error; err != nil {
			return nil, err
		}
		for _, o := range ownerRows {
			owners[o.ID] = o
		}
	}

	return BuildPendingReport(owners, reservations, expenses, filter.Year, filter.Month), nil
}
