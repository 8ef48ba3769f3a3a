package services

import (
	"testing"
	"time"

	"github.com/Satlla/itineramio-sub018/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Owner{},
		&models.Property{},
		&models.BillingUnitGroup{},
		&models.BillingUnit{},
		&models.BillingConfig{},
		&models.Invoice{},
		&models.Liquidation{},
		&models.Reservation{},
		&models.Expense{},
		&models.IncomingEmail{},
	))
	return db
}

func seedOwnerWithProperty(t *testing.T, db *gorm.DB) (models.Owner, models.Property) {
	t.Helper()
	owner := models.Owner{Name: "Alice", LegalType: models.OwnerLegalTypeIndividual}
	require.NoError(t, db.Create(&owner).Error)
	prop := models.Property{OwnerID: owner.ID, Name: "Beach Flat"}
	require.NoError(t, db.Create(&prop).Error)
	return owner, prop
}

func TestImportRowsSecondPassSkipsDuplicates(t *testing.T) {
	db := newTestDB(t)
	_, prop := seedOwnerWithProperty(t, db)

	scope := BillingScope{OwnerID: prop.OwnerID, PropertyID: prop.ID}
	rules := DefaultRules()
	rules.CommissionValue = 20

	mapping := ColumnMapping{GuestName: 0, CheckIn: 1, CheckOut: 2, Amount: 3, ConfirmationCode: 4, Nights: -1, CleaningFee: -1, Commission: -1, Status: -1}
	config := ImportConfig{Platform: "airbnb", NumberFormat: "US", AmountType: AmountTypeNet}
	rows := [][]string{{"Carlos Ruiz", "2025-07-01", "2025-07-04", "300", "HM9001"}}

	first, err := ImportRows(db, rows, mapping, config, scope, rules, true)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ImportedCount)
	assert.Equal(t, 0, first.SkippedCount)

	second, err := ImportRows(db, rows, mapping, config, scope, rules, true)
	require.NoError(t, err)
	assert.Equal(t, 0, second.ImportedCount)
	assert.Equal(t, 1, second.SkippedCount, "re-importing the same sheet must not duplicate")

	var count int64
	require.NoError(t, db.Model(&models.Reservation{}).Where("confirmation_code = ?", "HM9001").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteLiquidationReleasesClaimedActivity(t *testing.T) {
	db := newTestDB(t)
	owner, prop := seedOwnerWithProperty(t, db)

	liquidation := models.Liquidation{
		OwnerID: owner.ID,
		Year:    2025,
		Month:   7,
		Status:  models.LiquidationStatusDraft,
	}
	require.NoError(t, db.Create(&liquidation).Error)

	for i := 0; i < 3; i++ {
		r := models.Reservation{
			ConfirmationCode: "HMR" + string(rune('A'+i)),
			GuestName:        "Guest",
			Status:           models.ReservationStatusConfirmed,
			CheckIn:          time.Date(2025, 7, 1+i, 0, 0, 0, 0, time.UTC),
			CheckOut:         time.Date(2025, 7, 3+i, 0, 0, 0, 0, time.UTC),
			Nights:           2,
			HostEarnings:     200,
			PropertyID:       prop.ID,
			LiquidationID:    &liquidation.ID,
		}
		require.NoError(t, db.Create(&r).Error)
	}
	expense := models.Expense{
		Description:   "boiler repair",
		Amount:        90,
		Date:          time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC),
		ChargeToOwner: true,
		PropertyID:    prop.ID,
		LiquidationID: &liquidation.ID,
	}
	require.NoError(t, db.Create(&expense).Error)

	require.NoError(t, DeleteLiquidation(db, liquidation.ID))

	// hard delete: the period slot is free for a redo
	err := db.Unscoped().First(&models.Liquidation{}, liquidation.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var released int64
	require.NoError(t, db.Model(&models.Reservation{}).Where("liquidation_id IS NULL").Count(&released).Error)
	assert.EqualValues(t, 3, released, "every claimed reservation must be released")

	report, err := PendingReport(db, PendingFilter{OwnerID: owner.ID})
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, 3, report[0].ReservationCount)
	assert.Equal(t, 90.00, report[0].TotalExpenses)
}

func TestOwnerWideLiquidationUniquePerPeriod(t *testing.T) {
	db := newTestDB(t)
	owner, _ := seedOwnerWithProperty(t, db)

	first := models.Liquidation{OwnerID: owner.ID, Year: 2025, Month: 7, Status: models.LiquidationStatusDraft}
	require.NoError(t, db.Create(&first).Error)

	dup := models.Liquidation{OwnerID: owner.ID, Year: 2025, Month: 7, Status: models.LiquidationStatusDraft}
	assert.Error(t, db.Create(&dup).Error, "a second owner-wide liquidation for the period must hit the partial unique index")
}

func TestProcessEmailsRejectsSparseGroup(t *testing.T) {
	db := newTestDB(t)
	owner, prop := seedOwnerWithProperty(t, db)

	cfg := models.BillingConfig{
		PropertyID:        prop.ID,
		OwnerID:           owner.ID,
		CommissionType:    models.CommissionTypePercentage,
		CommissionValue:   20,
		CommissionVatRate: 21,
	}
	require.NoError(t, db.Create(&cfg).Error)

	msg := models.IncomingEmail{
		MessageID:        "msg-1",
		Kind:             models.EmailKindPayout,
		ConfirmationCode: "HM600",
		ReceivedAt:       time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Payload:          datatypes.JSON([]byte(`{"hostEarnings": 0}`)),
		BillingConfigID:  cfg.ID,
	}
	require.NoError(t, db.Create(&msg).Error)

	result, err := ProcessEmails(db, cfg.ID, nil)
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "msg-1", result.Errors[0].EmailID)
	assert.Equal(t, 0, result.Created)

	var reservations int64
	require.NoError(t, db.Model(&models.Reservation{}).Count(&reservations).Error)
	assert.EqualValues(t, 0, reservations, "a guest-less zero-amount group must never insert a reservation")

	// the group stays unprocessed so a later confirmation email can complete it
	var unprocessed models.IncomingEmail
	require.NoError(t, db.First(&unprocessed, msg.ID).Error)
	assert.False(t, unprocessed.Processed)
}
