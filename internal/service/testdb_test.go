package service

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"openhms/api/internal/model"
)

// newTestDB opens an in-memory sqlite database with the full schema.
// MaxOpenConns is pinned to 1 so the pool cannot hand out a second
// connection pointing at a different empty memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Hoarding{},
		&model.Booking{},
		&model.Complaint{},
		&model.Collection{},
		&model.RewardTransaction{},
		&model.UserReward{},
	))
	return db
}

func createTestHoarding(t *testing.T, db *gorm.DB, baseRent float64) *model.Hoarding {
	t.Helper()

	hoarding := &model.Hoarding{
		HoardingID: NewHoardingID(),
		Location:   "FC Road",
		Address:    "FC Road, Pune",
		Lat:        18.5204,
		Lon:        73.8567,
		Size:       "20x10",
		BaseRent:   baseRent,
		Status:     model.HoardingAvailable,
	}
	require.NoError(t, db.Create(hoarding).Error)
	return hoarding
}

func createBookingRequest(hoardingID uint, days int) *model.CreateBookingRequest {
	start := time.Now().Add(24 * time.Hour)
	return &model.CreateBookingRequest{
		HoardingID:     hoardingID,
		DisplayName:    "Diwali Sale",
		ContactNumber:  "9800000000",
		CustomerName:   "Sharma Traders",
		CustomerMobile: "9811111111",
		HoardingType:   model.HoardingTypeBacklit,
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, days),
		DurationDays:   days,
	}
}
