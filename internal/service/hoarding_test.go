package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openhms/api/internal/model"
)

func TestCreateHoardingStartsAvailable(t *testing.T) {
	db := newTestDB(t)
	svc := NewHoardingService(db)

	hoarding, err := svc.Create(context.Background(), 9, &model.CreateHoardingRequest{
		Location: "JM Road",
		Address:  "JM Road, Pune",
		Lat:      18.5246,
		Lon:      73.8430,
		Size:     "30x15",
		BaseRent: 20000,
		Images:   []string{"/uploads/site.jpg"},
	})
	require.NoError(t, err)

	assert.Equal(t, model.HoardingAvailable, hoarding.Status)
	assert.NotEmpty(t, hoarding.HoardingID)
	assert.Equal(t, uint(9), hoarding.CreatedBy)
}

func TestUpdateHoardingStatusRules(t *testing.T) {
	db := newTestDB(t)
	svc := NewHoardingService(db)
	hoarding := createTestHoarding(t, db, 1000)

	// Maintenance toggle is allowed
	updated, err := svc.Update(context.Background(), hoarding.ID, &model.UpdateHoardingRequest{
		Status: model.HoardingMaintenance,
	})
	require.NoError(t, err)
	assert.Equal(t, model.HoardingMaintenance, updated.Status)

	// Occupied can never be set directly
	_, err = svc.Update(context.Background(), hoarding.ID, &model.UpdateHoardingRequest{
		Status: model.HoardingOccupied,
	})
	assert.ErrorIs(t, err, ErrValidation)

	// An occupied slot cannot be toggled at all
	require.NoError(t, db.Model(&model.Hoarding{}).Where("id = ?", hoarding.ID).
		Update("status", model.HoardingOccupied).Error)
	_, err = svc.Update(context.Background(), hoarding.ID, &model.UpdateHoardingRequest{
		Status: model.HoardingAvailable,
	})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestUpdateHoardingFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewHoardingService(db)
	hoarding := createTestHoarding(t, db, 1000)

	updated, err := svc.Update(context.Background(), hoarding.ID, &model.UpdateHoardingRequest{
		BaseRent: 2500,
		Size:     "40x20",
	})
	require.NoError(t, err)
	assert.Equal(t, 2500.0, updated.BaseRent)
	assert.Equal(t, "40x20", updated.Size)
	assert.Equal(t, hoarding.Location, updated.Location)
}

func TestDeleteOccupiedHoardingFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewHoardingService(db)
	hoarding := createTestHoarding(t, db, 1000)

	require.NoError(t, db.Model(&model.Hoarding{}).Where("id = ?", hoarding.ID).
		Update("status", model.HoardingOccupied).Error)
	assert.ErrorIs(t, svc.Delete(context.Background(), hoarding.ID), ErrInvalidState)

	require.NoError(t, db.Model(&model.Hoarding{}).Where("id = ?", hoarding.ID).
		Update("status", model.HoardingAvailable).Error)
	require.NoError(t, svc.Delete(context.Background(), hoarding.ID))

	_, err := svc.GetByID(context.Background(), hoarding.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNearbySortsByDistance(t *testing.T) {
	db := newTestDB(t)
	svc := NewHoardingService(db)

	near := createTestHoarding(t, db, 1000) // 18.5204, 73.8567
	far := &model.Hoarding{
		HoardingID: NewHoardingID(),
		Location:   "Hinjewadi",
		Address:    "Phase 1",
		Lat:        18.5913,
		Lon:        73.7389, // ~15km away
		Size:       "20x10",
		BaseRent:   1000,
		Status:     model.HoardingAvailable,
	}
	require.NoError(t, db.Create(far).Error)

	results, err := svc.Nearby(context.Background(), &model.NearbyQuery{
		Lat: 18.5210, Lon: 73.8560, Distance: 5000,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, near.ID, results[0].ID)
	assert.Less(t, results[0].DistanceMeters, 5000.0)

	// Widen the radius and both show up, closest first
	results, err = svc.Nearby(context.Background(), &model.NearbyQuery{
		Lat: 18.5210, Lon: 73.8560, Distance: 30000,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, near.ID, results[0].ID)
	assert.Equal(t, far.ID, results[1].ID)
}
