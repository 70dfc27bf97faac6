package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openhms/api/internal/model"
)

func TestSweepActivatesAndExpiresBookings(t *testing.T) {
	db := newTestDB(t)
	bookings := NewBookingService(db, nil, nil)
	sweeper := NewExpirySweeper(db, nil, time.Minute)

	hoarding := createTestHoarding(t, db, 1000)
	other := createTestHoarding(t, db, 1000)

	now := time.Now()

	// Window already open
	reqActive := createBookingRequest(hoarding.ID, 5)
	reqActive.StartDate = now.Add(-24 * time.Hour)
	reqActive.EndDate = now.Add(4 * 24 * time.Hour)
	active, err := bookings.Create(context.Background(), 1, reqActive)
	require.NoError(t, err)
	_, err = bookings.Approve(context.Background(), active.ID, 9, nil)
	require.NoError(t, err)

	// Window already closed
	reqExpired := createBookingRequest(other.ID, 2)
	reqExpired.StartDate = now.Add(-5 * 24 * time.Hour)
	reqExpired.EndDate = now.Add(-3 * 24 * time.Hour)
	expired, err := bookings.Create(context.Background(), 1, reqExpired)
	require.NoError(t, err)
	_, err = bookings.Approve(context.Background(), expired.ID, 9, nil)
	require.NoError(t, err)

	activated, expiredCount, err := sweeper.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), activated)
	assert.Equal(t, int64(1), expiredCount)

	var b model.Booking
	require.NoError(t, db.First(&b, active.ID).Error)
	assert.Equal(t, model.BookingActive, b.Status)

	var e model.Booking
	require.NoError(t, db.First(&e, expired.ID).Error)
	assert.Equal(t, model.BookingExpired, e.Status)
}

func TestSweepIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	bookings := NewBookingService(db, nil, nil)
	sweeper := NewExpirySweeper(db, nil, time.Minute)

	hoarding := createTestHoarding(t, db, 1000)
	now := time.Now()

	req := createBookingRequest(hoarding.ID, 2)
	req.StartDate = now.Add(-5 * 24 * time.Hour)
	req.EndDate = now.Add(-3 * 24 * time.Hour)
	booking, err := bookings.Create(context.Background(), 1, req)
	require.NoError(t, err)
	_, err = bookings.Approve(context.Background(), booking.ID, 9, nil)
	require.NoError(t, err)

	_, expired, err := sweeper.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	activated, expired, err := sweeper.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, activated)
	assert.Zero(t, expired)

	var b model.Booking
	require.NoError(t, db.First(&b, booking.ID).Error)
	assert.Equal(t, model.BookingExpired, b.Status)
}

func TestSweepIgnoresPendingAndRejected(t *testing.T) {
	db := newTestDB(t)
	bookings := NewBookingService(db, nil, nil)
	sweeper := NewExpirySweeper(db, nil, time.Minute)

	hoarding := createTestHoarding(t, db, 1000)
	now := time.Now()

	req := createBookingRequest(hoarding.ID, 2)
	req.StartDate = now.Add(-5 * 24 * time.Hour)
	req.EndDate = now.Add(-3 * 24 * time.Hour)
	booking, err := bookings.Create(context.Background(), 1, req)
	require.NoError(t, err)

	activated, expired, err := sweeper.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, activated)
	assert.Zero(t, expired)

	var b model.Booking
	require.NoError(t, db.First(&b, booking.ID).Error)
	assert.Equal(t, model.BookingPending, b.Status)
}

func TestEffectiveStatus(t *testing.T) {
	now := time.Now()
	booking := &model.Booking{
		Status:    model.BookingApproved,
		StartDate: now.Add(-24 * time.Hour),
		EndDate:   now.Add(24 * time.Hour),
	}
	assert.Equal(t, model.BookingActive, booking.EffectiveStatus(now))

	booking.EndDate = now.Add(-time.Hour)
	assert.Equal(t, model.BookingExpired, booking.EffectiveStatus(now))

	booking.Status = model.BookingCollected
	assert.Equal(t, model.BookingCollected, booking.EffectiveStatus(now))

	booking = &model.Booking{
		Status:    model.BookingApproved,
		StartDate: now.Add(24 * time.Hour),
		EndDate:   now.Add(48 * time.Hour),
	}
	assert.Equal(t, model.BookingApproved, booking.EffectiveStatus(now))
}
