package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openhms/api/internal/model"
)

func TestCreateBookingComputesRentAndLeavesHoardingAvailable(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db, nil, nil)
	hoarding := createTestHoarding(t, db, 15000)

	booking, err := svc.Create(context.Background(), 1, createBookingRequest(hoarding.ID, 2))
	require.NoError(t, err)

	assert.Equal(t, model.BookingPending, booking.Status)
	assert.Equal(t, 30000.0, booking.TotalRent)
	assert.NotEmpty(t, booking.BookingID)
	assert.NotEmpty(t, booking.QRPayload)

	// A pending booking must not touch the slot
	var fresh model.Hoarding
	require.NoError(t, db.First(&fresh, hoarding.ID).Error)
	assert.Equal(t, model.HoardingAvailable, fresh.Status)
	assert.Nil(t, fresh.CurrentBookingID)
}

func TestCreateBookingRejectsOccupiedHoarding(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db, nil, nil)
	hoarding := createTestHoarding(t, db, 1000)
	require.NoError(t, db.Model(hoarding).Update("status", model.HoardingOccupied).Error)

	_, err := svc.Create(context.Background(), 1, createBookingRequest(hoarding.ID, 5))
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCreateBookingValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db, nil, nil)
	hoarding := createTestHoarding(t, db, 1000)

	req := createBookingRequest(hoarding.ID, 2)
	req.HoardingType = "Neon"
	_, err := svc.Create(context.Background(), 1, req)
	assert.ErrorIs(t, err, ErrValidation)

	req = createBookingRequest(hoarding.ID, 2)
	req.EndDate = req.StartDate.AddDate(0, 0, -1)
	_, err = svc.Create(context.Background(), 1, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestApproveBookingOccupiesHoarding(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db, nil, nil)
	hoarding := createTestHoarding(t, db, 15000)

	booking, err := svc.Create(context.Background(), 1, createBookingRequest(hoarding.ID, 2))
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), booking.ID, 9, &model.ApproveBookingRequest{})
	require.NoError(t, err)

	assert.Equal(t, model.BookingApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAmount)
	assert.Equal(t, 30000.0, *approved.ApprovedAmount)
	require.NotNil(t, approved.DepositAmount)
	assert.Equal(t, 6000.0, *approved.DepositAmount) // 20% of approved
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, uint(9), *approved.ReviewedBy)

	var fresh model.Hoarding
	require.NoError(t, db.First(&fresh, hoarding.ID).Error)
	assert.Equal(t, model.HoardingOccupied, fresh.Status)
	require.NotNil(t, fresh.CurrentBookingID)
	assert.Equal(t, booking.ID, *fresh.CurrentBookingID)
}

func TestApproveNonPendingBookingFailsWithoutSideEffects(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db, nil, nil)
	hoarding := createTestHoarding(t, db, 1000)

	booking, err := svc.Create(context.Background(), 1, createBookingRequest(hoarding.ID, 3))
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), booking.ID, 9, nil)
	require.NoError(t, err)

	// Second approval must fail and leave both rows untouched
	_, err = svc.Approve(context.Background(), booking.ID, 9, nil)
	assert.ErrorIs(t, err, ErrInvalidState)

	var fresh model.Booking
	require.NoError(t, db.First(&fresh, booking.ID).Error)
	assert.Equal(t, model.BookingApproved, fresh.Status)

	var slot model.Hoarding
	require.NoError(t, db.First(&slot, hoarding.ID).Error)
	assert.Equal(t, model.HoardingOccupied, slot.Status)
}

func TestApproveLosesRaceWhenSlotAlreadyOccupied(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db, nil, nil)
	hoarding := createTestHoarding(t, db, 1000)

	first, err := svc.Create(context.Background(), 1, createBookingRequest(hoarding.ID, 3))
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), 2, createBookingRequest(hoarding.ID, 3))
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), first.ID, 9, nil)
	require.NoError(t, err)

	// The competing approval must roll back entirely
	_, err = svc.Approve(context.Background(), second.ID, 9, nil)
	assert.ErrorIs(t, err, ErrInvalidState)

	var fresh model.Booking
	require.NoError(t, db.First(&fresh, second.ID).Error)
	assert.Equal(t, model.BookingPending, fresh.Status)

	var slot model.Hoarding
	require.NoError(t, db.First(&slot, hoarding.ID).Error)
	require.NotNil(t, slot.CurrentBookingID)
	assert.Equal(t, first.ID, *slot.CurrentBookingID)
}

func TestRejectBookingLeavesHoardingAvailable(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db, nil, nil)
	hoarding := createTestHoarding(t, db, 1000)

	booking, err := svc.Create(context.Background(), 1, createBookingRequest(hoarding.ID, 3))
	require.NoError(t, err)

	rejected, err := svc.Reject(context.Background(), booking.ID, 9, "site under maintenance")
	require.NoError(t, err)
	assert.Equal(t, model.BookingRejected, rejected.Status)
	assert.Equal(t, "site under maintenance", rejected.RejectionReason)

	var slot model.Hoarding
	require.NoError(t, db.First(&slot, hoarding.ID).Error)
	assert.Equal(t, model.HoardingAvailable, slot.Status)
}

func TestCancelBooking(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db, nil, nil)
	hoarding := createTestHoarding(t, db, 1000)

	booking, err := svc.Create(context.Background(), 1, createBookingRequest(hoarding.ID, 3))
	require.NoError(t, err)

	// Another press cannot cancel it
	assert.ErrorIs(t, svc.Cancel(context.Background(), booking.ID, 2), ErrUnauthorized)

	require.NoError(t, svc.Cancel(context.Background(), booking.ID, 1))

	var count int64
	require.NoError(t, db.Model(&model.Booking{}).Where("id = ?", booking.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCancelApprovedBookingFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db, nil, nil)
	hoarding := createTestHoarding(t, db, 1000)

	booking, err := svc.Create(context.Background(), 1, createBookingRequest(hoarding.ID, 3))
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), booking.ID, 9, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Cancel(context.Background(), booking.ID, 1), ErrInvalidState)
}

func TestGetByBookingIDWithoutRedis(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db, nil, nil)
	hoarding := createTestHoarding(t, db, 1000)

	booking, err := svc.Create(context.Background(), 1, createBookingRequest(hoarding.ID, 3))
	require.NoError(t, err)

	found, err := svc.GetByBookingID(context.Background(), booking.BookingID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, found.ID)
	assert.Equal(t, hoarding.Location, found.Hoarding.Location)

	_, err = svc.GetByBookingID(context.Background(), "BK-nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAllFiltersByStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db, nil, nil)
	hoarding := createTestHoarding(t, db, 1000)

	booking, err := svc.Create(context.Background(), 1, createBookingRequest(hoarding.ID, 3))
	require.NoError(t, err)
	other := createTestHoarding(t, db, 2000)
	_, err = svc.Create(context.Background(), 1, createBookingRequest(other.ID, 3))
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), booking.ID, 9, nil)
	require.NoError(t, err)

	resp, err := svc.ListAll(context.Background(), &model.BookingListQuery{Status: model.BookingApproved})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.List, 1)
	assert.Equal(t, booking.ID, resp.List[0].ID)
}
