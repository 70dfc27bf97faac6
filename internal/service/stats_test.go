package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openhms/api/internal/model"
)

func TestOverviewCountsAndRevenue(t *testing.T) {
	db := newTestDB(t)
	bookings := NewBookingService(db, nil, nil)
	sweeper := NewExpirySweeper(db, nil, time.Minute)
	svc := NewStatsService(db, nil)

	now := time.Now()

	// One active booking worth 2000
	first := createTestHoarding(t, db, 1000)
	reqActive := createBookingRequest(first.ID, 2)
	reqActive.StartDate = now.Add(-24 * time.Hour)
	reqActive.EndDate = now.Add(24 * time.Hour)
	active, err := bookings.Create(context.Background(), 1, reqActive)
	require.NoError(t, err)
	_, err = bookings.Approve(context.Background(), active.ID, 9, nil)
	require.NoError(t, err)

	// One still pending
	second := createTestHoarding(t, db, 500)
	_, err = bookings.Create(context.Background(), 1, createBookingRequest(second.ID, 3))
	require.NoError(t, err)

	_, _, err = sweeper.Sweep(context.Background(), now)
	require.NoError(t, err)

	stats, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.PendingBookings)
	assert.Equal(t, int64(1), stats.ActiveBookings)
	assert.Equal(t, int64(2), stats.TotalHoardings)
	assert.Equal(t, int64(1), stats.OccupiedHoardings)
	assert.Equal(t, int64(1), stats.AvailableHoardings)
	// Pending bookings never count toward revenue
	assert.Equal(t, 2000.0, stats.TotalRevenue)
}

func TestExportBookingsWorkbook(t *testing.T) {
	db := newTestDB(t)
	bookings := NewBookingService(db, nil, nil)
	reports := NewReportService(db)

	hoarding := createTestHoarding(t, db, 15000)
	booking, err := bookings.Create(context.Background(), 1, createBookingRequest(hoarding.ID, 2))
	require.NoError(t, err)

	f, err := reports.ExportBookings(context.Background(), "")
	require.NoError(t, err)

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	require.Len(t, rows, 2) // header + one booking
	assert.Equal(t, "Booking ID", rows[0][0])
	assert.Equal(t, booking.BookingID, rows[1][0])

	// Status filter that matches nothing leaves only the header
	f, err = reports.ExportBookings(context.Background(), model.BookingCollected)
	require.NoError(t, err)
	rows, err = f.GetRows("Bookings")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
