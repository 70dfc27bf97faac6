package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"openhms/api/internal/model"
)

// depositRate is applied when the PMC approves without an explicit
// deposit amount.
const depositRate = 0.20

// BookingService is the booking lifecycle engine. It is the only
// component besides the collection workflow allowed to flip hoarding
// occupancy, and it does so inside the same transaction as the booking
// transition so the two can never diverge.
type BookingService struct {
	db       *gorm.DB
	redis    *redis.Client
	notifier *Notifier
}

// NewBookingService creates a new booking service. The redis client is
// optional; without it the booking-id lookup cache is skipped.
func NewBookingService(db *gorm.DB, redisClient *redis.Client, notifier *Notifier) *BookingService {
	return &BookingService{
		db:       db,
		redis:    redisClient,
		notifier: notifier,
	}
}

// Create files a new pending booking against an available hoarding.
// The hoarding itself is untouched: it is only marked occupied at
// approval time, so several pending requests may reference the same
// still-available slot.
func (s *BookingService) Create(ctx context.Context, pressID uint, req *model.CreateBookingRequest) (*model.Booking, error) {
	if !req.HoardingType.Valid() {
		return nil, fmt.Errorf("%w: unknown hoarding type %q", ErrValidation, req.HoardingType)
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: end date before start date", ErrValidation)
	}

	var hoarding model.Hoarding
	if err := s.db.WithContext(ctx).First(&hoarding, req.HoardingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: hoarding %d", ErrNotFound, req.HoardingID)
		}
		return nil, err
	}

	if hoarding.Status != model.HoardingAvailable {
		return nil, fmt.Errorf("%w: hoarding is not available for booking", ErrInvalidState)
	}

	// Flat per-day rent, no proration
	totalRent := hoarding.BaseRent * float64(req.DurationDays)

	booking := &model.Booking{
		BookingID:       NewBookingID(),
		PrintingPressID: pressID,
		HoardingID:      hoarding.ID,
		DisplayName:     req.DisplayName,
		ContactNumber:   req.ContactNumber,
		CustomerName:    req.CustomerName,
		CustomerMobile:  req.CustomerMobile,
		HoardingType:    req.HoardingType,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		DurationDays:    req.DurationDays,
		TotalRent:       totalRent,
		BannerImage:     req.BannerImage,
		Status:          model.BookingPending,
	}

	payload, err := json.Marshal(model.QRPayloadData{
		BookingID:      booking.BookingID,
		Location:       hoarding.Location,
		DisplayName:    req.DisplayName,
		CustomerName:   req.CustomerName,
		CustomerMobile: req.CustomerMobile,
		HoardingType:   req.HoardingType,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Size:           hoarding.Size,
		Rent:           hoarding.BaseRent,
	})
	if err != nil {
		return nil, err
	}
	booking.QRPayload = string(payload)

	if err := s.db.WithContext(ctx).Create(booking).Error; err != nil {
		return nil, err
	}

	s.notifier.Publish(EventBookingCreated, booking)
	return booking, nil
}

// Approve advances a pending booking and occupies its hoarding. Both
// writes run in one transaction, and the hoarding flip is a conditional
// update on status so a concurrent approval of another booking for the
// same slot loses cleanly instead of double-occupying it.
func (s *BookingService) Approve(ctx context.Context, bookingID uint, reviewerID uint, req *model.ApproveBookingRequest) (*model.Booking, error) {
	var booking model.Booking

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
			}
			return err
		}

		if booking.Status != model.BookingPending {
			return fmt.Errorf("%w: booking is %s, not pending", ErrInvalidState, booking.Status)
		}

		approved := booking.TotalRent
		if req != nil && req.ApprovedAmount != nil {
			approved = *req.ApprovedAmount
		}
		deposit := approved * depositRate
		if req != nil && req.DepositAmount != nil {
			deposit = *req.DepositAmount
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":          model.BookingApproved,
			"reviewed_by":     reviewerID,
			"reviewed_at":     now,
			"approved_at":     now,
			"approved_amount": approved,
			"deposit_amount":  deposit,
		}
		if err := tx.Model(&booking).Updates(updates).Error; err != nil {
			return err
		}

		res := tx.Model(&model.Hoarding{}).
			Where("id = ? AND status = ?", booking.HoardingID, model.HoardingAvailable).
			Updates(map[string]interface{}{
				"status":             model.HoardingOccupied,
				"current_booking_id": booking.ID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race or the slot went to maintenance; roll
			// everything back.
			return fmt.Errorf("%w: hoarding is no longer available", ErrInvalidState)
		}

		booking.Status = model.BookingApproved
		booking.ReviewedBy = &reviewerID
		booking.ReviewedAt = &now
		booking.ApprovedAt = &now
		booking.ApprovedAmount = &approved
		booking.DepositAmount = &deposit
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(EventBookingApproved, booking)
	return &booking, nil
}

// Reject declines a pending booking; the hoarding is untouched
func (s *BookingService) Reject(ctx context.Context, bookingID uint, reviewerID uint, reason string) (*model.Booking, error) {
	var booking model.Booking
	if err := s.db.WithContext(ctx).First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
		}
		return nil, err
	}

	if booking.Status != model.BookingPending {
		return nil, fmt.Errorf("%w: booking is %s, not pending", ErrInvalidState, booking.Status)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":           model.BookingRejected,
		"reviewed_by":      reviewerID,
		"reviewed_at":      now,
		"rejection_reason": reason,
	}
	if err := s.db.WithContext(ctx).Model(&booking).Updates(updates).Error; err != nil {
		return nil, err
	}

	booking.Status = model.BookingRejected
	booking.ReviewedBy = &reviewerID
	booking.ReviewedAt = &now
	booking.RejectionReason = reason

	s.notifier.Publish(EventBookingRejected, booking)
	return &booking, nil
}

// Cancel deletes the caller's own booking while it is still pending
func (s *BookingService) Cancel(ctx context.Context, bookingID uint, pressID uint) error {
	var booking model.Booking
	if err := s.db.WithContext(ctx).First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
		}
		return err
	}

	if booking.PrintingPressID != pressID {
		return fmt.Errorf("%w: booking belongs to another press", ErrUnauthorized)
	}
	if booking.Status != model.BookingPending {
		return fmt.Errorf("%w: only pending bookings can be cancelled", ErrInvalidState)
	}

	return s.db.WithContext(ctx).Delete(&booking).Error
}

// ListByPress returns the caller's bookings, newest first
func (s *BookingService) ListByPress(ctx context.Context, pressID uint) ([]model.Booking, error) {
	var bookings []model.Booking
	err := s.db.WithContext(ctx).
		Preload("Hoarding").
		Where("printing_press_id = ?", pressID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// GetByID returns a booking, enforcing ownership when pressID is
// non-zero
func (s *BookingService) GetByID(ctx context.Context, id uint, pressID uint) (*model.Booking, error) {
	var booking model.Booking
	if err := s.db.WithContext(ctx).Preload("Hoarding").First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking %d", ErrNotFound, id)
		}
		return nil, err
	}

	if pressID != 0 && booking.PrintingPressID != pressID {
		return nil, fmt.Errorf("%w: booking belongs to another press", ErrUnauthorized)
	}
	return &booking, nil
}

// GetByBookingID resolves a human booking id, going through a redis
// lookup cache when one is configured.
func (s *BookingService) GetByBookingID(ctx context.Context, bookingID string) (*model.Booking, error) {
	if s.redis != nil {
		cacheKey := fmt.Sprintf("hms:booking:id:%s", bookingID)
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			if pk, err := strconv.ParseUint(cached, 10, 64); err == nil {
				return s.GetByID(ctx, uint(pk), 0)
			}
		}
	}

	var booking model.Booking
	if err := s.db.WithContext(ctx).Preload("Hoarding").
		Where("booking_id = ?", bookingID).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
		}
		return nil, err
	}

	if s.redis != nil {
		cacheKey := fmt.Sprintf("hms:booking:id:%s", bookingID)
		s.redis.Set(ctx, cacheKey, strconv.FormatUint(uint64(booking.ID), 10), time.Hour)
	}
	return &booking, nil
}

// ListPending returns bookings awaiting PMC review, newest first
func (s *BookingService) ListPending(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	err := s.db.WithContext(ctx).
		Preload("Hoarding").
		Where("status = ?", model.BookingPending).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// ListAll returns a paginated booking list with an optional status
// filter, for the PMC review screens.
func (s *BookingService) ListAll(ctx context.Context, q *model.BookingListQuery) (*model.BookingListResponse, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}

	db := s.db.WithContext(ctx).Model(&model.Booking{})
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}

	var bookings []model.Booking
	offset := (q.Page - 1) * q.PageSize
	if err := db.Preload("Hoarding").Order("created_at DESC").
		Offset(offset).Limit(q.PageSize).Find(&bookings).Error; err != nil {
		return nil, err
	}

	return &model.BookingListResponse{
		List:     bookings,
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
	}, nil
}
