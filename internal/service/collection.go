package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"openhms/api/internal/model"
)

// CollectionService runs the banner removal workflow. Submission is the
// point where the hoarding returns to the pool; PMC verification only
// confirms the evidence afterwards.
type CollectionService struct {
	db       *gorm.DB
	notifier *Notifier
}

// NewCollectionService creates a new collection service
func NewCollectionService(db *gorm.DB, notifier *Notifier) *CollectionService {
	return &CollectionService{db: db, notifier: notifier}
}

// Submit records removal evidence for an expired booking. In one
// transaction: the booking moves expired -> collected via a conditional
// update (so a concurrent duplicate submission loses), the evidence row
// is created, and the hoarding is freed.
func (s *CollectionService) Submit(ctx context.Context, recyclerID uint, req *model.SubmitCollectionRequest) (*model.Collection, error) {
	var collection *model.Collection

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking model.Booking
		if err := tx.Where("booking_id = ?", req.BookingID).First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: booking %s", ErrNotFound, req.BookingID)
			}
			return err
		}

		if booking.Status == model.BookingCollected {
			return fmt.Errorf("%w: booking already collected", ErrInvalidState)
		}
		if booking.Status != model.BookingExpired {
			return fmt.Errorf("%w: booking is %s, not expired", ErrInvalidState, booking.Status)
		}

		var existing int64
		if err := tx.Model(&model.Collection{}).Where("booking_id = ?", booking.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("%w: booking already collected", ErrInvalidState)
		}

		now := time.Now()
		res := tx.Model(&model.Booking{}).
			Where("id = ? AND status = ?", booking.ID, model.BookingExpired).
			Updates(map[string]interface{}{
				"status":          model.BookingCollected,
				"collection_date": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: booking already collected", ErrInvalidState)
		}

		collectedAt := now
		if req.CollectedAt != nil {
			collectedAt = *req.CollectedAt
		}

		collection = &model.Collection{
			CollectionID:       NewCollectionID(),
			BookingID:          booking.ID,
			RecyclerID:         recyclerID,
			ActualWeightKg:     req.ActualWeightKg,
			VehicleNumber:      req.VehicleNumber,
			Notes:              req.Notes,
			BeforeRemovalPhoto: req.BeforeRemovalPhoto,
			AfterRemovalPhoto:  req.AfterRemovalPhoto,
			WeightProofPhoto:   req.WeightProofPhoto,
			Lat:                req.Lat,
			Lon:                req.Lon,
			Address:            req.Address,
			Accuracy:           req.Accuracy,
			CollectedAt:        collectedAt,
			Status:             model.CollectionPending,
		}
		if err := tx.Create(collection).Error; err != nil {
			return err
		}

		return tx.Model(&model.Hoarding{}).
			Where("id = ?", booking.HoardingID).
			Updates(map[string]interface{}{
				"status":             model.HoardingAvailable,
				"current_booking_id": nil,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(EventCollectionSubmitted, collection)
	return collection, nil
}

// ListAwaiting returns expired bookings with no collection yet, the
// recycler's work queue.
func (s *CollectionService) ListAwaiting(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	err := s.db.WithContext(ctx).
		Preload("Hoarding").
		Where("status = ?", model.BookingExpired).
		Where("id NOT IN (?)", s.db.Model(&model.Collection{}).Select("booking_id")).
		Order("end_date DESC").
		Find(&bookings).Error
	return bookings, err
}

// ListByRecycler returns the caller's collection reports, newest first
func (s *CollectionService) ListByRecycler(ctx context.Context, recyclerID uint) ([]model.Collection, error) {
	var collections []model.Collection
	err := s.db.WithContext(ctx).
		Preload("Booking").
		Preload("Booking.Hoarding").
		Where("recycler_id = ?", recyclerID).
		Order("created_at DESC").
		Find(&collections).Error
	return collections, err
}

// GetByID returns a collection, enforcing ownership when recyclerID is
// non-zero
func (s *CollectionService) GetByID(ctx context.Context, id uint, recyclerID uint) (*model.Collection, error) {
	var collection model.Collection
	if err := s.db.WithContext(ctx).
		Preload("Booking").
		Preload("Booking.Hoarding").
		First(&collection, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: collection %d", ErrNotFound, id)
		}
		return nil, err
	}

	if recyclerID != 0 && collection.RecyclerID != recyclerID {
		return nil, fmt.Errorf("%w: collection belongs to another recycler", ErrUnauthorized)
	}
	return &collection, nil
}

// ListPending returns collections awaiting PMC verification
func (s *CollectionService) ListPending(ctx context.Context) ([]model.Collection, error) {
	var collections []model.Collection
	err := s.db.WithContext(ctx).
		Preload("Booking").
		Where("status = ?", model.CollectionPending).
		Order("created_at DESC").
		Find(&collections).Error
	return collections, err
}

// Verify confirms the evidence. The hoarding was already freed at
// submission time, so no further side effects here.
func (s *CollectionService) Verify(ctx context.Context, id uint, verifierID uint, notes string) (*model.Collection, error) {
	return s.review(ctx, id, verifierID, model.CollectionVerified, notes, "")
}

// RejectVerification marks the evidence as not acceptable
func (s *CollectionService) RejectVerification(ctx context.Context, id uint, verifierID uint, reason string) (*model.Collection, error) {
	return s.review(ctx, id, verifierID, model.CollectionRejected, "", reason)
}

func (s *CollectionService) review(ctx context.Context, id uint, verifierID uint, status model.CollectionStatus, notes, reason string) (*model.Collection, error) {
	collection, err := s.GetByID(ctx, id, 0)
	if err != nil {
		return nil, err
	}

	if collection.Status != model.CollectionPending {
		return nil, fmt.Errorf("%w: collection is %s, not pending", ErrInvalidState, collection.Status)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":      status,
		"verified_by": verifierID,
		"verified_at": now,
	}
	if notes != "" {
		updates["verification_notes"] = notes
	}
	if reason != "" {
		updates["rejection_reason"] = reason
	}

	if err := s.db.WithContext(ctx).Model(collection).Updates(updates).Error; err != nil {
		return nil, err
	}

	collection.Status = status
	collection.VerifiedBy = &verifierID
	collection.VerifiedAt = &now
	collection.VerificationNotes = notes
	collection.RejectionReason = reason

	if status == model.CollectionVerified {
		s.notifier.Publish(EventCollectionVerified, collection)
	}
	return collection, nil
}
