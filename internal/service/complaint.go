package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"openhms/api/internal/model"
)

// defaultRewardPoints is credited when the PMC resolves without an
// explicit amount.
const defaultRewardPoints = 50

// ComplaintService runs the citizen complaint workflow
type ComplaintService struct {
	db       *gorm.DB
	rewards  *RewardService
	notifier *Notifier
}

// NewComplaintService creates a new complaint service
func NewComplaintService(db *gorm.DB, rewards *RewardService, notifier *Notifier) *ComplaintService {
	return &ComplaintService{
		db:       db,
		rewards:  rewards,
		notifier: notifier,
	}
}

// Create files a new complaint for the given citizen
func (s *ComplaintService) Create(ctx context.Context, userID uint, req *model.CreateComplaintRequest) (*model.Complaint, error) {
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown complaint type %q", ErrValidation, req.Type)
	}

	photoTime := req.PhotoTimestamp
	if req.Photo != "" && photoTime == nil {
		now := time.Now()
		photoTime = &now
	}

	complaint := &model.Complaint{
		ComplaintID:    NewComplaintID(),
		UserID:         userID,
		Type:           req.Type,
		Description:    req.Description,
		Location:       req.Location,
		Lat:            req.Lat,
		Lon:            req.Lon,
		Address:        req.Address,
		Accuracy:       req.Accuracy,
		Photo:          req.Photo,
		PhotoTimestamp: photoTime,
		ContactName:    req.ContactName,
		ContactPhone:   req.ContactPhone,
		Status:         model.ComplaintPending,
	}

	if err := s.db.WithContext(ctx).Create(complaint).Error; err != nil {
		return nil, err
	}

	s.notifier.Publish(EventComplaintFiled, complaint)
	return complaint, nil
}

// ListByUser returns the caller's complaints, newest first
func (s *ComplaintService) ListByUser(ctx context.Context, userID uint) ([]model.Complaint, error) {
	var complaints []model.Complaint
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&complaints).Error
	return complaints, err
}

// GetByID returns a complaint, enforcing ownership when userID is
// non-zero
func (s *ComplaintService) GetByID(ctx context.Context, id uint, userID uint) (*model.Complaint, error) {
	var complaint model.Complaint
	if err := s.db.WithContext(ctx).First(&complaint, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: complaint %d", ErrNotFound, id)
		}
		return nil, err
	}

	if userID != 0 && complaint.UserID != userID {
		return nil, fmt.Errorf("%w: complaint belongs to another user", ErrUnauthorized)
	}
	return &complaint, nil
}

// ListAll returns a paginated complaint list with an optional status
// filter, for the PMC review screens.
func (s *ComplaintService) ListAll(ctx context.Context, q *model.ComplaintListQuery) (*model.ComplaintListResponse, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}

	db := s.db.WithContext(ctx).Model(&model.Complaint{})
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}

	var complaints []model.Complaint
	offset := (q.Page - 1) * q.PageSize
	if err := db.Order("created_at DESC").Offset(offset).Limit(q.PageSize).Find(&complaints).Error; err != nil {
		return nil, err
	}

	return &model.ComplaintListResponse{
		List:     complaints,
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
	}, nil
}

// MarkInProgress moves a pending complaint under review
func (s *ComplaintService) MarkInProgress(ctx context.Context, id uint, reviewerID uint) (*model.Complaint, error) {
	complaint, err := s.GetByID(ctx, id, 0)
	if err != nil {
		return nil, err
	}

	if complaint.Status != model.ComplaintPending {
		return nil, fmt.Errorf("%w: complaint is %s, not pending", ErrInvalidState, complaint.Status)
	}

	if err := s.db.WithContext(ctx).Model(complaint).Updates(map[string]interface{}{
		"status":      model.ComplaintInProgress,
		"resolved_by": reviewerID,
	}).Error; err != nil {
		return nil, err
	}
	complaint.Status = model.ComplaintInProgress
	complaint.ResolvedBy = &reviewerID
	return complaint, nil
}

// Resolve closes a complaint and, when points are positive, credits the
// reporter's reward balance. Complaint update and ledger write share
// one transaction.
func (s *ComplaintService) Resolve(ctx context.Context, id uint, reviewerID uint, req *model.ResolveComplaintRequest) (*model.Complaint, error) {
	points := defaultRewardPoints
	if req.RewardPoints != nil {
		points = *req.RewardPoints
	}
	if points < 0 {
		return nil, fmt.Errorf("%w: reward points cannot be negative", ErrValidation)
	}

	var complaint model.Complaint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&complaint, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: complaint %d", ErrNotFound, id)
			}
			return err
		}

		if complaint.Status != model.ComplaintPending && complaint.Status != model.ComplaintInProgress {
			return fmt.Errorf("%w: complaint is %s", ErrInvalidState, complaint.Status)
		}

		now := time.Now()
		if err := tx.Model(&complaint).Updates(map[string]interface{}{
			"status":        model.ComplaintResolved,
			"resolution":    req.Resolution,
			"resolved_by":   reviewerID,
			"resolved_at":   now,
			"reward_points": points,
		}).Error; err != nil {
			return err
		}

		complaint.Status = model.ComplaintResolved
		complaint.Resolution = req.Resolution
		complaint.ResolvedBy = &reviewerID
		complaint.ResolvedAt = &now
		complaint.RewardPoints = points

		if points > 0 {
			return s.rewards.Award(tx, complaint.UserID, points, "Complaint resolved", &complaint.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(EventComplaintResolved, complaint)
	return &complaint, nil
}

// Reject closes a complaint without any reward side effect
func (s *ComplaintService) Reject(ctx context.Context, id uint, reviewerID uint, reason string) (*model.Complaint, error) {
	complaint, err := s.GetByID(ctx, id, 0)
	if err != nil {
		return nil, err
	}

	if complaint.Status != model.ComplaintPending && complaint.Status != model.ComplaintInProgress {
		return nil, fmt.Errorf("%w: complaint is %s", ErrInvalidState, complaint.Status)
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(complaint).Updates(map[string]interface{}{
		"status":      model.ComplaintRejected,
		"resolution":  reason,
		"resolved_by": reviewerID,
		"resolved_at": now,
	}).Error; err != nil {
		return nil, err
	}

	complaint.Status = model.ComplaintRejected
	complaint.Resolution = reason
	complaint.ResolvedBy = &reviewerID
	complaint.ResolvedAt = &now
	return complaint, nil
}
