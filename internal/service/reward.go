package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"openhms/api/internal/model"
)

// RewardService maintains the citizen points ledger and its running
// balance. Awards append a transaction and increment the balance in the
// caller's transaction so the two cannot drift apart.
type RewardService struct {
	db *gorm.DB
}

// NewRewardService creates a new reward service
func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{db: db}
}

// Award credits points inside tx: one ledger entry plus an upsert of
// the running balance (create-if-absent, increment-if-present).
func (s *RewardService) Award(tx *gorm.DB, userID uint, points int, reason string, complaintID *uint) error {
	entry := &model.RewardTransaction{
		UserID:      userID,
		Type:        model.RewardEarned,
		Points:      points,
		Reason:      reason,
		ComplaintID: complaintID,
	}
	if err := tx.Create(entry).Error; err != nil {
		return err
	}

	var balance model.UserReward
	err := tx.Where("user_id = ?", userID).First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&model.UserReward{
			UserID:      userID,
			TotalPoints: points,
			TotalEarned: points,
		}).Error
	}
	if err != nil {
		return err
	}

	return tx.Model(&balance).Updates(map[string]interface{}{
		"total_points": gorm.Expr("total_points + ?", points),
		"total_earned": gorm.Expr("total_earned + ?", points),
		"updated_at":   time.Now(),
	}).Error
}

// GetSummary returns a user's balance and recent ledger entries
func (s *RewardService) GetSummary(ctx context.Context, userID uint) (*model.RewardSummary, error) {
	var balance model.UserReward
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		balance = model.UserReward{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	var recent []model.RewardTransaction
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(20).
		Find(&recent).Error; err != nil {
		return nil, err
	}

	return &model.RewardSummary{Balance: balance, Recent: recent}, nil
}
