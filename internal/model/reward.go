package model

import "time"

// RewardType classifies ledger entries
type RewardType string

const (
	RewardEarned   RewardType = "earned"
	RewardRedeemed RewardType = "redeemed"
	RewardBonus    RewardType = "bonus"
)

// RewardTransaction is one ledger entry of citizen reward points
type RewardTransaction struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UserID      uint       `json:"user_id" gorm:"not null;index"`
	Type        RewardType `json:"type" gorm:"size:20;not null"`
	Points      int        `json:"points" gorm:"not null"`
	Reason      string     `json:"reason,omitempty" gorm:"size:200"`
	ComplaintID *uint      `json:"complaint_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (RewardTransaction) TableName() string {
	return "reward_transactions"
}

// UserReward is the running balance per user. Totals are incremented on
// write, never recomputed, so they equal the ledger sum as long as
// transactions are never deleted.
type UserReward struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"not null;uniqueIndex"`
	TotalPoints   int       `json:"total_points" gorm:"not null;default:0"`
	TotalEarned   int       `json:"total_earned" gorm:"not null;default:0"`
	TotalRedeemed int       `json:"total_redeemed" gorm:"not null;default:0"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (UserReward) TableName() string {
	return "user_rewards"
}

// RewardSummary is the my-rewards response
type RewardSummary struct {
	Balance UserReward          `json:"balance"`
	Recent  []RewardTransaction `json:"recent"`
}
