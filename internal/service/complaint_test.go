package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"openhms/api/internal/model"
)

func newComplaintService(db *gorm.DB) *ComplaintService {
	return NewComplaintService(db, NewRewardService(db), nil)
}

func complaintRequest() *model.CreateComplaintRequest {
	return &model.CreateComplaintRequest{
		Type:        model.ComplaintIllegal,
		Description: "Banner with no permit near the flyover",
		Location:    "Shivajinagar",
		Lat:         18.5308,
		Lon:         73.8470,
	}
}

func TestCreateComplaint(t *testing.T) {
	db := newTestDB(t)
	svc := newComplaintService(db)

	complaint, err := svc.Create(context.Background(), 3, complaintRequest())
	require.NoError(t, err)

	assert.Equal(t, model.ComplaintPending, complaint.Status)
	assert.NotEmpty(t, complaint.ComplaintID)
	assert.Equal(t, uint(3), complaint.UserID)

	req := complaintRequest()
	req.Type = "spam"
	_, err = svc.Create(context.Background(), 3, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestResolveComplaintAwardsDefaultPoints(t *testing.T) {
	db := newTestDB(t)
	svc := newComplaintService(db)

	complaint, err := svc.Create(context.Background(), 3, complaintRequest())
	require.NoError(t, err)

	resolved, err := svc.Resolve(context.Background(), complaint.ID, 9, &model.ResolveComplaintRequest{
		Resolution: "banner taken down",
	})
	require.NoError(t, err)

	assert.Equal(t, model.ComplaintResolved, resolved.Status)
	assert.Equal(t, 50, resolved.RewardPoints)

	var balance model.UserReward
	require.NoError(t, db.Where("user_id = ?", uint(3)).First(&balance).Error)
	assert.Equal(t, 50, balance.TotalPoints)
	assert.Equal(t, 50, balance.TotalEarned)

	var entries []model.RewardTransaction
	require.NoError(t, db.Where("user_id = ?", uint(3)).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, 50, entries[0].Points)
	require.NotNil(t, entries[0].ComplaintID)
	assert.Equal(t, complaint.ID, *entries[0].ComplaintID)
}

func TestBalanceEqualsLedgerSum(t *testing.T) {
	db := newTestDB(t)
	svc := newComplaintService(db)

	points := 30
	for i := 0; i < 4; i++ {
		complaint, err := svc.Create(context.Background(), 3, complaintRequest())
		require.NoError(t, err)
		_, err = svc.Resolve(context.Background(), complaint.ID, 9, &model.ResolveComplaintRequest{
			Resolution:   "handled",
			RewardPoints: &points,
		})
		require.NoError(t, err)
	}

	var balance model.UserReward
	require.NoError(t, db.Where("user_id = ?", uint(3)).First(&balance).Error)
	assert.Equal(t, 120, balance.TotalPoints)

	var ledgerSum int64
	require.NoError(t, db.Model(&model.RewardTransaction{}).
		Where("user_id = ?", uint(3)).
		Select("COALESCE(SUM(points), 0)").Scan(&ledgerSum).Error)
	assert.Equal(t, int64(120), ledgerSum)
}

func TestResolveComplaintTwiceFails(t *testing.T) {
	db := newTestDB(t)
	svc := newComplaintService(db)

	complaint, err := svc.Create(context.Background(), 3, complaintRequest())
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), complaint.ID, 9, &model.ResolveComplaintRequest{Resolution: "done"})
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), complaint.ID, 9, &model.ResolveComplaintRequest{Resolution: "again"})
	assert.ErrorIs(t, err, ErrInvalidState)

	// No double credit
	var balance model.UserReward
	require.NoError(t, db.Where("user_id = ?", uint(3)).First(&balance).Error)
	assert.Equal(t, 50, balance.TotalPoints)
}

func TestResolveComplaintNegativePoints(t *testing.T) {
	db := newTestDB(t)
	svc := newComplaintService(db)

	complaint, err := svc.Create(context.Background(), 3, complaintRequest())
	require.NoError(t, err)

	bad := -5
	_, err = svc.Resolve(context.Background(), complaint.ID, 9, &model.ResolveComplaintRequest{
		Resolution:   "done",
		RewardPoints: &bad,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRejectComplaintAwardsNothing(t *testing.T) {
	db := newTestDB(t)
	svc := newComplaintService(db)

	complaint, err := svc.Create(context.Background(), 3, complaintRequest())
	require.NoError(t, err)

	rejected, err := svc.Reject(context.Background(), complaint.ID, 9, "duplicate report")
	require.NoError(t, err)
	assert.Equal(t, model.ComplaintRejected, rejected.Status)
	assert.Zero(t, rejected.RewardPoints)

	var count int64
	require.NoError(t, db.Model(&model.RewardTransaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMarkInProgressThenResolve(t *testing.T) {
	db := newTestDB(t)
	svc := newComplaintService(db)

	complaint, err := svc.Create(context.Background(), 3, complaintRequest())
	require.NoError(t, err)

	taken, err := svc.MarkInProgress(context.Background(), complaint.ID, 9)
	require.NoError(t, err)
	assert.Equal(t, model.ComplaintInProgress, taken.Status)

	// Taking it up twice fails
	_, err = svc.MarkInProgress(context.Background(), complaint.ID, 9)
	assert.ErrorIs(t, err, ErrInvalidState)

	resolved, err := svc.Resolve(context.Background(), complaint.ID, 9, &model.ResolveComplaintRequest{Resolution: "done"})
	require.NoError(t, err)
	assert.Equal(t, model.ComplaintResolved, resolved.Status)
}

func TestComplaintOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := newComplaintService(db)

	complaint, err := svc.Create(context.Background(), 3, complaintRequest())
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), complaint.ID, 4)
	assert.ErrorIs(t, err, ErrUnauthorized)

	found, err := svc.GetByID(context.Background(), complaint.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, complaint.ID, found.ID)
}

func TestRewardSummary(t *testing.T) {
	db := newTestDB(t)
	rewards := NewRewardService(db)
	svc := NewComplaintService(db, rewards, nil)

	// Empty summary for a user with no history
	summary, err := rewards.GetSummary(context.Background(), 42)
	require.NoError(t, err)
	assert.Zero(t, summary.Balance.TotalPoints)
	assert.Empty(t, summary.Recent)

	complaint, err := svc.Create(context.Background(), 42, complaintRequest())
	require.NoError(t, err)
	_, err = svc.Resolve(context.Background(), complaint.ID, 9, &model.ResolveComplaintRequest{Resolution: "done"})
	require.NoError(t, err)

	summary, err = rewards.GetSummary(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 50, summary.Balance.TotalPoints)
	require.Len(t, summary.Recent, 1)
}
