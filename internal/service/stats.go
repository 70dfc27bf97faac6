package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"openhms/api/internal/model"
)

const (
	statsCacheKey = "hms:stats:overview"
	statsCacheTTL = 30 * time.Second
)

// StatsService assembles the PMC dashboard overview. Counts touch five
// tables, so results are cached briefly in redis.
type StatsService struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewStatsService creates a new stats service
func NewStatsService(db *gorm.DB, redisClient *redis.Client) *StatsService {
	return &StatsService{db: db, redis: redisClient}
}

// Overview returns dashboard counters and total revenue
func (s *StatsService) Overview(ctx context.Context) (*model.OverviewStats, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, statsCacheKey).Result(); err == nil {
			var stats model.OverviewStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats := &model.OverviewStats{}

	counts := []struct {
		dest  *int64
		model interface{}
		query func(*gorm.DB) *gorm.DB
	}{
		{&stats.TotalBookings, &model.Booking{}, nil},
		{&stats.PendingBookings, &model.Booking{}, func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", model.BookingPending)
		}},
		{&stats.ActiveBookings, &model.Booking{}, func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", model.BookingActive)
		}},
		{&stats.TotalComplaints, &model.Complaint{}, nil},
		{&stats.PendingComplaints, &model.Complaint{}, func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", model.ComplaintPending)
		}},
		{&stats.TotalHoardings, &model.Hoarding{}, nil},
		{&stats.OccupiedHoardings, &model.Hoarding{}, func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", model.HoardingOccupied)
		}},
		{&stats.PendingCollections, &model.Collection{}, func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", model.CollectionPending)
		}},
	}

	for _, c := range counts {
		db := s.db.WithContext(ctx).Model(c.model)
		if c.query != nil {
			db = c.query(db)
		}
		if err := db.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	stats.AvailableHoardings = stats.TotalHoardings - stats.OccupiedHoardings

	// Revenue counts bookings that got as far as going up.
	var revenue struct {
		Total float64
	}
	if err := s.db.WithContext(ctx).Model(&model.Booking{}).
		Select("COALESCE(SUM(total_rent), 0) AS total").
		Where("status IN ?", []model.BookingStatus{model.BookingActive, model.BookingExpired, model.BookingCollected}).
		Scan(&revenue).Error; err != nil {
		return nil, err
	}
	stats.TotalRevenue = revenue.Total

	if s.redis != nil {
		if data, err := json.Marshal(stats); err == nil {
			s.redis.Set(ctx, statsCacheKey, data, statsCacheTTL)
		}
	}
	return stats, nil
}
