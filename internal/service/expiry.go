package service

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"openhms/api/internal/model"
)

// ExpirySweeper is the single source of truth for time-driven booking
// transitions. On each tick it advances approved bookings whose window
// has opened to active, and active bookings past their end date to
// expired. Both updates are idempotent and order-independent, so an
// overlapping or repeated sweep is harmless.
type ExpirySweeper struct {
	db       *gorm.DB
	notifier *Notifier
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewExpirySweeper creates a sweeper with the given tick interval
func NewExpirySweeper(db *gorm.DB, notifier *Notifier, interval time.Duration) *ExpirySweeper {
	ctx, cancel := context.WithCancel(context.Background())
	return &ExpirySweeper{
		db:       db,
		notifier: notifier,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start runs the sweep loop in the background
func (s *ExpirySweeper) Start() error {
	log.Printf("[ExpirySweeper] Starting, interval %s", s.interval)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		// Immediate pass so restarts don't leave stale statuses
		// sitting until the first tick.
		if _, _, err := s.Sweep(s.ctx, time.Now()); err != nil {
			log.Printf("[ExpirySweeper] Sweep failed: %v", err)
		}

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				if activated, expired, err := s.Sweep(s.ctx, time.Now()); err != nil {
					log.Printf("[ExpirySweeper] Sweep failed: %v", err)
				} else if activated > 0 || expired > 0 {
					log.Printf("[ExpirySweeper] Activated %d, expired %d bookings", activated, expired)
				}
			}
		}
	}()

	return nil
}

// Stop cancels the sweep loop
func (s *ExpirySweeper) Stop() {
	s.cancel()
	log.Println("[ExpirySweeper] Stopped")
}

// Sweep performs one pass at the given instant and returns how many
// bookings were activated and expired.
func (s *ExpirySweeper) Sweep(ctx context.Context, now time.Time) (activated int64, expired int64, err error) {
	res := s.db.WithContext(ctx).Model(&model.Booking{}).
		Where("status = ? AND start_date <= ? AND end_date >= ?", model.BookingApproved, now, now).
		Update("status", model.BookingActive)
	if res.Error != nil {
		return 0, 0, res.Error
	}
	activated = res.RowsAffected

	// Approved bookings whose whole window already passed expire
	// directly, without a visible active hop.
	var stale []model.Booking
	if err := s.db.WithContext(ctx).
		Where("status IN ? AND end_date < ?", []model.BookingStatus{model.BookingApproved, model.BookingActive}, now).
		Find(&stale).Error; err != nil {
		return activated, 0, err
	}

	if len(stale) == 0 {
		return activated, 0, nil
	}

	ids := make([]uint, 0, len(stale))
	for _, b := range stale {
		ids = append(ids, b.ID)
	}

	res = s.db.WithContext(ctx).Model(&model.Booking{}).
		Where("id IN ? AND status IN ?", ids, []model.BookingStatus{model.BookingApproved, model.BookingActive}).
		Update("status", model.BookingExpired)
	if res.Error != nil {
		return activated, 0, res.Error
	}
	expired = res.RowsAffected

	for _, b := range stale {
		b.Status = model.BookingExpired
		s.notifier.Publish(EventBookingExpired, b)
	}
	return activated, expired, nil
}
