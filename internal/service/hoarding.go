package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"gorm.io/gorm"

	"openhms/api/internal/model"
)

const earthRadiusMeters = 6371000

// HoardingService manages the physical slot inventory. Occupancy
// transitions are driven only by the booking and collection engines.
type HoardingService struct {
	db *gorm.DB
}

// NewHoardingService creates a new hoarding service
func NewHoardingService(db *gorm.DB) *HoardingService {
	return &HoardingService{db: db}
}

// Create registers a new hoarding, always starting available
func (s *HoardingService) Create(ctx context.Context, creatorID uint, req *model.CreateHoardingRequest) (*model.Hoarding, error) {
	hoarding := &model.Hoarding{
		HoardingID: NewHoardingID(),
		Location:   req.Location,
		Address:    req.Address,
		Lat:        req.Lat,
		Lon:        req.Lon,
		Size:       req.Size,
		BaseRent:   req.BaseRent,
		Status:     model.HoardingAvailable,
		Images:     req.Images,
		CreatedBy:  creatorID,
	}

	if err := s.db.WithContext(ctx).Create(hoarding).Error; err != nil {
		return nil, err
	}
	return hoarding, nil
}

// List returns all hoardings, newest first
func (s *HoardingService) List(ctx context.Context) ([]model.Hoarding, error) {
	var hoardings []model.Hoarding
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&hoardings).Error
	return hoardings, err
}

// ListAvailable returns hoardings open for booking
func (s *HoardingService) ListAvailable(ctx context.Context) ([]model.Hoarding, error) {
	var hoardings []model.Hoarding
	err := s.db.WithContext(ctx).
		Where("status = ?", model.HoardingAvailable).
		Order("created_at DESC").
		Find(&hoardings).Error
	return hoardings, err
}

// GetByID returns a hoarding by primary key
func (s *HoardingService) GetByID(ctx context.Context, id uint) (*model.Hoarding, error) {
	var hoarding model.Hoarding
	if err := s.db.WithContext(ctx).First(&hoarding, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: hoarding %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &hoarding, nil
}

// Update applies PMC edits. Status may only be toggled between
// available and maintenance here; occupied is owned by the lifecycle
// engines.
func (s *HoardingService) Update(ctx context.Context, id uint, req *model.UpdateHoardingRequest) (*model.Hoarding, error) {
	hoarding, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Location != "" {
		updates["location"] = req.Location
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.Size != "" {
		updates["size"] = req.Size
	}
	if req.BaseRent > 0 {
		updates["base_rent"] = req.BaseRent
	}
	if req.Images != nil {
		updates["images"] = req.Images
	}
	if req.Status != "" {
		if req.Status != model.HoardingAvailable && req.Status != model.HoardingMaintenance {
			return nil, fmt.Errorf("%w: status %q cannot be set directly", ErrValidation, req.Status)
		}
		if hoarding.Status == model.HoardingOccupied {
			return nil, fmt.Errorf("%w: hoarding is occupied", ErrInvalidState)
		}
		updates["status"] = req.Status
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(hoarding).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetByID(ctx, id)
}

// Delete removes a hoarding; blocked while a banner is up
func (s *HoardingService) Delete(ctx context.Context, id uint) error {
	hoarding, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if hoarding.Status == model.HoardingOccupied {
		return fmt.Errorf("%w: cannot delete hoarding with active booking", ErrInvalidState)
	}

	return s.db.WithContext(ctx).Delete(hoarding).Error
}

// Nearby returns hoardings within the given radius, closest first.
// A bounding box narrows the candidate set in SQL, then exact great
// circle distances are computed in memory.
func (s *HoardingService) Nearby(ctx context.Context, q *model.NearbyQuery) ([]model.HoardingWithDistance, error) {
	latDelta := q.Distance / earthRadiusMeters * 180 / math.Pi
	lonDelta := latDelta / math.Cos(q.Lat*math.Pi/180)

	var candidates []model.Hoarding
	err := s.db.WithContext(ctx).
		Where("lat BETWEEN ? AND ?", q.Lat-latDelta, q.Lat+latDelta).
		Where("lon BETWEEN ? AND ?", q.Lon-lonDelta, q.Lon+lonDelta).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	results := make([]model.HoardingWithDistance, 0, len(candidates))
	for _, h := range candidates {
		d := haversine(q.Lat, q.Lon, h.Lat, h.Lon)
		if d <= q.Distance {
			results = append(results, model.HoardingWithDistance{Hoarding: h, DistanceMeters: d})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceMeters < results[j].DistanceMeters
	})
	return results, nil
}

// haversine returns the great circle distance in meters
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(a))
}
