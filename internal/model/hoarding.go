package model

import "time"

// HoardingStatus reflects the slot's current occupancy
type HoardingStatus string

const (
	HoardingAvailable   HoardingStatus = "available"
	HoardingOccupied    HoardingStatus = "occupied"
	HoardingMaintenance HoardingStatus = "maintenance"
)

// Hoarding is a physical outdoor advertising slot
type Hoarding struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	HoardingID string         `json:"hoarding_id" gorm:"uniqueIndex;size:30;not null"`
	Location   string         `json:"location" gorm:"size:200;not null"`
	Address    string         `json:"address" gorm:"size:300;not null"`
	Lat        float64        `json:"lat" gorm:"not null"`
	Lon        float64        `json:"lon" gorm:"not null"`
	Size       string         `json:"size" gorm:"size:50;not null"` // e.g. "20x10 ft"
	BaseRent   float64        `json:"base_rent" gorm:"not null"`    // per day
	Status     HoardingStatus `json:"status" gorm:"size:20;not null;default:'available';index"`
	Images     []string       `json:"images,omitempty" gorm:"serializer:json"`

	// Set while occupied, cleared when the banner is collected
	CurrentBookingID *uint `json:"current_booking_id,omitempty"`

	CreatedBy uint      `json:"created_by" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Hoarding) TableName() string {
	return "hoardings"
}

// CreateHoardingRequest carries fields for a new hoarding
type CreateHoardingRequest struct {
	Location string   `json:"location" binding:"required"`
	Address  string   `json:"address" binding:"required"`
	Lat      float64  `json:"lat" binding:"required"`
	Lon      float64  `json:"lon" binding:"required"`
	Size     string   `json:"size" binding:"required"`
	BaseRent float64  `json:"base_rent" binding:"required,gt=0"`
	Images   []string `json:"images"`
}

// UpdateHoardingRequest carries mutable hoarding fields.
// Status here only moves between available and maintenance; occupancy
// is owned by the booking and collection workflows.
type UpdateHoardingRequest struct {
	Location string         `json:"location"`
	Address  string         `json:"address"`
	Size     string         `json:"size"`
	BaseRent float64        `json:"base_rent"`
	Status   HoardingStatus `json:"status"`
	Images   []string       `json:"images"`
}

// NearbyQuery is a geospatial search around a point
type NearbyQuery struct {
	Lat      float64 `form:"lat" binding:"required"`
	Lon      float64 `form:"lon" binding:"required"`
	Distance float64 `form:"distance,default=5000"` // meters
}

// HoardingWithDistance is a nearby search result
type HoardingWithDistance struct {
	Hoarding
	DistanceMeters float64 `json:"distance_meters"`
}
