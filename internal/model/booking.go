package model

import (
	"time"
)

// BookingStatus is the booking lifecycle state
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingRejected  BookingStatus = "rejected"
	BookingActive    BookingStatus = "active"
	BookingExpired   BookingStatus = "expired"
	BookingCollected BookingStatus = "collected"
)

// HoardingType is the banner technology requested for the slot
type HoardingType string

const (
	HoardingTypeBacklit     HoardingType = "Backlit"
	HoardingTypeFrontLit    HoardingType = "Front Lit"
	HoardingTypeNonLit      HoardingType = "Non-Lit"
	HoardingTypeDigitalLED  HoardingType = "Digital LED"
	HoardingTypeVinylBanner HoardingType = "Vinyl Banner"
)

// Valid reports whether the hoarding type is a known variant
func (t HoardingType) Valid() bool {
	switch t {
	case HoardingTypeBacklit, HoardingTypeFrontLit, HoardingTypeNonLit,
		HoardingTypeDigitalLED, HoardingTypeVinylBanner:
		return true
	}
	return false
}

// Booking is a printing press's reservation of a hoarding slot.
//
// Rent policy: duration is counted in days and the total is a flat
// base-rent-per-day multiple. No 30-day proration.
type Booking struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	BookingID string `json:"booking_id" gorm:"uniqueIndex;size:40;not null"`

	PrintingPressID uint     `json:"printing_press_id" gorm:"not null;index"`
	HoardingID      uint     `json:"hoarding_id" gorm:"not null;index"`
	Hoarding        Hoarding `json:"hoarding,omitempty" gorm:"belongsTo;foreignKey:HoardingID;references:ID"`

	DisplayName    string       `json:"display_name" gorm:"size:200;not null"`
	ContactNumber  string       `json:"contact_number" gorm:"size:20;not null"`
	CustomerName   string       `json:"customer_name" gorm:"size:100;not null"`
	CustomerMobile string       `json:"customer_mobile" gorm:"size:20;not null"`
	HoardingType   HoardingType `json:"hoarding_type" gorm:"size:20;not null"`

	StartDate    time.Time `json:"start_date" gorm:"not null"`
	EndDate      time.Time `json:"end_date" gorm:"not null;index"`
	DurationDays int       `json:"duration_days" gorm:"not null"`

	TotalRent      float64  `json:"total_rent" gorm:"not null"`
	ApprovedAmount *float64 `json:"approved_amount,omitempty"`
	DepositAmount  *float64 `json:"deposit_amount,omitempty"`

	BannerImage string `json:"banner_image,omitempty" gorm:"size:300"`
	QRPayload   string `json:"qr_payload,omitempty" gorm:"type:text"`

	Status BookingStatus `json:"status" gorm:"size:20;not null;default:'pending';index"`

	ReviewedBy      *uint      `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty" gorm:"type:text"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	CollectionDate  *time.Time `json:"collection_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Booking) TableName() string {
	return "bookings"
}

// EffectiveStatus computes the time-adjusted view of the stored status.
// Persisted transitions are owned by the expiry sweeper; this is a pure
// read-side function so callers never see a stale approved/active state
// between sweeps.
func (b *Booking) EffectiveStatus(now time.Time) BookingStatus {
	switch b.Status {
	case BookingApproved:
		if now.After(b.EndDate) {
			return BookingExpired
		}
		if !now.Before(b.StartDate) {
			return BookingActive
		}
	case BookingActive:
		if now.After(b.EndDate) {
			return BookingExpired
		}
	}
	return b.Status
}

// QRPayloadData is embedded in the booking's QR code
type QRPayloadData struct {
	BookingID      string       `json:"booking_id"`
	Location       string       `json:"location"`
	DisplayName    string       `json:"display_name"`
	CustomerName   string       `json:"customer_name"`
	CustomerMobile string       `json:"customer_mobile"`
	HoardingType   HoardingType `json:"hoarding_type"`
	StartDate      time.Time    `json:"start_date"`
	EndDate        time.Time    `json:"end_date"`
	Size           string       `json:"size"`
	Rent           float64      `json:"rent"`
}

// CreateBookingRequest carries fields for a new booking
type CreateBookingRequest struct {
	HoardingID     uint         `json:"hoarding_id" binding:"required"`
	DisplayName    string       `json:"display_name" binding:"required"`
	ContactNumber  string       `json:"contact_number" binding:"required"`
	CustomerName   string       `json:"customer_name" binding:"required"`
	CustomerMobile string       `json:"customer_mobile" binding:"required"`
	HoardingType   HoardingType `json:"hoarding_type" binding:"required"`
	StartDate      time.Time    `json:"start_date" binding:"required"`
	EndDate        time.Time    `json:"end_date" binding:"required"`
	DurationDays   int          `json:"duration_days" binding:"required,gt=0"`
	BannerImage    string       `json:"banner_image"`
}

// ApproveBookingRequest carries the PMC approval terms. Amounts left
// nil default to the requested rent and a 20% deposit.
type ApproveBookingRequest struct {
	ApprovedAmount *float64 `json:"approved_amount"`
	DepositAmount  *float64 `json:"deposit_amount"`
}

// RejectRequest carries a rejection reason
type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// BookingListQuery filters booking lists
type BookingListQuery struct {
	Status   BookingStatus `form:"status"`
	Page     int           `form:"page,default=1"`
	PageSize int           `form:"page_size,default=20"`
}

// BookingListResponse is a paginated booking list
type BookingListResponse struct {
	List     []Booking `json:"list"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// QRBookingSummary is the public view resolved from a scanned QR code
type QRBookingSummary struct {
	BookingID   string        `json:"booking_id"`
	Location    string        `json:"location"`
	Address     string        `json:"address"`
	DisplayName string        `json:"display_name"`
	Size        string        `json:"size"`
	StartDate   time.Time     `json:"start_date"`
	EndDate     time.Time     `json:"end_date"`
	Status      BookingStatus `json:"status"`
}
