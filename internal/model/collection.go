package model

import "time"

// CollectionStatus is the PMC verification state of a collection report
type CollectionStatus string

const (
	CollectionPending  CollectionStatus = "pending"
	CollectionVerified CollectionStatus = "verified"
	CollectionRejected CollectionStatus = "rejected"
)

// Collection is a recycler's proof that an expired banner was removed
type Collection struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	CollectionID string  `json:"collection_id" gorm:"uniqueIndex;size:40;not null"`
	BookingID    uint    `json:"booking_id" gorm:"not null;uniqueIndex"` // one collection per booking
	Booking      Booking `json:"booking,omitempty" gorm:"belongsTo;foreignKey:BookingID;references:ID"`
	RecyclerID   uint    `json:"recycler_id" gorm:"not null;index"`

	ActualWeightKg float64 `json:"actual_weight_kg" gorm:"not null"`
	VehicleNumber  string  `json:"vehicle_number" gorm:"size:20;not null"`
	Notes          string  `json:"notes,omitempty" gorm:"type:text"`

	BeforeRemovalPhoto string `json:"before_removal_photo" gorm:"size:300;not null"`
	AfterRemovalPhoto  string `json:"after_removal_photo" gorm:"size:300;not null"`
	WeightProofPhoto   string `json:"weight_proof_photo" gorm:"size:300;not null"`

	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Address  string  `json:"address,omitempty" gorm:"size:300"`
	Accuracy float64 `json:"accuracy,omitempty"`

	CollectedAt time.Time `json:"collected_at" gorm:"not null"`

	Status            CollectionStatus `json:"status" gorm:"size:20;not null;default:'pending';index"`
	VerifiedBy        *uint            `json:"verified_by,omitempty"`
	VerifiedAt        *time.Time       `json:"verified_at,omitempty"`
	VerificationNotes string           `json:"verification_notes,omitempty" gorm:"type:text"`
	RejectionReason   string           `json:"rejection_reason,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Collection) TableName() string {
	return "collections"
}

// SubmitCollectionRequest carries a recycler's collection evidence
type SubmitCollectionRequest struct {
	BookingID          string     `json:"booking_id" binding:"required"` // human booking id
	ActualWeightKg     float64    `json:"actual_weight_kg" binding:"required,gt=0"`
	VehicleNumber      string     `json:"vehicle_number" binding:"required"`
	Notes              string     `json:"notes"`
	BeforeRemovalPhoto string     `json:"before_removal_photo" binding:"required"`
	AfterRemovalPhoto  string     `json:"after_removal_photo" binding:"required"`
	WeightProofPhoto   string     `json:"weight_proof_photo" binding:"required"`
	Lat                float64    `json:"lat"`
	Lon                float64    `json:"lon"`
	Address            string     `json:"address"`
	Accuracy           float64    `json:"accuracy"`
	CollectedAt        *time.Time `json:"collected_at"`
}

// VerifyCollectionRequest is the PMC decision on a collection report
type VerifyCollectionRequest struct {
	Notes string `json:"notes"`
}
