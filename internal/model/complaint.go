package model

import "time"

// ComplaintType categorizes a citizen report
type ComplaintType string

const (
	ComplaintIllegal ComplaintType = "illegal"
	ComplaintDamaged ComplaintType = "damaged"
	ComplaintExpired ComplaintType = "expired"
	ComplaintUnsafe  ComplaintType = "unsafe"
	ComplaintOther   ComplaintType = "other"
)

// Valid reports whether the complaint type is known
func (t ComplaintType) Valid() bool {
	switch t {
	case ComplaintIllegal, ComplaintDamaged, ComplaintExpired, ComplaintUnsafe, ComplaintOther:
		return true
	}
	return false
}

// ComplaintStatus is the complaint lifecycle state
type ComplaintStatus string

const (
	ComplaintPending    ComplaintStatus = "pending"
	ComplaintInProgress ComplaintStatus = "in_progress"
	ComplaintResolved   ComplaintStatus = "resolved"
	ComplaintRejected   ComplaintStatus = "rejected"
)

// Complaint is a citizen report about a hoarding
type Complaint struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	ComplaintID string        `json:"complaint_id" gorm:"uniqueIndex;size:40;not null"`
	UserID      uint          `json:"user_id" gorm:"not null;index"`
	Type        ComplaintType `json:"type" gorm:"size:20;not null"`
	Description string        `json:"description" gorm:"type:text;not null"`
	Location    string        `json:"location" gorm:"size:200;not null"`

	Lat      float64 `json:"lat" gorm:"not null"`
	Lon      float64 `json:"lon" gorm:"not null"`
	Address  string  `json:"address,omitempty" gorm:"size:300"`
	Accuracy float64 `json:"accuracy,omitempty"`

	Photo          string     `json:"photo,omitempty" gorm:"size:300"`
	PhotoTimestamp *time.Time `json:"photo_timestamp,omitempty"`

	ContactName  string `json:"contact_name,omitempty" gorm:"size:100"`
	ContactPhone string `json:"contact_phone,omitempty" gorm:"size:20"`

	Status ComplaintStatus `json:"status" gorm:"size:20;not null;default:'pending';index"`

	ResolvedBy   *uint      `json:"resolved_by,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	Resolution   string     `json:"resolution,omitempty" gorm:"type:text"`
	RewardPoints int        `json:"reward_points" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Complaint) TableName() string {
	return "complaints"
}

// CreateComplaintRequest carries fields for a new complaint
type CreateComplaintRequest struct {
	Type           ComplaintType `json:"type" binding:"required"`
	Description    string        `json:"description" binding:"required"`
	Location       string        `json:"location" binding:"required"`
	Lat            float64       `json:"lat" binding:"required"`
	Lon            float64       `json:"lon" binding:"required"`
	Address        string        `json:"address"`
	Accuracy       float64       `json:"accuracy"`
	Photo          string        `json:"photo"`
	PhotoTimestamp *time.Time    `json:"photo_timestamp"`
	ContactName    string        `json:"contact_name"`
	ContactPhone   string        `json:"contact_phone"`
}

// ResolveComplaintRequest is the PMC resolution. RewardPoints left nil
// defaults to 50.
type ResolveComplaintRequest struct {
	Resolution   string `json:"resolution" binding:"required"`
	RewardPoints *int   `json:"reward_points"`
}

// ComplaintListQuery filters complaint lists
type ComplaintListQuery struct {
	Status   ComplaintStatus `form:"status"`
	Page     int             `form:"page,default=1"`
	PageSize int             `form:"page_size,default=20"`
}

// ComplaintListResponse is a paginated complaint list
type ComplaintListResponse struct {
	List     []Complaint `json:"list"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}
