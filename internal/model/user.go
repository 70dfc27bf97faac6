package model

import (
	"time"

	"gorm.io/gorm"
)

// UserRole is the closed set of account roles
type UserRole string

const (
	RolePublic        UserRole = "public"
	RolePrintingPress UserRole = "printing_press"
	RolePMC           UserRole = "pmc"
	RoleRecycler      UserRole = "recycler"
)

// Valid reports whether the role is one of the known tags
func (r UserRole) Valid() bool {
	switch r {
	case RolePublic, RolePrintingPress, RolePMC, RoleRecycler:
		return true
	}
	return false
}

// VerificationStatus gates PMC officer accounts
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// User represents a system account of any role
type User struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	Name     string   `json:"name" gorm:"size:100;not null"`
	Email    string   `json:"email" gorm:"uniqueIndex;size:100;not null"`
	Password string   `json:"-" gorm:"size:255;not null"` // bcrypt hash
	Phone    string   `json:"phone,omitempty" gorm:"size:20"`
	Role     UserRole `json:"role" gorm:"size:20;not null;index"`

	// Printing press profile
	CompanyName  string `json:"company_name,omitempty" gorm:"size:100"`
	GSTNumber    string `json:"gst_number,omitempty" gorm:"size:20"`
	ShopLocation string `json:"shop_location,omitempty" gorm:"size:200"`
	LicenseNo    string `json:"license_no,omitempty" gorm:"size:50"`

	// PMC officer profile
	EmployeeID         string             `json:"employee_id,omitempty" gorm:"size:50"`
	Department         string             `json:"department,omitempty" gorm:"size:100"`
	Designation        string             `json:"designation,omitempty" gorm:"size:100"`
	VerificationStatus VerificationStatus `json:"verification_status,omitempty" gorm:"size:20"`

	// Recycler profile
	BusinessName   string `json:"business_name,omitempty" gorm:"size:100"`
	VehicleNumber  string `json:"vehicle_number,omitempty" gorm:"size:20"`
	LicenseNumber  string `json:"license_number,omitempty" gorm:"size:50"`
	ServiceArea    string `json:"service_area,omitempty" gorm:"size:200"`
	RegistrationNo string `json:"registration_no,omitempty" gorm:"size:50"`

	IsActive  bool           `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// SignupRequest carries signup fields for all roles
type SignupRequest struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=6"`
	Phone    string   `json:"phone"`
	Role     UserRole `json:"role" binding:"required"`

	CompanyName  string `json:"company_name"`
	GSTNumber    string `json:"gst_number"`
	ShopLocation string `json:"shop_location"`
	LicenseNo    string `json:"license_no"`

	EmployeeID  string `json:"employee_id"`
	Department  string `json:"department"`
	Designation string `json:"designation"`

	BusinessName   string `json:"business_name"`
	VehicleNumber  string `json:"vehicle_number"`
	LicenseNumber  string `json:"license_number"`
	ServiceArea    string `json:"service_area"`
	RegistrationNo string `json:"registration_no"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents login response
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UpdateProfileRequest carries mutable profile fields
type UpdateProfileRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	CompanyName  string `json:"company_name"`
	ShopLocation string `json:"shop_location"`
	ServiceArea  string `json:"service_area"`
}

// VerifyOfficerRequest is a PMC decision on a pending officer account
type VerifyOfficerRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}
