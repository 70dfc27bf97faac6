package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"openhms/api/internal/model"
)

// AuthService handles accounts and credential checks
type AuthService struct {
	db *gorm.DB
}

// NewAuthService creates a new auth service
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Signup registers a new account. PMC accounts start with a pending
// verification status and cannot act until another officer approves them.
func (s *AuthService) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	if !req.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, req.Role)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: email already registered", ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Phone:    req.Phone,
		Role:     req.Role,
		IsActive: true,

		CompanyName:  req.CompanyName,
		GSTNumber:    req.GSTNumber,
		ShopLocation: req.ShopLocation,
		LicenseNo:    req.LicenseNo,

		EmployeeID:  req.EmployeeID,
		Department:  req.Department,
		Designation: req.Designation,

		BusinessName:   req.BusinessName,
		VehicleNumber:  req.VehicleNumber,
		LicenseNumber:  req.LicenseNumber,
		ServiceArea:    req.ServiceArea,
		RegistrationNo: req.RegistrationNo,
	}

	if req.Role == model.RolePMC {
		user.VerificationStatus = model.VerificationPending
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate validates credentials and returns the account
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is inactive", ErrUnauthorized)
	}

	return &user, nil
}

// GetByID returns an account by primary key
func (s *AuthService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies mutable profile fields to the caller's account
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.CompanyName != "" {
		updates["company_name"] = req.CompanyName
	}
	if req.ShopLocation != "" {
		updates["shop_location"] = req.ShopLocation
	}
	if req.ServiceArea != "" {
		updates["service_area"] = req.ServiceArea
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyOfficer is an approved PMC officer's decision on a pending PMC
// signup.
func (s *AuthService) VerifyOfficer(ctx context.Context, officerID uint, req *model.VerifyOfficerRequest) (*model.User, error) {
	officer, err := s.GetByID(ctx, officerID)
	if err != nil {
		return nil, err
	}
	if officer.Role != model.RolePMC {
		return nil, fmt.Errorf("%w: user %d is not a PMC account", ErrValidation, officerID)
	}
	if officer.VerificationStatus != model.VerificationPending {
		return nil, fmt.Errorf("%w: officer verification already %s", ErrInvalidState, officer.VerificationStatus)
	}

	status := model.VerificationApproved
	if !req.Approve {
		status = model.VerificationRejected
	}

	if err := s.db.WithContext(ctx).Model(officer).Update("verification_status", status).Error; err != nil {
		return nil, err
	}
	officer.VerificationStatus = status
	return officer, nil
}
