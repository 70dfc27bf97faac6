package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openhms/api/internal/model"
)

func signupRequest(role model.UserRole, email string) *model.SignupRequest {
	return &model.SignupRequest{
		Name:     "Test Account",
		Email:    email,
		Password: "secret123",
		Role:     role,
	}
}

func TestSignupAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	user, err := svc.Signup(context.Background(), signupRequest(model.RolePublic, "citizen@example.com"))
	require.NoError(t, err)
	assert.Equal(t, model.RolePublic, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "secret123", user.Password) // stored hashed

	found, err := svc.Authenticate(context.Background(), "citizen@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = svc.Authenticate(context.Background(), "citizen@example.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSignupDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	_, err := svc.Signup(context.Background(), signupRequest(model.RolePublic, "dup@example.com"))
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), signupRequest(model.RolePrintingPress, "dup@example.com"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSignupUnknownRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	req := signupRequest(model.RolePublic, "x@example.com")
	req.Role = "admin"
	_, err := svc.Signup(context.Background(), req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPMCSignupStartsPending(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	officer, err := svc.Signup(context.Background(), signupRequest(model.RolePMC, "officer@pmc.gov.in"))
	require.NoError(t, err)
	assert.Equal(t, model.VerificationPending, officer.VerificationStatus)
}

func TestVerifyOfficer(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	officer, err := svc.Signup(context.Background(), signupRequest(model.RolePMC, "officer@pmc.gov.in"))
	require.NoError(t, err)

	approved, err := svc.VerifyOfficer(context.Background(), officer.ID, &model.VerifyOfficerRequest{Approve: true})
	require.NoError(t, err)
	assert.Equal(t, model.VerificationApproved, approved.VerificationStatus)

	// A decided officer cannot be re-verified
	_, err = svc.VerifyOfficer(context.Background(), officer.ID, &model.VerifyOfficerRequest{Approve: false})
	assert.ErrorIs(t, err, ErrInvalidState)

	// Non-PMC accounts are not verifiable
	citizen, err := svc.Signup(context.Background(), signupRequest(model.RolePublic, "citizen@example.com"))
	require.NoError(t, err)
	_, err = svc.VerifyOfficer(context.Background(), citizen.ID, &model.VerifyOfficerRequest{Approve: true})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	user, err := svc.Signup(context.Background(), signupRequest(model.RolePrintingPress, "press@example.com"))
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), user.ID, &model.UpdateProfileRequest{
		CompanyName: "Shree Printers",
		Phone:       "9822222222",
	})
	require.NoError(t, err)

	var fresh model.User
	require.NoError(t, db.First(&fresh, updated.ID).Error)
	assert.Equal(t, "Shree Printers", fresh.CompanyName)
	assert.Equal(t, "9822222222", fresh.Phone)
	assert.Equal(t, "Test Account", fresh.Name) // untouched
}
