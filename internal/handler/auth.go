package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"openhms/api/internal/config"
	"openhms/api/internal/middleware"
	"openhms/api/internal/model"
	"openhms/api/internal/service"
)

// AuthHandler serves signup, login and profile routes
type AuthHandler struct {
	authService *service.AuthService
	config      *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, config: cfg}
}

// Signup registers an account
// @Summary Sign up
// @Description Register a new account for any role
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body model.SignupRequest true "Signup data"
// @Success 201 {object} model.LoginResponse
// @Failure 400 {object} map[string]string
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user, h.config.JWTSecret, h.config.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, model.LoginResponse{Token: token, User: *user})
}

// Login authenticates an account
// @Summary Log in
// @Description Authenticate with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Credentials"
// @Success 200 {object} model.LoginResponse
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := middleware.GenerateToken(user, h.config.JWTSecret, h.config.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.LoginResponse{Token: token, User: *user})
}

// GetMe returns the caller's account
// @Summary Current account
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile applies profile edits to the caller's account
// @Summary Update profile
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} model.User
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), middleware.CurrentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// VerifyOfficer decides a pending PMC signup
// @Summary Verify PMC officer
// @Description Approve or reject a pending PMC officer account
// @Tags PMC
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body model.VerifyOfficerRequest true "Decision"
// @Success 200 {object} model.User
// @Failure 409 {object} map[string]string
// @Router /pmc/officers/{id}/verify [put]
func (h *AuthHandler) VerifyOfficer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req model.VerifyOfficerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	officer, err := h.authService.VerifyOfficer(c.Request.Context(), uint(id), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, officer)
}
