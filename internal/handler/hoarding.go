package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"openhms/api/internal/middleware"
	"openhms/api/internal/model"
	"openhms/api/internal/service"
)

// HoardingHandler serves the slot inventory routes
type HoardingHandler struct {
	hoardingService *service.HoardingService
}

// NewHoardingHandler creates a new hoarding handler
func NewHoardingHandler(hoardingService *service.HoardingService) *HoardingHandler {
	return &HoardingHandler{hoardingService: hoardingService}
}

// List returns all hoardings
// @Summary List hoardings
// @Tags Hoardings
// @Produce json
// @Success 200 {array} model.Hoarding
// @Router /hoardings [get]
func (h *HoardingHandler) List(c *gin.Context) {
	hoardings, err := h.hoardingService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(hoardings), "hoardings": hoardings})
}

// ListAvailable returns hoardings open for booking
// @Summary List available hoardings
// @Tags Hoardings
// @Produce json
// @Success 200 {array} model.Hoarding
// @Router /hoardings/available [get]
func (h *HoardingHandler) ListAvailable(c *gin.Context) {
	hoardings, err := h.hoardingService.ListAvailable(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(hoardings), "hoardings": hoardings})
}

// Nearby returns hoardings around a point
// @Summary Nearby hoardings
// @Tags Hoardings
// @Produce json
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Param distance query number false "Radius in meters" default(5000)
// @Success 200 {array} model.HoardingWithDistance
// @Router /hoardings/nearby [get]
func (h *HoardingHandler) Nearby(c *gin.Context) {
	var q model.NearbyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hoardings, err := h.hoardingService.Nearby(c.Request.Context(), &q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(hoardings), "hoardings": hoardings})
}

// Get returns one hoarding
// @Summary Get hoarding
// @Tags Hoardings
// @Produce json
// @Param id path int true "Hoarding ID"
// @Success 200 {object} model.Hoarding
// @Failure 404 {object} map[string]string
// @Router /hoardings/{id} [get]
func (h *HoardingHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hoarding id"})
		return
	}

	hoarding, err := h.hoardingService.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hoarding)
}

// Create registers a new hoarding
// @Summary Create hoarding
// @Tags PMC
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CreateHoardingRequest true "Hoarding data"
// @Success 201 {object} model.Hoarding
// @Router /pmc/hoardings [post]
func (h *HoardingHandler) Create(c *gin.Context) {
	var req model.CreateHoardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hoarding, err := h.hoardingService.Create(c.Request.Context(), middleware.CurrentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, hoarding)
}

// Update applies PMC edits
// @Summary Update hoarding
// @Tags PMC
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Hoarding ID"
// @Param request body model.UpdateHoardingRequest true "Fields"
// @Success 200 {object} model.Hoarding
// @Failure 409 {object} map[string]string
// @Router /pmc/hoardings/{id} [put]
func (h *HoardingHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hoarding id"})
		return
	}

	var req model.UpdateHoardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hoarding, err := h.hoardingService.Update(c.Request.Context(), uint(id), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hoarding)
}

// Delete removes a hoarding
// @Summary Delete hoarding
// @Tags PMC
// @Produce json
// @Security BearerAuth
// @Param id path int true "Hoarding ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /pmc/hoardings/{id} [delete]
func (h *HoardingHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hoarding id"})
		return
	}

	if err := h.hoardingService.Delete(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "hoarding deleted"})
}
