package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"openhms/api/internal/middleware"
	"openhms/api/internal/model"
	"openhms/api/internal/service"
)

// ComplaintHandler serves the citizen complaint routes
type ComplaintHandler struct {
	complaintService *service.ComplaintService
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(complaintService *service.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaintService: complaintService}
}

// Create files a complaint
// @Summary File complaint
// @Description Report an illegal, damaged, expired or unsafe hoarding
// @Tags Complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CreateComplaintRequest true "Complaint data"
// @Success 201 {object} model.Complaint
// @Failure 400 {object} map[string]string
// @Router /public/complaints [post]
func (h *ComplaintHandler) Create(c *gin.Context) {
	var req model.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	complaint, err := h.complaintService.Create(c.Request.Context(), middleware.CurrentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "complaint filed",
		"complaint": complaint,
	})
}

// ListMine returns the caller's complaints
// @Summary My complaints
// @Tags Complaints
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Complaint
// @Router /public/complaints/my [get]
func (h *ComplaintHandler) ListMine(c *gin.Context) {
	complaints, err := h.complaintService.ListByUser(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(complaints), "complaints": complaints})
}

// Get returns one of the caller's complaints
// @Summary Get complaint
// @Tags Complaints
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Success 200 {object} model.Complaint
// @Failure 404 {object} map[string]string
// @Router /public/complaints/{id} [get]
func (h *ComplaintHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid complaint id"})
		return
	}

	complaint, err := h.complaintService.GetByID(c.Request.Context(), uint(id), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}
