package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"openhms/api/internal/middleware"
	"openhms/api/internal/model"
	"openhms/api/internal/service"
)

// CollectionHandler serves the recycler routes
type CollectionHandler struct {
	collectionService *service.CollectionService
}

// NewCollectionHandler creates a new collection handler
func NewCollectionHandler(collectionService *service.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

// ListAwaiting returns expired bookings with no collection yet
// @Summary Collection work queue
// @Description Expired bookings whose banners still need removal
// @Tags Collections
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Booking
// @Router /recycler/bookings/awaiting [get]
func (h *CollectionHandler) ListAwaiting(c *gin.Context) {
	bookings, err := h.collectionService.ListAwaiting(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(bookings), "bookings": bookings})
}

// Submit records removal evidence for an expired booking
// @Summary Submit collection
// @Description Record banner removal evidence; the booking becomes collected and the hoarding is freed
// @Tags Collections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.SubmitCollectionRequest true "Collection evidence"
// @Success 201 {object} model.Collection
// @Failure 409 {object} map[string]string
// @Router /recycler/collections [post]
func (h *CollectionHandler) Submit(c *gin.Context) {
	var req model.SubmitCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection, err := h.collectionService.Submit(c.Request.Context(), middleware.CurrentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "collection submitted, pending PMC verification",
		"collection": collection,
	})
}

// ListMine returns the caller's collection reports
// @Summary My collections
// @Tags Collections
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Collection
// @Router /recycler/collections/my [get]
func (h *CollectionHandler) ListMine(c *gin.Context) {
	collections, err := h.collectionService.ListByRecycler(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(collections), "collections": collections})
}

// Get returns one of the caller's collection reports
// @Summary Get collection
// @Tags Collections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Collection ID"
// @Success 200 {object} model.Collection
// @Failure 404 {object} map[string]string
// @Router /recycler/collections/{id} [get]
func (h *CollectionHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection id"})
		return
	}

	collection, err := h.collectionService.GetByID(c.Request.Context(), uint(id), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection)
}
