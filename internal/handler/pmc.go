package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"openhms/api/internal/middleware"
	"openhms/api/internal/model"
	"openhms/api/internal/service"
)

// PMCHandler serves the municipal review routes: booking approvals,
// complaint resolution, collection verification, the dashboard and the
// report export.
type PMCHandler struct {
	bookingService    *service.BookingService
	complaintService  *service.ComplaintService
	collectionService *service.CollectionService
	statsService      *service.StatsService
	reportService     *service.ReportService
}

// NewPMCHandler creates a new PMC handler
func NewPMCHandler(
	bookingService *service.BookingService,
	complaintService *service.ComplaintService,
	collectionService *service.CollectionService,
	statsService *service.StatsService,
	reportService *service.ReportService,
) *PMCHandler {
	return &PMCHandler{
		bookingService:    bookingService,
		complaintService:  complaintService,
		collectionService: collectionService,
		statsService:      statsService,
		reportService:     reportService,
	}
}

// ListPendingBookings returns bookings awaiting review
// @Summary Pending bookings
// @Tags PMC
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Booking
// @Router /pmc/bookings/pending [get]
func (h *PMCHandler) ListPendingBookings(c *gin.Context) {
	bookings, err := h.bookingService.ListPending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(bookings), "bookings": bookings})
}

// ListBookings returns a paginated booking list
// @Summary All bookings
// @Tags PMC
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} model.BookingListResponse
// @Router /pmc/bookings [get]
func (h *PMCHandler) ListBookings(c *gin.Context) {
	var q model.BookingListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.bookingService.ListAll(c.Request.Context(), &q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ApproveBooking approves a pending booking and occupies its hoarding
// @Summary Approve booking
// @Tags PMC
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Param request body model.ApproveBookingRequest false "Approval terms"
// @Success 200 {object} model.Booking
// @Failure 409 {object} map[string]string
// @Router /pmc/bookings/{id}/approve [put]
func (h *PMCHandler) ApproveBooking(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var req model.ApproveBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookingService.Approve(c.Request.Context(), uint(id), middleware.CurrentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking approved", "booking": booking})
}

// RejectBooking declines a pending booking
// @Summary Reject booking
// @Tags PMC
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Param request body model.RejectRequest true "Rejection reason"
// @Success 200 {object} model.Booking
// @Failure 409 {object} map[string]string
// @Router /pmc/bookings/{id}/reject [put]
func (h *PMCHandler) RejectBooking(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var req model.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookingService.Reject(c.Request.Context(), uint(id), middleware.CurrentUserID(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking rejected", "booking": booking})
}

// ListComplaints returns a paginated complaint list
// @Summary All complaints
// @Tags PMC
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} model.ComplaintListResponse
// @Router /pmc/complaints [get]
func (h *PMCHandler) ListComplaints(c *gin.Context) {
	var q model.ComplaintListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.complaintService.ListAll(c.Request.Context(), &q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarkComplaintInProgress moves a pending complaint under review
// @Summary Take up complaint
// @Tags PMC
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Success 200 {object} model.Complaint
// @Failure 409 {object} map[string]string
// @Router /pmc/complaints/{id}/in-progress [put]
func (h *PMCHandler) MarkComplaintInProgress(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid complaint id"})
		return
	}

	complaint, err := h.complaintService.MarkInProgress(c.Request.Context(), uint(id), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

// ResolveComplaint closes a complaint and credits the reporter
// @Summary Resolve complaint
// @Description Close the complaint and credit reward points to the reporter
// @Tags PMC
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Param request body model.ResolveComplaintRequest true "Resolution"
// @Success 200 {object} model.Complaint
// @Failure 409 {object} map[string]string
// @Router /pmc/complaints/{id}/resolve [put]
func (h *PMCHandler) ResolveComplaint(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid complaint id"})
		return
	}

	var req model.ResolveComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	complaint, err := h.complaintService.Resolve(c.Request.Context(), uint(id), middleware.CurrentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "complaint resolved", "complaint": complaint})
}

// RejectComplaint closes a complaint without a reward
// @Summary Reject complaint
// @Tags PMC
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Param request body model.RejectRequest true "Rejection reason"
// @Success 200 {object} model.Complaint
// @Failure 409 {object} map[string]string
// @Router /pmc/complaints/{id}/reject [put]
func (h *PMCHandler) RejectComplaint(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid complaint id"})
		return
	}

	var req model.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	complaint, err := h.complaintService.Reject(c.Request.Context(), uint(id), middleware.CurrentUserID(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "complaint rejected", "complaint": complaint})
}

// ListPendingCollections returns collections awaiting verification
// @Summary Pending collections
// @Tags PMC
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Collection
// @Router /pmc/collections/pending [get]
func (h *PMCHandler) ListPendingCollections(c *gin.Context) {
	collections, err := h.collectionService.ListPending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(collections), "collections": collections})
}

// VerifyCollection confirms a collection report's evidence
// @Summary Verify collection
// @Tags PMC
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Collection ID"
// @Param request body model.VerifyCollectionRequest false "Verification notes"
// @Success 200 {object} model.Collection
// @Failure 409 {object} map[string]string
// @Router /pmc/collections/{id}/verify [put]
func (h *PMCHandler) VerifyCollection(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection id"})
		return
	}

	var req model.VerifyCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection, err := h.collectionService.Verify(c.Request.Context(), uint(id), middleware.CurrentUserID(c), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "collection verified", "collection": collection})
}

// RejectCollection marks a collection report's evidence unacceptable
// @Summary Reject collection
// @Tags PMC
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Collection ID"
// @Param request body model.RejectRequest true "Rejection reason"
// @Success 200 {object} model.Collection
// @Failure 409 {object} map[string]string
// @Router /pmc/collections/{id}/reject [put]
func (h *PMCHandler) RejectCollection(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection id"})
		return
	}

	var req model.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection, err := h.collectionService.RejectVerification(c.Request.Context(), uint(id), middleware.CurrentUserID(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "collection rejected", "collection": collection})
}

// StatsOverview returns dashboard counters
// @Summary Dashboard overview
// @Tags PMC
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.OverviewStats
// @Router /pmc/stats/overview [get]
func (h *PMCHandler) StatsOverview(c *gin.Context) {
	stats, err := h.statsService.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportBookings streams a booking report workbook
// @Summary Export bookings
// @Description Download the booking register as an Excel workbook
// @Tags PMC
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Success 200 {file} binary
// @Router /pmc/reports/bookings [get]
func (h *PMCHandler) ExportBookings(c *gin.Context) {
	status := model.BookingStatus(c.Query("status"))

	f, err := h.reportService.ExportBookings(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
