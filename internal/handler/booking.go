package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"openhms/api/internal/middleware"
	"openhms/api/internal/model"
	"openhms/api/internal/service"
)

// BookingHandler serves the printing press booking routes plus the
// public QR lookup.
type BookingHandler struct {
	bookingService *service.BookingService
	qrService      *service.QRCodeService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *service.BookingService, qrService *service.QRCodeService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService, qrService: qrService}
}

// Create files a booking request
// @Summary Create booking
// @Description File a booking for an available hoarding; starts pending PMC approval
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CreateBookingRequest true "Booking data"
// @Success 201 {object} model.Booking
// @Failure 409 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookingService.Create(c.Request.Context(), middleware.CurrentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "booking created, pending PMC approval",
		"booking": booking,
	})
}

// ListMine returns the caller's bookings
// @Summary My bookings
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Booking
// @Router /bookings/my [get]
func (h *BookingHandler) ListMine(c *gin.Context) {
	bookings, err := h.bookingService.ListByPress(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(bookings), "bookings": bookings})
}

// Get returns one of the caller's bookings
// @Summary Get booking
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 200 {object} model.Booking
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	booking, err := h.bookingService.GetByID(c.Request.Context(), uint(id), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking":          booking,
		"effective_status": booking.EffectiveStatus(time.Now()),
	})
}

// GetQRCode renders the booking's QR code
// @Summary Booking QR code
// @Description Render the booking's QR payload as a PNG data URL
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 200 {object} map[string]string
// @Router /bookings/{id}/qr-code [get]
func (h *BookingHandler) GetQRCode(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	booking, err := h.bookingService.GetByID(c.Request.Context(), uint(id), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	dataURL, err := h.qrService.RenderDataURL(booking.QRPayload)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking_id": booking.BookingID,
		"qr_code":    dataURL,
	})
}

// Cancel deletes the caller's pending booking
// @Summary Cancel booking
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id} [delete]
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	if err := h.bookingService.Cancel(c.Request.Context(), uint(id), middleware.CurrentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled"})
}

// LookupQR resolves a scanned QR booking id into a public summary
// @Summary Resolve QR code
// @Tags QR
// @Produce json
// @Param booking_id path string true "Human booking ID"
// @Success 200 {object} model.QRBookingSummary
// @Failure 404 {object} map[string]string
// @Router /qr/bookings/{booking_id} [get]
func (h *BookingHandler) LookupQR(c *gin.Context) {
	booking, err := h.bookingService.GetByBookingID(c.Request.Context(), c.Param("booking_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.QRBookingSummary{
		BookingID:   booking.BookingID,
		Location:    booking.Hoarding.Location,
		Address:     booking.Hoarding.Address,
		DisplayName: booking.DisplayName,
		Size:        booking.Hoarding.Size,
		StartDate:   booking.StartDate,
		EndDate:     booking.EndDate,
		Status:      booking.EffectiveStatus(time.Now()),
	})
}
