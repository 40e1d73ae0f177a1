package handlers

import (
	"net/http"

	"appointly/models"
	"appointly/services/booking"
	"appointly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves the public booking endpoints.
type BookingHandler struct {
	BookingSvc booking.BookingService
	Logger     *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{BookingSvc: svc, Logger: logger}
}

// GetSlots handles GET /slots?date=YYYY-MM-DD.
func (h *BookingHandler) GetSlots(c *gin.Context) {
	slots, err := h.BookingSvc.AvailableSlots(c.Request.Context(), c.Query("date"))
	if err != nil {
		h.RespondError(c, "GetSlots", err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// Book handles POST /book.
func (h *BookingHandler) Book(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		getLogger(c, h.Logger).Debug("Book: invalid request body", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	b, err := h.BookingSvc.Book(c.Request.Context(), req)
	if err != nil {
		h.RespondError(c, "Book", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Booking confirmed",
		"booking": b.Summary(),
	})
}

// ListBookings handles GET /bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	bookings, err := h.BookingSvc.List(c.Request.Context())
	if err != nil {
		h.RespondError(c, "ListBookings", err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// CancelBooking handles DELETE /bookings/:id.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	if err := h.BookingSvc.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		h.RespondError(c, "CancelBooking", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Booking cancelled"})
}
