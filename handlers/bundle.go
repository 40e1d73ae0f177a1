package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	GetSlots      gin.HandlerFunc
	Book          gin.HandlerFunc
	ListBookings  gin.HandlerFunc
	CancelBooking gin.HandlerFunc
	Health        gin.HandlerFunc
}

func NewHandlerBundle(bh *BookingHandler) *HandlerBundle {
	return &HandlerBundle{
		GetSlots:      bh.GetSlots,
		Book:          bh.Book,
		ListBookings:  bh.ListBookings,
		CancelBooking: bh.CancelBooking,
		Health:        Health,
	}
}
