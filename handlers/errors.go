package handlers

import (
	"net/http"

	"appointly/services/booking"
	"appointly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError maps a booking error to its HTTP status and writes {error}.
func (h *BookingHandler) RespondError(c *gin.Context, op string, err error) {
	switch {
	case booking.IsValidation(err):
		utils.JSONError(c, http.StatusBadRequest, err.Error())
	case booking.IsConflict(err):
		utils.JSONError(c, http.StatusConflict, err.Error())
	case booking.IsNotFound(err):
		utils.JSONError(c, http.StatusNotFound, err.Error())
	default:
		getLogger(c, h.Logger).Error(op+": request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error")
	}
}
