package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/klixid/movie-booking/internal/service"
)

// Every response shares one envelope: {success, message, ...payload}.
// Failures add an error field with the cause, hidden in production.

func respondOK(ctx *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	for k, v := range payload {
		body[k] = v
	}
	ctx.JSON(status, body)
}

func (h *Handler) respondError(ctx *gin.Context, err error) {
	status, message := http.StatusInternalServerError, "Internal server error"

	switch {
	case errors.Is(err, service.ErrValidation):
		status, message = http.StatusBadRequest, "Invalid request"
	case errors.Is(err, service.ErrSeatUnavailable):
		status, message = http.StatusBadRequest, "One or more selected seats are no longer available"
	case errors.Is(err, service.ErrCancellationWindow):
		status, message = http.StatusBadRequest, "Bookings can only be cancelled at least 2 hours before showtime"
	case errors.Is(err, service.ErrBookingCancelled):
		status, message = http.StatusBadRequest, "Booking is already cancelled"
	case errors.Is(err, service.ErrHasBookings):
		status, message = http.StatusBadRequest, "Showtime has existing bookings"
	case errors.Is(err, service.ErrEmailTaken):
		status, message = http.StatusBadRequest, "Email is already registered"
	case errors.Is(err, service.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, service.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		status, message = http.StatusNotFound, "Resource not found"
	case errors.Is(err, service.ErrUnavailable):
		status, message = http.StatusServiceUnavailable, "Service temporarily unavailable, please try again later"
	}

	body := gin.H{
		"success": false,
		"message": message,
	}
	if !h.app.Config.IsProduction() {
		body["error"] = err.Error()
	}
	ctx.JSON(status, body)
}

func (h *Handler) badRequest(ctx *gin.Context, err error) {
	body := gin.H{
		"success": false,
		"message": "Invalid request format",
	}
	if !h.app.Config.IsProduction() {
		body["error"] = err.Error()
	}
	ctx.JSON(http.StatusBadRequest, body)
}
