package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/klixid/movie-booking/internal/model"
	"github.com/klixid/movie-booking/internal/service"
	"github.com/klixid/movie-booking/internal/service/domain"
)

type createBookingRequest struct {
	MovieID         string  `json:"movieId"`
	ShowtimeID      uint    `json:"showtimeId"`
	SeatIDs         []uint  `json:"seatIds"`
	PaymentMethod   string  `json:"paymentMethod"`
	TotalAmount     float64 `json:"totalAmount"`
	CustomerName    string  `json:"customerName"`
	CustomerEmail   string  `json:"customerEmail"`
	CustomerPhone   string  `json:"customerPhone"`
	SpecialRequests string  `json:"specialRequests"`
}

func (h *Handler) HandleCreateBooking(ctx *gin.Context) {
	var req createBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.badRequest(ctx, err)
		return
	}

	booking, err := h.app.BookingWorkflow.CreateBooking(domain.CreateBookingInput{
		UserID:          currentUserID(ctx),
		MovieID:         req.MovieID,
		ShowtimeID:      req.ShowtimeID,
		SeatIDs:         req.SeatIDs,
		PaymentMethod:   model.PaymentMethod(req.PaymentMethod),
		TotalAmount:     req.TotalAmount,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusCreated, "Booking created", gin.H{"booking": booking})
}

// HandleGetBooking returns a booking with catalog details attached when
// the catalog is reachable.
func (h *Handler) HandleGetBooking(ctx *gin.Context) {
	booking, ok := h.ownedBooking(ctx)
	if !ok {
		return
	}

	payload := gin.H{"booking": booking}
	if movie, err := h.app.MovieService.MovieDetails(booking.MovieID); err == nil {
		payload["movie"] = movie
	} else {
		h.app.Logger.Warn("catalog lookup failed for booking",
			zap.Uint("booking_id", booking.ID), zap.Error(err))
	}

	respondOK(ctx, http.StatusOK, "Booking", payload)
}

func (h *Handler) HandleCancelBooking(ctx *gin.Context) {
	if _, ok := h.ownedBooking(ctx); !ok {
		return
	}

	bookingID, _ := strconv.ParseUint(ctx.Param("bookingId"), 10, 32)
	booking, err := h.app.BookingWorkflow.CancelBooking(uint(bookingID))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, "Booking cancelled", gin.H{"booking": booking})
}

func (h *Handler) HandleUserBookings(ctx *gin.Context) {
	bookings, err := h.app.BookingService.ListUserBookings(currentUserID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Bookings", gin.H{"bookings": bookings})
}

// ownedBooking loads the booking from the path and rejects callers who
// do not own it. Admins may access any booking.
func (h *Handler) ownedBooking(ctx *gin.Context) (*model.Booking, bool) {
	bookingID, err := strconv.ParseUint(ctx.Param("bookingId"), 10, 32)
	if err != nil {
		h.badRequest(ctx, err)
		return nil, false
	}

	booking, err := h.app.BookingService.GetBooking(uint(bookingID))
	if err != nil {
		h.respondError(ctx, err)
		return nil, false
	}

	role, _ := ctx.Get(ctxRoleKey)
	if booking.UserID != currentUserID(ctx) && role != model.RoleAdmin {
		h.respondError(ctx, service.ErrNotFound)
		return nil, false
	}
	return booking, true
}
