package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/klixid/movie-booking/internal/model"
	"github.com/klixid/movie-booking/internal/service/domain"
)

type showtimeRequest struct {
	MovieID    string    `json:"movieId"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Theater    string    `json:"theater"`
	ScreenType string    `json:"screenType"`
	Language   string    `json:"language"`
	BasePrice  float64   `json:"basePrice"`
}

func (r *showtimeRequest) toInput() domain.ShowtimeInput {
	return domain.ShowtimeInput{
		MovieID:    r.MovieID,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Theater:    r.Theater,
		ScreenType: model.ScreenType(r.ScreenType),
		Language:   r.Language,
		BasePrice:  r.BasePrice,
	}
}

func (h *Handler) HandleCreateShowtime(ctx *gin.Context) {
	var req showtimeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.badRequest(ctx, err)
		return
	}

	showtime, err := h.app.ShowtimeService.CreateShowtime(req.toInput())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusCreated, "Showtime created", gin.H{"showtime": showtime})
}

func (h *Handler) HandleUpdateShowtime(ctx *gin.Context) {
	showtimeID, err := strconv.ParseUint(ctx.Param("showtimeId"), 10, 32)
	if err != nil {
		h.badRequest(ctx, err)
		return
	}

	var req showtimeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.badRequest(ctx, err)
		return
	}

	showtime, err := h.app.ShowtimeService.UpdateShowtime(uint(showtimeID), req.toInput())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Showtime updated", gin.H{"showtime": showtime})
}

func (h *Handler) HandleDeleteShowtime(ctx *gin.Context) {
	showtimeID, err := strconv.ParseUint(ctx.Param("showtimeId"), 10, 32)
	if err != nil {
		h.badRequest(ctx, err)
		return
	}

	if err := h.app.ShowtimeService.DeleteShowtime(uint(showtimeID)); err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Showtime deleted", nil)
}

type seatRequest struct {
	Row        string  `json:"row"`
	SeatNumber string  `json:"seatNumber"`
	Type       string  `json:"type"`
	Price      float64 `json:"price"`
}

func (r *seatRequest) toInput() domain.SeatInput {
	return domain.SeatInput{
		Row:        r.Row,
		SeatNumber: r.SeatNumber,
		Type:       model.SeatType(r.Type),
		Price:      r.Price,
	}
}

type provisionSeatsRequest struct {
	ShowtimeID uint          `json:"showtimeId"`
	Seats      []seatRequest `json:"seats"`
}

func (h *Handler) HandleProvisionSeats(ctx *gin.Context) {
	var req provisionSeatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.badRequest(ctx, err)
		return
	}

	inputs := make([]domain.SeatInput, 0, len(req.Seats))
	for _, s := range req.Seats {
		inputs = append(inputs, s.toInput())
	}

	seats, err := h.app.SeatService.ProvisionSeats(req.ShowtimeID, inputs)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusCreated, "Seats created", gin.H{"seats": seats})
}

func (h *Handler) HandleUpdateSeat(ctx *gin.Context) {
	seatID, err := strconv.ParseUint(ctx.Param("seatId"), 10, 32)
	if err != nil {
		h.badRequest(ctx, err)
		return
	}

	var req seatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.badRequest(ctx, err)
		return
	}

	seat, err := h.app.SeatService.UpdateSeat(uint(seatID), req.toInput())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Seat updated", gin.H{"seat": seat})
}

func (h *Handler) HandleDeactivateSeat(ctx *gin.Context) {
	seatID, err := strconv.ParseUint(ctx.Param("seatId"), 10, 32)
	if err != nil {
		h.badRequest(ctx, err)
		return
	}

	if err := h.app.SeatService.DeactivateSeat(uint(seatID)); err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Seat removed", nil)
}

func (h *Handler) HandleTheaterStats(ctx *gin.Context) {
	stats, err := h.app.StatsService.TheaterStats()
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Theater stats", gin.H{"stats": stats})
}

// HandleBookingStats accepts optional from/to query params in
// YYYY-MM-DD form.
func (h *Handler) HandleBookingStats(ctx *gin.Context) {
	var since, until *time.Time
	if raw := ctx.Query("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.badRequest(ctx, err)
			return
		}
		since = &t
	}
	if raw := ctx.Query("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.badRequest(ctx, err)
			return
		}
		// include the whole day
		end := t.Add(24 * time.Hour)
		until = &end
	}

	stats, err := h.app.StatsService.BookingStats(since, until)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Booking stats", gin.H{"stats": stats})
}
