package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/klixid/movie-booking/internal/app"
)

type Handler struct {
	app *app.App
}

func NewHandler(app *app.App) *Handler {
	return &Handler{
		app: app,
	}
}

// RegisterRoutes mounts the API under /api/v1. Booking and search
// routes need a valid token; the admin group additionally needs the
// admin role.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")

	api.POST("/auth/signup", h.HandleSignUp)
	api.POST("/auth/login", h.HandleLogin)

	api.GET("/movies/trending", h.HandleTrendingMovies)
	api.GET("/movies/now-playing", h.HandleNowPlayingMovies)
	api.GET("/movies/category/:category", h.HandleMoviesByCategory)
	api.GET("/movies/:movieId/details", h.HandleMovieDetails)
	api.GET("/movies/:movieId/trailers", h.HandleMovieTrailers)
	api.GET("/movies/:movieId/similar", h.HandleSimilarMovies)
	api.GET("/movies/:movieId/recommendations", h.HandleMovieRecommendations)
	api.GET("/movies/:movieId/showtimes", h.HandleMovieShowtimes)
	api.GET("/showtimes/:showtimeId/seats", h.HandleShowtimeSeats)

	api.GET("/tv/trending", h.HandleTrendingShows)
	api.GET("/tv/popular", h.HandlePopularShows)
	api.GET("/tv/category/:category", h.HandleShowsByCategory)
	api.GET("/tv/:showId/details", h.HandleShowDetails)
	api.GET("/tv/:showId/trailers", h.HandleShowTrailers)
	api.GET("/tv/:showId/similar", h.HandleSimilarShows)
	api.GET("/tv/:showId/recommendations", h.HandleShowRecommendations)
	api.GET("/tv/:showId/keywords", h.HandleShowKeywords)

	auth := api.Group("", h.RequireAuth)
	auth.POST("/bookings", h.HandleCreateBooking)
	auth.GET("/bookings/:bookingId", h.HandleGetBooking)
	auth.PUT("/bookings/:bookingId/cancel", h.HandleCancelBooking)
	auth.GET("/users/bookings", h.HandleUserBookings)

	auth.GET("/search/movie/:query", h.HandleSearchMovies)
	auth.GET("/search/tv/:query", h.HandleSearchShows)
	auth.GET("/search/person/:query", h.HandleSearchPeople)
	auth.GET("/search/history", h.HandleSearchHistory)
	auth.POST("/search/history", h.HandleAddSearchEntry)
	auth.DELETE("/search/history/:entryId", h.HandleDeleteSearchEntry)

	admin := api.Group("/admin", h.RequireAuth, h.RequireAdmin)
	admin.POST("/showtimes", h.HandleCreateShowtime)
	admin.PUT("/showtimes/:showtimeId", h.HandleUpdateShowtime)
	admin.DELETE("/showtimes/:showtimeId", h.HandleDeleteShowtime)
	admin.POST("/seats", h.HandleProvisionSeats)
	admin.PUT("/seats/:seatId", h.HandleUpdateSeat)
	admin.DELETE("/seats/:seatId", h.HandleDeactivateSeat)
	admin.GET("/stats/theater", h.HandleTheaterStats)
	admin.GET("/stats/bookings", h.HandleBookingStats)
}
