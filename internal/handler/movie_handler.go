package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/klixid/movie-booking/internal/service/domain"
)

func (h *Handler) HandleTrendingMovies(ctx *gin.Context) {
	movies, err := h.app.MovieService.Trending()
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Trending movies", gin.H{"movies": movies})
}

func (h *Handler) HandleNowPlayingMovies(ctx *gin.Context) {
	movies, err := h.app.MovieService.NowPlaying()
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Now playing movies", gin.H{"movies": movies})
}

func (h *Handler) HandleMovieDetails(ctx *gin.Context) {
	movie, err := h.app.MovieService.MovieDetails(ctx.Param("movieId"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Movie details", gin.H{"movie": movie})
}

func (h *Handler) HandleMovieTrailers(ctx *gin.Context) {
	trailers, err := h.app.MovieService.MovieTrailers(ctx.Param("movieId"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Movie trailers", gin.H{"trailers": trailers})
}

func (h *Handler) HandleSimilarMovies(ctx *gin.Context) {
	movies, err := h.app.MovieService.SimilarMovies(ctx.Param("movieId"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Similar movies", gin.H{"movies": movies})
}

func (h *Handler) HandleMovieRecommendations(ctx *gin.Context) {
	movies, err := h.app.MovieService.MovieRecommendations(ctx.Param("movieId"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Recommended movies", gin.H{"movies": movies})
}

func (h *Handler) HandleMoviesByCategory(ctx *gin.Context) {
	movies, err := h.app.MovieService.MoviesByCategory(ctx.Param("category"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Movies by category", gin.H{"movies": movies})
}

func (h *Handler) HandleMovieShowtimes(ctx *gin.Context) {
	result, err := h.app.MovieService.MovieShowtimes(ctx.Param("movieId"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Showtimes", gin.H{
		"movie":     result.Movie,
		"showtimes": result.Showtimes,
	})
}

func (h *Handler) HandleShowtimeSeats(ctx *gin.Context) {
	showtimeID, err := strconv.ParseUint(ctx.Param("showtimeId"), 10, 32)
	if err != nil {
		h.badRequest(ctx, err)
		return
	}

	showtime, seats, err := h.app.ShowtimeService.ShowtimeSeats(uint(showtimeID))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Seat map", gin.H{
		"showtime": showtime,
		"seats":    seats,
	})
}

func (h *Handler) HandleSearchMovies(ctx *gin.Context) {
	movies, err := h.app.MovieService.SearchMovies(currentUserID(ctx), ctx.Param("query"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Search results", gin.H{"movies": movies})
}

func (h *Handler) HandleSearchPeople(ctx *gin.Context) {
	people, err := h.app.MovieService.SearchPeople(currentUserID(ctx), ctx.Param("query"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Search results", gin.H{"people": people})
}

func (h *Handler) HandleSearchShows(ctx *gin.Context) {
	shows, err := h.app.MovieService.SearchShows(currentUserID(ctx), ctx.Param("query"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Search results", gin.H{"shows": shows})
}

func (h *Handler) HandleAddSearchEntry(ctx *gin.Context) {
	var req domain.SearchEntryInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.badRequest(ctx, err)
		return
	}

	entry, err := h.app.MovieService.AddSearchEntry(currentUserID(ctx), req)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusCreated, "Search entry recorded", gin.H{"entry": entry})
}

func (h *Handler) HandleSearchHistory(ctx *gin.Context) {
	entries, err := h.app.MovieService.SearchHistory(currentUserID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Search history", gin.H{"history": entries})
}

func (h *Handler) HandleDeleteSearchEntry(ctx *gin.Context) {
	entryID, err := strconv.ParseUint(ctx.Param("entryId"), 10, 32)
	if err != nil {
		h.badRequest(ctx, err)
		return
	}

	if err := h.app.MovieService.DeleteSearchEntry(currentUserID(ctx), uint(entryID)); err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Search entry removed", nil)
}
