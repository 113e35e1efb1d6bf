package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) HandleTrendingShows(ctx *gin.Context) {
	shows, err := h.app.ShowService.TrendingShows()
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Trending TV shows", gin.H{"shows": shows})
}

func (h *Handler) HandlePopularShows(ctx *gin.Context) {
	shows, err := h.app.ShowService.PopularShows()
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Popular TV shows", gin.H{"shows": shows})
}

func (h *Handler) HandleShowDetails(ctx *gin.Context) {
	show, err := h.app.ShowService.ShowDetails(ctx.Param("showId"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "TV show details", gin.H{"show": show})
}

func (h *Handler) HandleShowTrailers(ctx *gin.Context) {
	trailers, err := h.app.ShowService.ShowTrailers(ctx.Param("showId"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "TV show trailers", gin.H{"trailers": trailers})
}

func (h *Handler) HandleSimilarShows(ctx *gin.Context) {
	shows, err := h.app.ShowService.SimilarShows(ctx.Param("showId"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Similar TV shows", gin.H{"shows": shows})
}

func (h *Handler) HandleShowRecommendations(ctx *gin.Context) {
	shows, err := h.app.ShowService.ShowRecommendations(ctx.Param("showId"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "Recommended TV shows", gin.H{"shows": shows})
}

func (h *Handler) HandleShowKeywords(ctx *gin.Context) {
	keywords, err := h.app.ShowService.ShowKeywords(ctx.Param("showId"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "TV show keywords", gin.H{"keywords": keywords})
}

func (h *Handler) HandleShowsByCategory(ctx *gin.Context) {
	shows, err := h.app.ShowService.ShowsByCategory(ctx.Param("category"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, "TV shows by category", gin.H{"shows": shows})
}
