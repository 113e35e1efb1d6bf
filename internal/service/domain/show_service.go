package domain

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/klixid/movie-booking/internal/cache"
	"github.com/klixid/movie-booking/internal/service"
	"github.com/klixid/movie-booking/internal/tmdb"
)

// ShowService is the TV side of the catalog. Shows are browse-only;
// nothing in the booking flow references them, so every operation is a
// straight catalog proxy.
type ShowService interface {
	TrendingShows() ([]tmdb.Show, error)
	PopularShows() ([]tmdb.Show, error)
	ShowDetails(showID string) (*tmdb.Show, error)
	ShowTrailers(showID string) ([]tmdb.Video, error)
	SimilarShows(showID string) ([]tmdb.Show, error)
	ShowRecommendations(showID string) ([]tmdb.Show, error)
	ShowKeywords(showID string) ([]tmdb.Keyword, error)
	ShowsByCategory(category string) ([]tmdb.Show, error)
}

type showService struct {
	catalog *tmdb.Client
	cache   *cache.RedisCache
	logger  *zap.Logger
}

var _ ShowService = (*showService)(nil)

func NewShowService(catalog *tmdb.Client, cache *cache.RedisCache, logger *zap.Logger) *showService {
	return &showService{
		catalog: catalog,
		cache:   cache,
		logger:  logger,
	}
}

func (s *showService) TrendingShows() ([]tmdb.Show, error) {
	return s.catalog.TrendingShows()
}

func (s *showService) PopularShows() ([]tmdb.Show, error) {
	return s.catalog.ShowsByCategory("popular")
}

func (s *showService) ShowDetails(showID string) (*tmdb.Show, error) {
	if showID == "" {
		return nil, fmt.Errorf("%w: showId is required", service.ErrValidation)
	}

	key := cache.MakeShowDetailsKey(showID)
	if s.cache != nil {
		var cached tmdb.Show
		err := s.cache.Get(key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("show details cache read failed", zap.String("show_id", showID), zap.Error(err))
		}
	}

	show, err := s.catalog.GetShow(showID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(key, show, cache.CatalogTTL); err != nil {
			s.logger.Warn("show details cache write failed", zap.String("show_id", showID), zap.Error(err))
		}
	}
	return show, nil
}

func (s *showService) ShowTrailers(showID string) ([]tmdb.Video, error) {
	if showID == "" {
		return nil, fmt.Errorf("%w: showId is required", service.ErrValidation)
	}
	return s.catalog.ShowVideos(showID)
}

func (s *showService) SimilarShows(showID string) ([]tmdb.Show, error) {
	if showID == "" {
		return nil, fmt.Errorf("%w: showId is required", service.ErrValidation)
	}
	return s.catalog.SimilarShows(showID)
}

func (s *showService) ShowRecommendations(showID string) ([]tmdb.Show, error) {
	if showID == "" {
		return nil, fmt.Errorf("%w: showId is required", service.ErrValidation)
	}
	return s.catalog.ShowRecommendations(showID)
}

func (s *showService) ShowKeywords(showID string) ([]tmdb.Keyword, error) {
	if showID == "" {
		return nil, fmt.Errorf("%w: showId is required", service.ErrValidation)
	}
	return s.catalog.ShowKeywords(showID)
}

func (s *showService) ShowsByCategory(category string) ([]tmdb.Show, error) {
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", service.ErrValidation)
	}
	return s.catalog.ShowsByCategory(category)
}
