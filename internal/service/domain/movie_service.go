package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/klixid/movie-booking/internal/cache"
	"github.com/klixid/movie-booking/internal/model"
	"github.com/klixid/movie-booking/internal/repository"
	"github.com/klixid/movie-booking/internal/service"
	"github.com/klixid/movie-booking/internal/tmdb"
)

// MovieShowtimes pairs catalog details with the screenings that are
// still open for booking.
type MovieShowtimes struct {
	Movie     *tmdb.Movie      `json:"movie,omitempty"`
	Showtimes []model.Showtime `json:"showtimes"`
}

// SearchEntryInput describes a search result the user opened, kept so
// the frontend can show a "recently viewed" list.
type SearchEntryInput struct {
	TMDBID     int64  `json:"tmdbId"`
	Title      string `json:"title"`
	Image      string `json:"image"`
	SearchType string `json:"searchType"`
}

type MovieService interface {
	Trending() ([]tmdb.Movie, error)
	NowPlaying() ([]tmdb.Movie, error)
	MovieDetails(movieID string) (*tmdb.Movie, error)
	MovieTrailers(movieID string) ([]tmdb.Video, error)
	SimilarMovies(movieID string) ([]tmdb.Movie, error)
	MovieRecommendations(movieID string) ([]tmdb.Movie, error)
	MoviesByCategory(category string) ([]tmdb.Movie, error)
	MovieShowtimes(movieID string) (*MovieShowtimes, error)
	SearchMovies(userID uint, query string) ([]tmdb.Movie, error)
	SearchPeople(userID uint, query string) ([]tmdb.Person, error)
	SearchShows(userID uint, query string) ([]tmdb.Show, error)
	AddSearchEntry(userID uint, in SearchEntryInput) (*model.SearchEntry, error)
	SearchHistory(userID uint) ([]model.SearchEntry, error)
	DeleteSearchEntry(userID, entryID uint) error
}

type movieService struct {
	catalog *tmdb.Client
	cache   *cache.RedisCache
	logger  *zap.Logger

	users     repository.UserRepo
	showtimes repository.ShowtimeRepo

	now func() time.Time
}

var _ MovieService = (*movieService)(nil)

func NewMovieService(catalog *tmdb.Client, cache *cache.RedisCache, logger *zap.Logger,
	userRepo repository.UserRepo, showtimeRepo repository.ShowtimeRepo) *movieService {
	return &movieService{
		catalog:   catalog,
		cache:     cache,
		logger:    logger,
		users:     userRepo,
		showtimes: showtimeRepo,
		now:       time.Now,
	}
}

func (s *movieService) Trending() ([]tmdb.Movie, error) {
	return s.catalog.TrendingMovies()
}

func (s *movieService) NowPlaying() ([]tmdb.Movie, error) {
	return s.catalog.NowPlayingMovies()
}

func (s *movieService) MovieDetails(movieID string) (*tmdb.Movie, error) {
	if movieID == "" {
		return nil, fmt.Errorf("%w: movieId is required", service.ErrValidation)
	}

	key := cache.MakeMovieDetailsKey(movieID)
	if s.cache != nil {
		var cached tmdb.Movie
		err := s.cache.Get(key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("movie details cache read failed", zap.String("movie_id", movieID), zap.Error(err))
		}
	}

	movie, err := s.catalog.GetMovie(movieID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(key, movie, cache.CatalogTTL); err != nil {
			s.logger.Warn("movie details cache write failed", zap.String("movie_id", movieID), zap.Error(err))
		}
	}
	return movie, nil
}

// MovieShowtimes returns the upcoming screenings of a movie together
// with its catalog details. The catalog lookup is best effort: a slow
// or unreachable catalog never blocks the booking page.
func (s *movieService) MovieShowtimes(movieID string) (*MovieShowtimes, error) {
	if movieID == "" {
		return nil, fmt.Errorf("%w: movieId is required", service.ErrValidation)
	}

	showtimes, err := s.listFutureShowtimes(movieID)
	if err != nil {
		return nil, err
	}

	out := &MovieShowtimes{Showtimes: showtimes}
	movie, err := s.MovieDetails(movieID)
	if err != nil {
		s.logger.Warn("catalog lookup failed, serving showtimes without details",
			zap.String("movie_id", movieID), zap.Error(err))
	} else {
		out.Movie = movie
	}
	return out, nil
}

func (s *movieService) listFutureShowtimes(movieID string) ([]model.Showtime, error) {
	key := cache.MakeMovieShowtimesKey(movieID)
	if s.cache != nil {
		var cached []model.Showtime
		err := s.cache.Get(key, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("showtime cache read failed", zap.String("movie_id", movieID), zap.Error(err))
		}
	}

	showtimes, err := s.showtimes.ListFutureByMovie(movieID, s.now())
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(key, showtimes, cache.ShowtimeTTL); err != nil {
			s.logger.Warn("showtime cache write failed", zap.String("movie_id", movieID), zap.Error(err))
		}
	}
	return showtimes, nil
}

func (s *movieService) MovieTrailers(movieID string) ([]tmdb.Video, error) {
	if movieID == "" {
		return nil, fmt.Errorf("%w: movieId is required", service.ErrValidation)
	}
	return s.catalog.MovieVideos(movieID)
}

func (s *movieService) SimilarMovies(movieID string) ([]tmdb.Movie, error) {
	if movieID == "" {
		return nil, fmt.Errorf("%w: movieId is required", service.ErrValidation)
	}
	return s.catalog.SimilarMovies(movieID)
}

func (s *movieService) MovieRecommendations(movieID string) ([]tmdb.Movie, error) {
	if movieID == "" {
		return nil, fmt.Errorf("%w: movieId is required", service.ErrValidation)
	}
	return s.catalog.MovieRecommendations(movieID)
}

func (s *movieService) MoviesByCategory(category string) ([]tmdb.Movie, error) {
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", service.ErrValidation)
	}
	return s.catalog.MoviesByCategory(category)
}

func (s *movieService) SearchMovies(userID uint, query string) ([]tmdb.Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", service.ErrValidation)
	}
	movies, err := s.catalog.SearchMovies(query)
	if err != nil {
		return nil, err
	}
	if len(movies) > 0 {
		s.recordSearch(userID, model.SearchEntry{
			TMDBID:     movies[0].ID,
			Title:      movies[0].Title,
			Image:      movies[0].PosterPath,
			SearchType: "movie",
		})
	}
	return movies, nil
}

func (s *movieService) SearchPeople(userID uint, query string) ([]tmdb.Person, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", service.ErrValidation)
	}
	people, err := s.catalog.SearchPerson(query)
	if err != nil {
		return nil, err
	}
	if len(people) > 0 {
		s.recordSearch(userID, model.SearchEntry{
			TMDBID:     people[0].ID,
			Title:      people[0].Name,
			Image:      people[0].ProfilePath,
			SearchType: "person",
		})
	}
	return people, nil
}

func (s *movieService) SearchShows(userID uint, query string) ([]tmdb.Show, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", service.ErrValidation)
	}
	shows, err := s.catalog.SearchShows(query)
	if err != nil {
		return nil, err
	}
	if len(shows) > 0 {
		s.recordSearch(userID, model.SearchEntry{
			TMDBID:     shows[0].ID,
			Title:      shows[0].Name,
			Image:      shows[0].PosterPath,
			SearchType: "tv",
		})
	}
	return shows, nil
}

// recordSearch appends the top hit of a successful search to the
// caller's history. Best effort: a failed append loses a history row,
// never the search response.
func (s *movieService) recordSearch(userID uint, entry model.SearchEntry) {
	if userID == 0 {
		return
	}
	entry.UserID = userID
	if err := s.users.AppendSearch(&entry); err != nil {
		s.logger.Warn("failed to record search history",
			zap.Uint("user_id", userID), zap.String("title", entry.Title), zap.Error(err))
	}
}

func (s *movieService) AddSearchEntry(userID uint, in SearchEntryInput) (*model.SearchEntry, error) {
	if in.TMDBID == 0 || in.Title == "" {
		return nil, fmt.Errorf("%w: tmdbId and title are required", service.ErrValidation)
	}
	switch in.SearchType {
	case "movie", "tv", "person":
	default:
		return nil, fmt.Errorf("%w: searchType must be movie, tv or person", service.ErrValidation)
	}

	entry := &model.SearchEntry{
		UserID:     userID,
		TMDBID:     in.TMDBID,
		Title:      in.Title,
		Image:      in.Image,
		SearchType: in.SearchType,
	}
	if err := s.users.AppendSearch(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *movieService) SearchHistory(userID uint) ([]model.SearchEntry, error) {
	return s.users.ListSearch(userID)
}

func (s *movieService) DeleteSearchEntry(userID, entryID uint) error {
	deleted, err := s.users.DeleteSearch(userID, entryID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return service.ErrNotFound
	}
	return nil
}
