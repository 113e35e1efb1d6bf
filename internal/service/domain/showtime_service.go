package domain

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/klixid/movie-booking/internal/cache"
	"github.com/klixid/movie-booking/internal/model"
	"github.com/klixid/movie-booking/internal/repository"
	"github.com/klixid/movie-booking/internal/service"
)

type ShowtimeInput struct {
	MovieID    string
	StartTime  time.Time
	EndTime    time.Time
	Theater    string
	ScreenType model.ScreenType
	Language   string
	BasePrice  float64
}

func (in *ShowtimeInput) validate() error {
	switch {
	case in.MovieID == "":
		return fmt.Errorf("%w: movie is required", service.ErrValidation)
	case in.Theater == "":
		return fmt.Errorf("%w: theater is required", service.ErrValidation)
	case in.Language == "":
		return fmt.Errorf("%w: language is required", service.ErrValidation)
	case in.BasePrice < 0:
		return fmt.Errorf("%w: base price must not be negative", service.ErrValidation)
	case !in.EndTime.After(in.StartTime):
		return fmt.Errorf("%w: showtime must end after it starts", service.ErrValidation)
	}
	return nil
}

type ShowtimeService interface {
	CreateShowtime(in ShowtimeInput) (*model.Showtime, error)
	UpdateShowtime(showtimeID uint, in ShowtimeInput) (*model.Showtime, error)
	DeleteShowtime(showtimeID uint) error
	GetShowtimeByID(showtimeID uint) (*model.Showtime, error)
	ListFutureByMovie(movieID string) ([]model.Showtime, error)
	ShowtimeSeats(showtimeID uint) (*model.Showtime, []model.Seat, error)
}

type showtimeService struct {
	db     *gorm.DB
	cache  *cache.RedisCache
	logger *zap.Logger

	showtimes repository.ShowtimeRepo
	seats     repository.SeatRepo
	bookings  repository.BookingRepo

	now   func() time.Time
	runTx func(fn func(tx *gorm.DB) error) error
}

var _ ShowtimeService = (*showtimeService)(nil)

func NewShowtimeService(db *gorm.DB, cache *cache.RedisCache, logger *zap.Logger,
	showtimeRepo repository.ShowtimeRepo, seatRepo repository.SeatRepo,
	bookingRepo repository.BookingRepo) *showtimeService {
	s := &showtimeService{
		db:        db,
		cache:     cache,
		logger:    logger,
		showtimes: showtimeRepo,
		seats:     seatRepo,
		bookings:  bookingRepo,
		now:       time.Now,
	}
	s.runTx = func(fn func(tx *gorm.DB) error) error {
		return db.Transaction(fn)
	}
	return s
}

// CreateShowtime starts with zero seats; the provisioning path adds
// the inventory and bumps the counters afterwards.
func (s *showtimeService) CreateShowtime(in ShowtimeInput) (*model.Showtime, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	screen := in.ScreenType
	if screen == "" {
		screen = model.Screen2D
	}
	showtime := &model.Showtime{
		MovieID:    in.MovieID,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		Theater:    in.Theater,
		ScreenType: screen,
		Language:   in.Language,
		BasePrice:  in.BasePrice,
		IsActive:   true,
	}
	if err := s.showtimes.Create(showtime); err != nil {
		return nil, err
	}
	s.dropMovieCache(in.MovieID)
	return showtime, nil
}

func (s *showtimeService) UpdateShowtime(showtimeID uint, in ShowtimeInput) (*model.Showtime, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var updated *model.Showtime
	err := s.runTx(func(tx *gorm.DB) error {
		showtime, err := s.showtimes.WithTx(tx).GetByID(showtimeID)
		if err != nil {
			return notFound(err)
		}
		booked, err := s.bookings.WithTx(tx).ExistsByShowtime(showtimeID)
		if err != nil {
			return err
		}
		if booked {
			return service.ErrHasBookings
		}
		showtime.MovieID = in.MovieID
		showtime.StartTime = in.StartTime
		showtime.EndTime = in.EndTime
		showtime.Theater = in.Theater
		if in.ScreenType != "" {
			showtime.ScreenType = in.ScreenType
		}
		showtime.Language = in.Language
		showtime.BasePrice = in.BasePrice
		if err := s.showtimes.WithTx(tx).Update(showtime); err != nil {
			return err
		}
		updated = showtime
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.dropShowtimeCache(showtimeID, updated.MovieID)
	return updated, nil
}

// DeleteShowtime removes the showtime and its seats. Refused while any
// booking references the showtime, cancelled ones included: the ledger
// keeps its history.
func (s *showtimeService) DeleteShowtime(showtimeID uint) error {
	var movieID string
	err := s.runTx(func(tx *gorm.DB) error {
		showtime, err := s.showtimes.WithTx(tx).GetByID(showtimeID)
		if err != nil {
			return notFound(err)
		}
		booked, err := s.bookings.WithTx(tx).ExistsByShowtime(showtimeID)
		if err != nil {
			return err
		}
		if booked {
			return service.ErrHasBookings
		}
		if err := s.seats.WithTx(tx).DeleteByShowtime(showtimeID); err != nil {
			return err
		}
		if err := s.showtimes.WithTx(tx).Delete(showtimeID); err != nil {
			return err
		}
		movieID = showtime.MovieID
		return nil
	})
	if err != nil {
		return err
	}
	s.dropShowtimeCache(showtimeID, movieID)
	return nil
}

func (s *showtimeService) GetShowtimeByID(showtimeID uint) (*model.Showtime, error) {
	showtime, err := s.showtimes.GetByID(showtimeID)
	if err != nil {
		return nil, notFound(err)
	}
	return showtime, nil
}

func (s *showtimeService) ListFutureByMovie(movieID string) ([]model.Showtime, error) {
	key := cache.MakeMovieShowtimesKey(movieID)
	var showtimes []model.Showtime
	if s.cache != nil {
		if err := s.cache.Get(key, &showtimes); err == nil {
			return showtimes, nil
		}
	}
	showtimes, err := s.showtimes.ListFutureByMovie(movieID, s.now())
	if err != nil {
		return nil, err
	}
	s.fill(key, showtimes)
	return showtimes, nil
}

// ShowtimeSeats returns the showtime together with its seat map. The
// cached copy is display data; booking decisions re-check the rows.
func (s *showtimeService) ShowtimeSeats(showtimeID uint) (*model.Showtime, []model.Seat, error) {
	showtime, err := s.showtimes.GetByID(showtimeID)
	if err != nil {
		return nil, nil, notFound(err)
	}

	key := cache.MakeShowtimeSeatsKey(showtimeID)
	var seats []model.Seat
	if s.cache != nil {
		if err := s.cache.Get(key, &seats); err == nil {
			return showtime, seats, nil
		}
	}
	seats, err = s.seats.ListByShowtime(showtimeID)
	if err != nil {
		return nil, nil, err
	}
	s.fill(key, seats)
	return showtime, seats, nil
}

func (s *showtimeService) fill(key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(key, value, cache.ShowtimeTTL); err != nil {
		s.logger.Warn("failed to fill showtime cache", zap.String("key", key), zap.Error(err))
	}
}

func (s *showtimeService) dropMovieCache(movieID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(cache.MakeMovieShowtimesKey(movieID)); err != nil {
		s.logger.Warn("failed to drop movie showtimes cache", zap.String("movie_id", movieID), zap.Error(err))
	}
}

func (s *showtimeService) dropShowtimeCache(showtimeID uint, movieID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateShowtime(showtimeID, movieID); err != nil {
		s.logger.Warn("failed to drop showtime cache", zap.Uint("showtime_id", showtimeID), zap.Error(err))
	}
}
