package domain

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/klixid/movie-booking/internal/cache"
	"github.com/klixid/movie-booking/internal/model"
	"github.com/klixid/movie-booking/internal/repository"
	"github.com/klixid/movie-booking/internal/service"
)

type SeatInput struct {
	Row        string
	SeatNumber string
	Type       model.SeatType
	Price      float64
}

type SeatService interface {
	ProvisionSeats(showtimeID uint, inputs []SeatInput) ([]model.Seat, error)
	UpdateSeat(seatID uint, in SeatInput) (*model.Seat, error)
	DeactivateSeat(seatID uint) error
}

type seatService struct {
	db     *gorm.DB
	cache  *cache.RedisCache
	logger *zap.Logger

	seats     repository.SeatRepo
	showtimes repository.ShowtimeRepo

	runTx func(fn func(tx *gorm.DB) error) error
}

var _ SeatService = (*seatService)(nil)

func NewSeatService(db *gorm.DB, cache *cache.RedisCache, logger *zap.Logger,
	seatRepo repository.SeatRepo, showtimeRepo repository.ShowtimeRepo) *seatService {
	s := &seatService{
		db:        db,
		cache:     cache,
		logger:    logger,
		seats:     seatRepo,
		showtimes: showtimeRepo,
	}
	s.runTx = func(fn func(tx *gorm.DB) error) error {
		return db.Transaction(fn)
	}
	return s
}

// ProvisionSeats creates a batch of seats for a showtime and bumps
// both aggregate counters in the same transaction.
func (s *seatService) ProvisionSeats(showtimeID uint, inputs []SeatInput) ([]model.Seat, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no seats to create", service.ErrValidation)
	}
	for _, in := range inputs {
		if in.Row == "" || in.SeatNumber == "" {
			return nil, fmt.Errorf("%w: every seat needs a row and a number", service.ErrValidation)
		}
		if in.Price < 0 {
			return nil, fmt.Errorf("%w: seat price must not be negative", service.ErrValidation)
		}
	}

	var created []model.Seat
	var movieID string
	err := s.runTx(func(tx *gorm.DB) error {
		showtime, err := s.showtimes.WithTx(tx).GetByID(showtimeID)
		if err != nil {
			return notFound(err)
		}
		movieID = showtime.MovieID

		seats := make([]model.Seat, 0, len(inputs))
		for _, in := range inputs {
			seatType := in.Type
			if seatType == "" {
				seatType = model.SeatRegular
			}
			price := in.Price
			if price == 0 {
				price = showtime.BasePrice
			}
			seats = append(seats, model.Seat{
				ShowtimeID: showtimeID,
				Row:        in.Row,
				SeatNumber: in.SeatNumber,
				Type:       seatType,
				Price:      price,
				IsActive:   true,
			})
		}
		if err := s.seats.WithTx(tx).CreateBatch(seats); err != nil {
			return err
		}
		if _, err := s.showtimes.WithTx(tx).AddSeats(showtimeID, len(seats)); err != nil {
			return err
		}
		created = seats
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.drop(showtimeID, movieID)
	return created, nil
}

func (s *seatService) UpdateSeat(seatID uint, in SeatInput) (*model.Seat, error) {
	var updated *model.Seat
	var movieID string
	err := s.runTx(func(tx *gorm.DB) error {
		seat, err := s.seats.WithTx(tx).GetByID(seatID)
		if err != nil {
			return notFound(err)
		}
		if seat.IsBooked {
			return fmt.Errorf("%w: cannot modify a booked seat", service.ErrValidation)
		}
		if in.Row != "" {
			seat.Row = in.Row
		}
		if in.SeatNumber != "" {
			seat.SeatNumber = in.SeatNumber
		}
		if in.Type != "" {
			seat.Type = in.Type
		}
		if in.Price > 0 {
			seat.Price = in.Price
		}
		if err := s.seats.WithTx(tx).Update(seat); err != nil {
			return err
		}
		showtime, err := s.showtimes.WithTx(tx).GetByID(seat.ShowtimeID)
		if err != nil {
			return err
		}
		movieID = showtime.MovieID
		updated = seat
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.drop(updated.ShowtimeID, movieID)
	return updated, nil
}

// DeactivateSeat soft-deletes a seat and rebuilds the counters from
// the remaining rows.
func (s *seatService) DeactivateSeat(seatID uint) error {
	var showtimeID uint
	var movieID string
	err := s.runTx(func(tx *gorm.DB) error {
		seat, err := s.seats.WithTx(tx).GetByID(seatID)
		if err != nil {
			return notFound(err)
		}
		if seat.IsBooked {
			return fmt.Errorf("%w: cannot remove a booked seat", service.ErrValidation)
		}
		seat.IsActive = false
		if err := s.seats.WithTx(tx).Update(seat); err != nil {
			return err
		}
		if err := s.showtimes.WithTx(tx).RecountSeats(seat.ShowtimeID); err != nil {
			return err
		}
		showtime, err := s.showtimes.WithTx(tx).GetByID(seat.ShowtimeID)
		if err != nil {
			return err
		}
		showtimeID = seat.ShowtimeID
		movieID = showtime.MovieID
		return nil
	})
	if err != nil {
		return err
	}
	s.drop(showtimeID, movieID)
	return nil
}

func (s *seatService) drop(showtimeID uint, movieID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateShowtime(showtimeID, movieID); err != nil {
		s.logger.Warn("failed to drop seat cache", zap.Uint("showtime_id", showtimeID), zap.Error(err))
	}
}
