package domain

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/klixid/movie-booking/internal/cache"
	"github.com/klixid/movie-booking/internal/model"
	"github.com/klixid/movie-booking/internal/repository"
	"github.com/klixid/movie-booking/internal/service"
)

// cancellationWindow is the minimum lead time before the showtime
// start at which a booking may still be cancelled.
const cancellationWindow = 2 * time.Hour

type CreateBookingInput struct {
	UserID          uint
	MovieID         string
	ShowtimeID      uint
	SeatIDs         []uint
	PaymentMethod   model.PaymentMethod
	TotalAmount     float64
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	SpecialRequests string
}

func (in *CreateBookingInput) validate() error {
	switch {
	case in.UserID == 0:
		return fmt.Errorf("%w: user is required", service.ErrValidation)
	case in.MovieID == "":
		return fmt.Errorf("%w: movie is required", service.ErrValidation)
	case in.ShowtimeID == 0:
		return fmt.Errorf("%w: showtime is required", service.ErrValidation)
	case len(in.SeatIDs) == 0:
		return fmt.Errorf("%w: seat selection is empty", service.ErrValidation)
	case !in.PaymentMethod.Valid():
		return fmt.Errorf("%w: unknown payment method %q", service.ErrValidation, in.PaymentMethod)
	case in.TotalAmount < 0:
		return fmt.Errorf("%w: total amount must not be negative", service.ErrValidation)
	case in.CustomerName == "" || in.CustomerEmail == "" || in.CustomerPhone == "":
		return fmt.Errorf("%w: customer contact details are required", service.ErrValidation)
	}
	seen := make(map[uint]struct{}, len(in.SeatIDs))
	for _, id := range in.SeatIDs {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate seat %d in selection", service.ErrValidation, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

type BookingService interface {
	CreateBooking(in CreateBookingInput) (*model.Booking, error)
	GetBooking(bookingID uint) (*model.Booking, error)
	ListUserBookings(userID uint) ([]model.Booking, error)
	CancelBooking(bookingID uint) (*model.Booking, error)
	ReconcileSeats() (int64, error)
}

type bookingService struct {
	db     *gorm.DB
	cache  *cache.RedisCache
	logger *zap.Logger

	bookings  repository.BookingRepo
	seats     repository.SeatRepo
	showtimes repository.ShowtimeRepo

	now   func() time.Time
	runTx func(fn func(tx *gorm.DB) error) error
}

var _ BookingService = (*bookingService)(nil)

func NewBookingService(db *gorm.DB, cache *cache.RedisCache, logger *zap.Logger,
	bookingRepo repository.BookingRepo, seatRepo repository.SeatRepo,
	showtimeRepo repository.ShowtimeRepo) *bookingService {
	s := &bookingService{
		db:        db,
		cache:     cache,
		logger:    logger,
		bookings:  bookingRepo,
		seats:     seatRepo,
		showtimes: showtimeRepo,
		now:       time.Now,
	}
	s.runTx = func(fn func(tx *gorm.DB) error) error {
		return db.Transaction(fn)
	}
	return s
}

// CreateBooking reserves the requested seats and writes the booking in
// one transaction. The availability read is advisory; the conditional
// update in MarkBooked is what decides a race. A short claim rolls the
// whole transaction back, so a losing caller leaves no trace.
func (s *bookingService) CreateBooking(in CreateBookingInput) (*model.Booking, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var booking *model.Booking
	err := s.runTx(func(tx *gorm.DB) error {
		if _, err := s.showtimes.WithTx(tx).GetByID(in.ShowtimeID); err != nil {
			return notFound(err)
		}

		free, err := s.seats.WithTx(tx).FindAvailable(in.ShowtimeID, in.SeatIDs)
		if err != nil {
			return err
		}
		if len(free) != len(in.SeatIDs) {
			return service.ErrSeatUnavailable
		}

		var amount float64
		for _, seat := range free {
			amount += seat.Price
		}
		if in.TotalAmount > 0 && math.Abs(in.TotalAmount-amount) > 0.01 {
			return fmt.Errorf("%w: total amount %.2f does not match seat prices %.2f",
				service.ErrValidation, in.TotalAmount, amount)
		}

		b := &model.Booking{
			BookingCode:     model.NewBookingCode(s.now()),
			UserID:          in.UserID,
			MovieID:         in.MovieID,
			ShowtimeID:      in.ShowtimeID,
			TotalAmount:     amount,
			PaymentStatus:   model.PaymentPending,
			PaymentMethod:   in.PaymentMethod,
			BookingStatus:   model.BookingPending,
			CustomerName:    in.CustomerName,
			CustomerEmail:   in.CustomerEmail,
			CustomerPhone:   in.CustomerPhone,
			SpecialRequests: in.SpecialRequests,
		}
		if err := s.bookings.WithTx(tx).Create(b); err != nil {
			return err
		}

		claimed, err := s.seats.WithTx(tx).MarkBooked(in.SeatIDs, b.ID)
		if err != nil {
			return err
		}
		if claimed != int64(len(in.SeatIDs)) {
			// lost the race after the advisory read
			return service.ErrSeatUnavailable
		}

		if _, err := s.showtimes.WithTx(tx).AdjustAvailableSeats(in.ShowtimeID, -len(in.SeatIDs)); err != nil {
			return err
		}

		b.Seats = free
		for i := range b.Seats {
			b.Seats[i].IsBooked = true
			id := b.ID
			b.Seats[i].BookingID = &id
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(booking.ShowtimeID, booking.MovieID)
	return booking, nil
}

func (s *bookingService) GetBooking(bookingID uint) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, notFound(err)
	}
	return booking, nil
}

func (s *bookingService) ListUserBookings(userID uint) ([]model.Booking, error) {
	return s.bookings.ListByUser(userID)
}

// CancelBooking flips the booking to cancelled and releases its seats
// in one transaction. Cancellation is terminal; a second attempt fails
// with ErrBookingCancelled.
func (s *bookingService) CancelBooking(bookingID uint) (*model.Booking, error) {
	var booking *model.Booking
	err := s.runTx(func(tx *gorm.DB) error {
		b, err := s.bookings.WithTx(tx).GetByID(bookingID)
		if err != nil {
			return notFound(err)
		}
		if b.BookingStatus == model.BookingCancelled {
			return service.ErrBookingCancelled
		}

		showtime, err := s.showtimes.WithTx(tx).GetByID(b.ShowtimeID)
		if err != nil {
			return notFound(err)
		}
		if showtime.StartTime.Sub(s.now()) < cancellationWindow {
			return service.ErrCancellationWindow
		}

		flipped, err := s.bookings.WithTx(tx).UpdateBookingStatusIf(bookingID, b.BookingStatus, model.BookingCancelled)
		if err != nil {
			return err
		}
		if flipped == 0 {
			// a concurrent transition got there first
			return service.ErrBookingCancelled
		}

		released, err := s.seats.WithTx(tx).Release(bookingID)
		if err != nil {
			return err
		}
		if _, err := s.showtimes.WithTx(tx).AdjustAvailableSeats(b.ShowtimeID, int(released)); err != nil {
			return err
		}

		b.BookingStatus = model.BookingCancelled
		for i := range b.Seats {
			b.Seats[i].IsBooked = false
			b.Seats[i].BookingID = nil
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(booking.ShowtimeID, booking.MovieID)
	return booking, nil
}

// ReconcileSeats frees any seat still held by a cancelled booking and
// rebuilds the showtime counters from the seat rows. It is the
// recovery path after a crash between a status flip and the release.
func (s *bookingService) ReconcileSeats() (int64, error) {
	var released int64
	err := s.runTx(func(tx *gorm.DB) error {
		n, err := s.seats.WithTx(tx).ReleaseCancelled()
		if err != nil {
			return err
		}
		released = n
		if n == 0 {
			return nil
		}
		showtimes, err := s.showtimes.WithTx(tx).ListAll()
		if err != nil {
			return err
		}
		for _, showtime := range showtimes {
			if err := s.showtimes.WithTx(tx).RecountSeats(showtime.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if released > 0 {
		s.logger.Info("released seats held by cancelled bookings",
			zap.Int64("seats", released))
	}
	return released, nil
}

func (s *bookingService) invalidate(showtimeID uint, movieID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateShowtime(showtimeID, movieID); err != nil {
		s.logger.Warn("failed to invalidate showtime cache",
			zap.Uint("showtime_id", showtimeID), zap.Error(err))
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return service.ErrNotFound
	}
	return err
}
