package domain

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/klixid/movie-booking/internal/model"
	"github.com/klixid/movie-booking/internal/repository"
)

type TheaterStats struct {
	TotalShowtimes    int64   `json:"totalShowtimes"`
	UpcomingShowtimes int64   `json:"upcomingShowtimes"`
	TotalBookings     int64   `json:"totalBookings"`
	TotalRevenue      float64 `json:"totalRevenue"`
	OccupancyRate     float64 `json:"occupancyRate"`

	PopularMovies []repository.MovieBookingCount `json:"popularMovies"`
}

type BookingStats struct {
	TotalBookings     int64   `json:"totalBookings"`
	ConfirmedBookings int64   `json:"confirmedBookings"`
	CancelledBookings int64   `json:"cancelledBookings"`
	PendingBookings   int64   `json:"pendingBookings"`
	TotalRevenue      float64 `json:"totalRevenue"`

	PaymentMethods []repository.PaymentMethodCount `json:"paymentMethods"`
	Daily          []repository.DailyBookingStat   `json:"daily"`
}

type StatsService interface {
	TheaterStats() (*TheaterStats, error)
	BookingStats(since, until *time.Time) (*BookingStats, error)
}

type statsService struct {
	db     *gorm.DB
	logger *zap.Logger

	bookings  repository.BookingRepo
	showtimes repository.ShowtimeRepo

	now func() time.Time
}

var _ StatsService = (*statsService)(nil)

func NewStatsService(db *gorm.DB, logger *zap.Logger,
	bookingRepo repository.BookingRepo, showtimeRepo repository.ShowtimeRepo) *statsService {
	return &statsService{
		db:        db,
		logger:    logger,
		bookings:  bookingRepo,
		showtimes: showtimeRepo,
		now:       time.Now,
	}
}

// TheaterStats aggregates a dashboard snapshot. Occupancy is computed
// over showtimes that have not finished yet, so past screenings do not
// drag the rate down.
func (s *statsService) TheaterStats() (*TheaterStats, error) {
	out := &TheaterStats{}

	var err error
	if out.TotalShowtimes, err = s.showtimes.CountAll(); err != nil {
		return nil, err
	}
	if out.UpcomingShowtimes, err = s.showtimes.CountStartingAfter(s.now()); err != nil {
		return nil, err
	}
	if out.TotalBookings, err = s.bookings.Count(nil, nil); err != nil {
		return nil, err
	}
	if out.TotalRevenue, err = s.bookings.SumCompletedRevenue(nil, nil); err != nil {
		return nil, err
	}

	unfinished, err := s.showtimes.ListUnfinished(s.now())
	if err != nil {
		return nil, err
	}
	var total, booked int
	for _, st := range unfinished {
		total += st.TotalSeats
		booked += st.TotalSeats - st.AvailableSeats
	}
	if total > 0 {
		out.OccupancyRate = float64(booked) / float64(total)
	}

	if out.PopularMovies, err = s.bookings.PopularMovies(5); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *statsService) BookingStats(since, until *time.Time) (*BookingStats, error) {
	out := &BookingStats{}

	var err error
	if out.TotalBookings, err = s.bookings.Count(since, until); err != nil {
		return nil, err
	}
	if out.ConfirmedBookings, err = s.bookings.CountByStatus(model.BookingConfirmed, since, until); err != nil {
		return nil, err
	}
	if out.CancelledBookings, err = s.bookings.CountByStatus(model.BookingCancelled, since, until); err != nil {
		return nil, err
	}
	if out.PendingBookings, err = s.bookings.CountByStatus(model.BookingPending, since, until); err != nil {
		return nil, err
	}
	if out.TotalRevenue, err = s.bookings.SumCompletedRevenue(since, until); err != nil {
		return nil, err
	}
	if out.PaymentMethods, err = s.bookings.PaymentMethodCounts(since, until); err != nil {
		return nil, err
	}
	if out.Daily, err = s.bookings.DailyStats(since, until); err != nil {
		return nil, err
	}
	return out, nil
}
