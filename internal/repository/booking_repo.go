package repository

import (
	"context"
	"time"

	"github.com/klixid/movie-booking/internal/model"
	"gorm.io/gorm"
)

// PaymentMethodCount is one row of the payment-method breakdown.
type PaymentMethodCount struct {
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	Count         int64               `json:"count"`
}

// DailyBookingStat aggregates bookings per calendar day. Revenue only
// counts completed payments.
type DailyBookingStat struct {
	Day     string  `json:"day"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

// MovieBookingCount ranks movies by completed bookings.
type MovieBookingCount struct {
	MovieID string `json:"movie_id"`
	Count   int64  `json:"count"`
}

type BookingRepo interface {
	WithTx(tx *gorm.DB) BookingRepo
	Create(booking *model.Booking) error
	GetByID(id uint) (*model.Booking, error)
	ListByUser(userID uint) ([]model.Booking, error)
	ExistsByShowtime(showtimeID uint) (bool, error)
	UpdateBookingStatusIf(id uint, from, to model.BookingStatus) (int64, error)
	UpdatePaymentStatusIf(id uint, from, to model.PaymentStatus) (int64, error)
	Count(since, until *time.Time) (int64, error)
	CountByStatus(status model.BookingStatus, since, until *time.Time) (int64, error)
	SumCompletedRevenue(since, until *time.Time) (float64, error)
	PaymentMethodCounts(since, until *time.Time) ([]PaymentMethodCount, error)
	DailyStats(since, until *time.Time) ([]DailyBookingStat, error)
	PopularMovies(limit int) ([]MovieBookingCount, error)
}

type bookingRepoGorm struct {
	db *gorm.DB
}

var _ BookingRepo = (*bookingRepoGorm)(nil)

func NewBookingRepoGorm(db *gorm.DB) *bookingRepoGorm {
	return &bookingRepoGorm{
		db: db,
	}
}

func (r *bookingRepoGorm) WithTx(tx *gorm.DB) BookingRepo {
	return &bookingRepoGorm{
		db: tx,
	}
}

func (r *bookingRepoGorm) Create(booking *model.Booking) error {
	ctx := context.Background()
	if err := gorm.G[model.Booking](r.db).Create(ctx, booking); err != nil {
		return err
	}
	return nil
}

func (r *bookingRepoGorm) GetByID(id uint) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.Preload("Seats").First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepoGorm) ListByUser(userID uint) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.Preload("Seats").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepoGorm) ExistsByShowtime(showtimeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Booking{}).Where("showtime_id = ?", showtimeID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateBookingStatusIf flips the booking status only from the expected
// state, so lifecycle transitions never race each other.
func (r *bookingRepoGorm) UpdateBookingStatusIf(id uint, from, to model.BookingStatus) (int64, error) {
	res := r.db.Model(&model.Booking{}).
		Where("id = ? AND booking_status = ?", id, from).
		Update("booking_status", to)
	return res.RowsAffected, res.Error
}

func (r *bookingRepoGorm) UpdatePaymentStatusIf(id uint, from, to model.PaymentStatus) (int64, error) {
	res := r.db.Model(&model.Booking{}).
		Where("id = ? AND payment_status = ?", id, from).
		Update("payment_status", to)
	return res.RowsAffected, res.Error
}

func inRange(q *gorm.DB, since, until *time.Time) *gorm.DB {
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	if until != nil {
		q = q.Where("created_at <= ?", *until)
	}
	return q
}

func (r *bookingRepoGorm) Count(since, until *time.Time) (int64, error) {
	var count int64
	err := inRange(r.db.Model(&model.Booking{}), since, until).Count(&count).Error
	return count, err
}

func (r *bookingRepoGorm) CountByStatus(status model.BookingStatus, since, until *time.Time) (int64, error) {
	var count int64
	err := inRange(r.db.Model(&model.Booking{}).Where("booking_status = ?", status), since, until).
		Count(&count).Error
	return count, err
}

func (r *bookingRepoGorm) SumCompletedRevenue(since, until *time.Time) (float64, error) {
	var revenue float64
	err := inRange(r.db.Model(&model.Booking{}).Where("payment_status = ?", model.PaymentCompleted), since, until).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenue).Error
	return revenue, err
}

func (r *bookingRepoGorm) PaymentMethodCounts(since, until *time.Time) ([]PaymentMethodCount, error) {
	var counts []PaymentMethodCount
	err := inRange(r.db.Model(&model.Booking{}).Where("payment_status = ?", model.PaymentCompleted), since, until).
		Select("payment_method, COUNT(*) AS count").
		Group("payment_method").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *bookingRepoGorm) DailyStats(since, until *time.Time) ([]DailyBookingStat, error) {
	var stats []DailyBookingStat
	err := inRange(r.db.Model(&model.Booking{}), since, until).
		Select(`to_char(created_at, 'YYYY-MM-DD') AS day,
			COUNT(*) AS count,
			COALESCE(SUM(CASE WHEN payment_status = ? THEN total_amount ELSE 0 END), 0) AS revenue`,
			model.PaymentCompleted).
		Group("day").
		Order("day ASC").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *bookingRepoGorm) PopularMovies(limit int) ([]MovieBookingCount, error) {
	var counts []MovieBookingCount
	err := r.db.Model(&model.Booking{}).
		Where("booking_status = ?", model.BookingCompleted).
		Select("movie_id, COUNT(*) AS count").
		Group("movie_id").
		Order("count DESC").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
