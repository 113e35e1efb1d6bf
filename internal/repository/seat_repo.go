package repository

import (
	"context"

	"github.com/klixid/movie-booking/internal/model"
	"gorm.io/gorm"
)

type SeatRepo interface {
	WithTx(tx *gorm.DB) SeatRepo
	CreateBatch(seats []model.Seat) error
	GetByID(id uint) (*model.Seat, error)
	Update(seat *model.Seat) error
	ListByShowtime(showtimeID uint) ([]model.Seat, error)
	ListByBooking(bookingID uint) ([]model.Seat, error)
	FindAvailable(showtimeID uint, seatIDs []uint) ([]model.Seat, error)
	MarkBooked(seatIDs []uint, bookingID uint) (int64, error)
	Release(bookingID uint) (int64, error)
	ReleaseCancelled() (int64, error)
	CountBooked(showtimeID uint) (int64, error)
	DeleteByShowtime(showtimeID uint) error
}

type seatRepoGorm struct {
	db *gorm.DB
}

var _ SeatRepo = (*seatRepoGorm)(nil)

func NewSeatRepoGorm(db *gorm.DB) *seatRepoGorm {
	return &seatRepoGorm{
		db: db,
	}
}

func (r *seatRepoGorm) WithTx(tx *gorm.DB) SeatRepo {
	return &seatRepoGorm{
		db: tx,
	}
}

func (r *seatRepoGorm) CreateBatch(seats []model.Seat) error {
	ctx := context.Background()
	if err := gorm.G[model.Seat](r.db).CreateInBatches(ctx, &seats, 100); err != nil {
		return err
	}
	return nil
}

func (r *seatRepoGorm) GetByID(id uint) (*model.Seat, error) {
	ctx := context.Background()
	seat, err := gorm.G[model.Seat](r.db).Where(&model.Seat{ID: id}).First(ctx)
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

func (r *seatRepoGorm) Update(seat *model.Seat) error {
	return r.db.Save(seat).Error
}

func (r *seatRepoGorm) ListByShowtime(showtimeID uint) ([]model.Seat, error) {
	var seats []model.Seat
	err := r.db.
		Where("showtime_id = ? AND is_active = ?", showtimeID, true).
		Order("row_label ASC, seat_number ASC").
		Find(&seats).Error
	if err != nil {
		return nil, err
	}
	return seats, nil
}

func (r *seatRepoGorm) ListByBooking(bookingID uint) ([]model.Seat, error) {
	var seats []model.Seat
	err := r.db.
		Where("booking_id = ?", bookingID).
		Order("row_label ASC, seat_number ASC").
		Find(&seats).Error
	if err != nil {
		return nil, err
	}
	return seats, nil
}

// FindAvailable returns the subset of the requested seats that belong
// to the showtime and are currently free. The result is advisory: the
// authoritative claim happens in MarkBooked.
func (r *seatRepoGorm) FindAvailable(showtimeID uint, seatIDs []uint) ([]model.Seat, error) {
	var seats []model.Seat
	err := r.db.
		Where("showtime_id = ? AND id IN ? AND is_booked = ? AND is_active = ?",
			showtimeID, seatIDs, false, true).
		Find(&seats).Error
	if err != nil {
		return nil, err
	}
	return seats, nil
}

// MarkBooked claims the seats with a single conditional update: only
// rows that are still unbooked match. Callers must compare the returned
// row count against len(seatIDs) and roll the transaction back on a
// short claim, so two overlapping bookings can never both win a seat.
func (r *seatRepoGorm) MarkBooked(seatIDs []uint, bookingID uint) (int64, error) {
	res := r.db.Model(&model.Seat{}).
		Where("id IN ? AND is_booked = ? AND is_active = ?", seatIDs, false, true).
		Updates(map[string]any{
			"is_booked":  true,
			"booking_id": bookingID,
		})
	return res.RowsAffected, res.Error
}

// Release frees every seat held by the booking.
func (r *seatRepoGorm) Release(bookingID uint) (int64, error) {
	res := r.db.Model(&model.Seat{}).
		Where("booking_id = ?", bookingID).
		Updates(map[string]any{
			"is_booked":  false,
			"booking_id": nil,
		})
	return res.RowsAffected, res.Error
}

// ReleaseCancelled is the reconciliation pass: it frees any seat still
// referencing a cancelled booking, e.g. after a crash between the
// status flip and the seat release.
func (r *seatRepoGorm) ReleaseCancelled() (int64, error) {
	sub := r.db.Model(&model.Booking{}).
		Select("id").
		Where("booking_status = ?", model.BookingCancelled)
	res := r.db.Model(&model.Seat{}).
		Where("booking_id IN (?)", sub).
		Updates(map[string]any{
			"is_booked":  false,
			"booking_id": nil,
		})
	return res.RowsAffected, res.Error
}

func (r *seatRepoGorm) CountBooked(showtimeID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Seat{}).
		Where("showtime_id = ? AND is_booked = ?", showtimeID, true).
		Count(&count).Error
	return count, err
}

func (r *seatRepoGorm) DeleteByShowtime(showtimeID uint) error {
	ctx := context.Background()
	_, err := gorm.G[model.Seat](r.db).Where(&model.Seat{ShowtimeID: showtimeID}).Delete(ctx)
	return err
}
