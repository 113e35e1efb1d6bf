package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/klixid/movie-booking/internal/model"
)

type ShowtimeRepo interface {
	WithTx(tx *gorm.DB) ShowtimeRepo
	Create(showtime *model.Showtime) error
	GetByID(id uint) (*model.Showtime, error)
	Update(showtime *model.Showtime) error
	Delete(id uint) error
	ListFutureByMovie(movieID string, after time.Time) ([]model.Showtime, error)
	ListAll() ([]model.Showtime, error)
	ListUnfinished(after time.Time) ([]model.Showtime, error)
	CountAll() (int64, error)
	CountStartingAfter(t time.Time) (int64, error)
	AddSeats(id uint, count int) (int64, error)
	AdjustAvailableSeats(id uint, delta int) (int64, error)
	RecountSeats(id uint) error
}

type showtimeRepoGorm struct {
	db *gorm.DB
}

var _ ShowtimeRepo = (*showtimeRepoGorm)(nil)

func NewShowtimeRepoGorm(db *gorm.DB) *showtimeRepoGorm {
	return &showtimeRepoGorm{
		db: db,
	}
}

func (r *showtimeRepoGorm) WithTx(tx *gorm.DB) ShowtimeRepo {
	return &showtimeRepoGorm{
		db: tx,
	}
}

func (r *showtimeRepoGorm) Create(showtime *model.Showtime) error {
	ctx := context.Background()
	if err := gorm.G[model.Showtime](r.db).Create(ctx, showtime); err != nil {
		return err
	}
	return nil
}

func (r *showtimeRepoGorm) GetByID(id uint) (*model.Showtime, error) {
	ctx := context.Background()
	showtime, err := gorm.G[model.Showtime](r.db).Where(&model.Showtime{ID: id}).First(ctx)
	if err != nil {
		return nil, err
	}
	return &showtime, nil
}

func (r *showtimeRepoGorm) Update(showtime *model.Showtime) error {
	return r.db.Save(showtime).Error
}

func (r *showtimeRepoGorm) Delete(id uint) error {
	ctx := context.Background()
	_, err := gorm.G[model.Showtime](r.db).Where(&model.Showtime{ID: id}).Delete(ctx)
	return err
}

func (r *showtimeRepoGorm) ListFutureByMovie(movieID string, after time.Time) ([]model.Showtime, error) {
	var showtimes []model.Showtime
	err := r.db.
		Where("movie_id = ? AND start_time > ? AND is_active = ?", movieID, after, true).
		Order("start_time ASC").
		Find(&showtimes).Error
	if err != nil {
		return nil, err
	}
	return showtimes, nil
}

func (r *showtimeRepoGorm) ListAll() ([]model.Showtime, error) {
	ctx := context.Background()
	showtimes, err := gorm.G[model.Showtime](r.db).Find(ctx)
	if err != nil {
		return nil, err
	}
	return showtimes, nil
}

func (r *showtimeRepoGorm) ListUnfinished(after time.Time) ([]model.Showtime, error) {
	var showtimes []model.Showtime
	err := r.db.Where("end_time > ?", after).Find(&showtimes).Error
	if err != nil {
		return nil, err
	}
	return showtimes, nil
}

func (r *showtimeRepoGorm) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.Showtime{}).Count(&count).Error
	return count, err
}

func (r *showtimeRepoGorm) CountStartingAfter(t time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Showtime{}).Where("start_time > ?", t).Count(&count).Error
	return count, err
}

// AddSeats bumps both counters when new seats are provisioned.
func (r *showtimeRepoGorm) AddSeats(id uint, count int) (int64, error) {
	res := r.db.Model(&model.Showtime{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_seats":     gorm.Expr("total_seats + ?", count),
			"available_seats": gorm.Expr("available_seats + ?", count),
		})
	return res.RowsAffected, res.Error
}

// AdjustAvailableSeats moves the available counter by delta, refusing
// any move that would leave it outside [0, total_seats]. The counter is
// display data; a refused move means the projection drifted and needs a
// RecountSeats, not that a booking is invalid.
func (r *showtimeRepoGorm) AdjustAvailableSeats(id uint, delta int) (int64, error) {
	res := r.db.Model(&model.Showtime{}).
		Where("id = ? AND available_seats + ? BETWEEN 0 AND total_seats", id, delta).
		Update("available_seats", gorm.Expr("available_seats + ?", delta))
	return res.RowsAffected, res.Error
}

// RecountSeats rebuilds both counters from the seats table.
func (r *showtimeRepoGorm) RecountSeats(id uint) error {
	return r.db.Model(&model.Showtime{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_seats": gorm.Expr(
				"(SELECT count(*) FROM seats WHERE seats.showtime_id = showtimes.id AND seats.is_active)"),
			"available_seats": gorm.Expr(
				"(SELECT count(*) FROM seats WHERE seats.showtime_id = showtimes.id AND seats.is_active AND NOT seats.is_booked)"),
		}).Error
}
