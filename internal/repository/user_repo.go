package repository

import (
	"context"

	"github.com/klixid/movie-booking/internal/model"
	"gorm.io/gorm"
)

type UserRepo interface {
	WithTx(tx *gorm.DB) UserRepo
	Create(user *model.User) error
	GetByID(id uint) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	AppendSearch(entry *model.SearchEntry) error
	ListSearch(userID uint) ([]model.SearchEntry, error)
	DeleteSearch(userID, entryID uint) (int64, error)
}

type userRepoGorm struct {
	db *gorm.DB
}

var _ UserRepo = (*userRepoGorm)(nil)

func NewUserRepoGorm(db *gorm.DB) *userRepoGorm {
	return &userRepoGorm{
		db: db,
	}
}

func (r *userRepoGorm) WithTx(tx *gorm.DB) UserRepo {
	return &userRepoGorm{
		db: tx,
	}
}

func (r *userRepoGorm) Create(user *model.User) error {
	ctx := context.Background()
	if err := gorm.G[model.User](r.db).Create(ctx, user); err != nil {
		return err
	}
	return nil
}

func (r *userRepoGorm) GetByID(id uint) (*model.User, error) {
	ctx := context.Background()
	user, err := gorm.G[model.User](r.db).Where(&model.User{ID: id}).First(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepoGorm) GetByEmail(email string) (*model.User, error) {
	ctx := context.Background()
	user, err := gorm.G[model.User](r.db).Where(&model.User{Email: email}).First(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepoGorm) AppendSearch(entry *model.SearchEntry) error {
	ctx := context.Background()
	if err := gorm.G[model.SearchEntry](r.db).Create(ctx, entry); err != nil {
		return err
	}
	return nil
}

func (r *userRepoGorm) ListSearch(userID uint) ([]model.SearchEntry, error) {
	var entries []model.SearchEntry
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *userRepoGorm) DeleteSearch(userID, entryID uint) (int64, error) {
	ctx := context.Background()
	deleted, err := gorm.G[model.SearchEntry](r.db).
		Where(&model.SearchEntry{ID: entryID, UserID: userID}).
		Delete(ctx)
	return int64(deleted), err
}
