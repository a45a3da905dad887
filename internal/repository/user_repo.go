package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ademaro/linka/internal/entity"
)

// UserRepo is the repository for user operations
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a new UserRepo
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create creates a new user
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetById gets user by id
func (r *UserRepo) GetById(ctx context.Context, id int64) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername gets user by username, nil when absent
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ListOthers lists every user except excludeId, ordered by username
func (r *UserRepo) ListOthers(ctx context.Context, excludeId int64) ([]*entity.User, error) {
	var users []*entity.User
	err := r.db.WithContext(ctx).
		Where("id <> ?", excludeId).
		Order("username ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateProfile updates profile fields
func (r *UserRepo) UpdateProfile(ctx context.Context, id int64, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Updates(updates).Error
}

// SetStatus sets the presence status and refreshes last_seen_at
func (r *UserRepo) SetStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       status,
		"last_seen_at": entity.NowUnixMilli(),
	}).Error
}

// TouchLastSeen refreshes last_seen_at only, status unchanged
func (r *UserRepo) TouchLastSeen(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).
		Update("last_seen_at", entity.NowUnixMilli()).Error
}

// Exists checks if user exists
func (r *UserRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
