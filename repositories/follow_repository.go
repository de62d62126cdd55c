package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/cppla/groupfeed/models"
)

type FollowRepository interface {
	Create(ctx context.Context, userID, authorID uint) error
	Delete(ctx context.Context, userID, authorID uint) error
	Exists(ctx context.Context, userID, authorID uint) (bool, error)
	CountFollowings(ctx context.Context, userID uint) (int64, error)
	ListFollowings(ctx context.Context, userID uint, offset, limit int) ([]models.User, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

// Create inserts the edge. The unique (user_id, author_id) index rejects a
// duplicate, which surfaces as ErrAlreadyExists.
func (r *followRepository) Create(ctx context.Context, userID, authorID uint) error {
	f := &models.Follow{UserID: &userID, AuthorID: &authorID}
	return translate(r.db.WithContext(ctx).Create(f).Error)
}

func (r *followRepository) Delete(ctx context.Context, userID, authorID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{}).Error
}

func (r *followRepository) Exists(ctx context.Context, userID, authorID uint) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *followRepository) CountFollowings(ctx context.Context, userID uint) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ? AND author_id IS NOT NULL", userID).
		Count(&cnt).Error
	return cnt, err
}

// ListFollowings returns the authors userID follows, most recent subscription first.
func (r *followRepository) ListFollowings(ctx context.Context, userID uint, offset, limit int) ([]models.User, error) {
	var res []models.User
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.user_id = ?", userID).
		Order("follows.created_at DESC").
		Order("follows.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}
