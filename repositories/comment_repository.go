package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/cppla/groupfeed/models"
)

type CommentRepository interface {
	Create(ctx context.Context, c *models.Comment) error
	ListByPost(ctx context.Context, postID uint) ([]models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) Create(ctx context.Context, c *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit("Author").Create(c).Error; err != nil {
		return translate(err)
	}
	return translate(r.db.WithContext(ctx).Preload("Author").First(c, c.ID).Error)
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	var res []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&res).Error
	return res, err
}
