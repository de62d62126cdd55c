package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/cppla/groupfeed/models"
)

// PostFilter narrows a post listing. Zero value means every post.
type PostFilter struct {
	AuthorID   *uint
	GroupID    *uint
	FollowerID *uint // posts by authors this user follows
}

type PostRepository interface {
	Create(ctx context.Context, p *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, f PostFilter) (int64, error)
	List(ctx context.Context, f PostFilter, offset, limit int) ([]models.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, p *models.Post) error {
	return translate(r.db.WithContext(ctx).Omit("Author", "Group", "Comments").Create(p).Error)
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var p models.Post
	if err := r.db.WithContext(ctx).Preload("Author").Preload("Group").First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// Update rewrites the editable columns only; created_at and author never change.
func (r *postRepository) Update(ctx context.Context, p *models.Post) error {
	err := r.db.WithContext(ctx).Model(&models.Post{ID: p.ID}).
		Select("text", "group_id", "image").
		Updates(map[string]any{"text": p.Text, "group_id": p.GroupID, "image": p.Image}).Error
	return translate(err)
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *postRepository) Count(ctx context.Context, f PostFilter) (int64, error) {
	var total int64
	err := r.filtered(ctx, f).Count(&total).Error
	return total, err
}

// List returns posts newest first; equal timestamps fall back to the higher id.
func (r *postRepository) List(ctx context.Context, f PostFilter, offset, limit int) ([]models.Post, error) {
	var res []models.Post
	err := r.filtered(ctx, f).
		Preload("Author").
		Preload("Group").
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *postRepository) filtered(ctx context.Context, f PostFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Post{})
	if f.AuthorID != nil {
		q = q.Where("posts.author_id = ?", *f.AuthorID)
	}
	if f.GroupID != nil {
		q = q.Where("posts.group_id = ?", *f.GroupID)
	}
	if f.FollowerID != nil {
		// (user_id, author_id) is unique, so the join cannot duplicate posts
		q = q.Joins("JOIN follows ON follows.author_id = posts.author_id").
			Where("follows.user_id = ?", *f.FollowerID)
	}
	return q
}
