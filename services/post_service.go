package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cppla/groupfeed/models"
	"github.com/cppla/groupfeed/repositories"
	"github.com/cppla/groupfeed/utils"
)

// PostDetail is a single post with its comments, newest first.
type PostDetail struct {
	Post     *models.Post     `json:"post"`
	Comments []models.Comment `json:"comments"`
}

// PostService handles post and comment writes plus the post detail view.
// Writes never touch the page cache; cached feeds catch up when their entries expire.
type PostService struct {
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	groups   repositories.GroupRepository
}

func NewPostService(posts repositories.PostRepository, comments repositories.CommentRepository, groups repositories.GroupRepository) *PostService {
	return &PostService{posts: posts, comments: comments, groups: groups}
}

// Create publishes a new post authored by the actor.
func (s *PostService) Create(ctx context.Context, actor *Actor, form PostForm) (*models.Post, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if err := s.clean(ctx, &form); err != nil {
		return nil, err
	}
	post := &models.Post{Text: form.Text, GroupID: form.GroupID, Image: form.Image, AuthorID: actor.ID}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.posts.GetByID(ctx, post.ID)
}

// Get returns a post and its comments.
func (s *PostService) Get(ctx context.Context, id uint) (*PostDetail, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "post %d", id)
	}
	comments, err := s.comments.ListByPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return &PostDetail{Post: post, Comments: comments}, nil
}

// Edit rewrites text, group and image. Only the author may edit.
func (s *PostService) Edit(ctx context.Context, actor *Actor, id uint, form PostForm) (*models.Post, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "post %d", id)
	}
	if post.AuthorID != actor.ID {
		return nil, ErrForbidden
	}
	if err := s.clean(ctx, &form); err != nil {
		return nil, err
	}
	post.Text, post.GroupID, post.Image = form.Text, form.GroupID, form.Image
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return s.posts.GetByID(ctx, id)
}

// Delete removes a post and its comments. Authors and admins may delete.
func (s *PostService) Delete(ctx context.Context, actor *Actor, id uint) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "post %d", id)
	}
	if post.AuthorID != actor.ID && !actor.Admin {
		return ErrForbidden
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return notFound(err, "post %d", id)
	}
	return nil
}

// AddComment attaches a comment by the actor to an existing post.
func (s *PostService) AddComment(ctx context.Context, actor *Actor, postID uint, form CommentForm) (*models.Comment, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, notFound(err, "post %d", postID)
	}
	form.Text = utils.Sanitize(strings.TrimSpace(form.Text))
	if err := validateForm(form); err != nil {
		return nil, err
	}
	c := &models.Comment{PostID: postID, AuthorID: actor.ID, Text: form.Text}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

// clean sanitizes and validates a post form, including that the group exists.
func (s *PostService) clean(ctx context.Context, form *PostForm) error {
	form.Text = utils.Sanitize(strings.TrimSpace(form.Text))
	form.Image = strings.TrimSpace(form.Image)
	if err := validateForm(*form); err != nil {
		return err
	}
	if form.GroupID != nil {
		if _, err := s.groups.GetByID(ctx, *form.GroupID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return fieldError("group", "select a valid group")
			}
			return fmt.Errorf("load group: %w", err)
		}
	}
	return nil
}
