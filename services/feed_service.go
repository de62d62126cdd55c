package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/cppla/groupfeed/models"
	"github.com/cppla/groupfeed/repositories"
)

// FeedPage is one page of a feed.
type FeedPage struct {
	Posts []models.Post `json:"items"`
	Meta  PageMeta      `json:"pagination"`
}

// ProfileFeed is an author's page plus whether the requester follows them.
type ProfileFeed struct {
	Author      *models.User `json:"author"`
	IsFollowing bool         `json:"following"`
	Page        *FeedPage    `json:"page"`
}

// FeedService resolves which posts are visible in each viewing context.
type FeedService struct {
	posts    repositories.PostRepository
	groups   repositories.GroupRepository
	users    repositories.UserRepository
	follows  repositories.FollowRepository
	pageSize int
}

func NewFeedService(posts repositories.PostRepository, groups repositories.GroupRepository, users repositories.UserRepository, follows repositories.FollowRepository, pageSize int) *FeedService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &FeedService{posts: posts, groups: groups, users: users, follows: follows, pageSize: pageSize}
}

// GlobalFeed lists every post, newest first.
func (s *FeedService) GlobalFeed(ctx context.Context, page int) (*FeedPage, error) {
	return s.window(ctx, repositories.PostFilter{}, page)
}

// GroupFeed lists the posts of the group with the given slug.
func (s *FeedService) GroupFeed(ctx context.Context, slug string, page int) (*models.Group, *FeedPage, error) {
	group, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, notFound(err, "group %q", slug)
	}
	fp, err := s.window(ctx, repositories.PostFilter{GroupID: &group.ID}, page)
	if err != nil {
		return nil, nil, err
	}
	return group, fp, nil
}

// ProfileFeed lists an author's posts. IsFollowing is false for anonymous requesters.
func (s *FeedService) ProfileFeed(ctx context.Context, username string, requester *Actor, page int) (*ProfileFeed, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, "user %q", username)
	}
	fp, err := s.window(ctx, repositories.PostFilter{AuthorID: &author.ID}, page)
	if err != nil {
		return nil, err
	}
	following := false
	if requester != nil {
		if following, err = s.follows.Exists(ctx, requester.ID, author.ID); err != nil {
			return nil, fmt.Errorf("check follow: %w", err)
		}
	}
	return &ProfileFeed{Author: author, IsFollowing: following, Page: fp}, nil
}

// FollowFeed lists posts by the authors the requester follows.
func (s *FeedService) FollowFeed(ctx context.Context, requester *Actor, page int) (*FeedPage, error) {
	if requester == nil {
		return nil, ErrUnauthenticated
	}
	return s.window(ctx, repositories.PostFilter{FollowerID: &requester.ID}, page)
}

func (s *FeedService) window(ctx context.Context, f repositories.PostFilter, page int) (*FeedPage, error) {
	total, err := s.posts.Count(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	meta := Paginate(total, s.pageSize, page)
	posts, err := s.posts.List(ctx, f, meta.Offset(), meta.PageSize)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return &FeedPage{Posts: posts, Meta: meta}, nil
}

// notFound maps a repository miss to ErrNotFound and passes other errors through.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
	}
	return err
}
