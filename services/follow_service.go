package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cppla/groupfeed/models"
	"github.com/cppla/groupfeed/repositories"
	"github.com/cppla/groupfeed/utils"
)

// FollowService toggles subscription edges between a requester and an author.
// Each (user, author) pair is either following or not; there are no other states.
type FollowService struct {
	users    repositories.UserRepository
	follows  repositories.FollowRepository
	pageSize int
}

func NewFollowService(users repositories.UserRepository, follows repositories.FollowRepository, pageSize int) *FollowService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &FollowService{users: users, follows: follows, pageSize: pageSize}
}

// Follow subscribes requester to the author. Following yourself or an author you
// already follow is a silent no-op.
func (s *FollowService) Follow(ctx context.Context, requester *Actor, authorUsername string) error {
	if requester == nil {
		return ErrUnauthenticated
	}
	author, err := s.users.GetByUsername(ctx, authorUsername)
	if err != nil {
		return notFound(err, "user %q", authorUsername)
	}
	if author.ID == requester.ID {
		return nil
	}
	exists, err := s.follows.Exists(ctx, requester.ID, author.ID)
	if err != nil {
		return fmt.Errorf("check follow: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.follows.Create(ctx, requester.ID, author.ID); err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			// lost a race with a concurrent follow of the same pair
			utils.Logger.Debug("duplicate follow absorbed",
				zap.Uint("user", requester.ID), zap.Uint("author", author.ID))
			return nil
		}
		return fmt.Errorf("create follow: %w", err)
	}
	return nil
}

// Unfollow removes the edge if present.
func (s *FollowService) Unfollow(ctx context.Context, requester *Actor, authorUsername string) error {
	if requester == nil {
		return ErrUnauthenticated
	}
	author, err := s.users.GetByUsername(ctx, authorUsername)
	if err != nil {
		return notFound(err, "user %q", authorUsername)
	}
	if err := s.follows.Delete(ctx, requester.ID, author.ID); err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

// IsFollowing reports whether requester follows authorID; anonymous requesters never do.
func (s *FollowService) IsFollowing(ctx context.Context, requester *Actor, authorID uint) (bool, error) {
	if requester == nil {
		return false, nil
	}
	return s.follows.Exists(ctx, requester.ID, authorID)
}

// FollowingPage is one page of the authors a user follows.
type FollowingPage struct {
	Authors []models.User `json:"items"`
	Meta    PageMeta      `json:"pagination"`
}

func (s *FollowService) ListFollowing(ctx context.Context, requester *Actor, page int) (*FollowingPage, error) {
	if requester == nil {
		return nil, ErrUnauthenticated
	}
	total, err := s.follows.CountFollowings(ctx, requester.ID)
	if err != nil {
		return nil, fmt.Errorf("count followings: %w", err)
	}
	meta := Paginate(total, s.pageSize, page)
	authors, err := s.follows.ListFollowings(ctx, requester.ID, meta.Offset(), meta.PageSize)
	if err != nil {
		return nil, fmt.Errorf("list followings: %w", err)
	}
	if authors == nil {
		authors = []models.User{}
	}
	return &FollowingPage{Authors: authors, Meta: meta}, nil
}
