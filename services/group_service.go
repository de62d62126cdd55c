package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cppla/groupfeed/models"
	"github.com/cppla/groupfeed/repositories"
)

type GroupService struct {
	groups repositories.GroupRepository
}

func NewGroupService(groups repositories.GroupRepository) *GroupService {
	return &GroupService{groups: groups}
}

// Create adds a group. A taken slug is reported as a field error.
func (s *GroupService) Create(ctx context.Context, form GroupForm) (*models.Group, error) {
	form.Title = strings.TrimSpace(form.Title)
	form.Slug = strings.TrimSpace(form.Slug)
	if err := validateForm(form); err != nil {
		return nil, err
	}
	g := &models.Group{Title: form.Title, Slug: form.Slug, Description: form.Description}
	if err := s.groups.Create(ctx, g); err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			return nil, fieldError("slug", "a group with this slug already exists")
		}
		return nil, fmt.Errorf("create group: %w", err)
	}
	return g, nil
}

func (s *GroupService) List(ctx context.Context) ([]models.Group, error) {
	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	if groups == nil {
		groups = []models.Group{}
	}
	return groups, nil
}

// Delete removes a group; its posts remain without a group.
func (s *GroupService) Delete(ctx context.Context, slug string) error {
	g, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return notFound(err, "group %q", slug)
	}
	return notFound(s.groups.Delete(ctx, g.ID), "group %q", slug)
}
