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

// AccountService is the minimal account store behind token issuance.
type AccountService struct {
	users repositories.UserRepository
}

func NewAccountService(users repositories.UserRepository) *AccountService {
	return &AccountService{users: users}
}

func (s *AccountService) Register(ctx context.Context, form RegisterForm) (*models.User, error) {
	form.Username = strings.TrimSpace(form.Username)
	form.FullName = strings.TrimSpace(form.FullName)
	if err := validateForm(form); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(form.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{Username: form.Username, FullName: form.FullName, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			return nil, fieldError("username", "a user with that username already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Authenticate checks credentials; any mismatch is ErrUnauthenticated.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if !utils.CheckPassword(u.PasswordHash, password) {
		return nil, ErrUnauthenticated
	}
	return u, nil
}

// Delete removes an account along with its posts and comments.
func (s *AccountService) Delete(ctx context.Context, id uint) error {
	return notFound(s.users.Delete(ctx, id), "user %d", id)
}
