package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	apperrors "bazaar/internal/errors"
	"bazaar/internal/model"
	"bazaar/internal/repository"
)

const bcryptCost = 10

// UserService exposes admin-scoped user management. Secrets are hashed here
// and never leave the persistence layer.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.UserResponse, error)
	CreateUser(ctx context.Context, id, secret string) error
	UpdateSecret(ctx context.Context, id, secret string) error
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService builds a UserService over the users repository.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, model.UserResponse{ID: u.ID})
	}
	return out, nil
}

func (s *userService) CreateUser(ctx context.Context, id, secret string) error {
	if id == "" || secret == "" {
		return fmt.Errorf("id and secret required: %w", apperrors.ErrInvalidInput)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash secret: %w", err)
	}
	return s.repo.Create(ctx, &model.User{ID: id, Secret: string(hashed)})
}

func (s *userService) UpdateSecret(ctx context.Context, id, secret string) error {
	if secret == "" {
		// nothing to change, but the target must still resolve
		_, err := s.repo.FindByID(ctx, id)
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash secret: %w", err)
	}
	return s.repo.UpdateSecret(ctx, id, string(hashed))
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
