package repository

import (
	"context"
	"fmt"

	apperrors "bazaar/internal/errors"
	"bazaar/internal/model"
	"bazaar/internal/store"
)

// UserRepository defines persistence operations over the users collection.
type UserRepository interface {
	List(ctx context.Context) ([]model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	UpdateSecret(ctx context.Context, id, secretHash string) error
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	store *store.Store
}

// NewUserRepository builds a file-store-backed repository.
func NewUserRepository(s *store.Store) UserRepository {
	return &userRepository{store: s}
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	r.store.Load(store.Users, &users)
	return users, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var users []model.User
	r.store.Load(store.Users, &users)
	for i := range users {
		if users[i].ID == id {
			u := users[i]
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	var users []model.User
	return r.store.Update(store.Users, &users, func() error {
		for i := range users {
			if users[i].ID == user.ID {
				return fmt.Errorf("user %s: %w", user.ID, apperrors.ErrAlreadyExists)
			}
		}
		users = append(users, *user)
		return nil
	})
}

func (r *userRepository) UpdateSecret(ctx context.Context, id, secretHash string) error {
	var users []model.User
	return r.store.Update(store.Users, &users, func() error {
		for i := range users {
			if users[i].ID == id {
				users[i].Secret = secretHash
				return nil
			}
		}
		return fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
	})
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	var users []model.User
	return r.store.Update(store.Users, &users, func() error {
		kept := users[:0]
		for _, u := range users {
			if u.ID != id {
				kept = append(kept, u)
			}
		}
		users = kept
		return nil
	})
}
