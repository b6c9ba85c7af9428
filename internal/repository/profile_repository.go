package repository

import (
	"context"
	"fmt"

	apperrors "bazaar/internal/errors"
	"bazaar/internal/store"
)

// ProfileRepository maps user ids to stored profile image filenames.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (string, error)
	Set(ctx context.Context, userID, filename string) error
}

type profileRepository struct {
	store *store.Store
}

// NewProfileRepository builds a file-store-backed repository.
func NewProfileRepository(s *store.Store) ProfileRepository {
	return &profileRepository{store: s}
}

func (r *profileRepository) Get(ctx context.Context, userID string) (string, error) {
	profiles := make(map[string]string)
	r.store.Load(store.Profiles, &profiles)
	fn, ok := profiles[userID]
	if !ok {
		return "", fmt.Errorf("profile %s: %w", userID, apperrors.ErrNotFound)
	}
	return fn, nil
}

func (r *profileRepository) Set(ctx context.Context, userID, filename string) error {
	profiles := make(map[string]string)
	return r.store.Update(store.Profiles, &profiles, func() error {
		profiles[userID] = filename
		return nil
	})
}
