package repository

import (
	"context"
	"fmt"

	apperrors "bazaar/internal/errors"
	"bazaar/internal/model"
	"bazaar/internal/store"
)

// ChatRepository defines persistence operations over the chats collection.
// All mutations funnel through Mutate so two concurrent appends against the
// same room serialize on the collection's lock instead of racing on the file.
type ChatRepository interface {
	ListByMember(ctx context.Context, userID string) ([]model.Room, error)
	FindByID(ctx context.Context, roomID string) (*model.Room, error)
	Create(ctx context.Context, room *model.Room) error
	Mutate(ctx context.Context, roomID string, fn func(*model.Room) error) (*model.Room, error)
}

type chatRepository struct {
	store *store.Store
}

// NewChatRepository builds a file-store-backed repository.
func NewChatRepository(s *store.Store) ChatRepository {
	return &chatRepository{store: s}
}

func (r *chatRepository) ListByMember(ctx context.Context, userID string) ([]model.Room, error) {
	var coll model.ChatCollection
	r.store.Load(store.Chats, &coll)
	var rooms []model.Room
	for i := range coll.Chats {
		if coll.Chats[i].HasMember(userID) {
			rooms = append(rooms, coll.Chats[i])
		}
	}
	return rooms, nil
}

func (r *chatRepository) FindByID(ctx context.Context, roomID string) (*model.Room, error) {
	var coll model.ChatCollection
	r.store.Load(store.Chats, &coll)
	for i := range coll.Chats {
		if coll.Chats[i].ID == roomID {
			room := coll.Chats[i]
			return &room, nil
		}
	}
	return nil, fmt.Errorf("room %s: %w", roomID, apperrors.ErrNotFound)
}

func (r *chatRepository) Create(ctx context.Context, room *model.Room) error {
	var coll model.ChatCollection
	return r.store.Update(store.Chats, &coll, func() error {
		coll.Chats = append(coll.Chats, *room)
		return nil
	})
}

func (r *chatRepository) Mutate(ctx context.Context, roomID string, fn func(*model.Room) error) (*model.Room, error) {
	var coll model.ChatCollection
	var mutated *model.Room
	err := r.store.Update(store.Chats, &coll, func() error {
		for i := range coll.Chats {
			if coll.Chats[i].ID == roomID {
				if err := fn(&coll.Chats[i]); err != nil {
					return err
				}
				room := coll.Chats[i]
				mutated = &room
				return nil
			}
		}
		return fmt.Errorf("room %s: %w", roomID, apperrors.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return mutated, nil
}
