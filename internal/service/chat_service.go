package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "bazaar/internal/errors"
	"bazaar/internal/model"
	"bazaar/internal/repository"
)

// ChatService is the single choke point for room state. Both the websocket
// path and the HTTP fallback call AppendMessage, so there is exactly one
// persisted history however a message arrives.
type ChatService interface {
	ListRooms(ctx context.Context, actor string) ([]model.Room, error)
	GetRoom(ctx context.Context, actor, roomID string) (*model.Room, error)
	CreateRoom(ctx context.Context, actor string, memberIDs []string, displayName string) (*model.Room, error)
	AddMembers(ctx context.Context, actor, roomID string, memberIDs []string) (room *model.Room, added []string, err error)
	Rename(ctx context.Context, actor, roomID, name string) (*model.Room, error)
	AppendMessage(ctx context.Context, actor, roomID, body string) (*model.Message, error)
}

type chatService struct {
	chats repository.ChatRepository
	users repository.UserRepository
}

// NewChatService builds a ChatService over the chats and users repositories.
func NewChatService(chats repository.ChatRepository, users repository.UserRepository) ChatService {
	return &chatService{chats: chats, users: users}
}

func (s *chatService) ListRooms(ctx context.Context, actor string) ([]model.Room, error) {
	return s.chats.ListByMember(ctx, actor)
}

func (s *chatService) GetRoom(ctx context.Context, actor, roomID string) (*model.Room, error) {
	room, err := s.chats.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasMember(actor) {
		return nil, apperrors.ErrForbidden
	}
	return room, nil
}

// CreateRoom validates and dedupes the member list, folds the creator in, and
// seeds the history with a system message. Rooms need at least two distinct
// members and every member id must resolve to an existing user.
func (s *chatService) CreateRoom(ctx context.Context, actor string, memberIDs []string, displayName string) (*model.Room, error) {
	members := dedupe(append([]string{actor}, memberIDs...))
	if len(members) < 2 {
		return nil, fmt.Errorf("need at least 2 members: %w", apperrors.ErrInvalidInput)
	}
	if err := s.resolveMembers(ctx, members); err != nil {
		return nil, err
	}

	if displayName == "" {
		displayName = strings.Join(members, " & ")
	}
	now := time.Now().UTC()
	room := &model.Room{
		ID:          uuid.NewString(),
		DisplayName: displayName,
		Members:     members,
		Messages: []model.Message{{
			ID:        uuid.NewString(),
			Sender:    model.SystemSender,
			Body:      "room created",
			CreatedAt: now,
		}},
		CreatedAt: now,
	}
	if err := s.chats.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// AddMembers grows the member set. Proposing only existing members is a
// success with an empty added list, not an error, and emits no system
// message; membership-add is idempotent.
func (s *chatService) AddMembers(ctx context.Context, actor, roomID string, memberIDs []string) (*model.Room, []string, error) {
	added := []string{}
	room, err := s.chats.Mutate(ctx, roomID, func(r *model.Room) error {
		if !r.HasMember(actor) {
			return apperrors.ErrForbidden
		}
		var newcomers []string
		for _, id := range dedupe(memberIDs) {
			if !r.HasMember(id) {
				newcomers = append(newcomers, id)
			}
		}
		if len(newcomers) == 0 {
			return nil
		}
		if err := s.resolveMembers(ctx, newcomers); err != nil {
			return err
		}
		r.Members = append(r.Members, newcomers...)
		r.Messages = append(r.Messages, model.Message{
			ID:        uuid.NewString(),
			Sender:    model.SystemSender,
			Body:      "members added: " + strings.Join(newcomers, ", "),
			CreatedAt: time.Now().UTC(),
		})
		added = newcomers
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return room, added, nil
}

func (s *chatService) Rename(ctx context.Context, actor, roomID, name string) (*model.Room, error) {
	if name == "" {
		return nil, fmt.Errorf("name required: %w", apperrors.ErrInvalidInput)
	}
	return s.chats.Mutate(ctx, roomID, func(r *model.Room) error {
		if !r.HasMember(actor) {
			return apperrors.ErrForbidden
		}
		r.DisplayName = name
		return nil
	})
}

// AppendMessage appends with a server-assigned id and timestamp. Any
// client-supplied timestamp is ignored; the append runs under the collection
// lock, so timestamps are non-decreasing within a room.
func (s *chatService) AppendMessage(ctx context.Context, actor, roomID, body string) (*model.Message, error) {
	if body == "" {
		return nil, fmt.Errorf("body required: %w", apperrors.ErrInvalidInput)
	}
	var msg model.Message
	_, err := s.chats.Mutate(ctx, roomID, func(r *model.Room) error {
		if !r.HasMember(actor) {
			return apperrors.ErrForbidden
		}
		now := time.Now().UTC()
		if n := len(r.Messages); n > 0 && now.Before(r.Messages[n-1].CreatedAt) {
			now = r.Messages[n-1].CreatedAt
		}
		msg = model.Message{
			ID:        uuid.NewString(),
			Sender:    actor,
			Body:      body,
			CreatedAt: now,
		}
		r.Messages = append(r.Messages, msg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *chatService) resolveMembers(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if _, err := s.users.FindByID(ctx, id); err != nil {
			return fmt.Errorf("member %s: %w", id, apperrors.ErrUnknownMember)
		}
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
