package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bazaar/internal/errors"
	"bazaar/internal/model"
	"bazaar/internal/repository"
	"bazaar/internal/store"
)

// newChatFixture builds a chat service over a real file store so the
// serialization behavior under test is the production one, not a mock's.
func newChatFixture(t *testing.T, userIDs ...string) ChatService {
	t.Helper()
	st, err := store.New(t.TempDir())
	require.NoError(t, err)

	users := repository.NewUserRepository(st)
	for _, id := range userIDs {
		require.NoError(t, users.Create(context.Background(), &model.User{ID: id, Secret: "hash"}))
	}
	return NewChatService(repository.NewChatRepository(st), users)
}

func TestChatService_CreateRoom(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds system message and dedupes members", func(t *testing.T) {
		svc := newChatFixture(t, "alice", "bob")

		room, err := svc.CreateRoom(ctx, "alice", []string{"bob", "bob", "alice"}, "")
		require.NoError(t, err)
		assert.NotEmpty(t, room.ID)
		assert.ElementsMatch(t, []string{"alice", "bob"}, room.Members)
		assert.Equal(t, "alice & bob", room.DisplayName)
		require.Len(t, room.Messages, 1)
		assert.Equal(t, model.SystemSender, room.Messages[0].Sender)
	})

	t.Run("unknown member rejected", func(t *testing.T) {
		svc := newChatFixture(t, "alice")

		_, err := svc.CreateRoom(ctx, "alice", []string{"ghost"}, "")
		assert.ErrorIs(t, err, apperrors.ErrUnknownMember)
	})

	t.Run("fewer than two distinct members rejected", func(t *testing.T) {
		svc := newChatFixture(t, "alice")

		_, err := svc.CreateRoom(ctx, "alice", []string{"alice"}, "")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("explicit display name kept", func(t *testing.T) {
		svc := newChatFixture(t, "alice", "bob")

		room, err := svc.CreateRoom(ctx, "alice", []string{"bob"}, "trade talk")
		require.NoError(t, err)
		assert.Equal(t, "trade talk", room.DisplayName)
	})
}

func TestChatService_AddMembers(t *testing.T) {
	ctx := context.Background()

	t.Run("adds and records system message", func(t *testing.T) {
		svc := newChatFixture(t, "alice", "bob", "carol")
		room, err := svc.CreateRoom(ctx, "alice", []string{"bob"}, "")
		require.NoError(t, err)

		updated, added, err := svc.AddMembers(ctx, "alice", room.ID, []string{"carol"})
		require.NoError(t, err)
		assert.Equal(t, []string{"carol"}, added)
		assert.ElementsMatch(t, []string{"alice", "bob", "carol"}, updated.Members)
		assert.Len(t, updated.Messages, 2)
	})

	t.Run("idempotent when all proposed members present", func(t *testing.T) {
		svc := newChatFixture(t, "alice", "bob")
		room, err := svc.CreateRoom(ctx, "alice", []string{"bob"}, "")
		require.NoError(t, err)

		updated, added, err := svc.AddMembers(ctx, "alice", room.ID, []string{"bob"})
		require.NoError(t, err)
		assert.Empty(t, added)
		assert.ElementsMatch(t, []string{"alice", "bob"}, updated.Members)
		// no membership-changed system message on a no-op
		assert.Len(t, updated.Messages, 1)
	})

	t.Run("non-member cannot add", func(t *testing.T) {
		svc := newChatFixture(t, "alice", "bob", "carol")
		room, err := svc.CreateRoom(ctx, "alice", []string{"bob"}, "")
		require.NoError(t, err)

		_, _, err = svc.AddMembers(ctx, "carol", room.ID, []string{"carol"})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("absent room", func(t *testing.T) {
		svc := newChatFixture(t, "alice")

		_, _, err := svc.AddMembers(ctx, "alice", "no-such-room", []string{"alice"})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestChatService_Rename(t *testing.T) {
	ctx := context.Background()
	svc := newChatFixture(t, "alice", "bob", "carol")
	room, err := svc.CreateRoom(ctx, "alice", []string{"bob"}, "")
	require.NoError(t, err)

	renamed, err := svc.Rename(ctx, "bob", room.ID, "new name")
	require.NoError(t, err)
	assert.Equal(t, "new name", renamed.DisplayName)

	_, err = svc.Rename(ctx, "carol", room.ID, "hijack")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestChatService_AppendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("server-assigned id and timestamp", func(t *testing.T) {
		svc := newChatFixture(t, "alice", "bob")
		room, err := svc.CreateRoom(ctx, "alice", []string{"bob"}, "")
		require.NoError(t, err)

		msg, err := svc.AppendMessage(ctx, "alice", room.ID, "hi")
		require.NoError(t, err)
		assert.NotEmpty(t, msg.ID)
		assert.Equal(t, "alice", msg.Sender)
		assert.Equal(t, "hi", msg.Body)
		assert.False(t, msg.CreatedAt.IsZero())

		got, err := svc.GetRoom(ctx, "bob", room.ID)
		require.NoError(t, err)
		require.Len(t, got.Messages, 2)
		persisted := got.Messages[1]
		assert.Equal(t, msg.ID, persisted.ID)
		assert.Equal(t, msg.Sender, persisted.Sender)
		assert.Equal(t, msg.Body, persisted.Body)
		assert.True(t, msg.CreatedAt.Equal(persisted.CreatedAt))
	})

	t.Run("absent room", func(t *testing.T) {
		svc := newChatFixture(t, "alice")
		_, err := svc.AppendMessage(ctx, "alice", "no-such-room", "hi")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("non-member rejected", func(t *testing.T) {
		svc := newChatFixture(t, "alice", "bob", "carol")
		room, err := svc.CreateRoom(ctx, "alice", []string{"bob"}, "")
		require.NoError(t, err)

		_, err = svc.AppendMessage(ctx, "carol", room.ID, "hi")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("empty body rejected", func(t *testing.T) {
		svc := newChatFixture(t, "alice", "bob")
		room, err := svc.CreateRoom(ctx, "alice", []string{"bob"}, "")
		require.NoError(t, err)

		_, err = svc.AppendMessage(ctx, "alice", room.ID, "")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

// N concurrent appends against one room must all land: the persisted sequence
// gains exactly N entries with non-decreasing timestamps.
func TestChatService_ConcurrentAppendsNoLostUpdates(t *testing.T) {
	ctx := context.Background()
	svc := newChatFixture(t, "alice", "bob")
	room, err := svc.CreateRoom(ctx, "alice", []string{"bob"}, "")
	require.NoError(t, err)

	const n = 40
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.AppendMessage(ctx, "alice", room.ID, fmt.Sprintf("msg-%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := svc.GetRoom(ctx, "alice", room.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, n+1) // +1 system message

	bodies := make(map[string]struct{}, n)
	for i, m := range got.Messages[1:] {
		bodies[m.Body] = struct{}{}
		if i > 0 {
			prev := got.Messages[i].CreatedAt
			assert.False(t, m.CreatedAt.Before(prev), "timestamps must be non-decreasing")
		}
	}
	assert.Len(t, bodies, n)
}

func TestChatService_ListRoomsScopedToMember(t *testing.T) {
	ctx := context.Background()
	svc := newChatFixture(t, "alice", "bob", "carol")

	_, err := svc.CreateRoom(ctx, "alice", []string{"bob"}, "ab")
	require.NoError(t, err)
	_, err = svc.CreateRoom(ctx, "bob", []string{"carol"}, "bc")
	require.NoError(t, err)

	rooms, err := svc.ListRooms(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "ab", rooms[0].DisplayName)

	rooms, err = svc.ListRooms(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, rooms, 2)
}

func TestChatService_GetRoomRequiresMembership(t *testing.T) {
	ctx := context.Background()
	svc := newChatFixture(t, "alice", "bob", "carol")
	room, err := svc.CreateRoom(ctx, "alice", []string{"bob"}, "")
	require.NoError(t, err)

	_, err = svc.GetRoom(ctx, "carol", room.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
