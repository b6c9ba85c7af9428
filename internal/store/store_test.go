package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bazaar/internal/errors"
	"bazaar/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	saved := []model.User{
		{ID: "alice", Secret: "hash-a"},
		{ID: "bob", Secret: "hash-b"},
	}
	require.NoError(t, s.Save(Users, saved))

	var loaded []model.User
	s.Load(Users, &loaded)
	assert.Equal(t, saved, loaded)
}

func TestStore_LoadMissingFile(t *testing.T) {
	s := newTestStore(t)

	var users []model.User
	s.Load(Users, &users)
	assert.Empty(t, users)

	var chats model.ChatCollection
	s.Load(Chats, &chats)
	assert.Empty(t, chats.Chats)
}

func TestStore_LoadMalformedFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, "users.json"), []byte("{not json"), 0o644))

	var users []model.User
	s.Load(Users, &users)
	assert.Empty(t, users)
}

func TestStore_SaveFailureSurfaces(t *testing.T) {
	s := newTestStore(t)

	err := s.Save(Users, make(chan int))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStorageFailure)
}

func TestStore_UpdateAbortsWithoutWrite(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(Users, []model.User{{ID: "alice"}}))

	var users []model.User
	err := s.Update(Users, &users, func() error {
		users = append(users, model.User{ID: "bob"})
		return fmt.Errorf("boom")
	})
	require.Error(t, err)

	var after []model.User
	s.Load(Users, &after)
	assert.Len(t, after, 1)
}

// Two interleaved load-save cycles must not drop each other's writes; Update
// serializes the full round trip per collection.
func TestStore_ConcurrentUpdatesNoLostWrites(t *testing.T) {
	s := newTestStore(t)
	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var users []model.User
			err := s.Update(Users, &users, func() error {
				users = append(users, model.User{ID: fmt.Sprintf("user-%d", i)})
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	var users []model.User
	s.Load(Users, &users)
	assert.Len(t, users, n)

	seen := make(map[string]struct{}, len(users))
	for _, u := range users {
		seen[u.ID] = struct{}{}
	}
	assert.Len(t, seen, n)
}
