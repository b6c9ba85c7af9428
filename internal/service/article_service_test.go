package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bazaar/internal/errors"
	"bazaar/internal/model"
	"bazaar/internal/repository"
	"bazaar/internal/session"
	"bazaar/internal/store"
)

func newArticleFixture(t *testing.T) ArticleService {
	t.Helper()
	st, err := store.New(t.TempDir())
	require.NoError(t, err)
	// nil cache client degrades to plain store reads
	return NewArticleService(repository.NewArticleRepository(st), nil)
}

// fakeCache is a map-backed cache.Cache double.
type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{entries: make(map[string][]byte)} }

func (f *fakeCache) Get(ctx context.Context, key string) []byte { return f.entries[key] }

func (f *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	f.entries[key] = value
}

func (f *fakeCache) Delete(ctx context.Context, key string) { delete(f.entries, key) }

func asUser(id string) session.Session {
	return session.Session{UserID: id}
}

func asAdmin(id string) session.Session {
	return session.Session{UserID: id, IsAdmin: true}
}

func TestArticleService_CreateAssignsOwnership(t *testing.T) {
	ctx := context.Background()
	svc := newArticleFixture(t)

	created, err := svc.CreateArticle(ctx, asUser("alice"), &model.Article{
		Name:  "sword",
		Price: "10",
		// client-set fields that must be overridden
		ID:     "client-id",
		Seller: "mallory",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "client-id", created.ID)
	assert.Equal(t, "alice", created.Seller)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestArticleService_CreateRequiresName(t *testing.T) {
	svc := newArticleFixture(t)
	_, err := svc.CreateArticle(context.Background(), asUser("alice"), &model.Article{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestArticleService_ListCacheAside(t *testing.T) {
	ctx := context.Background()
	st, err := store.New(t.TempDir())
	require.NoError(t, err)
	fc := newFakeCache()
	svc := NewArticleService(repository.NewArticleRepository(st), fc)

	_, err = svc.CreateArticle(ctx, asUser("alice"), &model.Article{Name: "sword"})
	require.NoError(t, err)

	// first list misses and fills the cache
	first, err := svc.ListArticles(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Contains(t, fc.entries, "articles:all")

	// a marker entry shows the second list never reaches the store
	marker, err := json.Marshal([]model.Article{{ID: "cached", Name: "stale"}})
	require.NoError(t, err)
	fc.entries["articles:all"] = marker
	second, err := svc.ListArticles(ctx)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "cached", second[0].ID)

	// mutations invalidate, the next list reads the store again
	_, err = svc.CreateArticle(ctx, asUser("alice"), &model.Article{Name: "shield"})
	require.NoError(t, err)
	assert.NotContains(t, fc.entries, "articles:all")
	third, err := svc.ListArticles(ctx)
	require.NoError(t, err)
	assert.Len(t, third, 2)
}

func TestArticleService_UpdateAuthorization(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		actor         session.Session
		expectedError error
	}{
		{name: "owner may update", actor: asUser("alice")},
		{name: "admin may update", actor: asAdmin("root")},
		{name: "other user forbidden", actor: asUser("bob"), expectedError: apperrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newArticleFixture(t)
			created, err := svc.CreateArticle(ctx, asUser("alice"), &model.Article{Name: "sword", Price: "10"})
			require.NoError(t, err)

			updated, err := svc.UpdateArticle(ctx, tt.actor, created.ID, ArticleUpdate{Price: "25"})

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				// record must be unchanged after a forbidden attempt
				articles, listErr := svc.ListArticles(ctx)
				require.NoError(t, listErr)
				require.Len(t, articles, 1)
				assert.Equal(t, "10", articles[0].Price)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "25", updated.Price)
				assert.Equal(t, "sword", updated.Name) // empty fields keep current value
			}
		})
	}
}

func TestArticleService_DeleteAuthorization(t *testing.T) {
	ctx := context.Background()
	svc := newArticleFixture(t)
	created, err := svc.CreateArticle(ctx, asUser("alice"), &model.Article{Name: "sword"})
	require.NoError(t, err)

	err = svc.DeleteArticle(ctx, asUser("bob"), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	articles, err := svc.ListArticles(ctx)
	require.NoError(t, err)
	assert.Len(t, articles, 1)

	require.NoError(t, svc.DeleteArticle(ctx, asUser("alice"), created.ID))
	articles, err = svc.ListArticles(ctx)
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestArticleService_UpdateAbsentArticle(t *testing.T) {
	svc := newArticleFixture(t)
	_, err := svc.UpdateArticle(context.Background(), asUser("alice"), "no-such-id", ArticleUpdate{Price: "1"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
