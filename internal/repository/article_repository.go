package repository

import (
	"context"
	"fmt"

	apperrors "bazaar/internal/errors"
	"bazaar/internal/model"
	"bazaar/internal/store"
)

// ArticleRepository defines persistence operations over the articles
// collection. Mutate and Remove run their guard against the current persisted
// record inside the collection's serialized cycle, so ownership checks are
// always re-derived from disk, never from request state.
type ArticleRepository interface {
	List(ctx context.Context) ([]model.Article, error)
	FindByID(ctx context.Context, id string) (*model.Article, error)
	Create(ctx context.Context, article *model.Article) error
	Mutate(ctx context.Context, id string, fn func(*model.Article) error) (*model.Article, error)
	Remove(ctx context.Context, id string, guard func(*model.Article) error) error
}

type articleRepository struct {
	store *store.Store
}

// NewArticleRepository builds a file-store-backed repository.
func NewArticleRepository(s *store.Store) ArticleRepository {
	return &articleRepository{store: s}
}

func (r *articleRepository) List(ctx context.Context) ([]model.Article, error) {
	var articles []model.Article
	r.store.Load(store.Articles, &articles)
	return articles, nil
}

func (r *articleRepository) FindByID(ctx context.Context, id string) (*model.Article, error) {
	var articles []model.Article
	r.store.Load(store.Articles, &articles)
	for i := range articles {
		if articles[i].ID == id {
			a := articles[i]
			return &a, nil
		}
	}
	return nil, fmt.Errorf("article %s: %w", id, apperrors.ErrNotFound)
}

func (r *articleRepository) Create(ctx context.Context, article *model.Article) error {
	var articles []model.Article
	return r.store.Update(store.Articles, &articles, func() error {
		articles = append(articles, *article)
		return nil
	})
}

func (r *articleRepository) Mutate(ctx context.Context, id string, fn func(*model.Article) error) (*model.Article, error) {
	var articles []model.Article
	var mutated *model.Article
	err := r.store.Update(store.Articles, &articles, func() error {
		for i := range articles {
			if articles[i].ID == id {
				if err := fn(&articles[i]); err != nil {
					return err
				}
				a := articles[i]
				mutated = &a
				return nil
			}
		}
		return fmt.Errorf("article %s: %w", id, apperrors.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return mutated, nil
}

func (r *articleRepository) Remove(ctx context.Context, id string, guard func(*model.Article) error) error {
	var articles []model.Article
	return r.store.Update(store.Articles, &articles, func() error {
		for i := range articles {
			if articles[i].ID == id {
				if err := guard(&articles[i]); err != nil {
					return err
				}
				articles = append(articles[:i], articles[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("article %s: %w", id, apperrors.ErrNotFound)
	})
}
