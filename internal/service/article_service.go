package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bazaar/internal/cache"
	apperrors "bazaar/internal/errors"
	"bazaar/internal/model"
	"bazaar/internal/repository"
	"bazaar/internal/session"
)

const (
	articleListCacheKey = "articles:all"
	articleListCacheTTL = time.Minute
)

// ArticleUpdate carries optional replacement fields for an article. Empty
// fields keep the current value.
type ArticleUpdate struct {
	Name        string
	Price       string
	Description string
	Version     string
	Edition     string
	Image       string
}

// ArticleService exposes marketplace listing operations.
type ArticleService interface {
	ListArticles(ctx context.Context) ([]model.Article, error)
	CreateArticle(ctx context.Context, actor session.Session, article *model.Article) (*model.Article, error)
	UpdateArticle(ctx context.Context, actor session.Session, id string, upd ArticleUpdate) (*model.Article, error)
	DeleteArticle(ctx context.Context, actor session.Session, id string) error
}

type articleService struct {
	repo  repository.ArticleRepository
	cache cache.Cache
}

// NewArticleService builds an ArticleService with repository and cache. A nil
// cache disables caching.
func NewArticleService(repo repository.ArticleRepository, c cache.Cache) ArticleService {
	if c == nil {
		c = (*cache.Client)(nil)
	}
	return &articleService{repo: repo, cache: c}
}

func (s *articleService) ListArticles(ctx context.Context) ([]model.Article, error) {
	if data := s.cache.Get(ctx, articleListCacheKey); data != nil {
		var cached []model.Article
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	articles, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(articles); err == nil {
		s.cache.Set(ctx, articleListCacheKey, payload, articleListCacheTTL)
	}
	return articles, nil
}

func (s *articleService) CreateArticle(ctx context.Context, actor session.Session, article *model.Article) (*model.Article, error) {
	if article.Name == "" {
		return nil, fmt.Errorf("name required: %w", apperrors.ErrInvalidInput)
	}
	now := time.Now().UTC()
	article.ID = uuid.NewString()
	article.Seller = actor.UserID
	article.CreatedAt = now
	article.UpdatedAt = now
	if article.Price == "" {
		article.Price = "0"
	}

	if err := s.repo.Create(ctx, article); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, articleListCacheKey)
	return article, nil
}

func (s *articleService) UpdateArticle(ctx context.Context, actor session.Session, id string, upd ArticleUpdate) (*model.Article, error) {
	article, err := s.repo.Mutate(ctx, id, func(a *model.Article) error {
		// ownership comes from the persisted record under the collection lock
		if err := requireOwnerOrAdmin(actor, a.Seller); err != nil {
			return err
		}
		applyUpdate(a, upd)
		a.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, articleListCacheKey)
	return article, nil
}

func (s *articleService) DeleteArticle(ctx context.Context, actor session.Session, id string) error {
	err := s.repo.Remove(ctx, id, func(a *model.Article) error {
		return requireOwnerOrAdmin(actor, a.Seller)
	})
	if err != nil {
		return err
	}
	s.cache.Delete(ctx, articleListCacheKey)
	return nil
}

func applyUpdate(a *model.Article, upd ArticleUpdate) {
	if upd.Name != "" {
		a.Name = upd.Name
	}
	if upd.Price != "" {
		a.Price = upd.Price
	}
	if upd.Description != "" {
		a.Description = upd.Description
	}
	if upd.Version != "" {
		a.Version = upd.Version
	}
	if upd.Edition != "" {
		a.Edition = upd.Edition
	}
	if upd.Image != "" {
		a.Image = upd.Image
	}
}
