package service

import (
	"context"
	"errors"
	"time"

	"github.com/sou2aq/platform/internal/platform/domain"
	"github.com/sou2aq/platform/internal/platform/store"
	"github.com/sou2aq/platform/pkg/idx"
)

var ErrArticleNotFound = errors.New("article_not_found")

type ArticleService struct {
	Store store.Store
}

type ArticleInput struct {
	Title   string
	Content string
	Tags    string
	Author  string
	Image   string
}

// CreateArticle attaches an article to a site. The site must exist; the
// caller's ownership of it is enforced at the route layer.
func (s *ArticleService) CreateArticle(ctx context.Context, siteID string, in ArticleInput) (domain.Article, error) {
	if _, err := s.Store.Sites().GetSiteByID(ctx, siteID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Article{}, ErrSiteNotFound
		}
		return domain.Article{}, err
	}

	now := time.Now().UTC()
	article := domain.Article{
		ID:         idx.New().String(),
		SiteID:     siteID,
		Title:      in.Title,
		Content:    in.Content,
		Tags:       in.Tags,
		Author:     in.Author,
		Image:      in.Image,
		CreatedAt:  now,
		ModifiedAt: now,
	}

	if err := s.Store.Articles().CreateArticle(ctx, article); err != nil {
		return domain.Article{}, err
	}
	return article, nil
}

func (s *ArticleService) GetArticleByID(ctx context.Context, id string) (domain.Article, error) {
	article, err := s.Store.Articles().GetArticleByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Article{}, ErrArticleNotFound
	}
	return article, err
}

func (s *ArticleService) ListArticles(ctx context.Context) ([]domain.Article, error) {
	return s.Store.Articles().ListArticles(ctx)
}

func (s *ArticleService) ListArticlesBySite(ctx context.Context, siteID string) ([]domain.Article, error) {
	if _, err := s.Store.Sites().GetSiteByID(ctx, siteID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSiteNotFound
		}
		return nil, err
	}
	return s.Store.Articles().ListArticlesBySite(ctx, siteID)
}

func (s *ArticleService) UpdateArticle(ctx context.Context, id string, in ArticleInput) (domain.Article, error) {
	article, err := s.GetArticleByID(ctx, id)
	if err != nil {
		return domain.Article{}, err
	}

	if in.Title != "" {
		article.Title = in.Title
	}
	if in.Content != "" {
		article.Content = in.Content
	}
	if in.Tags != "" {
		article.Tags = in.Tags
	}
	if in.Author != "" {
		article.Author = in.Author
	}
	if in.Image != "" {
		article.Image = in.Image
	}

	if err := s.Store.Articles().UpdateArticle(ctx, article); err != nil {
		return domain.Article{}, err
	}
	return s.GetArticleByID(ctx, id)
}

func (s *ArticleService) DeleteArticle(ctx context.Context, id string) error {
	err := s.Store.Articles().DeleteArticle(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrArticleNotFound
	}
	return err
}
