package service

import (
	"context"
	"errors"

	"github.com/sou2aq/platform/internal/platform/store"
)

// OwnershipService resolves who owns a resource so route middleware can
// decide access. Every resolver distinguishes "no such resource" from "owned
// by someone else": a missing resource must surface as 404 before any 403.
type OwnershipService struct {
	Store store.Store
}

// SiteOwner returns the owning user id for a site.
func (s *OwnershipService) SiteOwner(ctx context.Context, siteID string) (string, error) {
	site, err := s.Store.Sites().GetSiteByID(ctx, siteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrSiteNotFound
		}
		return "", err
	}
	return site.OwnerID, nil
}

// ArticleOwner resolves article -> site -> owner.
func (s *OwnershipService) ArticleOwner(ctx context.Context, articleID string) (string, error) {
	article, err := s.Store.Articles().GetArticleByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrArticleNotFound
		}
		return "", err
	}
	return s.SiteOwner(ctx, article.SiteID)
}

// MapOwner resolves map -> site -> owner.
func (s *OwnershipService) MapOwner(ctx context.Context, mapID string) (string, error) {
	pin, err := s.Store.Maps().GetMapByID(ctx, mapID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrMapNotFound
		}
		return "", err
	}
	return s.SiteOwner(ctx, pin.SiteID)
}
