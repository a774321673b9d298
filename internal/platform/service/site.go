package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/sou2aq/platform/internal/platform/domain"
	"github.com/sou2aq/platform/internal/platform/store"
	"github.com/sou2aq/platform/pkg/idx"
)

var (
	ErrSiteNotFound     = errors.New("site_not_found")
	ErrSubdomainTaken   = errors.New("subdomain_taken")
	ErrInvalidSubdomain = errors.New("invalid_subdomain")
)

// Subdomains are DNS labels: lowercase, digits, interior hyphens.
var subdomainRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

type SiteService struct {
	Store store.Store
}

type SiteInput struct {
	Name        string
	Subdomain   string
	Description string
	LogoImage   string
}

// CreateSite registers a tenant under ownerID. The subdomain is globally
// unique; collisions surface as ErrSubdomainTaken.
func (s *SiteService) CreateSite(ctx context.Context, ownerID string, in SiteInput) (domain.Site, error) {
	if !subdomainRe.MatchString(in.Subdomain) {
		return domain.Site{}, ErrInvalidSubdomain
	}

	now := time.Now().UTC()
	site := domain.Site{
		ID:          idx.New().String(),
		OwnerID:     ownerID,
		Name:        in.Name,
		Subdomain:   in.Subdomain,
		Description: in.Description,
		LogoImage:   in.LogoImage,
		IsActive:    domain.ActiveYes,
		CreatedAt:   now,
		ModifiedAt:  now,
	}

	if err := s.Store.Sites().CreateSite(ctx, site); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Site{}, ErrSubdomainTaken
		}
		return domain.Site{}, err
	}
	return site, nil
}

func (s *SiteService) GetSiteByID(ctx context.Context, id string) (domain.Site, error) {
	site, err := s.Store.Sites().GetSiteByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Site{}, ErrSiteNotFound
	}
	return site, err
}

func (s *SiteService) GetSiteBySubdomain(ctx context.Context, subdomain string) (domain.Site, error) {
	site, err := s.Store.Sites().GetSiteBySubdomain(ctx, subdomain)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Site{}, ErrSiteNotFound
	}
	return site, err
}

func (s *SiteService) ListSites(ctx context.Context) ([]domain.Site, error) {
	return s.Store.Sites().ListSites(ctx)
}

func (s *SiteService) ListSitesByOwner(ctx context.Context, ownerID string) ([]domain.Site, error) {
	return s.Store.Sites().ListSitesByOwner(ctx, ownerID)
}

// UpdateSite changes name/description/logo. Subdomain and owner are fixed at
// creation.
func (s *SiteService) UpdateSite(ctx context.Context, id string, in SiteInput) (domain.Site, error) {
	site, err := s.GetSiteByID(ctx, id)
	if err != nil {
		return domain.Site{}, err
	}

	if in.Name != "" {
		site.Name = in.Name
	}
	if in.Description != "" {
		site.Description = in.Description
	}
	if in.LogoImage != "" {
		site.LogoImage = in.LogoImage
	}

	if err := s.Store.Sites().UpdateSite(ctx, site); err != nil {
		return domain.Site{}, err
	}
	return s.GetSiteByID(ctx, id)
}

// SetSiteActive flips the activation flag. Route-level authorization limits
// this to superAdmin.
func (s *SiteService) SetSiteActive(ctx context.Context, id string, active bool) error {
	state := domain.ActiveNo
	if active {
		state = domain.ActiveYes
	}
	err := s.Store.Sites().SetSiteActive(ctx, id, state)
	if errors.Is(err, store.ErrNotFound) {
		return ErrSiteNotFound
	}
	return err
}

// DeleteSite removes the site and, via schema cascades, its articles and maps.
func (s *SiteService) DeleteSite(ctx context.Context, id string) error {
	err := s.Store.Sites().DeleteSite(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrSiteNotFound
	}
	return err
}
