package service

import (
	"context"
	"errors"
	"time"

	"github.com/sou2aq/platform/internal/platform/domain"
	"github.com/sou2aq/platform/internal/platform/store"
	"github.com/sou2aq/platform/pkg/idx"
)

var (
	ErrMapNotFound        = errors.New("map_not_found")
	ErrInvalidCoordinates = errors.New("invalid_coordinates")
)

type MapService struct {
	Store store.Store
}

type MapInput struct {
	Title     string
	Address   string
	Latitude  float64
	Longitude float64
}

func validCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func (s *MapService) CreateMap(ctx context.Context, siteID string, in MapInput) (domain.Map, error) {
	if !validCoordinates(in.Latitude, in.Longitude) {
		return domain.Map{}, ErrInvalidCoordinates
	}
	if _, err := s.Store.Sites().GetSiteByID(ctx, siteID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Map{}, ErrSiteNotFound
		}
		return domain.Map{}, err
	}

	now := time.Now().UTC()
	pin := domain.Map{
		ID:         idx.New().String(),
		SiteID:     siteID,
		Title:      in.Title,
		Address:    in.Address,
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
		CreatedAt:  now,
		ModifiedAt: now,
	}

	if err := s.Store.Maps().CreateMap(ctx, pin); err != nil {
		return domain.Map{}, err
	}
	return pin, nil
}

func (s *MapService) GetMapByID(ctx context.Context, id string) (domain.Map, error) {
	pin, err := s.Store.Maps().GetMapByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Map{}, ErrMapNotFound
	}
	return pin, err
}

func (s *MapService) ListMapsBySite(ctx context.Context, siteID string) ([]domain.Map, error) {
	if _, err := s.Store.Sites().GetSiteByID(ctx, siteID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSiteNotFound
		}
		return nil, err
	}
	return s.Store.Maps().ListMapsBySite(ctx, siteID)
}

func (s *MapService) UpdateMap(ctx context.Context, id string, in MapInput) (domain.Map, error) {
	pin, err := s.GetMapByID(ctx, id)
	if err != nil {
		return domain.Map{}, err
	}

	if in.Title != "" {
		pin.Title = in.Title
	}
	if in.Address != "" {
		pin.Address = in.Address
	}
	if in.Latitude != 0 || in.Longitude != 0 {
		if !validCoordinates(in.Latitude, in.Longitude) {
			return domain.Map{}, ErrInvalidCoordinates
		}
		pin.Latitude = in.Latitude
		pin.Longitude = in.Longitude
	}

	if err := s.Store.Maps().UpdateMap(ctx, pin); err != nil {
		return domain.Map{}, err
	}
	return s.GetMapByID(ctx, id)
}

func (s *MapService) DeleteMap(ctx context.Context, id string) error {
	err := s.Store.Maps().DeleteMap(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrMapNotFound
	}
	return err
}
