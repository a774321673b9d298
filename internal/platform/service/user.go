package service

import (
	"context"
	"errors"

	"github.com/sou2aq/platform/internal/platform/domain"
	"github.com/sou2aq/platform/internal/platform/store"
)

type UserService struct {
	Store store.Store
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return user, err
}

// ListUsers returns every account. Route-level authorization limits this to
// superAdmin.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// UpdateProfileInput carries the fields a user may change about themselves.
// Identity fields (email, username, role, dob) are immutable here.
type UpdateProfileInput struct {
	FullName     string
	Phone        string
	ProfileImage string
}

// UpdateProfile mutates the caller's profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (domain.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	if in.FullName != "" {
		user.FullName = in.FullName
	}
	if in.Phone != "" {
		user.Phone = in.Phone
	}
	if in.ProfileImage != "" {
		user.ProfileImage = in.ProfileImage
	}

	if err := s.Store.Users().UpdateProfile(ctx, user); err != nil {
		return domain.User{}, err
	}
	return s.GetUserByID(ctx, userID)
}
