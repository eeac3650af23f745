package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"shopcore/internal/errors"
	"shopcore/internal/model"
	"shopcore/internal/repository"
)

// ProfileService exposes the authenticated user's own record.
type ProfileService interface {
	GetProfile(ctx context.Context, userID uint) (*model.User, error)
	// UpdateProfile changes the display name only. Phone, role and the
	// verification flags are never touched regardless of input.
	UpdateProfile(ctx context.Context, userID uint, name string) (*model.User, error)
}

type profileService struct {
	userRepo repository.UserRepository
}

// NewProfileService creates a new profile service.
func NewProfileService(userRepo repository.UserRepository) ProfileService {
	return &profileService{userRepo: userRepo}
}

func (s *profileService) GetProfile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uint, name string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	user.Name = name
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}
