package service

import (
	"context"
	"errors"

	"nexus-auth/internal/domain"
	"nexus-auth/internal/repository"
)

// ProfileService reads and updates profile fields and derives the
// login-count statistic from the event ledger. The caller's identity comes
// from a verified token, never from a request parameter.
type ProfileService interface {
	GetProfile(ctx context.Context, userID int64) (*domain.User, error)
	UpdateName(ctx context.Context, userID int64, name string) error
	GetStats(ctx context.Context, userID int64) (*domain.User, int64, error)
}

type profileService struct {
	users  repository.UserRepository
	events repository.EventRepository
}

func NewProfileService(users repository.UserRepository, events repository.EventRepository) ProfileService {
	return &profileService{
		users:  users,
		events: events,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

// UpdateName overwrites the display name only; email, plan, id, and the
// creation timestamp are immutable through this operation.
func (s *profileService) UpdateName(ctx context.Context, userID int64, name string) error {
	if name == "" {
		return ValidationError("name is required")
	}
	if err := s.users.UpdateName(ctx, userID, name); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *profileService) GetStats(ctx context.Context, userID int64) (*domain.User, int64, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, err
	}
	count, err := s.events.CountByUserAction(ctx, userID, domain.ActionLoggedIn)
	if err != nil {
		return nil, 0, err
	}
	return sanitizeUser(user), count, nil
}
