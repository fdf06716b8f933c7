package service

import (
	"context"
	"errors"
	"fmt"

	"nexus-auth/internal/domain"
	"nexus-auth/internal/repository"
	"nexus-auth/internal/security"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password, so login never reveals which one failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when registering an already used email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUserNotFound is returned when a token references a missing user.
	ErrUserNotFound = errors.New("user not found")
)

// ValidationError reports missing or malformed caller input.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

const minPasswordLen = 6

// AuthService orchestrates registration and login. It holds no state of its
// own between requests; the record store is the single source of truth.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

type authService struct {
	users  repository.UserRepository
	events repository.EventRepository
	tokens *security.TokenIssuer
}

func NewAuthService(users repository.UserRepository, events repository.EventRepository, tokens *security.TokenIssuer) AuthService {
	return &authService{
		users:  users,
		events: events,
		tokens: tokens,
	}
}

func (s *authService) Register(ctx context.Context, name, email, password string) (string, *domain.User, error) {
	if name == "" || email == "" || password == "" {
		return "", nil, ValidationError("all fields are required")
	}
	if len(password) < minPasswordLen {
		return "", nil, ValidationError(fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return "", nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", nil, err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Plan:         domain.PlanStarter,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return "", nil, ErrEmailTaken
		}
		return "", nil, err
	}

	if err := s.events.Append(ctx, &domain.Event{
		UserID: user.ID,
		Action: domain.ActionRegistered,
	}); err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, sanitizeUser(user), nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, ValidationError("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !security.CheckPassword(user.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	if err := s.events.Append(ctx, &domain.Event{
		UserID: user.ID,
		Action: domain.ActionLoggedIn,
	}); err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, sanitizeUser(user), nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Plan:      user.Plan,
		CreatedAt: user.CreatedAt,
	}
}
