package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"bazaar/internal/repository"
	"bazaar/internal/session"
)

// ErrInvalidCredentials is returned when id or secret is incorrect.
var ErrInvalidCredentials = errors.New("invalid id or secret")

// AuthService handles authentication operations.
type AuthService interface {
	Login(ctx context.Context, id, secret string) (token string, s session.Session, err error)
	Logout(ctx context.Context, token string)
}

type authService struct {
	users    repository.UserRepository
	sessions session.Store
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, sessions session.Store) AuthService {
	return &authService{users: users, sessions: sessions}
}

// Login checks credentials against the users collection and issues a session.
// Unknown id and wrong secret are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, id, secret string) (string, session.Session, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return "", session.Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Secret), []byte(secret)); err != nil {
		return "", session.Session{}, ErrInvalidCredentials
	}
	token, sess := s.sessions.Create(id)
	return token, sess, nil
}

// Logout destroys the session bound to token. Destroying an unknown token is
// a no-op.
func (s *authService) Logout(ctx context.Context, token string) {
	s.sessions.Destroy(token)
}
