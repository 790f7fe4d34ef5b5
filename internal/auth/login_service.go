package auth

import (
	"context"
	"errors"
	"time"

	"github.com/randy-rebucas/localpro-pos-sub001/internal/domain"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for unknown users, wrong passwords,
	// and deactivated accounts alike; callers must not distinguish them.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// LoginService authenticates a user within a tenant and issues a credential.
type LoginService struct {
	users  repository.UserRepository
	tokens *TokenService
}

// NewLoginService creates a new LoginService
func NewLoginService(users repository.UserRepository, tokens *TokenService) *LoginService {
	return &LoginService{
		users:  users,
		tokens: tokens,
	}
}

// LoginResult carries the issued credential and its expiry.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Login verifies the password of the user identified by email within the
// given tenant and issues a signed credential.
func (s *LoginService) Login(ctx context.Context, tenantID, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, tenantID, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}
