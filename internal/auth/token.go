package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/domain"
)

// TokenConfig holds settings for issuing credentials.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// TokenService issues HS256 credentials carrying the identity claim set.
type TokenService struct {
	cfg TokenConfig
}

// NewTokenService creates a new TokenService
func NewTokenService(cfg TokenConfig) *TokenService {
	if cfg.TTL <= 0 {
		cfg.TTL = 15 * time.Minute
	}
	return &TokenService{cfg: cfg}
}

// Issue signs a credential for the given user.
func (s *TokenService) Issue(user *domain.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.TTL)

	claims := jwt.MapClaims{
		"user_id":   user.ID,
		"tenant_id": user.TenantID,
		"email":     user.Email,
		"role":      string(user.Role),
		"iat":       now.Unix(),
		"exp":       expiresAt.Unix(),
	}
	if s.cfg.Issuer != "" {
		claims["iss"] = s.cfg.Issuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
