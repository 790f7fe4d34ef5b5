package auth

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/domain"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/repository"
	"go.uber.org/zap"
)

// ErrInvalidToken is returned internally for tokens signed with an
// unexpected method.
var ErrInvalidToken = errors.New("invalid token")

// Verifier decodes a signed credential into an Identity and re-confirms it
// against the current persisted user state. Verification fails closed: a
// missing, malformed, or expired credential, a deactivated user, or a tenant
// mismatch all yield a nil identity, never an error. Errors are reserved for
// storage failures.
type Verifier struct {
	secret []byte
	users  repository.UserRepository
	logger *zap.Logger
}

// NewVerifier creates a new Verifier
func NewVerifier(secret string, users repository.UserRepository, logger *zap.Logger) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		users:  users,
		logger: logger,
	}
}

// Verify validates the token and returns the authenticated identity, or
// (nil, nil) when the request must be treated as anonymous.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*domain.Identity, error) {
	if tokenString == "" {
		return nil, nil
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, nil
	}

	userID, _ := claims["user_id"].(string)
	tenantID, _ := claims["tenant_id"].(string)
	email, _ := claims["email"].(string)
	roleStr, _ := claims["role"].(string)
	if userID == "" || tenantID == "" {
		return nil, nil
	}

	role := domain.Role(roleStr)
	if !role.Valid() {
		return nil, nil
	}

	// Re-confirm the claims against the live user record so a credential
	// cannot outlive a deactivation or a tenant reassignment.
	user, err := v.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, nil
	}
	if user.TenantID != tenantID {
		v.logger.Warn("credential tenant no longer matches user record",
			zap.String("user_id", userID))
		return nil, nil
	}

	return &domain.Identity{
		UserID:   userID,
		TenantID: tenantID,
		Email:    email,
		Role:     role,
	}, nil
}
