package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret-key-for-verifier"

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users map[string]*domain.User
	err   error
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, tenantID, email string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.TenantID == tenantID && u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func activeUser() *domain.User {
	return &domain.User{
		ID:       "user-1",
		TenantID: "tenant-1",
		Email:    "staff@acme.test",
		Role:     domain.RoleCashier,
		IsActive: true,
	}
}

func signToken(claims jwt.MapClaims, secret string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, _ := token.SignedString([]byte(secret))
	return signed
}

func validClaims(user *domain.User) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id":   user.ID,
		"tenant_id": user.TenantID,
		"email":     user.Email,
		"role":      string(user.Role),
		"exp":       time.Now().Add(time.Hour).Unix(),
	}
}

func TestVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credential", func(t *testing.T) {
		user := activeUser()
		repo := &fakeUserRepo{users: map[string]*domain.User{user.ID: user}}
		v := NewVerifier(testSecret, repo, zap.NewNop())

		identity, err := v.Verify(ctx, signToken(validClaims(user), testSecret))
		require.NoError(t, err)
		require.NotNil(t, identity)
		assert.Equal(t, user.ID, identity.UserID)
		assert.Equal(t, user.TenantID, identity.TenantID)
		assert.Equal(t, user.Email, identity.Email)
		assert.Equal(t, domain.RoleCashier, identity.Role)
	})

	t.Run("empty token is anonymous", func(t *testing.T) {
		v := NewVerifier(testSecret, &fakeUserRepo{users: map[string]*domain.User{}}, zap.NewNop())

		identity, err := v.Verify(ctx, "")
		assert.NoError(t, err)
		assert.Nil(t, identity)
	})

	t.Run("malformed token is anonymous", func(t *testing.T) {
		v := NewVerifier(testSecret, &fakeUserRepo{users: map[string]*domain.User{}}, zap.NewNop())

		identity, err := v.Verify(ctx, "not-a-jwt")
		assert.NoError(t, err)
		assert.Nil(t, identity)
	})

	t.Run("expired token is anonymous", func(t *testing.T) {
		user := activeUser()
		repo := &fakeUserRepo{users: map[string]*domain.User{user.ID: user}}
		v := NewVerifier(testSecret, repo, zap.NewNop())

		claims := validClaims(user)
		claims["exp"] = time.Now().Add(-time.Hour).Unix()

		identity, err := v.Verify(ctx, signToken(claims, testSecret))
		assert.NoError(t, err)
		assert.Nil(t, identity)
	})

	t.Run("wrong secret is anonymous", func(t *testing.T) {
		user := activeUser()
		repo := &fakeUserRepo{users: map[string]*domain.User{user.ID: user}}
		v := NewVerifier(testSecret, repo, zap.NewNop())

		identity, err := v.Verify(ctx, signToken(validClaims(user), "wrong-secret"))
		assert.NoError(t, err)
		assert.Nil(t, identity)
	})

	t.Run("unsigned token is anonymous", func(t *testing.T) {
		user := activeUser()
		repo := &fakeUserRepo{users: map[string]*domain.User{user.ID: user}}
		v := NewVerifier(testSecret, repo, zap.NewNop())

		token := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims(user))
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		identity, err := v.Verify(ctx, signed)
		assert.NoError(t, err)
		assert.Nil(t, identity)
	})

	t.Run("missing user_id is anonymous", func(t *testing.T) {
		user := activeUser()
		repo := &fakeUserRepo{users: map[string]*domain.User{user.ID: user}}
		v := NewVerifier(testSecret, repo, zap.NewNop())

		claims := validClaims(user)
		delete(claims, "user_id")

		identity, err := v.Verify(ctx, signToken(claims, testSecret))
		assert.NoError(t, err)
		assert.Nil(t, identity)
	})

	t.Run("missing tenant_id is anonymous", func(t *testing.T) {
		user := activeUser()
		repo := &fakeUserRepo{users: map[string]*domain.User{user.ID: user}}
		v := NewVerifier(testSecret, repo, zap.NewNop())

		claims := validClaims(user)
		delete(claims, "tenant_id")

		identity, err := v.Verify(ctx, signToken(claims, testSecret))
		assert.NoError(t, err)
		assert.Nil(t, identity)
	})

	t.Run("unknown role is anonymous", func(t *testing.T) {
		user := activeUser()
		repo := &fakeUserRepo{users: map[string]*domain.User{user.ID: user}}
		v := NewVerifier(testSecret, repo, zap.NewNop())

		claims := validClaims(user)
		claims["role"] = "superuser"

		identity, err := v.Verify(ctx, signToken(claims, testSecret))
		assert.NoError(t, err)
		assert.Nil(t, identity)
	})

	t.Run("deleted user is anonymous", func(t *testing.T) {
		user := activeUser()
		repo := &fakeUserRepo{users: map[string]*domain.User{}}
		v := NewVerifier(testSecret, repo, zap.NewNop())

		identity, err := v.Verify(ctx, signToken(validClaims(user), testSecret))
		assert.NoError(t, err)
		assert.Nil(t, identity)
	})

	t.Run("deactivated user is anonymous", func(t *testing.T) {
		user := activeUser()
		token := signToken(validClaims(user), testSecret)
		user.IsActive = false
		repo := &fakeUserRepo{users: map[string]*domain.User{user.ID: user}}
		v := NewVerifier(testSecret, repo, zap.NewNop())

		identity, err := v.Verify(ctx, token)
		assert.NoError(t, err)
		assert.Nil(t, identity)
	})

	t.Run("tenant reassignment invalidates credential", func(t *testing.T) {
		user := activeUser()
		token := signToken(validClaims(user), testSecret)
		user.TenantID = "tenant-2"
		repo := &fakeUserRepo{users: map[string]*domain.User{user.ID: user}}
		v := NewVerifier(testSecret, repo, zap.NewNop())

		identity, err := v.Verify(ctx, token)
		assert.NoError(t, err)
		assert.Nil(t, identity)
	})

	t.Run("storage failure is an error, not anonymous", func(t *testing.T) {
		user := activeUser()
		repo := &fakeUserRepo{users: map[string]*domain.User{}, err: errors.New("db down")}
		v := NewVerifier(testSecret, repo, zap.NewNop())

		identity, err := v.Verify(ctx, signToken(validClaims(user), testSecret))
		assert.Error(t, err)
		assert.Nil(t, identity)
	})
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	ctx := context.Background()

	user := activeUser()
	repo := &fakeUserRepo{users: map[string]*domain.User{user.ID: user}}
	tokens := NewTokenService(TokenConfig{Secret: testSecret, TTL: time.Hour, Issuer: "pos-test"})
	v := NewVerifier(testSecret, repo, zap.NewNop())

	token, expiresAt, err := tokens.Issue(user)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	identity, err := v.Verify(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, user.TenantID, identity.TenantID)
	assert.Equal(t, user.Role, identity.Role)
}
