package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-bank/internal/config"
	"quiz-bank/internal/domain"
	"quiz-bank/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testAuthConfig() *config.Config {
	return &config.Config{Auth: config.AuthConfig{
		Enabled:     true,
		JWTSecret:   "test-secret",
		TokenTTL:    time.Hour,
		AdminEmails: []string{"admin@example.com"},
	}}
}

func TestNewAuthService_RequiresSecret(t *testing.T) {
	_, err := NewAuthService(new(MockUserRepository), &config.Config{})
	assert.Error(t, err)
}

func TestSignup(t *testing.T) {
	t.Run("admin email gets admin claim", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, err := NewAuthService(repo, testAuthConfig())
		require.NoError(t, err)

		repo.On("GetUserByEmail", mock.Anything, "admin@example.com").Return(nil, nil)
		repo.On("CreateUser", mock.Anything, mock.AnythingOfType("*domain.User")).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = "u1"
		}).Return(nil)

		token, user, err := svc.Signup(context.Background(), dto.SignupRequest{Name: "Root", Email: " Admin@Example.com ", Password: "secret1"})
		require.NoError(t, err)
		assert.True(t, user.IsAdmin)
		assert.Equal(t, "admin@example.com", user.Email)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))

		claims, err := svc.ValidateJWT(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
		assert.True(t, claims.IsAdmin)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := NewAuthService(repo, testAuthConfig())
		repo.On("GetUserByEmail", mock.Anything, "ann@example.com").Return(&domain.User{ID: "u2"}, nil)

		_, _, err := svc.Signup(context.Background(), dto.SignupRequest{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
		requireDomainError(t, err, domain.ErrConflict)
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})
}

func TestSignin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &domain.User{ID: "u3", Email: "ann@example.com", PasswordHash: string(hash)}

	repo := new(MockUserRepository)
	svc, _ := NewAuthService(repo, testAuthConfig())
	repo.On("GetUserByEmail", mock.Anything, "ann@example.com").Return(stored, nil)
	repo.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

	token, user, err := svc.Signin(context.Background(), dto.SigninRequest{Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, user.IsAdmin)

	_, _, err = svc.Signin(context.Background(), dto.SigninRequest{Email: "ann@example.com", Password: "wrong"})
	requireDomainError(t, err, domain.ErrUnauthorized)

	_, _, err = svc.Signin(context.Background(), dto.SigninRequest{Email: "nobody@example.com", Password: "secret1"})
	requireDomainError(t, err, domain.ErrUnauthorized)
}

func TestValidateJWT(t *testing.T) {
	cfg := testAuthConfig()
	svc, _ := NewAuthService(new(MockUserRepository), cfg)

	t.Run("expired", func(t *testing.T) {
		claims := dto.AuthClaims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Auth.JWTSecret))
		require.NoError(t, err)

		_, err = svc.ValidateJWT(context.Background(), signed)
		assert.True(t, errors.Is(err, ErrInvalidJWTToken))
	})

	t.Run("wrong secret", func(t *testing.T) {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, dto.AuthClaims{UserID: "u1"}).SignedString([]byte("other"))
		require.NoError(t, err)

		_, err = svc.ValidateJWT(context.Background(), signed)
		assert.ErrorIs(t, err, ErrInvalidJWTToken)
	})

	t.Run("unsigned token", func(t *testing.T) {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, dto.AuthClaims{UserID: "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateJWT(context.Background(), signed)
		assert.ErrorIs(t, err, ErrInvalidJWTToken)
	})
}
