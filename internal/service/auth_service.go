package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quiz-bank/internal/config"
	"quiz-bank/internal/domain"
	"quiz-bank/internal/dto"
	"quiz-bank/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidJWTToken = errors.New("invalid jwt token")

const msgInvalidCredentials = "Invalid email or password."

type AuthService interface {
	Signup(ctx context.Context, req dto.SignupRequest) (string, *domain.User, error)
	Signin(ctx context.Context, req dto.SigninRequest) (string, *domain.User, error)
	CreateJWT(ctx context.Context, user *domain.User) (string, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

type authServiceImpl struct {
	userRepo  domain.UserRepository
	appConfig *config.Config
}

func NewAuthService(userRepo domain.UserRepository, appConfig *config.Config) (AuthService, error) {
	if appConfig.Auth.JWTSecret == "" {
		return nil, errors.New("jwt secret for auth service is not configured")
	}
	return &authServiceImpl{
		userRepo:  userRepo,
		appConfig: appConfig,
	}, nil
}

// Signup registers a new account. Emails listed in auth.admin_emails become admins.
func (s *authServiceImpl) Signup(ctx context.Context, req dto.SignupRequest) (string, *domain.User, error) {
	email := normalizeEmail(req.Email)

	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", nil, domain.NewInternalError("Failed to look up user", err)
	}
	if existing != nil {
		return "", nil, domain.NewConflictError("An account with this email already exists.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, domain.NewInternalError("Failed to hash password", err)
	}

	user := domain.NewUser(strings.TrimSpace(req.Name), email, string(hash), s.appConfig.IsAdminEmail(email))
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return "", nil, domainErr
		}
		return "", nil, domain.NewInternalError("Failed to create user", err)
	}
	logger.Get().Info("New user signed up",
		zap.String("userID", user.ID),
		zap.String("email", user.Email),
		zap.Bool("isAdmin", user.IsAdmin))

	token, err := s.CreateJWT(ctx, user)
	if err != nil {
		return "", nil, domain.NewInternalError("Failed to create token", err)
	}
	return token, user, nil
}

func (s *authServiceImpl) Signin(ctx context.Context, req dto.SigninRequest) (string, *domain.User, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return "", nil, domain.NewInternalError("Failed to look up user", err)
	}
	if user == nil {
		return "", nil, domain.NewUnauthorizedError(msgInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Get().Warn("Signin with wrong password", zap.String("userID", user.ID))
		return "", nil, domain.NewUnauthorizedError(msgInvalidCredentials)
	}

	token, err := s.CreateJWT(ctx, user)
	if err != nil {
		return "", nil, domain.NewInternalError("Failed to create token", err)
	}
	return token, user, nil
}

func (s *authServiceImpl) CreateJWT(ctx context.Context, user *domain.User) (string, error) {
	now := time.Now()
	claims := dto.AuthClaims{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.appConfig.Auth.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.appConfig.Auth.JWTSecret))
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.appConfig.Auth.JWTSecret), nil
	})
	if err != nil {
		msg := "JWT validation failed"
		if errors.Is(err, jwt.ErrTokenExpired) {
			msg = "JWT token expired"
		}
		logger.Get().Warn(msg,
			zap.Error(err),
			zap.String("token_snippet", tokenString[:min(len(tokenString), 20)]+"..."))
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	if claims, ok := token.Claims.(*dto.AuthClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidJWTToken
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
