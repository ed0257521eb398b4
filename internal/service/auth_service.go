package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"catalog-api/internal/apperror"
	"catalog-api/internal/domain"
	"catalog-api/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	MsgLoginSuccess       = "login successful"
	MsgInvalidCredentials = "invalid username or password"
	MsgAccountLocked      = "account is locked"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrMissingSigningKey = errors.New("token signing key is not configured")
)

// AuthService checks credentials and issues access tokens
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*domain.LoginResult, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims represents the JWT claims
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo    repository.UserRepository
	jwtSecret   []byte
	tokenExpiry time.Duration
	logger      *zap.Logger
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, tokenExpiry time.Duration, logger *zap.Logger) AuthService {
	return &authService{
		userRepo:    userRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenExpiry: tokenExpiry,
		logger:      logger,
	}
}

// Authenticate verifies the credentials. Every rejection is an Unauthorized
// error whose message is the reason shown to the caller.
func (s *authService) Authenticate(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Debug("Login rejected: unknown user", zap.String("username", username))
			return nil, apperror.Unauthorized(MsgInvalidCredentials)
		}
		return nil, apperror.Internal("failed to find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Debug("Login rejected: wrong password", zap.Int64("user_id", user.ID))
		return nil, apperror.Unauthorized(MsgInvalidCredentials)
	}

	// Locked state is only reported once the password matched
	if user.Locked {
		s.logger.Info("Login rejected: account locked", zap.Int64("user_id", user.ID))
		return nil, apperror.Unauthorized(MsgAccountLocked)
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, apperror.Internal("failed to generate access token", err)
	}

	s.logger.Info("User logged in", zap.Int64("user_id", user.ID))
	return &domain.LoginResult{Message: MsgLoginSuccess, Token: token}, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	if len(s.jwtSecret) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, ErrMissingSigningKey)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *authService) generateAccessToken(user *domain.User) (string, error) {
	if len(s.jwtSecret) == 0 {
		return "", ErrMissingSigningKey
	}

	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
