package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusmetrics/ploboard/internal/app/models"
	"github.com/campusmetrics/ploboard/internal/app/models/dto"
	"github.com/campusmetrics/ploboard/internal/pkg/apperrors"
	"github.com/campusmetrics/ploboard/internal/pkg/auth"
)

// AuthService authenticates dashboard users and issues tokens
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.User, *dto.TokenResponse, error)
}

type authService struct {
	users  UserStore
	jwt    *auth.JWTService
	logger zerolog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, jwt *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authService{
		users:  users,
		jwt:    jwt,
		logger: logger,
	}
}

// Login verifies credentials and returns the user with a fresh token pair.
// A wrong password and an unknown email produce the same error.
func (s *authService) Login(ctx context.Context, email, password string) (*models.User, *dto.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !user.IsActive {
		return nil, nil, apperrors.ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	accessToken, refreshToken, expiresIn, err := s.jwt.GenerateTokenPair(user)
	if err != nil {
		return nil, nil, err
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userId", user.ID).Msg("Failed to record login time")
	}

	return user, &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		TokenType:    "Bearer",
	}, nil
}
