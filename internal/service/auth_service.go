package service

import (
	"context"
	"fmt"

	"github.com/nig3l/OPTACOMP-InventorySystems/internal/model"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/repository"
	"github.com/nig3l/OPTACOMP-InventorySystems/pkg/jwt"

	"github.com/rs/zerolog/log"
)

type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*TokenResponse, error)
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Authenticate fails closed: unknown email, wrong password and inactive
// accounts all yield ErrInvalidCredentials.
func (s *authService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !repository.IsNotFound(err) {
			log.Error().Err(err).Msg("lookup user for login")
		}
		return nil, ErrInvalidCredentials
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		log.Info().Str("user_id", user.ID.String()).Msg("login refused for inactive user")
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokens.TTL().Seconds()),
	}, nil
}
