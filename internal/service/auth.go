package service

import (
	"context"
	"crypto/subtle"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/room-designer/internal/config"
	"github.com/Rrens/room-designer/internal/security"
)

// TokenResult is returned by a successful admin login
type TokenResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// AuthService handles admin authentication
type AuthService struct {
	username     string
	passwordHash string
	jwtManager   *security.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(cfg config.AuthConfig, jwtManager *security.JWTManager) *AuthService {
	return &AuthService{
		username:     cfg.AdminUsername,
		passwordHash: cfg.AdminPasswordHash,
		jwtManager:   jwtManager,
	}
}

// Login checks admin credentials and returns an access token
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenResult, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	if err := security.CheckPassword(s.passwordHash, password); err != nil || !userOK {
		log.Warn().Str("username", username).Msg("admin login failed")
		return nil, security.ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessToken(username, security.RoleAdmin)
	if err != nil {
		return nil, err
	}

	return &TokenResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtManager.AccessTokenTTL().Seconds()),
	}, nil
}
