package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"notescatalog/internal/domain"
)

const refreshTokenBytes = 32

type authService struct {
	userRepo        domain.UserRepository
	refreshRepo     domain.RefreshTokenRepository
	hasher          domain.PasswordHasher
	tokenIssuer     domain.TokenIssuer
	tokenExpiry     time.Duration
	refreshTokenTTL time.Duration
	logger          *slog.Logger
	contextTimeout  time.Duration
	now             func() time.Time
}

// NewAuthService creates an AuthService with the given repositories and auth ports.
func NewAuthService(userRepo domain.UserRepository,
	refreshRepo domain.RefreshTokenRepository,
	hasher domain.PasswordHasher,
	tokenIssuer domain.TokenIssuer,
	tokenExpiry, refreshTokenTTL time.Duration,
	logger *slog.Logger,
	timeout time.Duration,
) domain.AuthService {
	return &authService{
		userRepo:        userRepo,
		refreshRepo:     refreshRepo,
		hasher:          hasher,
		tokenIssuer:     tokenIssuer,
		tokenExpiry:     tokenExpiry,
		refreshTokenTTL: refreshTokenTTL,
		logger:          logger,
		contextTimeout:  timeout,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (s *authService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	switch {
	case username == "":
		return nil, domain.InvalidInput("username is required")
	case utf8.RuneCountInString(username) > domain.MaxUsernameLength:
		return nil, domain.InvalidInput("username cannot exceed %d characters", domain.MaxUsernameLength)
	case utf8.RuneCountInString(password) < domain.MinPasswordLength:
		return nil, domain.InvalidInput("password must be at least %d characters", domain.MinPasswordLength)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	user := domain.NewUser(uuid.NewString(), username, hash, s.now())
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*domain.AuthTokens, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Unauthorized("invalid username or password")
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, domain.Unauthorized("invalid username or password")
	}

	access, err := s.tokenIssuer.Issue(user.ID, user.Username, s.tokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	refresh, err := generateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	rt := &domain.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: s.now().Add(s.refreshTokenTTL),
	}
	if err := s.refreshRepo.Create(ctx, rt); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return &domain.AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh issues a new access token for a stored, unexpired refresh token.
// The refresh token itself is returned unchanged.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.AuthTokens, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if refreshToken == "" {
		return nil, domain.InvalidInput("refresh token is required")
	}
	rt, err := s.refreshRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Unauthorized("invalid refresh token")
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}
	if rt.Expired(s.now()) {
		return nil, domain.Unauthorized("refresh token expired")
	}
	user, err := s.userRepo.GetByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Unauthorized("invalid refresh token")
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}
	access, err := s.tokenIssuer.Issue(user.ID, user.Username, s.tokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	return &domain.AuthTokens{AccessToken: access, RefreshToken: refreshToken}, nil
}

func (s *authService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *authService) DeleteAccount(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.logger.InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}

func generateRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
