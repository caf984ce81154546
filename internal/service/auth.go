package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
	pkg_hash "github.com/Skotchmaster/storefront/pkg/hash"
	jwthelp "github.com/Skotchmaster/storefront/pkg/jwt"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

type AuthService struct {
	Repo          *repo.GormRepo
	Events        events.Publisher
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type LoginResult struct {
	UserID uint
	Role   string
	tokens.Pair
}

func (r *LoginResult) IsAdmin() bool { return r.Role == models.RoleAdmin }

func (s *AuthService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return 15 * time.Minute
}

func (s *AuthService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return 7 * 24 * time.Hour
}

// issue signs a fresh token pair. The returned row is the hashed refresh
// token to persist.
func (s *AuthService) issue(userID uint, role string) (*LoginResult, *models.RefreshToken, error) {
	sub := strconv.FormatUint(uint64(userID), 10)
	now := time.Now()

	accessExp := now.Add(s.accessTTL())
	access, err := tokens.NewAccessToken(s.AccessSecret, sub, role, accessExp)
	if err != nil {
		return nil, nil, err
	}

	refreshExp := now.Add(s.refreshTTL())
	jti := jwthelp.NewJTI()
	refresh, err := tokens.NewRefreshToken(s.RefreshSecret, sub, jti, refreshExp)
	if err != nil {
		return nil, nil, err
	}

	row := &models.RefreshToken{
		Role:      role,
		Token:     jwthelp.Sha256Hex(refresh),
		UserID:    userID,
		JTI:       jti,
		ExpiresAt: refreshExp.Unix(),
	}
	return &LoginResult{
		UserID: userID,
		Role:   role,
		Pair: tokens.Pair{
			AccessToken:  access,
			RefreshToken: refresh,
			AccessExp:    accessExp,
			RefreshExp:   refreshExp,
		},
	}, row, nil
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, fmt.Errorf("username and password are required: %w", domain.ErrValidation)
	}
	if req.Password2 != "" && req.Password2 != req.Password {
		return nil, fmt.Errorf("passwords do not match: %w", domain.ErrValidation)
	}

	pwHash, err := pkg_hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}
	user := &models.User{
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}

	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			l.Warn("register_error", "status", 409, "reason", "user already exist")
		} else {
			l.Error("register_error", "status", 500, "error", err)
		}
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUser, strconv.FormatUint(uint64(user.ID), 10), events.Event{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})
	l.Info("register_success", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown user")
			return nil, domain.ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	res, row, err := s.issue(user.ID, user.Role)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	if err := s.Repo.AddRefreshToken(ctx, row); err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot store refresh token", "error", err)
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUser, strconv.FormatUint(uint64(user.ID), 10), events.Event{
		"type":   "user_logged_in",
		"userID": user.ID,
	})
	return res, nil
}

// Refresh rotates a refresh token. The old token is revoked in the same
// transaction that stores the new one, so a token can be used only once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %v: %w", err, domain.ErrUnauthenticated)
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("refresh subject: %w", domain.ErrUnauthenticated)
	}

	user, err := s.Repo.GetUserByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("refresh user gone: %w", domain.ErrUnauthenticated)
		}
		return nil, err
	}

	res, row, err := s.issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, row); err != nil {
		l.Warn("refresh_failed", "status", 401, "error", err)
		return nil, err
	}
	return res, nil
}

// RefreshTokens lets the auth middleware rotate tokens in-process.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*tokens.Pair, error) {
	res, err := s.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return &res.Pair, nil
}

func (s *AuthService) LogOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

func (s *AuthService) CurrentUser(ctx context.Context, id uint) (*models.User, error) {
	return s.Repo.GetUserByID(ctx, id)
}
