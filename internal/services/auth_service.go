package services

import (
	"context"
	"errors"
	"fmt"

	"schoolerp/internal/auth"
	"schoolerp/internal/common"
	"schoolerp/internal/logger"
	"schoolerp/internal/metrics"
	"schoolerp/internal/models"
	"schoolerp/internal/sessions"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AccountStore is the part of the user repository login needs.
type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService issues and revokes access tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.TokenResponse, error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

type authService struct {
	users   AccountStore
	issuer  *auth.Issuer
	revoked sessions.RevocationStore
}

func NewAuthService(users AccountStore, issuer *auth.Issuer, revoked sessions.RevocationStore) AuthService {
	return &authService{users: users, issuer: issuer, revoked: revoked}
}

var errBadCredentials = fmt.Errorf("%w: invalid email or password", common.ErrUnauthenticated)

func (s *authService) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			metrics.AuthFailures.WithLabelValues("login").Inc()
			return nil, errBadCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.AuthFailures.WithLabelValues("login").Inc()
		return nil, errBadCredentials
	}
	if user.Status != models.UserActive {
		metrics.AuthFailures.WithLabelValues("login").Inc()
		return nil, fmt.Errorf("%w: account inactive", common.ErrUnauthenticated)
	}

	token, claims, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}

	resp := &models.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.issuer.TTL().Seconds()),
		UserID:      user.ID.String(),
		Role:        user.Role,
		TokenID:     claims.ID,
		IssuedAt:    claims.IssuedAt.Time,
	}
	if claims.TenantID != "" {
		tid := claims.TenantID
		resp.TenantID = &tid
	}

	logger.FromContext(ctx).Info("login", zap.String("user_id", user.ID.String()), zap.String("role", user.Role))
	return resp, nil
}

func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return fmt.Errorf("%w: no token to revoke", common.ErrUnauthenticated)
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	logger.FromContext(ctx).Info("logout", zap.String("user_id", claims.Subject), zap.String("token_id", claims.ID))
	return nil
}
