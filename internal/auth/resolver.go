package auth

import (
	"context"
	"errors"
	"fmt"

	"schoolerp/internal/common"
	"schoolerp/internal/models"
	"schoolerp/internal/sessions"
	"schoolerp/internal/tenancy"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserLookup loads the account behind a token.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID, tenantID *uuid.UUID) (*models.User, error)
}

// Resolver turns a bearer token into a Principal. It never trusts the token
// alone: the user must still exist, be active and hold the claimed role and
// tenant.
type Resolver struct {
	secret  []byte
	jwks    *keyfunc.JWKS
	revoked sessions.RevocationStore
	users   UserLookup
}

// NewResolver verifies HS256 tokens with secret and, when jwks is non-nil,
// asymmetric tokens against the remote key set.
func NewResolver(secret string, jwks *keyfunc.JWKS, revoked sessions.RevocationStore, users UserLookup) *Resolver {
	return &Resolver{secret: []byte(secret), jwks: jwks, revoked: revoked, users: users}
}

func (r *Resolver) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
		return r.secret, nil
	}
	if r.jwks == nil {
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	return r.jwks.Keyfunc(token)
}

// Resolve validates raw and returns the caller's principal with the parsed
// claims. Every rejection wraps common.ErrUnauthenticated.
func (r *Resolver) Resolve(ctx context.Context, raw string) (tenancy.Principal, *Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, r.keyFunc,
		jwt.WithValidMethods([]string{"HS256", "RS256", "ES256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return tenancy.Principal{}, nil, fmt.Errorf("%w: %v", common.ErrUnauthenticated, err)
	}
	if claims.ID == "" {
		return tenancy.Principal{}, nil, fmt.Errorf("%w: token has no id", common.ErrUnauthenticated)
	}

	revoked, err := r.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return tenancy.Principal{}, nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return tenancy.Principal{}, nil, fmt.Errorf("%w: token revoked", common.ErrUnauthenticated)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return tenancy.Principal{}, nil, fmt.Errorf("%w: bad subject", common.ErrUnauthenticated)
	}
	var tenantID *uuid.UUID
	if claims.TenantID != "" {
		tid, err := uuid.Parse(claims.TenantID)
		if err != nil {
			return tenancy.Principal{}, nil, fmt.Errorf("%w: bad tenant", common.ErrUnauthenticated)
		}
		tenantID = &tid
	}

	user, err := r.users.GetByID(ctx, userID, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return tenancy.Principal{}, nil, fmt.Errorf("%w: unknown user", common.ErrUnauthenticated)
		}
		return tenancy.Principal{}, nil, err
	}
	if user.Status != models.UserActive {
		return tenancy.Principal{}, nil, fmt.Errorf("%w: user inactive", common.ErrUnauthenticated)
	}
	if user.Role != claims.Role || !sameTenant(user.TenantID, tenantID) {
		return tenancy.Principal{}, nil, fmt.Errorf("%w: token does not match account", common.ErrUnauthenticated)
	}

	p, err := tenancy.NewPrincipal(user.ID, tenancy.Role(user.Role), user.TenantID)
	if err != nil {
		return tenancy.Principal{}, nil, err
	}
	return p, claims, nil
}

func sameTenant(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
