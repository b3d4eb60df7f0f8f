package middleware

import (
	"context"
	"errors"
	"fmt"

	"schoolerp/internal/auth"
	"schoolerp/internal/common"
	"schoolerp/internal/metrics"
	"schoolerp/internal/tenancy"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// TokenResolver turns a bearer token into the caller's principal.
type TokenResolver interface {
	Resolve(ctx context.Context, raw string) (tenancy.Principal, *auth.Claims, error)
}

// Identity is what Authenticate stores for the handlers.
type Identity struct {
	Principal tenancy.Principal
	Claims    *auth.Claims
}

// Authenticate extracts the bearer token with echo-jwt and resolves it into a
// principal. Requests without a valid principal never reach the handler.
func Authenticate(resolver TokenResolver) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: identityKey,
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			p, claims, err := resolver.Resolve(c.Request().Context(), raw)
			if err != nil {
				return nil, err
			}
			return &Identity{Principal: p, Claims: claims}, nil
		},
		SuccessHandler: func(c echo.Context) {
			id, ok := c.Get(identityKey).(*Identity)
			if !ok {
				return
			}
			req := c.Request()
			c.SetRequest(req.WithContext(tenancy.WithPrincipal(req.Context(), id.Principal)))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var extractErr *echojwt.TokenExtractionError
			if errors.As(err, &extractErr) {
				err = fmt.Errorf("%w: missing bearer token", common.ErrUnauthenticated)
			}
			if errors.Is(err, common.ErrUnauthenticated) {
				metrics.AuthFailures.WithLabelValues("token").Inc()
			}
			return common.SendError(c, err)
		},
	})
}

// PrincipalFrom returns the principal resolved for this request.
func PrincipalFrom(c echo.Context) (tenancy.Principal, error) {
	p, ok := tenancy.PrincipalFromContext(c.Request().Context())
	if !ok {
		return tenancy.Principal{}, fmt.Errorf("%w: no principal", common.ErrUnauthenticated)
	}
	return p, nil
}

// ClaimsFrom returns the verified token claims for this request.
func ClaimsFrom(c echo.Context) (*auth.Claims, bool) {
	id, ok := c.Get(identityKey).(*Identity)
	if !ok || id.Claims == nil {
		return nil, false
	}
	return id.Claims, true
}
