package middleware

import (
	"net/http"

	"schoolerp/internal/logger"
	"schoolerp/internal/tenancy"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Audit writes one structured line per state-changing request. It must run
// after Authenticate so the principal is known.
func Audit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method == http.MethodGet || req.Method == http.MethodHead || req.Method == http.MethodOptions {
				return next(c)
			}

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("route", c.Path()),
				zap.String("resource_id", c.Param("id")),
				zap.Int("status", c.Response().Status),
			}
			if p, ok := tenancy.PrincipalFromContext(c.Request().Context()); ok {
				fields = append(fields,
					zap.String("user_id", p.UserID.String()),
					zap.String("role", string(p.Role)))
				if tid, ok := p.Tenant(); ok {
					fields = append(fields, zap.String("tenant_id", tid.String()))
				}
			}
			logger.FromContext(req.Context()).Named("audit").Info("mutation", fields...)
			return nil
		}
	}
}
