package handlers

import (
	"errors"
	"fmt"
	"net/http"

	_ "schoolerp/docs"
	"schoolerp/internal/common"
	"schoolerp/internal/logger"
	"schoolerp/internal/metrics"
	"schoolerp/internal/middleware"
	"schoolerp/internal/models"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Router holds every handler mounted by NewRouter.
type Router struct {
	Resolver        middleware.TokenResolver
	Health          *HealthHandlers
	Auth            *AuthHandlers
	Enquiries       *ResourceHandlers[models.Enquiry, *models.Enquiry]
	Visitors        *ResourceHandlers[models.Visitor, *models.Visitor]
	PostalExchanges *ResourceHandlers[models.PostalExchange, *models.PostalExchange]
	Vehicles        *ResourceHandlers[models.Vehicle, *models.Vehicle]
	Drivers         *ResourceHandlers[models.Driver, *models.Driver]
	Settings        *ResourceHandlers[models.GeneralSetting, *models.GeneralSetting]
	Plans           *ResourceHandlers[models.SubscriptionPlan, *models.SubscriptionPlan]
	Schools         *SchoolHandlers
	Users           *UserHandlers
	Branding        *BrandingHandlers
}

// NewRouter builds the echo instance with the ambient middleware, the
// operational endpoints and the authenticated /v1 API.
func NewRouter(r Router) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = httpErrorHandler

	e.Use(echomw.Recover())
	e.Use(logger.Middleware())
	e.Use(metrics.Middleware())

	e.GET("/health", r.Health.Live)
	e.GET("/health/ready", r.Health.Ready)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	versions := middleware.NewVersions()
	e.GET("/versions", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"current":  versions.Current(),
			"versions": versions.Supported(),
		})
	})

	v1 := versions.Group(e, "v1")
	v1.POST("/auth/login", r.Auth.Login)

	api := v1.Group("", middleware.Authenticate(r.Resolver), middleware.Audit())
	api.POST("/auth/logout", r.Auth.Logout)
	api.GET("/me", r.Auth.Me)

	r.Enquiries.Register(api, "/enquiries")
	r.Visitors.Register(api, "/visitors")
	r.PostalExchanges.Register(api, "/postal-exchanges")
	r.Vehicles.Register(api, "/vehicles")
	r.Drivers.Register(api, "/drivers")
	r.Settings.Register(api, "/settings")
	r.Plans.Register(api, "/plans")
	r.Schools.Register(api, "/schools")
	r.Users.Register(api, "/users")
	api.PUT("/settings/:id/logo", r.Branding.UploadLogo)

	return e
}

// httpErrorHandler renders router-level errors (unknown route, wrong method,
// panics) in the same envelope as service errors.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		_ = common.SendError(c, err)
		return
	}

	code := common.CodeClient
	switch {
	case he.Code == http.StatusNotFound:
		code = common.CodeNotFound
	case he.Code == http.StatusUnauthorized:
		code = common.CodeUnauthenticated
	case he.Code >= http.StatusInternalServerError:
		code = common.CodeServer
	}
	_ = c.JSON(he.Code, common.CreateErrorResponse(code, fmt.Sprint(he.Message), nil))
}
