package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
)

// APIVersion describes one published API version.
type APIVersion struct {
	Version    string     `json:"version"`
	Status     string     `json:"status"` // active, deprecated
	SunsetDate *time.Time `json:"sunset_date,omitempty"`
	Message    string     `json:"message,omitempty"`
}

// Versions holds the published API versions.
type Versions struct {
	supported map[string]APIVersion
	current   string
}

func NewVersions() *Versions {
	return &Versions{
		supported: map[string]APIVersion{
			"v1": {Version: "v1", Status: "active", Message: "Current stable API version"},
		},
		current: "v1",
	}
}

// Group mounts a version prefix on e and tags every response in it.
func (v *Versions) Group(e *echo.Echo, version string) *echo.Group {
	g := e.Group("/" + version)
	g.Use(v.header(version))
	return g
}

func (v *Versions) header(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-API-Version", version)
			if info, ok := v.supported[version]; ok {
				h.Set("X-API-Message", info.Message)
				if info.Status == "deprecated" && info.SunsetDate != nil {
					h.Set("X-API-Deprecated", "true")
					h.Set("X-API-Sunset", info.SunsetDate.Format(time.RFC3339))
					h.Set("Warning", `299 schoolerp "deprecated, removed on `+info.SunsetDate.Format("2006-01-02")+`"`)
				}
			}
			return next(c)
		}
	}
}

// Current returns the default API version.
func (v *Versions) Current() string { return v.current }

// Supported lists the published versions.
func (v *Versions) Supported() map[string]APIVersion { return v.supported }
