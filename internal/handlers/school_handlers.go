package handlers

import (
	"net/http"

	"schoolerp/internal/common"
	"schoolerp/internal/middleware"
	"schoolerp/internal/models"
	"schoolerp/internal/services"

	"github.com/labstack/echo/v4"
)

// SchoolHandlers serves tenant administration. Reads and edits reuse the
// generic handlers; creation goes through onboarding.
type SchoolHandlers struct {
	*ResourceHandlers[models.School, *models.School]
	schoolService services.SchoolService
}

func NewSchoolHandlers(schools *services.ResourceService[models.School, *models.School], schoolService services.SchoolService) *SchoolHandlers {
	return &SchoolHandlers{
		ResourceHandlers: NewResourceHandlers(schools),
		schoolService:    schoolService,
	}
}

func (h *SchoolHandlers) Register(g *echo.Group, path string) {
	r := g.Group(path)
	r.GET("", h.List)
	r.POST("", h.Onboard)
	r.GET("/:id", h.Get)
	r.PATCH("/:id", h.Update)
}

func (h *SchoolHandlers) Onboard(c echo.Context) error {
	p, err := middleware.PrincipalFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}

	var req models.OnboardSchoolRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	resp, err := h.schoolService.Onboard(c.Request().Context(), p, &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}
