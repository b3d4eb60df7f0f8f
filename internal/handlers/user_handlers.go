package handlers

import (
	"net/http"

	"schoolerp/internal/common"
	"schoolerp/internal/middleware"
	"schoolerp/internal/models"
	"schoolerp/internal/services"

	"github.com/labstack/echo/v4"
)

// UserHandlers handles account management within a school.
type UserHandlers struct {
	userService services.UserService
}

func NewUserHandlers(userService services.UserService) *UserHandlers {
	return &UserHandlers{userService: userService}
}

func (h *UserHandlers) Register(g *echo.Group, path string) {
	r := g.Group(path)
	r.GET("", h.List)
	r.POST("", h.Create)
	r.GET("/:id", h.Get)
	r.DELETE("/:id", h.Delete)
}

func (h *UserHandlers) List(c echo.Context) error {
	p, err := middleware.PrincipalFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	f, err := parseFilter(c)
	if err != nil {
		return common.SendError(c, err)
	}

	users, err := h.userService.List(c.Request().Context(), p, f)
	if err != nil {
		return common.SendError(c, err)
	}
	if users == nil {
		users = []*models.User{}
	}
	return c.JSON(http.StatusOK, ListResponse[models.User]{Data: users, Limit: f.Limit, Offset: f.Offset})
}

func (h *UserHandlers) Create(c echo.Context) error {
	p, err := middleware.PrincipalFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}

	var req models.CreateUserRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	user, err := h.userService.Create(c.Request().Context(), p, &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandlers) Get(c echo.Context) error {
	p, err := middleware.PrincipalFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}

	user, err := h.userService.Get(c.Request().Context(), p, id)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) Delete(c echo.Context) error {
	p, err := middleware.PrincipalFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}

	if err := h.userService.Delete(c.Request().Context(), p, id); err != nil {
		return common.SendError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
