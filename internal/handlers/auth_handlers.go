package handlers

import (
	"net/http"

	"schoolerp/internal/common"
	"schoolerp/internal/middleware"
	"schoolerp/internal/models"
	"schoolerp/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles login, logout and the caller's identity.
type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

func (h *AuthHandlers) Login(c echo.Context) error {
	var req models.LoginRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, token)
}

func (h *AuthHandlers) Logout(c echo.Context) error {
	claims, _ := middleware.ClaimsFrom(c)
	if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
		return common.SendError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandlers) Me(c echo.Context) error {
	p, err := middleware.PrincipalFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
