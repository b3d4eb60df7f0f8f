package handlers

import (
	"net/http"

	"schoolerp/internal/common"
	"schoolerp/internal/middleware"
	"schoolerp/internal/services"

	"github.com/labstack/echo/v4"
)

// BrandingHandlers handles logo uploads for general settings.
type BrandingHandlers struct {
	brandingService services.BrandingService
}

func NewBrandingHandlers(brandingService services.BrandingService) *BrandingHandlers {
	return &BrandingHandlers{brandingService: brandingService}
}

// UploadLogo expects a multipart form with the image in the "logo" field.
func (h *BrandingHandlers) UploadLogo(c echo.Context) error {
	p, err := middleware.PrincipalFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}

	fh, err := c.FormFile("logo")
	if err != nil {
		return common.SendError(c, common.NewValidationError("logo", "is required"))
	}
	if fh.Size > services.MaxLogoSize {
		return common.SendError(c, common.NewValidationError("logo", "file too large"))
	}
	file, err := fh.Open()
	if err != nil {
		return common.SendClientError(c, "unreadable upload")
	}
	defer file.Close()

	resp, err := h.brandingService.UploadLogo(c.Request().Context(), p, id, services.LogoUpload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Body:     file,
	})
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
