package handlers

import (
	"net/http"
	"strconv"

	"schoolerp/internal/common"
	"schoolerp/internal/middleware"
	"schoolerp/internal/models"
	"schoolerp/internal/services"
	"schoolerp/internal/tenancy"

	"github.com/labstack/echo/v4"
)

// ResourceHandlers exposes one resource service over HTTP.
type ResourceHandlers[T any, PT models.RecordPtr[T]] struct {
	svc *services.ResourceService[T, PT]
}

func NewResourceHandlers[T any, PT models.RecordPtr[T]](svc *services.ResourceService[T, PT]) *ResourceHandlers[T, PT] {
	return &ResourceHandlers[T, PT]{svc: svc}
}

// Register mounts the CRUD routes, plus PUT /:id/status for workflow kinds.
func (h *ResourceHandlers[T, PT]) Register(g *echo.Group, path string) {
	r := g.Group(path)
	r.GET("", h.List)
	r.POST("", h.Create)
	r.GET("/:id", h.Get)
	r.PATCH("/:id", h.Update)
	r.DELETE("/:id", h.Delete)
	if h.svc.Kind().Workflow != "" {
		r.PUT("/:id/status", h.Transition)
	}
}

// ListResponse is the envelope of every list endpoint.
type ListResponse[T any] struct {
	Data   []*T `json:"data"`
	Limit  int  `json:"limit"`
	Offset int  `json:"offset"`
}

func (h *ResourceHandlers[T, PT]) List(c echo.Context) error {
	p, err := middleware.PrincipalFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	f, err := parseFilter(c)
	if err != nil {
		return common.SendError(c, err)
	}

	recs, err := h.svc.List(c.Request().Context(), p, f)
	if err != nil {
		return common.SendError(c, err)
	}
	if recs == nil {
		recs = []*T{}
	}
	return c.JSON(http.StatusOK, ListResponse[T]{Data: recs, Limit: f.Limit, Offset: f.Offset})
}

func (h *ResourceHandlers[T, PT]) Create(c echo.Context) error {
	p, err := middleware.PrincipalFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}

	rec := PT(new(T))
	if ok, err := bindAndValidate(c, rec); !ok {
		return err
	}

	created, err := h.svc.Create(c.Request().Context(), p, rec)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *ResourceHandlers[T, PT]) Get(c echo.Context) error {
	p, err := middleware.PrincipalFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}

	rec, err := h.svc.Get(c.Request().Context(), p, id)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *ResourceHandlers[T, PT]) Update(c echo.Context) error {
	p, err := middleware.PrincipalFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}

	patch := h.svc.Kind().NewPatch()
	if ok, err := bindAndValidate(c, patch); !ok {
		return err
	}

	rec, err := h.svc.Update(c.Request().Context(), p, id, patch)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *ResourceHandlers[T, PT]) Transition(c echo.Context) error {
	p, err := middleware.PrincipalFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}

	var req models.StatusChangeRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	rec, err := h.svc.Transition(c.Request().Context(), p, id, req.Status)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *ResourceHandlers[T, PT]) Delete(c echo.Context) error {
	p, err := middleware.PrincipalFrom(c)
	if err != nil {
		return common.SendError(c, err)
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}

	if err := h.svc.Delete(c.Request().Context(), p, id); err != nil {
		return common.SendError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// parseFilter reads limit, offset and tenant_id; every other query parameter
// becomes an equality match that the repository checks against its columns.
// tenant_id is passed through as is: the guard decides whether it survives.
func parseFilter(c echo.Context) (tenancy.Filter, error) {
	var f tenancy.Filter
	var limit, offset int
	var err error

	if v := c.QueryParam("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil {
			return f, common.NewValidationError("limit", "must be an integer")
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if offset, err = strconv.Atoi(v); err != nil {
			return f, common.NewValidationError("offset", "must be an integer")
		}
	}
	if f.Limit, f.Offset, err = common.ValidatePaginationParams(limit, offset); err != nil {
		return f, err
	}

	if v := c.QueryParam("tenant_id"); v != "" {
		tid, err := common.ValidateUUID(v, "tenant_id")
		if err != nil {
			return f, err
		}
		f.TenantID = &tid
	}

	for key, values := range c.QueryParams() {
		switch key {
		case "limit", "offset", "tenant_id":
			continue
		}
		if len(values) == 0 {
			continue
		}
		if f.Match == nil {
			f.Match = make(map[string]string)
		}
		f.Match[key] = values[0]
	}
	return f, nil
}
