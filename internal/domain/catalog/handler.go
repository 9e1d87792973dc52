package catalog

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicore/clinicore/pkg/pagination"
)

type Handler struct {
	cat *Catalog
}

func NewHandler(cat *Catalog) *Handler {
	return &Handler{cat: cat}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/services", h.ListServices)
	api.POST("/services", h.CreateService)
	api.PUT("/services/:id", h.UpdateService)
	api.DELETE("/services/:id", h.DeleteService)
	api.GET("/services/:id/sub-services", h.ListSubServices)
	api.POST("/services/:id/sub-services", h.CreateSubService)
	api.PUT("/sub-services/:id", h.UpdateSubService)
	api.DELETE("/sub-services/:id", h.DeleteSubService)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, ErrDuplicate):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) ListServices(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.cat.ListServices(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) CreateService(c echo.Context) error {
	var s Service
	if err := c.Bind(&s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.cat.CreateService(c.Request().Context(), &s); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return httpError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *Handler) UpdateService(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var s Service
	if err := c.Bind(&s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.ID = id
	if err := h.cat.UpdateService(c.Request().Context(), &s); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicate) {
			return httpError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) DeleteService(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.cat.DeleteService(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListSubServices(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.cat.ListSubServices(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateSubService(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var ss SubService
	if err := c.Bind(&ss); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ss.ServiceID = id
	if err := h.cat.CreateSubService(c.Request().Context(), &ss); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicate) {
			return httpError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, ss)
}

func (h *Handler) UpdateSubService(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		SubServiceName string `json:"sub_service_name"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ss, err := h.cat.UpdateSubService(c.Request().Context(), id, body.SubServiceName)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicate) {
			return httpError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, ss)
}

func (h *Handler) DeleteSubService(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.cat.DeleteSubService(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
