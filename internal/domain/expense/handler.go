package expense

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicore/clinicore/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/expenses", h.List)
	api.POST("/expenses", h.Create)
	api.GET("/expenses/range", h.InRange)
	api.GET("/expenses/:id", h.Get)
	api.PUT("/expenses/:id", h.Update)
	api.DELETE("/expenses/:id", h.Delete)
}

func httpError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Create(c echo.Context) error {
	var e Expense
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	e, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var e Expense
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e.ID = id
	if err := h.svc.Update(c.Request().Context(), &e); err != nil {
		if errors.Is(err, ErrNotFound) {
			return httpError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

const rangeDateLayout = "2006-01-02"

func (h *Handler) InRange(c echo.Context) error {
	start, err := time.ParseInLocation(rangeDateLayout, c.QueryParam("start"), time.Local)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid start date, want YYYY-MM-DD")
	}
	end, err := time.ParseInLocation(rangeDateLayout, c.QueryParam("end"), time.Local)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid end date, want YYYY-MM-DD")
	}
	if end.Before(start) {
		return echo.NewHTTPError(http.StatusBadRequest, "end must not be before start")
	}
	items, sum, err := h.svc.InRange(c.Request().Context(), start, end)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": items,
		"total": sum,
	})
}
