package reporting

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/reports/sales", h.Sales)
	api.GET("/reports/expenses", h.Expenses)
}

const rangeDateLayout = "2006-01-02"

// parseRange returns the optional start/end query pair. Both present:
// a range report. Both absent: the running totals. Anything else is an
// error.
func parseRange(c echo.Context) (start, end time.Time, ranged bool, err error) {
	rawStart, rawEnd := c.QueryParam("start"), c.QueryParam("end")
	if rawStart == "" && rawEnd == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	start, err = time.ParseInLocation(rangeDateLayout, rawStart, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, false, echo.NewHTTPError(http.StatusBadRequest, "invalid start date, want YYYY-MM-DD")
	}
	end, err = time.ParseInLocation(rangeDateLayout, rawEnd, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, false, echo.NewHTTPError(http.StatusBadRequest, "invalid end date, want YYYY-MM-DD")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, false, echo.NewHTTPError(http.StatusBadRequest, "end must not be before start")
	}
	return start, end, true, nil
}

func (h *Handler) Sales(c echo.Context) error {
	start, end, ranged, err := parseRange(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if ranged {
		items, sum, err := h.svc.SalesInRange(ctx, start, end)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"items": items, "total": sum})
	}
	totals, err := h.svc.SalesTotals(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, totals)
}

func (h *Handler) Expenses(c echo.Context) error {
	start, end, ranged, err := parseRange(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if ranged {
		items, sum, err := h.svc.ExpensesInRange(ctx, start, end)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"items": items, "total": sum})
	}
	totals, err := h.svc.ExpenseTotals(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, totals)
}
