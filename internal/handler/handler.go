package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Tenite686/DAWI/internal/errs"
	"github.com/Tenite686/DAWI/internal/model"
	"github.com/Tenite686/DAWI/pkg/auth"
	"github.com/Tenite686/DAWI/pkg/validate"
)

type Handler struct {
	rentalSvc RentalService
	log       *zap.Logger
}

func New(rentalSvc RentalService, log *zap.Logger) *Handler {
	return &Handler{
		rentalSvc: rentalSvc,
		log:       log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", newRateLimiterMW(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(requestLoggerConfig()),
		middleware.RequestID(),
		newRateLimiterMW(apiRPS),
		JwtAuthentication,
	)

	api.POST("/alquileres", h.CreateRental)
	api.GET("/alquileres", h.ListRentals)
	api.GET("/alquileres/vencidos", h.ListOverdue)
	api.GET("/alquileres/:id", h.GetRental)
	api.POST("/alquileres/:id/devolucion", h.ReturnRental)
	api.POST("/alquileres/:id/cancelar", h.CancelRental)
	api.DELETE("/alquileres/:id", h.DeleteRental)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps the engine's error kinds onto status codes.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrBusiness):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) CreateRental(c echo.Context) error {
	var req model.CreateRentalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	userName := auth.UserName(ctx)
	if userName == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "username is required")
	}

	resp, err := h.rentalSvc.CreateRental(ctx, userName, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) GetRental(c echo.Context) error {
	id, err := rentalID(c)
	if err != nil {
		return err
	}
	resp, err := h.rentalSvc.GetRental(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) ReturnRental(c echo.Context) error {
	id, err := rentalID(c)
	if err != nil {
		return err
	}
	var req model.ReturnRentalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.rentalSvc.RegisterReturn(c.Request().Context(), id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) CancelRental(c echo.Context) error {
	id, err := rentalID(c)
	if err != nil {
		return err
	}
	resp, err := h.rentalSvc.CancelRental(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) DeleteRental(c echo.Context) error {
	id, err := rentalID(c)
	if err != nil {
		return err
	}
	if err := h.rentalSvc.DeleteRental(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListRentals(c echo.Context) error {
	f, err := parseFilter(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.rentalSvc.ListRentals(c.Request().Context(), f)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) ListOverdue(c echo.Context) error {
	items, err := h.rentalSvc.ListOverdue(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func rentalID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func parseFilter(c echo.Context) (model.RentalFilter, error) {
	var f model.RentalFilter

	if v := c.QueryParam("estado"); v != "" {
		status := model.RentalStatus(v)
		switch status {
		case model.RentalActive, model.RentalCompleted, model.RentalCancelled:
		default:
			return f, errors.New("invalid estado")
		}
		f.Status = &status
	}
	for param, dst := range map[string]**int64{
		"clienteId":  &f.ClientID,
		"vehiculoId": &f.VehicleID,
		"usuarioId":  &f.UserID,
	} {
		if v := c.QueryParam(param); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return f, errors.Wrap(err, param)
			}
			*dst = &id
		}
	}
	for param, dst := range map[string]**time.Time{
		"fechaInicio": &f.From,
		"fechaFin":    &f.To,
	} {
		if v := c.QueryParam(param); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return f, errors.Wrap(err, param)
			}
			*dst = &t
		}
	}
	if v := c.QueryParam("activo"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, errors.Wrap(err, "activo")
		}
		f.Active = &b
	}
	f.Page, _ = strconv.Atoi(c.QueryParam("page"))
	f.Size, _ = strconv.Atoi(c.QueryParam("size"))
	return f, nil
}
