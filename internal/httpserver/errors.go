package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/negotiate"
)

func toHTTPError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	var se *domain.StockError
	switch {
	case errors.As(err, &se):
		return echo.NewHTTPError(http.StatusConflict, stockMessage(se))
	case errors.Is(err, domain.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrEmptyCart):
		return echo.NewHTTPError(http.StatusBadRequest, "cart is empty")
	case errors.Is(err, domain.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrTransactionConflict):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "the store is busy, please retry")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, domain.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
}

func stockMessage(se *domain.StockError) string {
	return fmt.Sprintf("Only %d available", se.Available)
}

// errorHandler renders error pages for browsers and falls back to echo's
// JSON errors for API clients.
func errorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		he := toHTTPError(err)
		if he.Code >= http.StatusInternalServerError {
			logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", he.Code, "error", err)
		}
		if negotiate.WantsJSON(c) || e.Renderer == nil || c.Request().Method == http.MethodHead {
			e.DefaultHTTPErrorHandler(he, c)
			return
		}
		msg := fmt.Sprint(he.Message)
		if rerr := c.Render(he.Code, "error.html", view{Title: http.StatusText(he.Code), Error: msg, Data: he.Code}); rerr != nil {
			e.DefaultHTTPErrorHandler(he, c)
		}
	}
}
