package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/logging"
	authmw "github.com/Skotchmaster/storefront/pkg/middleware/auth"
	"github.com/Skotchmaster/storefront/pkg/negotiate"
)

type ProfileHTTP struct {
	base
	Auth   *service.AuthService
	Orders *service.OrderService
}

type profileData struct {
	User   *models.User   `json:"user"`
	Orders []models.Order `json:"orders"`
}

func (h *ProfileHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.get")

	userID, _ := authmw.UserID(c)
	user, err := h.Auth.CurrentUser(ctx, userID)
	if err != nil {
		l.Warn("get_profile_error", "user_id", userID, "error", err)
		return toHTTPError(err)
	}
	orders, err := h.Orders.History(ctx, userID)
	if err != nil {
		l.Error("get_profile_error", "status", 500, "reason", "cannot list orders", "error", err)
		return toHTTPError(err)
	}

	if negotiate.WantsJSON(c) {
		return c.JSON(http.StatusOK, profileData{User: user, Orders: orders})
	}
	return h.page(c, http.StatusOK, "profile.html", view{
		Title: "Your orders",
		Data:  profileData{User: user, Orders: orders},
	})
}
