package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	jwthelp "github.com/Skotchmaster/storefront/pkg/jwt"
	"github.com/Skotchmaster/storefront/pkg/logging"
	authmw "github.com/Skotchmaster/storefront/pkg/middleware/auth"
	"github.com/Skotchmaster/storefront/pkg/negotiate"
)

type AuthHTTP struct {
	base
	Svc    *service.AuthService
	AuthMW *authmw.AutoRefreshMiddleware
}

type authForm struct {
	Username string
	Email    string
}

func (h *AuthHTTP) LoginPage(c echo.Context) error {
	if _, ok := authmw.UserID(c); ok {
		return c.Redirect(http.StatusSeeOther, safeNext(c.QueryParam("next"), "/"))
	}
	return h.page(c, http.StatusOK, "login.html", view{Title: "Log in", Next: c.QueryParam("next")})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Next == "" {
		req.Next = c.QueryParam("next")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) && !negotiate.WantsJSON(c) {
			return h.page(c, http.StatusUnauthorized, "login.html", view{
				Title: "Log in",
				Error: "Invalid credentials",
				Next:  req.Next,
				Data:  authForm{Username: req.Username},
			})
		}
		return toHTTPError(err)
	}

	h.AuthMW.SetAuthCookies(c, &res.Pair)
	l.Info("login_success", "user_id", res.UserID)

	if negotiate.WantsJSON(c) {
		return c.JSON(http.StatusOK, map[string]any{
			"user_id":  res.UserID,
			"role":     res.Role,
			"is_admin": res.IsAdmin(),
		})
	}
	return c.Redirect(http.StatusSeeOther, safeNext(req.Next, "/"))
}

func (h *AuthHTTP) RegisterPage(c echo.Context) error {
	return h.page(c, http.StatusOK, "register.html", view{Title: "Register"})
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		he := toHTTPError(err)
		if negotiate.WantsJSON(c) || he.Code >= http.StatusInternalServerError {
			return he
		}
		msg := "Username and password are required"
		switch {
		case errors.Is(err, domain.ErrConflict):
			msg = "A user with that username already exists"
		case req.Password2 != "" && req.Password2 != req.Password:
			msg = "Passwords do not match"
		}
		return h.page(c, he.Code, "register.html", view{
			Title: "Register",
			Error: msg,
			Data:  authForm{Username: req.Username, Email: req.Email},
		})
	}

	if negotiate.WantsJSON(c) {
		return c.JSON(http.StatusCreated, user)
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}

// Logout revokes the refresh token and destroys the session, cart included.
func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if ck, err := c.Cookie(jwthelp.RefreshCookie); err == nil && ck.Value != "" {
		if err := h.Svc.LogOut(ctx, ck.Value); err != nil {
			l.Error("logout_error", "status", 500, "reason", "cannot revoke refresh token", "error", err)
		}
	}
	h.AuthMW.ClearAuthCookies(c)
	if err := h.Sessions.Destroy(c); err != nil {
		l.Error("logout_error", "status", 500, "reason", "cannot destroy session", "error", err)
	}

	if negotiate.WantsJSON(c) {
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}
