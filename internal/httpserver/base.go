package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/session"
	authmw "github.com/Skotchmaster/storefront/pkg/middleware/auth"
	"github.com/Skotchmaster/storefront/pkg/middleware/csrf"
)

// view is the data every page template receives.
type view struct {
	Title         string
	Authenticated bool
	IsAdmin       bool
	CSRF          string
	CartCount     int
	Flash         string
	Error         string
	Next          string
	Data          any
}

type base struct {
	Sessions *session.Manager
}

func (b *base) page(c echo.Context, status int, name string, v view) error {
	_, v.Authenticated = authmw.UserID(c)
	v.IsAdmin = authmw.Role(c) == "admin"
	v.CSRF = csrf.Token(c)
	if b.Sessions != nil {
		if ct, err := b.Sessions.Cart(c); err == nil {
			v.CartCount = ct.TotalItems()
		}
		if v.Flash == "" {
			v.Flash = b.Sessions.PopFlash(c)
		}
	}
	return c.Render(status, name, v)
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return uint(id), nil
}

// safeNext keeps redirects on this site.
func safeNext(next, def string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return def
	}
	return next
}
