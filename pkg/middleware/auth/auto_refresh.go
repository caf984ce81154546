package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	jwthelp "github.com/Skotchmaster/storefront/pkg/jwt"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/negotiate"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

// Refresher rotates a refresh token into a new pair.
type Refresher interface {
	RefreshTokens(ctx context.Context, refreshToken string) (*tokens.Pair, error)
}

type AutoRefreshMiddleware struct {
	JWTSecret     []byte
	Refresher     Refresher
	SecureCookies bool
	LoginPath     string
}

func NewAutoRefreshMiddleware(secret []byte, refresher Refresher, secure bool) *AutoRefreshMiddleware {
	return &AutoRefreshMiddleware{
		JWTSecret:     secret,
		Refresher:     refresher,
		SecureCookies: secure,
		LoginPath:     "/login",
	}
}

// Authenticate resolves the caller from the auth cookies and never rejects:
// a request without valid tokens simply continues anonymously. An expired
// access token is rotated using the refresh cookie.
func (m *AutoRefreshMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context())

		accessCookie, err := c.Cookie(jwthelp.AccessCookie)
		hasAccess := err == nil && accessCookie.Value != ""
		if hasAccess {
			claims, err := tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret)
			if err == nil {
				setUserContext(c, claims)
				return next(c)
			}
			if !errors.Is(err, jwt.ErrTokenExpired) {
				l.Warn("auth_error", "reason", "invalid access token", "error", err)
				m.clearAuthCookies(c)
				return next(c)
			}
		}

		refreshCookie, rErr := c.Cookie(jwthelp.RefreshCookie)
		if rErr != nil || refreshCookie.Value == "" || m.Refresher == nil {
			return next(c)
		}

		pair, err := m.Refresher.RefreshTokens(c.Request().Context(), refreshCookie.Value)
		if err != nil {
			l.Warn("auth_error", "reason", "refresh failed", "error", err)
			m.clearAuthCookies(c)
			return next(c)
		}
		claims, err := tokens.AccessClaimsFromToken(pair.AccessToken, m.JWTSecret)
		if err != nil {
			m.clearAuthCookies(c)
			return next(c)
		}

		m.SetAuthCookies(c, pair)
		setUserContext(c, claims)
		return next(c)
	}
}

// RequireAuth rejects anonymous callers: JSON clients get 401, browsers are
// sent to the login page with a next parameter.
func (m *AutoRefreshMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := UserID(c); !ok {
			return m.unauthenticated(c)
		}
		return next(c)
	}
}

func (m *AutoRefreshMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireAuth(func(c echo.Context) error {
		if Role(c) != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	})
}

func (m *AutoRefreshMiddleware) unauthenticated(c echo.Context) error {
	if negotiate.WantsJSON(c) {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	login := m.LoginPath
	if login == "" {
		login = "/login"
	}
	return c.Redirect(http.StatusSeeOther, login+"?next="+url.QueryEscape(c.Request().URL.RequestURI()))
}

func (m *AutoRefreshMiddleware) SetAuthCookies(c echo.Context, pair *tokens.Pair) {
	c.SetCookie(jwthelp.CreateCookie(jwthelp.AccessCookie, pair.AccessToken, "/", pair.AccessExp, m.SecureCookies))
	c.SetCookie(jwthelp.CreateCookie(jwthelp.RefreshCookie, pair.RefreshToken, "/", pair.RefreshExp, m.SecureCookies))
}

func (m *AutoRefreshMiddleware) clearAuthCookies(c echo.Context) {
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookie, "/", m.SecureCookies))
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.RefreshCookie, "/", m.SecureCookies))
}

// ClearAuthCookies expires both auth cookies.
func (m *AutoRefreshMiddleware) ClearAuthCookies(c echo.Context) {
	m.clearAuthCookies(c)
	c.Set("user_id", "")
	c.Set("role", "")
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set("user_id", claims.Subject)
	c.Set("role", claims.Role)
}

// UserID returns the authenticated user's id.
func UserID(c echo.Context) (uint, bool) {
	sub, _ := c.Get("user_id").(string)
	if sub == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func Role(c echo.Context) string {
	r, _ := c.Get("role").(string)
	return r
}
