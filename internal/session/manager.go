package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/cart"
)

const (
	CookieName = "sessionid"
	cartKey    = "cart"
	flashKey   = "flash"
	ctxKey     = "session_id"
)

type Manager struct {
	Store  Store
	TTL    time.Duration
	Secure bool
}

func NewManager(store Store, ttl time.Duration, secure bool) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{Store: store, TTL: ttl, Secure: secure}
}

// Middleware makes sure every request carries a session id, issuing a new
// cookie when the client has none or sends a malformed one.
func (m *Manager) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if ck, err := c.Cookie(CookieName); err == nil {
				if _, perr := uuid.Parse(ck.Value); perr == nil {
					sid = ck.Value
				}
			}
			if sid == "" {
				sid = uuid.NewString()
				m.setCookie(c, sid)
			}
			c.Set(ctxKey, sid)
			return next(c)
		}
	}
}

func (m *Manager) setCookie(c echo.Context, sid string) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    sid,
		Path:     "/",
		Expires:  time.Now().Add(m.TTL),
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) ID(c echo.Context) string {
	sid, _ := c.Get(ctxKey).(string)
	return sid
}

// Cart loads the session cart. A missing cart is an empty one.
func (m *Manager) Cart(c echo.Context) (cart.Cart, error) {
	out := cart.Cart{}
	sid := m.ID(c)
	if sid == "" {
		return out, nil
	}
	if _, err := m.Store.Get(c.Request().Context(), sid, cartKey, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = cart.Cart{}
	}
	return out, nil
}

func (m *Manager) SaveCart(c echo.Context, ct cart.Cart) error {
	if ct.Empty() {
		return m.ClearCart(c)
	}
	return m.Store.Set(c.Request().Context(), m.ID(c), cartKey, ct)
}

func (m *Manager) ClearCart(c echo.Context) error {
	return m.Store.Delete(c.Request().Context(), m.ID(c), cartKey)
}

// SetFlash stores a one-shot message shown on the next rendered page.
func (m *Manager) SetFlash(c echo.Context, msg string) error {
	return m.Store.Set(c.Request().Context(), m.ID(c), flashKey, msg)
}

func (m *Manager) PopFlash(c echo.Context) string {
	sid := m.ID(c)
	if sid == "" {
		return ""
	}
	ctx := c.Request().Context()
	var msg string
	found, err := m.Store.Get(ctx, sid, flashKey, &msg)
	if err != nil || !found {
		return ""
	}
	_ = m.Store.Delete(ctx, sid, flashKey)
	return msg
}

// Destroy drops all session data and expires the cookie. The next request
// starts a fresh session.
func (m *Manager) Destroy(c echo.Context) error {
	sid := m.ID(c)
	if sid != "" {
		if err := m.Store.Destroy(c.Request().Context(), sid); err != nil {
			return err
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(ctxKey, "")
	return nil
}
