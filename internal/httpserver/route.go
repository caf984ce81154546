package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/session"
	authmw "github.com/Skotchmaster/storefront/pkg/middleware/auth"
	"github.com/Skotchmaster/storefront/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/storefront/pkg/middleware/logging"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger   *slog.Logger
	Sessions *session.Manager
	AuthMW   *authmw.AutoRefreshMiddleware

	Catalog  *service.CatalogService
	Cart     *service.CartService
	Checkout *service.CheckoutService
	Orders   *service.OrderService
	Auth     *service.AuthService

	// Ready is pinged by /health/ready; every entry must answer.
	Ready []Pinger

	CSRFEnabled  bool
	CookieSecure bool
	MediaRoot    string
}

const mediaURL = "/media"

func New(d Deps) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	r, err := NewRenderer(mediaURL)
	if err != nil {
		return nil, err
	}
	e.Renderer = r
	e.HTTPErrorHandler = errorHandler(e)

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	if d.Logger != nil {
		e.Use(loggingmw.RequestLogger(d.Logger))
	}
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
	}))
	e.Use(d.Sessions.Middleware(), d.AuthMW.Authenticate)
	if d.CSRFEnabled {
		e.Use(csrf.Middleware(csrf.Config{
			Secure:            d.CookieSecure,
			EnforceSameOrigin: true,
			SkipPrefixes:      []string{"/health", mediaURL},
		}))
	}

	Register(e, d)
	return e, nil
}

func Register(e *echo.Echo, d Deps) {
	b := base{Sessions: d.Sessions}
	catalog := &CatalogHTTP{base: b, Svc: d.Catalog}
	cart := &CartHTTP{base: b, Svc: d.Cart}
	checkout := &CheckoutHTTP{base: b, Cart: d.Cart, Checkout: d.Checkout, Orders: d.Orders}
	profile := &ProfileHTTP{base: b, Auth: d.Auth, Orders: d.Orders}
	auth := &AuthHTTP{base: b, Svc: d.Auth, AuthMW: d.AuthMW}
	admin := &AdminHTTP{Catalog: d.Catalog, Orders: d.Orders}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		for _, p := range d.Ready {
			if err := p.Ping(ctx); err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	if d.MediaRoot != "" {
		e.Static(mediaURL, d.MediaRoot)
	}

	e.GET("/", catalog.Home)
	e.GET("/product/:id", catalog.ProductDetail)

	e.GET("/cart", cart.GetCart)
	// GET variants exist for plain links; they skip the token check, so
	// cross-site callers are turned away instead.
	sameSite := csrf.SameSite()
	e.GET("/cart/add/:id", cart.AddToCart, sameSite)
	e.GET("/cart/decrease/:id", cart.DecreaseInCart, sameSite)
	e.GET("/cart/remove/:id", cart.RemoveFromCart, sameSite)
	e.POST("/cart/add/:id", cart.AddToCart)
	e.POST("/cart/decrease/:id", cart.DecreaseInCart)
	e.POST("/cart/remove/:id", cart.RemoveFromCart)

	e.GET("/checkout", checkout.Review, d.AuthMW.RequireAuth)
	e.POST("/checkout", checkout.PlaceOrder, d.AuthMW.RequireAuth)
	e.GET("/checkout/success/:order_id", checkout.Success, d.AuthMW.RequireAuth)
	e.GET("/profile", profile.Profile, d.AuthMW.RequireAuth)

	e.GET("/register", auth.RegisterPage)
	e.POST("/register", auth.Register)
	e.GET("/login", auth.LoginPage)
	e.POST("/login", auth.Login)
	e.GET("/logout", auth.Logout)
	e.POST("/logout", auth.Logout)

	adm := e.Group("/admin", d.AuthMW.RequireAdmin)
	adm.POST("/products", admin.CreateProduct)
	adm.PATCH("/products/:id", admin.PatchProduct)
	adm.DELETE("/products/:id", admin.DeleteProduct)
	adm.GET("/categories", admin.ListCategories)
	adm.POST("/categories", admin.CreateCategory)
	adm.PATCH("/orders/:id", admin.UpdateOrder)
}
