package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/negotiate"
)

type CartHTTP struct {
	base
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	ct, err := h.Sessions.Cart(c)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "reason", "cannot load session", "error", err)
		return toHTTPError(err)
	}
	v, err := h.Svc.View(ctx, ct)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return toHTTPError(err)
	}

	if negotiate.WantsJSON(c) {
		return c.JSON(http.StatusOK, v)
	}
	return h.page(c, http.StatusOK, "cart.html", view{Title: "Your cart", Data: v})
}

type cartOp func(c echo.Context, ct cart.Cart, productID uint) (*transport.LineView, string, error)

// mutate loads the cart, applies op, saves the cart and answers with either
// the JSON cart envelope or a redirect to the cart page.
func (h *CartHTTP) mutate(c echo.Context, event string, op cartOp) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart."+event)

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn(event+"_error", "status", 400, "error", err)
		return h.fail(c, http.StatusBadRequest, "invalid product id")
	}

	ct, err := h.Sessions.Cart(c)
	if err != nil {
		l.Error(event+"_error", "status", 500, "reason", "cannot load session", "error", err)
		return toHTTPError(err)
	}

	item, msg, err := op(c, ct, id)
	if err != nil {
		he := toHTTPError(err)
		var se *domain.StockError
		if errors.As(err, &se) || errors.Is(err, domain.ErrNotFound) {
			l.Warn(event+"_error", "status", he.Code, "product_id", id, "error", err)
		} else {
			l.Error(event+"_error", "status", he.Code, "product_id", id, "error", err)
		}
		if he.Code >= http.StatusInternalServerError {
			return he
		}
		return h.fail(c, he.Code, fmt.Sprint(he.Message))
	}

	if err := h.Sessions.SaveCart(c, ct); err != nil {
		l.Error(event+"_error", "status", 500, "reason", "cannot save session", "error", err)
		return toHTTPError(err)
	}

	l.Info(event+"_success", "product_id", id)
	if !negotiate.WantsJSON(c) {
		return c.Redirect(http.StatusSeeOther, "/cart")
	}

	v, err := h.Svc.View(ctx, ct)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, transport.CartActionResponse{Success: true, Message: msg, Cart: v, Item: item})
}

// fail answers a refused cart action. JSON clients get the unchanged cart so
// they can re-render.
func (h *CartHTTP) fail(c echo.Context, status int, msg string) error {
	if negotiate.WantsJSON(c) {
		res := transport.CartActionResponse{Success: false, Message: msg}
		if ct, err := h.Sessions.Cart(c); err == nil {
			if v, err := h.Svc.View(c.Request().Context(), ct); err == nil {
				res.Cart = v
			}
		}
		return c.JSON(status, res)
	}
	_ = h.Sessions.SetFlash(c, msg)
	return c.Redirect(http.StatusSeeOther, "/cart")
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	return h.mutate(c, "add_to_cart", func(c echo.Context, ct cart.Cart, id uint) (*transport.LineView, string, error) {
		item, err := h.Svc.Add(c.Request().Context(), ct, id)
		if err != nil {
			return nil, "", err
		}
		return item, item.Name + " added to cart", nil
	})
}

func (h *CartHTTP) DecreaseInCart(c echo.Context) error {
	return h.mutate(c, "decrease_in_cart", func(c echo.Context, ct cart.Cart, id uint) (*transport.LineView, string, error) {
		item, err := h.Svc.Decrease(c.Request().Context(), ct, id)
		if err != nil {
			return nil, "", err
		}
		if item == nil {
			return nil, "Item removed from cart", nil
		}
		return item, "Quantity updated", nil
	})
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	return h.mutate(c, "remove_from_cart", func(c echo.Context, ct cart.Cart, id uint) (*transport.LineView, string, error) {
		h.Svc.Remove(c.Request().Context(), ct, id)
		return nil, "Item removed from cart", nil
	})
}
