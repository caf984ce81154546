package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
	authmw "github.com/Skotchmaster/storefront/pkg/middleware/auth"
	"github.com/Skotchmaster/storefront/pkg/negotiate"
)

type CheckoutHTTP struct {
	base
	Cart     *service.CartService
	Checkout *service.CheckoutService
	Orders   *service.OrderService
}

type checkoutData struct {
	Cart           *transport.CartView
	PaymentMethods []models.PaymentMethod
	Selected       string
}

var paymentMethods = []models.PaymentMethod{models.PaymentCash, models.PaymentCard, models.PaymentUPI}

func (h *CheckoutHTTP) reviewPage(c echo.Context, status int, selected, errMsg string) error {
	ct, err := h.Sessions.Cart(c)
	if err != nil {
		return toHTTPError(err)
	}
	if ct.Empty() {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	v, err := h.Cart.View(c.Request().Context(), ct)
	if err != nil {
		return toHTTPError(err)
	}
	if len(v.Items) == 0 {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return h.page(c, status, "checkout.html", view{
		Title: "Checkout",
		Error: errMsg,
		Data:  checkoutData{Cart: v, PaymentMethods: paymentMethods, Selected: selected},
	})
}

func (h *CheckoutHTTP) Review(c echo.Context) error {
	if negotiate.WantsJSON(c) {
		ct, err := h.Sessions.Cart(c)
		if err != nil {
			return toHTTPError(err)
		}
		v, err := h.Cart.View(c.Request().Context(), ct)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(http.StatusOK, v)
	}
	return h.reviewPage(c, http.StatusOK, string(models.PaymentCash), "")
}

func (h *CheckoutHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.place_order")

	userID, ok := authmw.UserID(c)
	if !ok {
		l.Warn("checkout_error", "status", 401)
		return toHTTPError(domain.ErrUnauthenticated)
	}

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("checkout_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = string(models.PaymentCash)
	}

	ct, err := h.Sessions.Cart(c)
	if err != nil {
		l.Error("checkout_error", "status", 500, "reason", "cannot load session", "error", err)
		return toHTTPError(err)
	}

	order, err := h.Checkout.Checkout(ctx, userID, ct, models.PaymentMethod(req.PaymentMethod))
	if err != nil {
		return h.checkoutFailed(c, req.PaymentMethod, err)
	}

	if err := h.Sessions.ClearCart(c); err != nil {
		// the order exists; a stale cart is only cosmetic
		l.Error("checkout_clear_cart_error", "order_id", order.ID, "error", err)
	}

	redirect := fmt.Sprintf("/checkout/success/%d", order.ID)
	if negotiate.WantsJSON(c) {
		return c.JSON(http.StatusCreated, transport.CheckoutResponse{
			OrderID:       order.ID,
			TotalPrice:    order.TotalPrice,
			PaymentStatus: string(order.PaymentStatus),
			Redirect:      redirect,
		})
	}
	return c.Redirect(http.StatusSeeOther, redirect)
}

func (h *CheckoutHTTP) checkoutFailed(c echo.Context, method string, err error) error {
	he := toHTTPError(err)
	if negotiate.WantsJSON(c) {
		return he
	}

	var se *domain.StockError
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return c.Redirect(http.StatusSeeOther, "/")
	case errors.As(err, &se):
		msg := stockMessage(se)
		if se.Name != "" {
			msg = se.Name + ": " + msg
		}
		_ = h.Sessions.SetFlash(c, msg)
		return c.Redirect(http.StatusSeeOther, "/cart")
	case errors.Is(err, domain.ErrValidation):
		return h.reviewPage(c, http.StatusBadRequest, method, "Choose a valid payment method")
	case errors.Is(err, domain.ErrTransactionConflict):
		return h.reviewPage(c, http.StatusServiceUnavailable, method, "The store is busy right now, please try again")
	}
	return he
}

func (h *CheckoutHTTP) Success(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.success")

	userID, _ := authmw.UserID(c)
	orderID, err := parseID(c, "order_id")
	if err != nil {
		return err
	}

	order, err := h.Orders.Get(ctx, orderID, userID)
	if err != nil {
		l.Warn("get_order_error", "order_id", orderID, "error", err)
		return toHTTPError(err)
	}

	if negotiate.WantsJSON(c) {
		return c.JSON(http.StatusOK, order)
	}
	return h.page(c, http.StatusOK, "success.html", view{Title: "Order placed", Data: order})
}
