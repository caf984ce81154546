package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

// AdminHTTP serves the JSON catalog and order administration API.
type AdminHTTP struct {
	Catalog *service.CatalogService
	Orders  *service.OrderService
}

func (h *AdminHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_product")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Catalog.CreateProduct(ctx, req)
	if err != nil {
		l.Warn("product_create_error", "error", err)
		return toHTTPError(err)
	}

	l.Info("create_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, prod)
}

func (h *AdminHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.patch_product")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("product_patch_error", "status", 400, "error", err)
		return err
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_patch_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Catalog.PatchProduct(ctx, req, id)
	if err != nil {
		l.Warn("product_patch_error", "product_id", id, "error", err)
		return toHTTPError(err)
	}

	l.Info("patch_product_success", "product_id", id)
	return c.JSON(http.StatusOK, prod)
}

func (h *AdminHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_product")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("product_delete_error", "status", 400, "error", err)
		return err
	}

	if err := h.Catalog.DeleteProduct(ctx, id); err != nil {
		l.Warn("product_delete_error", "product_id", id, "error", err)
		return toHTTPError(err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) ListCategories(c echo.Context) error {
	cats, err := h.Catalog.ListCategories(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *AdminHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_category")

	var req transport.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("category_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cat, err := h.Catalog.CreateCategory(ctx, req)
	if err != nil {
		l.Warn("category_create_error", "error", err)
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *AdminHTTP) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_order")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req transport.UpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("order_update_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Orders.UpdateStatus(ctx, id, req)
	if err != nil {
		l.Warn("order_update_error", "order_id", id, "error", err)
		return toHTTPError(err)
	}

	l.Info("order_update_success", "order_id", id, "status", order.Status, "payment_status", order.PaymentStatus)
	return c.JSON(http.StatusOK, order)
}
