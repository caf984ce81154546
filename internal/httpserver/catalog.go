package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/negotiate"
)

type CatalogHTTP struct {
	base
	Svc *service.CatalogService
}

type homeData struct {
	Products   *transport.ProductPage
	Categories []models.Category
	CategoryID uint
}

func (h *CatalogHTTP) Home(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.home")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	categoryID := uint(util.ParseIntDefault(c.QueryParam("category"), 0))

	products, err := h.Svc.ListProducts(ctx, categoryID, page, size)
	if err != nil {
		l.Error("get_products_error", "status", 500, "error", err)
		return toHTTPError(err)
	}

	if negotiate.WantsJSON(c) {
		return c.JSON(http.StatusOK, products)
	}

	cats, err := h.Svc.ListCategories(ctx)
	if err != nil {
		l.Error("get_products_error", "status", 500, "reason", "cannot list categories", "error", err)
		return toHTTPError(err)
	}
	return h.page(c, http.StatusOK, "home.html", view{
		Title: "Products",
		Data:  homeData{Products: products, Categories: cats, CategoryID: categoryID},
	})
}

func (h *CatalogHTTP) ProductDetail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.product_detail")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("get_product_error", "status", 400, "error", err)
		return err
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		l.Warn("get_product_error", "product_id", id, "error", err)
		return toHTTPError(err)
	}

	if negotiate.WantsJSON(c) {
		return c.JSON(http.StatusOK, product)
	}
	return h.page(c, http.StatusOK, "product.html", view{Title: product.Name, Data: product})
}
