package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shofy/internal/search"
	"github.com/Skotchmaster/shofy/internal/service"
	"github.com/Skotchmaster/shofy/internal/transport"
)

type ProductHTTP struct {
	Svc *service.ProductService
}

func (h *ProductHTTP) List(c echo.Context) error {
	l := logFrom(c, "product.list")

	products, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return fail(c, l, "list_products", productResource, "", err)
	}
	return respond(c, http.StatusOK, products, productResource.count(len(products)))
}

func (h *ProductHTTP) Get(c echo.Context) error {
	l := logFrom(c, "product.get")

	id, err := parseID(c, productResource)
	if err != nil {
		return badID(c, l, "get_product", err)
	}

	product, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, l, "get_product", productResource, "", err)
	}
	return respond(c, http.StatusOK, product, "Product found")
}

func (h *ProductHTTP) Create(c echo.Context) error {
	l := logFrom(c, "product.create")

	var req transport.ProductFields
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "create_product", err)
	}

	product, err := h.Svc.Create(c.Request().Context(), req)
	if err != nil {
		return fail(c, l, "create_product", productResource, "Failed to create product", err)
	}

	l.Info("create_product_success", "product_id", product.ID)
	return respond(c, http.StatusCreated, product, "Product created")
}

func (h *ProductHTTP) Update(c echo.Context) error {
	l := logFrom(c, "product.update")

	id, err := parseID(c, productResource)
	if err != nil {
		return badID(c, l, "update_product", err)
	}

	var req transport.ProductFields
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "update_product", err)
	}

	product, err := h.Svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return fail(c, l, "update_product", productResource, "Invalid product", err)
	}
	return respond(c, http.StatusOK, product, "Product updated")
}

func (h *ProductHTTP) Delete(c echo.Context) error {
	l := logFrom(c, "product.delete")

	id, err := parseID(c, productResource)
	if err != nil {
		return badID(c, l, "delete_product", err)
	}

	product, err := h.Svc.Delete(c.Request().Context(), id)
	if err != nil {
		return fail(c, l, "delete_product", productResource, "", err)
	}

	l.Info("delete_product_success", "product_id", product.ID)
	return respond(c, http.StatusOK, product, "Product deleted")
}

func (h *ProductHTTP) Search(c echo.Context) error {
	l := logFrom(c, "product.search")

	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		l.Warn("search_products_error", "status", 400, "reason", "empty query")
		return respond(c, http.StatusBadRequest, nil, `Parameter "q" is required`)
	}

	result, err := h.Svc.Search(c.Request().Context(), q)
	if errors.Is(err, search.ErrDisabled) {
		l.Warn("search_products_error", "status", 503, "reason", "search disabled")
		return respond(c, http.StatusServiceUnavailable, nil, "Search is not configured")
	}
	if err != nil {
		return fail(c, l, "search_products", productResource, "", err)
	}
	return respond(c, http.StatusOK, result, productResource.count(len(result.Products)))
}
