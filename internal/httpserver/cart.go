package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shofy/internal/service"
	"github.com/Skotchmaster/shofy/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) List(c echo.Context) error {
	l := logFrom(c, "cart.list")

	items, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return fail(c, l, "list_cart_items", cartItemResource, "", err)
	}
	return respond(c, http.StatusOK, items, cartItemResource.count(len(items)))
}

func (h *CartHTTP) Get(c echo.Context) error {
	l := logFrom(c, "cart.get")

	id, err := parseID(c, cartItemResource)
	if err != nil {
		return badID(c, l, "get_cart_item", err)
	}

	item, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, l, "get_cart_item", cartItemResource, "", err)
	}
	return respond(c, http.StatusOK, item, "Cart item found")
}

// Add creates a cart item or, when the user already has the product in the
// cart, adds to its quantity.
func (h *CartHTTP) Add(c echo.Context) error {
	l := logFrom(c, "cart.add")

	var req transport.CartItemFields
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "add_to_cart", err)
	}

	item, created, err := h.Svc.Add(c.Request().Context(), req)
	if err != nil {
		var ref *service.ReferenceError
		if errors.As(err, &ref) && ref.Entity == "Product" {
			l.Warn("add_to_cart_error", "status", 404, "reason", "product not found", "error", err)
			return respond(c, http.StatusNotFound, nil, fmt.Sprintf("Product with id %d does not exist", ref.ID))
		}
		return fail(c, l, "add_to_cart", cartItemResource, "Failed to create cart item", err)
	}

	if !created {
		l.Info("add_to_cart_merged", "cart_item_id", item.ID, "quantity", item.Quantity)
		return respond(c, http.StatusOK, item, "Cart item updated")
	}
	l.Info("add_to_cart_success", "cart_item_id", item.ID)
	return respond(c, http.StatusCreated, item, "Cart item created")
}

func (h *CartHTTP) Update(c echo.Context) error {
	l := logFrom(c, "cart.update")

	id, err := parseID(c, cartItemResource)
	if err != nil {
		return badID(c, l, "update_cart_item", err)
	}

	var req transport.CartItemFields
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "update_cart_item", err)
	}

	item, err := h.Svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return fail(c, l, "update_cart_item", cartItemResource, "Invalid cart item", err)
	}
	return respond(c, http.StatusOK, item, "Cart item updated")
}

func (h *CartHTTP) Delete(c echo.Context) error {
	l := logFrom(c, "cart.delete")

	id, err := parseID(c, cartItemResource)
	if err != nil {
		return badID(c, l, "delete_cart_item", err)
	}

	item, err := h.Svc.Delete(c.Request().Context(), id)
	if err != nil {
		return fail(c, l, "delete_cart_item", cartItemResource, "", err)
	}
	return respond(c, http.StatusOK, item, "Cart item deleted")
}
