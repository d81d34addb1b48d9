package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shofy/internal/service"
	"github.com/Skotchmaster/shofy/internal/transport"
)

type StoreHTTP struct {
	Svc *service.StoreService
}

func (h *StoreHTTP) List(c echo.Context) error {
	l := logFrom(c, "store.list")

	stores, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return fail(c, l, "list_stores", storeResource, "", err)
	}
	return respond(c, http.StatusOK, stores, storeResource.count(len(stores)))
}

// GetByUser serves GET /store/:id, where id is the owning user's id.
func (h *StoreHTTP) GetByUser(c echo.Context) error {
	l := logFrom(c, "store.get")

	id, err := parseID(c, storeResource)
	if err != nil {
		return badID(c, l, "get_store", err)
	}

	store, err := h.Svc.GetByUser(c.Request().Context(), id)
	if err != nil {
		return fail(c, l, "get_store", storeResource, "", err)
	}
	return respond(c, http.StatusOK, store, "Store found")
}

func (h *StoreHTTP) Create(c echo.Context) error {
	l := logFrom(c, "store.create")

	var req transport.StoreFields
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "create_store", err)
	}

	store, err := h.Svc.Create(c.Request().Context(), req)
	if errors.Is(err, service.ErrDuplicateRelationship) {
		l.Warn("create_store_error", "status", 422, "reason", "store already exists", "user_id", store.UserID)
		return respond(c, http.StatusUnprocessableEntity, store, "Failed to create store, store already exists.")
	}
	if err != nil {
		return fail(c, l, "create_store", storeResource, "Failed to create store", err)
	}

	l.Info("create_store_success", "user_id", store.UserID)
	return respond(c, http.StatusCreated, store, "Store created")
}

func (h *StoreHTTP) Update(c echo.Context) error {
	l := logFrom(c, "store.update")

	id, err := parseID(c, storeResource)
	if err != nil {
		return badID(c, l, "update_store", err)
	}

	var req transport.StoreFields
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "update_store", err)
	}

	store, err := h.Svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return fail(c, l, "update_store", storeResource, "Invalid store", err)
	}
	return respond(c, http.StatusOK, store, "Store updated")
}

func (h *StoreHTTP) Delete(c echo.Context) error {
	l := logFrom(c, "store.delete")

	id, err := parseID(c, storeResource)
	if err != nil {
		return badID(c, l, "delete_store", err)
	}

	store, err := h.Svc.Delete(c.Request().Context(), id)
	if err != nil {
		return fail(c, l, "delete_store", storeResource, "", err)
	}

	l.Info("delete_store_success", "user_id", store.UserID)
	return respond(c, http.StatusOK, store, "Store deleted")
}

func (h *StoreHTTP) ListProducts(c echo.Context) error {
	l := logFrom(c, "store.list_products")

	id, err := parseID(c, storeResource)
	if err != nil {
		return badID(c, l, "list_store_products", err)
	}

	products, err := h.Svc.ListProducts(c.Request().Context(), id)
	if err != nil {
		return fail(c, l, "list_store_products", storeResource, "", err)
	}
	return respond(c, http.StatusOK, products, productResource.count(len(products)))
}
