package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shofy/internal/service"
	"github.com/Skotchmaster/shofy/internal/transport"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) List(c echo.Context) error {
	l := logFrom(c, "user.list")

	users, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return fail(c, l, "list_users", userResource, "", err)
	}
	return respond(c, http.StatusOK, users, userResource.count(len(users)))
}

func (h *UserHTTP) Get(c echo.Context) error {
	l := logFrom(c, "user.get")

	id, err := parseID(c, userResource)
	if err != nil {
		return badID(c, l, "get_user", err)
	}

	user, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, l, "get_user", userResource, "", err)
	}
	return respond(c, http.StatusOK, user, "User found")
}

func (h *UserHTTP) Create(c echo.Context) error {
	l := logFrom(c, "user.create")

	var req transport.UserFields
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "create_user", err)
	}

	user, err := h.Svc.Create(c.Request().Context(), req)
	if err != nil {
		return fail(c, l, "create_user", userResource, "Failed to create user", err)
	}

	l.Info("create_user_success", "user_id", user.ID)
	return respond(c, http.StatusCreated, user, "User created")
}

func (h *UserHTTP) Update(c echo.Context) error {
	l := logFrom(c, "user.update")

	id, err := parseID(c, userResource)
	if err != nil {
		return badID(c, l, "update_user", err)
	}

	var req transport.UserFields
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "update_user", err)
	}

	user, err := h.Svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return fail(c, l, "update_user", userResource, "Invalid user", err)
	}
	return respond(c, http.StatusOK, user, "User updated")
}

func (h *UserHTTP) Delete(c echo.Context) error {
	l := logFrom(c, "user.delete")

	id, err := parseID(c, userResource)
	if err != nil {
		return badID(c, l, "delete_user", err)
	}

	user, err := h.Svc.Delete(c.Request().Context(), id)
	if err != nil {
		return fail(c, l, "delete_user", userResource, "", err)
	}

	l.Info("delete_user_success", "user_id", user.ID)
	return respond(c, http.StatusOK, user, "User deleted")
}

func (h *UserHTTP) ListCart(c echo.Context) error {
	l := logFrom(c, "user.list_cart")

	id, err := parseID(c, userResource)
	if err != nil {
		return badID(c, l, "list_cart", err)
	}

	user, items, err := h.Svc.ListCart(c.Request().Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		l.Warn("list_cart_error", "status", 404, "reason", "user not found", "error", err)
		return respond(c, http.StatusNotFound, nil, "User does not exist")
	}
	if err != nil {
		return fail(c, l, "list_cart", userResource, "", err)
	}
	return respond(c, http.StatusOK, items, fmt.Sprintf("List of %s cart items", user.Username))
}
