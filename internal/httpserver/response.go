package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shofy/internal/service"
	"github.com/Skotchmaster/shofy/internal/transport"
	"github.com/Skotchmaster/shofy/internal/validation"
)

// resource names an entity the way it appears in response messages.
type resource struct {
	name   string
	plural string
	param  string
}

var (
	userResource     = resource{name: "User", plural: "users", param: "user_id"}
	storeResource    = resource{name: "Store", plural: "stores", param: "store_id"}
	productResource  = resource{name: "Product", plural: "products", param: "product_id"}
	cartItemResource = resource{name: "Cart item", plural: "cart items", param: "cart_item_id"}
)

func (r resource) count(n int) string {
	if n == 0 {
		return "No " + r.plural
	}
	return fmt.Sprintf("%s count: %d", r.name, n)
}

func respond(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, transport.Envelope{Data: data, Message: message, Status: status})
}

func parseID(c echo.Context, r resource) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		return 0, fmt.Errorf("Parameter %q must be an integer", r.param)
	}
	return uint(id), nil
}

// missingParameter answers PUT and DELETE on a collection path.
func missingParameter(r resource) echo.HandlerFunc {
	return func(c echo.Context) error {
		logFrom(c, "missing_parameter").Warn("missing_parameter", "status", 400, "param", r.param)
		return respond(c, http.StatusBadRequest, nil, fmt.Sprintf("Parameter %q does not exist", r.param))
	}
}

func badID(c echo.Context, l *slog.Logger, op string, err error) error {
	l.Warn(op+"_error", "status", 400, "reason", "invalid id", "error", err)
	return respond(c, http.StatusBadRequest, nil, err.Error())
}

func badBody(c echo.Context, l *slog.Logger, op string, err error) error {
	l.Warn(op+"_error", "status", 400, "reason", "invalid body", "error", err)
	return respond(c, http.StatusBadRequest, nil, "Invalid request body")
}

// fail converts a service error into the response envelope. invalid is the
// message used for validation failures.
func fail(c echo.Context, l *slog.Logger, op string, r resource, invalid string, err error) error {
	var (
		verrs validation.Errors
		ref   *service.ReferenceError
	)
	switch {
	case errors.As(err, &verrs):
		l.Warn(op+"_error", "status", 400, "reason", "validation failed", "error", err)
		return respond(c, http.StatusBadRequest, verrs.Flatten(), invalid)
	case errors.As(err, &ref):
		l.Warn(op+"_error", "status", 404, "reason", "reference not found", "error", err)
		return respond(c, http.StatusNotFound, nil, ref.Error())
	case errors.Is(err, service.ErrNotFound):
		l.Warn(op+"_error", "status", 404, "reason", "not found", "error", err)
		return respond(c, http.StatusNotFound, nil, r.name+" not found")
	default:
		l.Error(op+"_error", "status", 500, "reason", "internal", "error", err)
		return respond(c, http.StatusInternalServerError, nil, "Internal server error")
	}
}
