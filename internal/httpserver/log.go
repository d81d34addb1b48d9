package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shofy/pkg/logging"
)

func logFrom(c echo.Context, handler string) *slog.Logger {
	return logging.FromContext(c.Request().Context()).With("handler", handler)
}
