package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shofy/pkg/db"
	"github.com/Skotchmaster/shofy/pkg/middleware/metrics"
)

type Deps struct {
	DB       *gorm.DB
	Users    *UserHTTP
	Stores   *StoreHTTP
	Products *ProductHTTP
	Cart     *CartHTTP
	Metrics  *metrics.Metrics
}

func Register(e *echo.Echo, d *Deps) {
	e.Pre(middleware.RemoveTrailingSlash())

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := db.Ping(c.Request().Context(), d.DB); err != nil {
			logFrom(c, "health.ready").Error("ready_error", "status", 503, "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	users := e.Group("/user")
	users.GET("", d.Users.List)
	users.POST("", d.Users.Create)
	users.PUT("", missingParameter(userResource))
	users.DELETE("", missingParameter(userResource))
	users.GET("/:id", d.Users.Get)
	users.PUT("/:id", d.Users.Update)
	users.DELETE("/:id", d.Users.Delete)
	users.GET("/:id/cart", d.Users.ListCart)

	stores := e.Group("/store")
	stores.GET("", d.Stores.List)
	stores.POST("", d.Stores.Create)
	stores.PUT("", missingParameter(storeResource))
	stores.DELETE("", missingParameter(storeResource))
	stores.GET("/:id", d.Stores.GetByUser)
	stores.PUT("/:id", d.Stores.Update)
	stores.DELETE("/:id", d.Stores.Delete)
	stores.GET("/:id/products", d.Stores.ListProducts)

	products := e.Group("/product")
	products.GET("", d.Products.List)
	products.POST("", d.Products.Create)
	products.PUT("", missingParameter(productResource))
	products.DELETE("", missingParameter(productResource))
	products.GET("/search", d.Products.Search)
	products.GET("/:id", d.Products.Get)
	products.PUT("/:id", d.Products.Update)
	products.DELETE("/:id", d.Products.Delete)

	cart := e.Group("/cart")
	cart.GET("", d.Cart.List)
	cart.POST("", d.Cart.Add)
	cart.PUT("", missingParameter(cartItemResource))
	cart.DELETE("", missingParameter(cartItemResource))
	cart.GET("/:id", d.Cart.Get)
	cart.PUT("/:id", d.Cart.Update)
	cart.DELETE("/:id", d.Cart.Delete)
}
