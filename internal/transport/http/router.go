package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/maestrodigital/maestro_shop/internal/handlers"
	"github.com/maestrodigital/maestro_shop/internal/service/token"
)

type Deps struct {
	AuthHandler     *handlers.AuthHandler
	ProductHandler  *handlers.ProductHandler
	CartHandler     *handlers.CartHandler
	CheckoutHandler *handlers.CheckoutHandler
	DownloadHandler *handlers.DownloadHandler
	AdminHandler    *handlers.AdminHandler
	SearchHandler   *handlers.SearchHandler
	AdvisorHandler  *handlers.AdvisorHandler
	Tokens          *token.Service
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)
	v1.POST("/forgot-password", d.AuthHandler.ForgotPassword)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)

	v1.GET("/search", d.SearchHandler.Search)
	v1.POST("/advisor", d.AdvisorHandler.Advise)

	cartg := v1.Group("/cart")
	cartg.GET("", d.CartHandler.GetCart)
	cartg.POST("", d.CartHandler.AddToCart)
	cartg.DELETE("/:id", d.CartHandler.RemoveFromCart)
	cartg.DELETE("", d.CartHandler.ClearCart)

	v1.POST("/checkout", d.CheckoutHandler.Checkout, d.Tokens.Optional)
	v1.GET("/orders/:id/downloads", d.DownloadHandler.GetTickets)

	v1.POST("/admin/unlock", d.AdminHandler.Unlock)

	admin := v1.Group("/admin", d.Tokens.AdminOnly)
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	admin.GET("/customers", d.AdminHandler.ListCustomers)
}
