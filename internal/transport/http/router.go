package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ecomshop/internal/handlers"
	"ecomshop/internal/middleware/auth"
)

type Deps struct {
	Auth            *auth.Middleware
	AuthHandler     *handlers.AuthHandler
	OrderHandler    *handlers.OrderHandler
	CategoryHandler *handlers.CategoryHandler
	ProductHandler  *handlers.ProductHandler
	PaymentHandler  *handlers.PaymentHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", d.AuthHandler.Register)
	authGroup.POST("/login", d.AuthHandler.Login)
	authGroup.POST("/forgot-password", d.AuthHandler.ForgotPassword)
	authGroup.GET("/test", d.AuthHandler.Test, d.Auth.RequireSignIn, d.Auth.RequireAdmin)
	authGroup.GET("/user-auth", handlers.Probe, d.Auth.RequireSignIn)
	authGroup.GET("/admin-auth", handlers.Probe, d.Auth.RequireSignIn, d.Auth.RequireAdmin)
	authGroup.PUT("/profile", d.AuthHandler.UpdateProfile, d.Auth.RequireSignIn)
	authGroup.GET("/orders", d.OrderHandler.GetOrders, d.Auth.RequireSignIn)
	authGroup.GET("/all-orders", d.OrderHandler.GetAllOrders, d.Auth.RequireSignIn, d.Auth.RequireAdmin)
	authGroup.PUT("/order-status/:orderId", d.OrderHandler.UpdateStatus, d.Auth.RequireSignIn, d.Auth.RequireAdmin)

	category := v1.Group("/category")
	category.POST("/create-category", d.CategoryHandler.Create, d.Auth.RequireSignIn, d.Auth.RequireAdmin)
	category.PUT("/update-category/:id", d.CategoryHandler.Update, d.Auth.RequireSignIn, d.Auth.RequireAdmin)
	category.GET("/get-category", d.CategoryHandler.GetAll)
	category.GET("/single-category/:slug", d.CategoryHandler.GetBySlug)
	category.DELETE("/delete-category/:id", d.CategoryHandler.Delete, d.Auth.RequireSignIn, d.Auth.RequireAdmin)

	product := v1.Group("/product")
	product.POST("/create-product", d.ProductHandler.Create, d.Auth.RequireSignIn, d.Auth.RequireAdmin)
	product.PUT("/update-product/:pid", d.ProductHandler.Update, d.Auth.RequireSignIn, d.Auth.RequireAdmin)
	product.DELETE("/delete-product/:pid", d.ProductHandler.Delete, d.Auth.RequireSignIn, d.Auth.RequireAdmin)
	product.GET("/get-product", d.ProductHandler.GetAll)
	product.GET("/get-product/:slug", d.ProductHandler.GetBySlug)
	product.GET("/product-photo/:pid", d.ProductHandler.Photo)
	product.POST("/product-filters", d.ProductHandler.Filters)
	product.GET("/product-count", d.ProductHandler.Count)
	product.GET("/product-list/:page", d.ProductHandler.ListPage)
	product.GET("/search/:keyword", d.ProductHandler.Search)
	product.GET("/related-product/:pid/:cid", d.ProductHandler.Related)
	product.GET("/product-category/:slug", d.ProductHandler.ByCategory)
	product.GET("/braintree/token", d.PaymentHandler.Token)
	product.POST("/braintree/payment", d.PaymentHandler.Checkout, d.Auth.RequireSignIn)
}
