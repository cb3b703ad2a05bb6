package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/bikeghor/server/internal/handlers"
	"github.com/bikeghor/server/internal/middleware/auth"
)

type Deps struct {
	Guard      *auth.Guard
	Users      *handlers.UserHandler
	Products   *handlers.ProductHandler
	Categories *handlers.CategoryHandler
	Advertise  *handlers.AdvertiseHandler
	Wishlist   *handlers.WishlistHandler
	Orders     *handlers.OrderHandler
	Payments   *handlers.PaymentHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	g := d.Guard

	e.POST("/users", d.Users.CreateUser)
	e.GET("/users/buyer/:email", d.Users.IsBuyer)
	e.GET("/users/seller/:email", d.Users.IsSeller)
	e.GET("/users/admin/:email", d.Users.IsAdmin)
	e.GET("/users/seller", d.Users.GetSeller, g.RequireToken)
	e.GET("/jwt", d.Users.IssueToken)

	e.GET("/sellers", d.Users.ListSellers, g.RequireToken, g.RequireAdmin)
	e.GET("/buyers", d.Users.ListBuyers, g.RequireToken, g.RequireAdmin)
	e.PUT("/sellers/:id", d.Users.VerifySeller, g.RequireToken, g.RequireAdmin)
	e.DELETE("/sellers/:id", d.Users.DeleteUser, g.RequireToken, g.RequireAdmin, g.RequireOwnEmail)
	e.DELETE("/buyers/:id", d.Users.DeleteUser, g.RequireToken, g.RequireAdmin, g.RequireOwnEmail)

	e.POST("/products", d.Products.Create, g.RequireToken, g.RequireSeller)
	e.GET("/products", d.Products.ListBySeller, g.RequireToken, g.RequireSeller, g.RequireOwnEmail)
	e.GET("/products/search", d.Products.SearchProducts, g.RequireToken)
	e.GET("/products/category/:id", d.Products.ByCategory, g.RequireToken)
	e.PUT("/products/booked/:id", d.Products.Book, g.RequireToken)
	e.GET("/products/:id", d.Products.Get, g.RequireToken)
	e.DELETE("/products/:id", d.Products.Delete, g.RequireToken, g.RequireSeller, g.RequireOwnEmail)

	e.GET("/categories", d.Categories.List)

	e.POST("/advertise", d.Advertise.Create, g.RequireToken, g.RequireSeller)
	e.GET("/advertise", d.Advertise.List, g.RequireToken, g.RequireSeller)
	e.DELETE("/advertise", d.Advertise.Delete, g.RequireToken, g.RequireSeller, g.RequireOwnEmail)

	e.POST("/wishlist", d.Wishlist.Create, g.RequireToken)
	e.GET("/wishlist", d.Wishlist.List, g.RequireToken, g.RequireOwnEmail)

	e.POST("/orders", d.Orders.Create, g.RequireToken)
	e.GET("/orders", d.Orders.List, g.RequireToken, g.RequireOwnEmail)

	e.POST("/create-payment-intent", d.Payments.CreateIntent, g.RequireToken)
	e.POST("/payments", d.Payments.Record, g.RequireToken)
}
