package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sportsstore/internal/handlers"
	"sportsstore/internal/service/token"
)

type Deps struct {
	DB             *gorm.DB
	AuthHandler    *handlers.AuthHandler
	AccountHandler *handlers.AccountHandler
	ProductHandler *handlers.ProductHandler
	CartHandler    *handlers.CartHandler
	OrderHandler   *handlers.OrderHandler
	ReviewHandler  *handlers.ReviewHandler
	TutorHandler   *handlers.TutorHandler
	StatsHandler   *handlers.StatsHandler
	SearchHandler  *handlers.SearchHandler
	ServiceHandler *token.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.LogOut)
	v1.POST("/forgot-password", d.AuthHandler.ForgotPassword)
	v1.POST("/reset-password", d.AuthHandler.ResetPassword)
	v1.GET("/search", d.SearchHandler.Search)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)

	tutors := v1.Group("/tutors")
	tutors.GET("", d.TutorHandler.ListTutors)
	tutors.GET("/:id", d.TutorHandler.GetTutor)

	authed := v1.Group("", d.ServiceHandler.AutoRefreshMiddleware)

	authed.GET("/profile", d.AccountHandler.Profile)
	authed.POST("/profile", d.AccountHandler.EditProfile)

	authed.GET("/cart", d.CartHandler.GetCart)
	authed.POST("/cart", d.CartHandler.AddToCart)
	authed.DELETE("/cart/:productId", d.CartHandler.RemoveLine)

	authed.POST("/checkout", d.OrderHandler.Checkout)
	authed.GET("/orders", d.OrderHandler.MyOrders)
	authed.GET("/orders/:id", d.OrderHandler.OrderDetails)
	authed.POST("/orders/:id/cancel", d.OrderHandler.Cancel)
	authed.POST("/orders/:id/status", d.OrderHandler.UpdateStatus)

	authed.GET("/products/:id/review", d.ReviewHandler.ReviewContext)
	authed.POST("/reviews", d.ReviewHandler.SubmitReview)

	authed.POST("/bookings", d.TutorHandler.Book)
	authed.POST("/bookings/confirm", d.TutorHandler.ConfirmBooking)
	authed.GET("/bookings", d.TutorHandler.MyBookings)
	authed.GET("/bookings/:id/payment", d.TutorHandler.Payment)
	authed.POST("/bookings/:id/pay", d.TutorHandler.ProcessPayment)

	admin := v1.Group("/admin", d.ServiceHandler.AutoRefreshMiddlewareAdmin)

	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	admin.GET("/stats/revenue", d.StatsHandler.RevenueStats)
}
