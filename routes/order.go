package routes

import (
	orderControllers "github.com/AndreyPae/storefront/controllers/order"
	"github.com/gin-gonic/gin"
)

func SetupOrderRoutes(g *gin.RouterGroup, d Deps) {
	s := d.Store

	g.GET("/checkout/", orderControllers.CheckoutForm(s))
	g.POST("/checkout/", orderControllers.PlaceOrder(s, d.Publisher))
	g.GET("/my-orders/", orderControllers.GetUserOrders(s))

	orders := g.Group("/orders")
	{
		orders.GET("/", orderControllers.GetAllOrders(s))
		orders.GET("/:id/", orderControllers.GetOrderByID(s))
		orders.GET("/:id/confirmation/", orderControllers.OrderConfirmation(s))
	}
}
