package orderControllers

import (
	"net/http"

	"github.com/AndreyPae/storefront/auth"
	"github.com/AndreyPae/storefront/controllers/common"
	"github.com/AndreyPae/storefront/store"
	"github.com/gin-gonic/gin"
)

// GET /orders/
// Lists every order, not only the caller's.
func GetAllOrders(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := s.ListOrders(c.Request.Context())
		if err != nil {
			common.Fail(c, err, "orders")
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

// GET /orders/:id/
func GetOrderByID(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		order, err := s.OrderByID(c.Request.Context(), id)
		if err != nil {
			common.Fail(c, err, "Order")
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /orders/:id/confirmation/
func OrderConfirmation(s store.Store) gin.HandlerFunc {
	return GetOrderByID(s)
}

// GET /my-orders/
// Matches on the email stored with each order, not on the ordering user.
func GetUserOrders(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		user, err := s.UserByID(ctx, auth.MustCurrent(c).UserID)
		if err != nil {
			common.Fail(c, err, "User")
			return
		}
		orders, err := s.OrdersByEmail(ctx, user.Email)
		if err != nil {
			common.Fail(c, err, "orders")
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}
