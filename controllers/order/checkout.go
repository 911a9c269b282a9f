package orderControllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/AndreyPae/storefront/auth"
	"github.com/AndreyPae/storefront/controllers/common"
	"github.com/AndreyPae/storefront/events"
	"github.com/AndreyPae/storefront/forms"
	"github.com/AndreyPae/storefront/middleware"
	"github.com/AndreyPae/storefront/models"
	"github.com/AndreyPae/storefront/store"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// GET /checkout/
func CheckoutForm(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := s.CartItemsByUser(c.Request.Context(), auth.MustCurrent(c).UserID)
		if err != nil {
			common.Fail(c, err, "Cart items")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"cart_items":       items,
			"total":            models.CartTotal(items),
			"delivery_methods": []models.DeliveryMethod{models.DeliveryPickup, models.DeliveryCourier, models.DeliveryPost},
		})
	}
}

// POST /checkout/
// Turns the cart into an order. The order.placed event goes out after
// commit; publish failures are only logged.
func PlaceOrder(s store.Store, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form forms.OrderForm
		if errs := forms.Bind(c, &form); errs != nil {
			middleware.RecordCheckout("invalid")
			common.Invalid(c, errs)
			return
		}

		ctx := c.Request.Context()
		userID := auth.MustCurrent(c).UserID
		order := form.Order()
		if err := s.Checkout(ctx, userID, &order); err != nil {
			if errors.Is(err, store.ErrEmptyCart) {
				middleware.RecordCheckout("empty")
				common.Invalid(c, forms.Errors{"cart": "Your cart is empty."})
				return
			}
			middleware.RecordCheckout("error")
			common.Fail(c, err, "Order")
			return
		}
		middleware.RecordCheckout("placed")

		log := logrus.WithFields(logrus.Fields{"order_id": order.ID, "order_ref": order.OrderRef, "user_id": userID})
		log.Info("order placed")
		if err := pub.Publish(ctx, events.NewOrderPlaced(&order)); err != nil {
			log.WithError(err).Warn("failed to publish order event")
		}

		common.Done(c, http.StatusCreated, fmt.Sprintf("/orders/%d/confirmation/", order.ID), order)
	}
}
