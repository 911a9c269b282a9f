package cartControllers

import (
	"net/http"
	"time"

	"github.com/AndreyPae/storefront/auth"
	"github.com/AndreyPae/storefront/controllers/common"
	"github.com/AndreyPae/storefront/forms"
	"github.com/AndreyPae/storefront/models"
	"github.com/AndreyPae/storefront/store"
	"github.com/gin-gonic/gin"
)

const cartLocation = "/cart/"

// GET /add_to_cart/:product_id/
func AddToCartForm(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "product_id")
		if !ok {
			return
		}
		product, err := s.ProductByID(c.Request.Context(), id)
		if err != nil {
			common.Fail(c, err, "Product")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"product": product,
			"form":    forms.CartItemForm{Quantity: 1},
		})
	}
}

// POST /add_to_cart/:product_id/
// Always adds a new row, even when the product is already in the cart.
func AddToCart(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "product_id")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		product, err := s.ProductByID(ctx, id)
		if err != nil {
			common.Fail(c, err, "Product")
			return
		}

		var form forms.CartItemForm
		if errs := forms.Bind(c, &form); errs != nil {
			common.Invalid(c, errs)
			return
		}

		item := models.CartItem{
			UserID:    auth.MustCurrent(c).UserID,
			ProductID: product.ID,
			Quantity:  form.Quantity,
			Options:   form.Options,
			AddedAt:   time.Now(),
		}
		if err := s.CreateCartItem(ctx, &item); err != nil {
			common.Fail(c, err, "Cart item")
			return
		}
		item.Product = *product
		common.Done(c, http.StatusCreated, cartLocation, item)
	}
}

// POST /cart/add/:id/
// Bumps the quantity of the product's row, creating it with quantity 1.
func CartAdd(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		product, err := s.ProductByID(ctx, id)
		if err != nil {
			common.Fail(c, err, "Product")
			return
		}

		item, _, err := s.IncrementCartItem(ctx, auth.MustCurrent(c).UserID, product.ID)
		if err != nil {
			common.Fail(c, err, "Cart item")
			return
		}
		item.Product = *product
		common.Done(c, http.StatusOK, cartLocation, item)
	}
}

// GET /cart/update/:id/
func EditCartItem(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, ok := ownItem(c, s)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart_item": item})
	}
}

// POST /cart/update/:id/
func UpdateCartItem(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, ok := ownItem(c, s)
		if !ok {
			return
		}

		var form forms.CartItemForm
		if errs := forms.Bind(c, &form); errs != nil {
			common.Invalid(c, errs)
			return
		}
		item.Quantity = form.Quantity
		item.Options = form.Options

		if err := s.UpdateCartItem(c.Request.Context(), item); err != nil {
			common.Fail(c, err, "Cart item")
			return
		}
		common.Done(c, http.StatusOK, cartLocation, item)
	}
}

// POST /cart/delete/:id/
func DeleteCartItem(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, ok := ownItem(c, s)
		if !ok {
			return
		}
		if err := s.DeleteCartItem(c.Request.Context(), item.ID); err != nil {
			common.Fail(c, err, "Cart item")
			return
		}
		common.Done(c, http.StatusOK, cartLocation, gin.H{"message": "Item removed from cart"})
	}
}

// POST /cart/remove/:id/
// Unlike DeleteCartItem, an item that exists but belongs to someone else
// answers 403 rather than 404.
func RemoveFromCart(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		item, err := s.CartItemByID(ctx, id)
		if err != nil {
			common.Fail(c, err, "Cart item")
			return
		}
		if item.UserID != auth.MustCurrent(c).UserID {
			common.Fail(c, store.ErrForbidden, "cart item")
			return
		}
		if err := s.DeleteCartItem(ctx, item.ID); err != nil {
			common.Fail(c, err, "Cart item")
			return
		}
		common.Done(c, http.StatusOK, cartLocation, gin.H{"message": "Item removed from cart"})
	}
}

// GET /cart/
// Requires the user's cart row.
func GetCart(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.MustCurrent(c).UserID
		ctx := c.Request.Context()
		cart, err := s.CartByUser(ctx, userID)
		if err != nil {
			common.Fail(c, err, "Cart")
			return
		}
		items, err := s.CartItemsByUser(ctx, userID)
		if err != nil {
			common.Fail(c, err, "Cart items")
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart, "cart_items": items})
	}
}

// GET /cart/detail/
func CartDetail(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := s.CartItemsByUser(c.Request.Context(), auth.MustCurrent(c).UserID)
		if err != nil {
			common.Fail(c, err, "Cart items")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"cart_items": items,
			"total":      models.CartTotal(items),
		})
	}
}

// ownItem loads the :id cart item of the current user. Items of other users
// answer 404 like missing ones.
func ownItem(c *gin.Context, s store.Store) (*models.CartItem, bool) {
	id, ok := common.ParseID(c, "id")
	if !ok {
		return nil, false
	}
	item, err := s.CartItemForUser(c.Request.Context(), id, auth.MustCurrent(c).UserID)
	if err != nil {
		common.Fail(c, err, "Cart item")
		return nil, false
	}
	return item, true
}
