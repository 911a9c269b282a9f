package routes

import (
	cartControllers "github.com/AndreyPae/storefront/controllers/cart"
	productcontroller "github.com/AndreyPae/storefront/controllers/product"
	userControllers "github.com/AndreyPae/storefront/controllers/user"
	"github.com/gin-gonic/gin"
)

// SetupUserRoutes registers the catalog and cart endpoints. g must already
// require a session.
func SetupUserRoutes(g *gin.RouterGroup, d Deps) {
	s := d.Store

	g.GET("/me/", userControllers.GetUser(s))

	// ──────────────── Products ────────────────
	g.GET("/", productcontroller.GetProducts(s))
	g.GET("/create/", productcontroller.ProductFormChoices(s))
	g.POST("/create/", productcontroller.CreateProduct(s))
	g.GET("/:ref/", productcontroller.GetByRef(s)) // product id, category slug or tag slug
	g.GET("/:ref/update/", productcontroller.EditProduct(s))
	g.POST("/:ref/update/", productcontroller.UpdateProduct(s))
	g.POST("/:ref/delete/", productcontroller.DeleteProduct(s))

	// ──────────────── Categories ────────────────
	categories := g.Group("/categories")
	{
		categories.GET("/", productcontroller.GetAllCategories(s))
		categories.GET("/create/", productcontroller.CategoryForm())
		categories.POST("/create/", productcontroller.CreateCategory(s))
		categories.GET("/:id/", productcontroller.GetCategoryByID(s))
		categories.GET("/:id/update/", productcontroller.EditCategory(s))
		categories.POST("/:id/update/", productcontroller.UpdateCategory(s))
		categories.POST("/:id/delete/", productcontroller.DeleteCategory(s))
	}

	// ──────────────── Shopping Cart ────────────────
	g.GET("/add_to_cart/:product_id/", cartControllers.AddToCartForm(s))
	g.POST("/add_to_cart/:product_id/", cartControllers.AddToCart(s))

	cart := g.Group("/cart")
	{
		cart.GET("/", cartControllers.GetCart(s))
		cart.GET("/detail/", cartControllers.CartDetail(s))
		cart.POST("/add/:id/", cartControllers.CartAdd(s))
		cart.GET("/update/:id/", cartControllers.EditCartItem(s))
		cart.POST("/update/:id/", cartControllers.UpdateCartItem(s))
		cart.POST("/delete/:id/", cartControllers.DeleteCartItem(s))
		cart.POST("/remove/:id/", cartControllers.RemoveFromCart(s))
	}
}
