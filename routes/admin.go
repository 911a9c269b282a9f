package routes

import (
	adminController "github.com/AndreyPae/storefront/controllers/admin"
	productcontroller "github.com/AndreyPae/storefront/controllers/product"
	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes registers the superuser endpoints under g.
func SetupAdminRoutes(g *gin.RouterGroup, d Deps) {
	s := d.Store

	g.GET("/", adminController.Dashboard(s))

	g.GET("/tags/", productcontroller.GetAllTags(s))
	g.POST("/tags/", productcontroller.CreateTag(s))

	g.GET("/products/export/", productcontroller.ExportProductsToExcel(s))
	g.POST("/products/import/", productcontroller.ImportProductsFromExcel(s))

	if d.Hub != nil {
		g.GET("/orders/ws/", d.Hub.Handler())
	}
}
