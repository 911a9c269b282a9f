package productcontroller

import (
	"net/http"

	"github.com/AndreyPae/storefront/controllers/common"
	"github.com/AndreyPae/storefront/store"
	"github.com/gin-gonic/gin"
)

func productDetail(c *gin.Context, s store.Store, id uint) {
	product, err := s.ProductByID(c.Request.Context(), id)
	if err != nil {
		common.Fail(c, err, "Product")
		return
	}
	c.JSON(http.StatusOK, product)
}
