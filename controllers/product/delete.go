package productcontroller

import (
	"net/http"

	"github.com/AndreyPae/storefront/controllers/common"
	"github.com/AndreyPae/storefront/store"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// POST /:ref/delete/
// Cart and order items that reference the product are not checked.
func DeleteProduct(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "ref")
		if !ok {
			return
		}
		if err := s.DeleteProduct(c.Request.Context(), id); err != nil {
			common.Fail(c, err, "Product")
			return
		}
		logrus.WithField("product_id", id).Info("product deleted")
		common.Done(c, http.StatusOK, "/", gin.H{"message": "Product deleted successfully"})
	}
}
