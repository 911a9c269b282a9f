package adminController

import (
	"net/http"

	"github.com/AndreyPae/storefront/auth"
	"github.com/AndreyPae/storefront/controllers/common"
	"github.com/AndreyPae/storefront/store"
	"github.com/gin-gonic/gin"
)

// GET /admin/
func Dashboard(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		counts, err := s.Counts(c.Request.Context())
		if err != nil {
			common.Fail(c, err, "counts")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user":   auth.MustCurrent(c),
			"counts": counts,
		})
	}
}
