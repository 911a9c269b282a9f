package userControllers

import (
	"net/http"

	"github.com/AndreyPae/storefront/auth"
	"github.com/AndreyPae/storefront/controllers/common"
	"github.com/AndreyPae/storefront/store"
	"github.com/gin-gonic/gin"
)

// GET /me/
func GetUser(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.UserByID(c.Request.Context(), auth.MustCurrent(c).UserID)
		if err != nil {
			common.Fail(c, err, "User")
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
