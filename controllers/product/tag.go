package productcontroller

import (
	"errors"
	"net/http"

	"github.com/AndreyPae/storefront/controllers/common"
	"github.com/AndreyPae/storefront/forms"
	"github.com/AndreyPae/storefront/models"
	"github.com/AndreyPae/storefront/store"
	"github.com/gin-gonic/gin"
)

func GetAllTags(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		tags, err := s.ListTags(c.Request.Context())
		if err != nil {
			common.Fail(c, err, "tags")
			return
		}
		c.JSON(http.StatusOK, gin.H{"tags": tags})
	}
}

func CreateTag(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form forms.TagForm
		if errs := forms.Bind(c, &form); errs != nil {
			common.Invalid(c, errs)
			return
		}
		if msg := slugProblem(form.Name); msg != "" {
			common.Invalid(c, forms.Errors{"name": msg})
			return
		}
		tag := models.Tag{Name: form.Name}
		if err := s.CreateTag(c.Request.Context(), &tag); err != nil {
			if errors.Is(err, store.ErrConflict) {
				common.Invalid(c, forms.Errors{"name": "Tag with this name already exists."})
				return
			}
			common.Fail(c, err, "Tag")
			return
		}
		common.Done(c, http.StatusCreated, "/admin/tags/", tag)
	}
}
