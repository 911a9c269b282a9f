package productcontroller

import (
	"fmt"
	"net/http"

	"github.com/AndreyPae/storefront/controllers/common"
	"github.com/AndreyPae/storefront/forms"
	"github.com/AndreyPae/storefront/store"
	"github.com/gin-gonic/gin"
)

// GET /:ref/update/
func EditProduct(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "ref")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		product, err := s.ProductByID(ctx, id)
		if err != nil {
			common.Fail(c, err, "Product")
			return
		}
		choices, err := formChoices(ctx, s)
		if err != nil {
			common.Fail(c, err, "choices")
			return
		}
		choices["product"] = product
		c.JSON(http.StatusOK, choices)
	}
}

// POST /:ref/update/
// Takes the same fields as CreateProduct. Availability is kept when not sent.
func UpdateProduct(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "ref")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		product, err := s.ProductByID(ctx, id)
		if err != nil {
			common.Fail(c, err, "Product")
			return
		}

		var form forms.ProductForm
		if errs := forms.Bind(c, &form); errs != nil {
			common.Invalid(c, errs)
			return
		}
		errs, err := applyForm(ctx, s, form, product)
		if err != nil {
			common.Fail(c, err, "Product")
			return
		}
		if errs != nil {
			common.Invalid(c, errs)
			return
		}

		if err := s.UpdateProduct(ctx, product); err != nil {
			common.Fail(c, err, "Product")
			return
		}
		common.Done(c, http.StatusOK, fmt.Sprintf("/%d/", product.ID), product)
	}
}
