package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AndreyPae/storefront/controllers/common"
	"github.com/AndreyPae/storefront/forms"
	"github.com/AndreyPae/storefront/store"
	"github.com/gin-gonic/gin"
)

// GET /
// Query: q, category, tag, min_price, max_price, available.
func GetProducts(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		listProducts(c, s, store.ProductFilter{})
	}
}

// GET /:ref/
// A numeric ref is a product id. Anything else is a category slug, or failing
// that a tag slug, and lists the matching products.
func GetByRef(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := c.Param("ref")
		if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
			productDetail(c, s, uint(id))
			return
		}

		ctx := c.Request.Context()
		if category, err := s.CategoryBySlug(ctx, ref); err == nil {
			listProducts(c, s, store.ProductFilter{CategorySlug: category.Slug})
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			common.Fail(c, err, "category")
			return
		}

		tag, err := s.TagBySlug(ctx, ref)
		if err != nil {
			common.Fail(c, err, "Category or tag")
			return
		}
		listProducts(c, s, store.ProductFilter{TagSlug: tag.Slug})
	}
}

func listProducts(c *gin.Context, s store.Store, scope store.ProductFilter) {
	var query forms.ProductQuery
	if errs := forms.BindQuery(c, &query); errs != nil {
		common.Invalid(c, errs)
		return
	}
	filter, errs := query.Filter()
	if errs != nil {
		common.Invalid(c, errs)
		return
	}
	filter.CategorySlug = scope.CategorySlug
	filter.TagSlug = scope.TagSlug

	ctx := c.Request.Context()
	products, err := s.ListProducts(ctx, filter)
	if err != nil {
		common.Fail(c, err, "products")
		return
	}
	categories, err := s.ListCategories(ctx)
	if err != nil {
		common.Fail(c, err, "categories")
		return
	}
	tags, err := s.ListTags(ctx)
	if err != nil {
		common.Fail(c, err, "tags")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":   products,
		"categories": categories,
		"tags":       tags,
		"filters":    filter,
	})
}
