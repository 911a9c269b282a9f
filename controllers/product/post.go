package productcontroller

import (
	"context"
	"fmt"
	"net/http"

	"github.com/AndreyPae/storefront/controllers/common"
	"github.com/AndreyPae/storefront/forms"
	"github.com/AndreyPae/storefront/models"
	"github.com/AndreyPae/storefront/store"
	"github.com/gin-gonic/gin"
)

const invalidChoice = "Select a valid choice. That choice is not one of the available choices."

// GET /create/
// Returns the choices the product form needs.
func ProductFormChoices(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		choices, err := formChoices(c.Request.Context(), s)
		if err != nil {
			common.Fail(c, err, "choices")
			return
		}
		c.JSON(http.StatusOK, choices)
	}
}

// POST /create/
func CreateProduct(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form forms.ProductForm
		if errs := forms.Bind(c, &form); errs != nil {
			common.Invalid(c, errs)
			return
		}

		product := models.Product{Available: true}
		errs, err := applyForm(c.Request.Context(), s, form, &product)
		if err != nil {
			common.Fail(c, err, "Product")
			return
		}
		if errs != nil {
			common.Invalid(c, errs)
			return
		}

		if err := s.CreateProduct(c.Request.Context(), &product); err != nil {
			common.Fail(c, err, "Product")
			return
		}
		common.Done(c, http.StatusCreated, fmt.Sprintf("/%d/", product.ID), product)
	}
}

// applyForm copies a bound form onto product, resolving category and tag ids.
// Availability is only changed when the form carries it.
// Form problems come back as Errors; store failures as error.
func applyForm(ctx context.Context, s store.Store, form forms.ProductForm, product *models.Product) (forms.Errors, error) {
	price, errs := form.CleanPrice()
	if errs == nil {
		errs = forms.Errors{}
	}

	ids := unique(form.Categories)
	categories, err := s.CategoriesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(categories) != len(ids) {
		errs.Add("categories", invalidChoice)
	}

	tagIDs := unique(form.Tags)
	tags, err := s.TagsByIDs(ctx, tagIDs)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(tagIDs) {
		errs.Add("tags", invalidChoice)
	}

	if errs := errs.OrNil(); errs != nil {
		return errs, nil
	}

	product.Name = form.Name
	product.Description = form.Description
	product.Price = price
	product.Available = form.AvailableOr(product.Available)
	product.Categories = categories
	product.Tags = tags
	return nil, nil
}

func formChoices(ctx context.Context, s store.Store) (gin.H, error) {
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := s.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	return gin.H{"categories": categories, "tags": tags}, nil
}

func unique(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
