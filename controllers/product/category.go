package productcontroller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/AndreyPae/storefront/controllers/common"
	"github.com/AndreyPae/storefront/forms"
	"github.com/AndreyPae/storefront/models"
	"github.com/AndreyPae/storefront/store"
	"github.com/gin-gonic/gin"
)

const categoryExists = "Category with this name already exists."

// slugProblem explains why name cannot be listed at /{slug}/, or returns "".
func slugProblem(name string) string {
	slug := models.Slugify(name)
	switch {
	case slug == "":
		return "Enter a name with at least one letter or digit."
	case models.IsReservedSlug(slug):
		return fmt.Sprintf("The name %q is reserved. Choose another one.", name)
	}
	return ""
}

func GetAllCategories(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := s.ListCategories(c.Request.Context())
		if err != nil {
			common.Fail(c, err, "categories")
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}

// GetCategoryByID returns the category with its products.
func GetCategoryByID(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		category, err := s.CategoryByID(c.Request.Context(), id)
		if err != nil {
			common.Fail(c, err, "Category")
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// GET /categories/create/
func CategoryForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"fields": []string{"name", "description"}})
	}
}

func CreateCategory(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form forms.CategoryForm
		if errs := forms.Bind(c, &form); errs != nil {
			common.Invalid(c, errs)
			return
		}

		if msg := slugProblem(form.Name); msg != "" {
			common.Invalid(c, forms.Errors{"name": msg})
			return
		}
		category := models.Category{Name: form.Name, Description: form.Description}
		if err := s.CreateCategory(c.Request.Context(), &category); err != nil {
			if errors.Is(err, store.ErrConflict) {
				common.Invalid(c, forms.Errors{"name": categoryExists})
				return
			}
			common.Fail(c, err, "Category")
			return
		}
		common.Done(c, http.StatusCreated, "/categories/", category)
	}
}

// GET /categories/:id/update/
func EditCategory(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		category, err := s.CategoryByID(c.Request.Context(), id)
		if err != nil {
			common.Fail(c, err, "Category")
			return
		}
		c.JSON(http.StatusOK, gin.H{"category": category})
	}
}

func UpdateCategory(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		category, err := s.CategoryByID(ctx, id)
		if err != nil {
			common.Fail(c, err, "Category")
			return
		}

		var form forms.CategoryForm
		if errs := forms.Bind(c, &form); errs != nil {
			common.Invalid(c, errs)
			return
		}
		if msg := slugProblem(form.Name); msg != "" {
			common.Invalid(c, forms.Errors{"name": msg})
			return
		}
		category.Name = form.Name
		category.Description = form.Description

		if err := s.UpdateCategory(ctx, category); err != nil {
			if errors.Is(err, store.ErrConflict) {
				common.Invalid(c, forms.Errors{"name": categoryExists})
				return
			}
			common.Fail(c, err, "Category")
			return
		}
		common.Done(c, http.StatusOK, fmt.Sprintf("/categories/%d/", category.ID), category)
	}
}

// DeleteCategory detaches the category from its products before removing it.
func DeleteCategory(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		if err := s.DeleteCategory(c.Request.Context(), id); err != nil {
			common.Fail(c, err, "Category")
			return
		}
		common.Done(c, http.StatusOK, "/categories/", gin.H{"message": "Category deleted successfully"})
	}
}
