package forms

import (
	"strconv"
	"strings"

	"github.com/AndreyPae/storefront/store"
	"github.com/shopspring/decimal"
)

type ProductForm struct {
	Name        string `form:"name" json:"name" binding:"required,max=200"`
	Description string `form:"description" json:"description" binding:"required"`
	Price       string `form:"price" json:"price" binding:"required"`
	Categories  []uint `form:"categories" json:"categories" binding:"required,min=1"`
	Tags        []uint `form:"tags" json:"tags"`
	Available   *bool  `form:"available" json:"available"`
}

// CleanPrice parses the price as a non-negative amount with at most two
// decimal places.
func (f ProductForm) CleanPrice() (decimal.Decimal, Errors) {
	return cleanPrice("price", f.Price)
}

// AvailableOr returns the sent availability, or current when the field was
// not sent.
func (f ProductForm) AvailableOr(current bool) bool {
	if f.Available == nil {
		return current
	}
	return *f.Available
}

func cleanPrice(field, raw string) (decimal.Decimal, Errors) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, Errors{field: "Enter a number."}
	}
	if price.IsNegative() {
		return decimal.Zero, Errors{field: "Ensure this value is greater than or equal to 0."}
	}
	if !price.Equal(price.Round(2)) {
		return decimal.Zero, Errors{field: "Ensure that there are no more than 2 decimal places."}
	}
	return price, nil
}

type CategoryForm struct {
	Name        string `form:"name" json:"name" binding:"required,max=100"`
	Description string `form:"description" json:"description"`
}

type TagForm struct {
	Name string `form:"name" json:"name" binding:"required,max=50"`
}

// ProductQuery is the product listing query string.
type ProductQuery struct {
	Q         string `form:"q"`
	Category  string `form:"category"`
	Tag       string `form:"tag"`
	MinPrice  string `form:"min_price"`
	MaxPrice  string `form:"max_price"`
	Available string `form:"available"`
}

// Filter converts the query into a store filter, ignoring empty fields.
func (q ProductQuery) Filter() (store.ProductFilter, Errors) {
	errs := Errors{}
	f := store.ProductFilter{
		Query:    strings.TrimSpace(q.Q),
		Category: q.Category,
		Tag:      q.Tag,
	}
	if q.MinPrice != "" {
		if v, err := decimal.NewFromString(q.MinPrice); err == nil {
			f.MinPrice = &v
		} else {
			errs.Add("min_price", "Enter a number.")
		}
	}
	if q.MaxPrice != "" {
		if v, err := decimal.NewFromString(q.MaxPrice); err == nil {
			f.MaxPrice = &v
		} else {
			errs.Add("max_price", "Enter a number.")
		}
	}
	if q.Available != "" {
		if v, err := strconv.ParseBool(q.Available); err == nil {
			f.Available = &v
		} else {
			errs.Add("available", "Enter true or false.")
		}
	}
	return f, errs.OrNil()
}
