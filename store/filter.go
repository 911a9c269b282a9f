package store

import (
	"strings"

	"github.com/AndreyPae/storefront/models"
	"github.com/shopspring/decimal"
)

// ProductFilter narrows a product listing. Zero-valued fields are ignored and
// every set field must match.
type ProductFilter struct {
	Query        string           `json:"q,omitempty"`
	Category     string           `json:"category,omitempty"`
	CategorySlug string           `json:"category_slug,omitempty"`
	Tag          string           `json:"tag,omitempty"`
	TagSlug      string           `json:"tag_slug,omitempty"`
	MinPrice     *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice     *decimal.Decimal `json:"max_price,omitempty"`
	Available    *bool            `json:"available,omitempty"`
}

// Matches reports whether p passes the filter. Categories and tags must be loaded.
func (f ProductFilter) Matches(p models.Product) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	if f.Category != "" && !hasCategory(p, func(c models.Category) bool { return c.Name == f.Category }) {
		return false
	}
	if f.CategorySlug != "" && !hasCategory(p, func(c models.Category) bool { return c.Slug == f.CategorySlug }) {
		return false
	}
	if f.Tag != "" && !hasTag(p, func(t models.Tag) bool { return t.Name == f.Tag }) {
		return false
	}
	if f.TagSlug != "" && !hasTag(p, func(t models.Tag) bool { return t.Slug == f.TagSlug }) {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.Available != nil && p.Available != *f.Available {
		return false
	}
	return true
}

func hasCategory(p models.Product, match func(models.Category) bool) bool {
	for _, c := range p.Categories {
		if match(c) {
			return true
		}
	}
	return false
}

func hasTag(p models.Product, match func(models.Tag) bool) bool {
	for _, t := range p.Tags {
		if match(t) {
			return true
		}
	}
	return false
}
