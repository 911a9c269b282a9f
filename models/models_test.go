package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Home Office":        "home-office",
		"  Tea & Coffee  ":   "tea-coffee",
		"already-slugged":    "already-slugged",
		"snake_case_name":    "snake-case-name",
		"Trailing!!!":        "trailing",
		"Ünïcode Ständard":   "ünïcode-ständard",
		"":                   "",
		"--leading dashes--": "leading-dashes",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}

func TestCartTotal(t *testing.T) {
	items := []CartItem{
		{Quantity: 2, Product: Product{Price: decimal.RequireFromString("10.00")}},
		{Quantity: 1, Product: Product{Price: decimal.RequireFromString("5.50")}},
	}
	assert.True(t, CartTotal(items).Equal(decimal.RequireFromString("25.50")))
	assert.True(t, CartTotal(nil).IsZero())
}

func TestProductIDs(t *testing.T) {
	p := Product{
		Categories: []Category{{ID: 3}, {ID: 1}},
		Tags:       []Tag{{ID: 7}},
	}
	assert.Equal(t, []uint{3, 1}, p.CategoryIDs())
	assert.Equal(t, []uint{7}, p.TagIDs())
}

func TestIsReservedSlug(t *testing.T) {
	for _, slug := range []string{"orders", "cart", "admin", "my-orders", "42"} {
		assert.True(t, IsReservedSlug(slug), slug)
	}
	for _, slug := range []string{"kitchen", "order", "sale", "2024-sale"} {
		assert.False(t, IsReservedSlug(slug), slug)
	}
}
