package models

import (
	"strconv"
	"strings"
	"unicode"

	"gorm.io/gorm"
)

type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Products    []Product `gorm:"many2many:product_categories" json:"products,omitempty"`
}

type Tag struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`
}

// BeforeSave keeps the slug in step with the name.
func (c *Category) BeforeSave(tx *gorm.DB) error {
	c.Slug = Slugify(c.Name)
	return nil
}

func (t *Tag) BeforeSave(tx *gorm.DB) error {
	t.Slug = Slugify(t.Name)
	return nil
}

// Slugify lowercases s and collapses every run of characters that are not
// letters or digits into a single dash.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case r == '_' || r == '-' || unicode.IsSpace(r) || unicode.IsPunct(r):
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// reservedSlugs are first path segments served by static routes, so a
// category or tag with one of these slugs could never be listed at /{slug}/.
var reservedSlugs = map[string]bool{
	"admin":      true,
	"cart":       true,
	"categories": true,
	"checkout":   true,
	"create":     true,
	"health":     true,
	"login":      true,
	"logout":     true,
	"me":         true,
	"metrics":    true,
	"my-orders":  true,
	"orders":     true,
	"register":   true,
}

// IsReservedSlug reports whether slug is taken by a static route or would be
// read as a product id.
func IsReservedSlug(slug string) bool {
	if _, err := strconv.ParseUint(slug, 10, 64); err == nil {
		return true
	}
	return reservedSlugs[slug]
}
