// Package store owns all persisted storefront state.
package store

import (
	"context"
	"errors"

	"github.com/AndreyPae/storefront/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrConflict  = errors.New("record already exists")
	ErrForbidden = errors.New("record belongs to another user")
	ErrEmptyCart = errors.New("cart is empty")
)

// Store is the data access surface used by the handlers.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	UserByID(ctx context.Context, id uint) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)

	ListCategories(ctx context.Context) ([]models.Category, error)
	CategoryByID(ctx context.Context, id uint) (*models.Category, error)
	CategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	CategoriesByIDs(ctx context.Context, ids []uint) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id uint) error

	ListTags(ctx context.Context) ([]models.Tag, error)
	TagBySlug(ctx context.Context, slug string) (*models.Tag, error)
	TagsByIDs(ctx context.Context, ids []uint) ([]models.Tag, error)
	CreateTag(ctx context.Context, tag *models.Tag) error

	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	ProductByID(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error

	CartByUser(ctx context.Context, userID uint) (*models.Cart, error)
	CartItemsByUser(ctx context.Context, userID uint) ([]models.CartItem, error)
	CartItemByID(ctx context.Context, id uint) (*models.CartItem, error)
	CartItemForUser(ctx context.Context, id, userID uint) (*models.CartItem, error)
	CreateCartItem(ctx context.Context, item *models.CartItem) error
	IncrementCartItem(ctx context.Context, userID, productID uint) (*models.CartItem, bool, error)
	UpdateCartItem(ctx context.Context, item *models.CartItem) error
	DeleteCartItem(ctx context.Context, id uint) error

	Checkout(ctx context.Context, userID uint, order *models.Order) error
	ListOrders(ctx context.Context) ([]models.Order, error)
	OrderByID(ctx context.Context, id uint) (*models.Order, error)
	OrdersByEmail(ctx context.Context, email string) ([]models.Order, error)

	Counts(ctx context.Context) (Counts, error)
}

// Counts summarises table sizes for the admin view.
type Counts struct {
	Users    int64 `json:"users"`
	Products int64 `json:"products"`
	Orders   int64 `json:"orders"`
}
