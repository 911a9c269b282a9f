package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AndreyPae/storefront/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on a gorm connection. The connection should be
// opened with TranslateError so unique violations surface as ErrConflict.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates every table the store uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	}
	return err
}

func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// ─────────── Users ───────────

// CreateUser inserts the user together with its cart.
func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}
		cart := models.Cart{UserID: user.ID}
		if err := tx.Create(&cart).Error; err != nil {
			return err
		}
		user.Cart = cart
		return nil
	})
	if err != nil {
		return fmt.Errorf("create user: %w", translate(err))
	}
	return nil
}

func (s *GormStore) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).First(&user, id).Error; err != nil {
		return nil, fmt.Errorf("user %d: %w", id, translate(err))
	}
	return &user, nil
}

func (s *GormStore) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, fmt.Errorf("user %q: %w", username, translate(err))
	}
	return &user, nil
}

// ─────────── Categories & tags ───────────

func (s *GormStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.conn(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *GormStore) CategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := s.conn(ctx).Preload("Products").First(&category, id).Error; err != nil {
		return nil, fmt.Errorf("category %d: %w", id, translate(err))
	}
	return &category, nil
}

func (s *GormStore) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := s.conn(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, fmt.Errorf("category %q: %w", slug, translate(err))
	}
	return &category, nil
}

func (s *GormStore) CategoriesByIDs(ctx context.Context, ids []uint) ([]models.Category, error) {
	var categories []models.Category
	if len(ids) == 0 {
		return categories, nil
	}
	if err := s.conn(ctx).Where("id IN ?", ids).Order("id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("categories by ids: %w", err)
	}
	return categories, nil
}

func (s *GormStore) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := s.conn(ctx).Omit(clause.Associations).Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", translate(err))
	}
	return nil
}

func (s *GormStore) UpdateCategory(ctx context.Context, category *models.Category) error {
	if err := s.conn(ctx).Omit(clause.Associations).Save(category).Error; err != nil {
		return fmt.Errorf("update category %d: %w", category.ID, translate(err))
	}
	return nil
}

// DeleteCategory detaches the category from its products and removes it.
func (s *GormStore) DeleteCategory(ctx context.Context, id uint) error {
	var category models.Category
	if err := s.conn(ctx).First(&category, id).Error; err != nil {
		return fmt.Errorf("category %d: %w", id, translate(err))
	}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&category).Association("Products").Clear(); err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}

func (s *GormStore) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.conn(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func (s *GormStore) TagBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	var tag models.Tag
	if err := s.conn(ctx).Where("slug = ?", slug).First(&tag).Error; err != nil {
		return nil, fmt.Errorf("tag %q: %w", slug, translate(err))
	}
	return &tag, nil
}

func (s *GormStore) TagsByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	var tags []models.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := s.conn(ctx).Where("id IN ?", ids).Order("id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("tags by ids: %w", err)
	}
	return tags, nil
}

func (s *GormStore) CreateTag(ctx context.Context, tag *models.Tag) error {
	if err := s.conn(ctx).Create(tag).Error; err != nil {
		return fmt.Errorf("create tag: %w", translate(err))
	}
	return nil
}

// ─────────── Products ───────────

func (s *GormStore) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	query := s.conn(ctx).Model(&models.Product{}).Preload("Categories").Preload("Tags")

	if f.Query != "" {
		like := "%" + f.Query + "%"
		query = query.Where("(products.name ILIKE ? OR products.description ILIKE ?)", like, like)
	}
	if f.Category != "" {
		query = query.Where("products.id IN (?)", s.categoryMembers(ctx, "categories.name = ?", f.Category))
	}
	if f.CategorySlug != "" {
		query = query.Where("products.id IN (?)", s.categoryMembers(ctx, "categories.slug = ?", f.CategorySlug))
	}
	if f.Tag != "" {
		query = query.Where("products.id IN (?)", s.tagMembers(ctx, "tags.name = ?", f.Tag))
	}
	if f.TagSlug != "" {
		query = query.Where("products.id IN (?)", s.tagMembers(ctx, "tags.slug = ?", f.TagSlug))
	}
	if f.MinPrice != nil {
		query = query.Where("products.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("products.price <= ?", *f.MaxPrice)
	}
	if f.Available != nil {
		query = query.Where("products.available = ?", *f.Available)
	}

	var products []models.Product
	if err := query.Order("products.id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *GormStore) categoryMembers(ctx context.Context, cond string, arg interface{}) *gorm.DB {
	return s.conn(ctx).Table("product_categories").
		Select("product_categories.product_id").
		Joins("JOIN categories ON categories.id = product_categories.category_id").
		Where(cond, arg)
}

func (s *GormStore) tagMembers(ctx context.Context, cond string, arg interface{}) *gorm.DB {
	return s.conn(ctx).Table("product_tags").
		Select("product_tags.product_id").
		Joins("JOIN tags ON tags.id = product_tags.tag_id").
		Where(cond, arg)
}

func (s *GormStore) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.conn(ctx).Preload("Categories").Preload("Tags").First(&product, id).Error; err != nil {
		return nil, fmt.Errorf("product %d: %w", id, translate(err))
	}
	return &product, nil
}

// CreateProduct inserts the product and its join rows. Categories and tags
// must already exist.
func (s *GormStore) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.conn(ctx).Omit("Categories.*", "Tags.*").Create(product).Error; err != nil {
		return fmt.Errorf("create product: %w", translate(err))
	}
	return nil
}

func (s *GormStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(product).Error; err != nil {
			return err
		}
		if err := tx.Model(product).Association("Categories").Replace(product.Categories); err != nil {
			return err
		}
		return tx.Model(product).Association("Tags").Replace(product.Tags)
	})
	if err != nil {
		return fmt.Errorf("update product %d: %w", product.ID, translate(err))
	}
	return nil
}

// DeleteProduct removes the product and its join rows. Cart items referencing
// it go with it through the foreign key; order items keep their snapshot.
func (s *GormStore) DeleteProduct(ctx context.Context, id uint) error {
	var product models.Product
	if err := s.conn(ctx).First(&product, id).Error; err != nil {
		return fmt.Errorf("product %d: %w", id, translate(err))
	}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&product).Association("Categories").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&product).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return nil
}

// ─────────── Cart ───────────

func (s *GormStore) CartByUser(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := s.conn(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, fmt.Errorf("cart of user %d: %w", userID, translate(err))
	}
	return &cart, nil
}

func (s *GormStore) CartItemsByUser(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := s.conn(ctx).Preload("Product").Where("user_id = ?", userID).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("cart items of user %d: %w", userID, err)
	}
	return items, nil
}

func (s *GormStore) CartItemByID(ctx context.Context, id uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := s.conn(ctx).Preload("Product").First(&item, id).Error; err != nil {
		return nil, fmt.Errorf("cart item %d: %w", id, translate(err))
	}
	return &item, nil
}

// CartItemForUser finds an item only if it belongs to userID.
func (s *GormStore) CartItemForUser(ctx context.Context, id, userID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := s.conn(ctx).Preload("Product").Where("id = ? AND user_id = ?", id, userID).First(&item).Error
	if err != nil {
		return nil, fmt.Errorf("cart item %d of user %d: %w", id, userID, translate(err))
	}
	return &item, nil
}

func (s *GormStore) CreateCartItem(ctx context.Context, item *models.CartItem) error {
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	if err := s.conn(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return fmt.Errorf("create cart item: %w", translate(err))
	}
	return nil
}

// IncrementCartItem bumps the quantity of the (user, product) row or creates
// it with quantity 1. It reads then writes and is not safe against concurrent
// calls for the same pair. The bool reports whether a row was created.
func (s *GormStore) IncrementCartItem(ctx context.Context, userID, productID uint) (*models.CartItem, bool, error) {
	var item models.CartItem
	err := s.conn(ctx).Where("user_id = ? AND product_id = ?", userID, productID).Order("id").First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		item = models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  1,
			AddedAt:   time.Now(),
		}
		if err := s.conn(ctx).Omit(clause.Associations).Create(&item).Error; err != nil {
			return nil, false, fmt.Errorf("create cart item: %w", translate(err))
		}
		return &item, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find cart item: %w", err)
	}

	item.Quantity++
	if err := s.conn(ctx).Model(&item).Update("quantity", item.Quantity).Error; err != nil {
		return nil, false, fmt.Errorf("increment cart item %d: %w", item.ID, err)
	}
	return &item, false, nil
}

func (s *GormStore) UpdateCartItem(ctx context.Context, item *models.CartItem) error {
	result := s.conn(ctx).Model(&models.CartItem{}).Where("id = ?", item.ID).
		Updates(map[string]interface{}{"quantity": item.Quantity, "options": item.Options})
	if result.Error != nil {
		return fmt.Errorf("update cart item %d: %w", item.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update cart item %d: %w", item.ID, ErrNotFound)
	}
	return nil
}

func (s *GormStore) DeleteCartItem(ctx context.Context, id uint) error {
	result := s.conn(ctx).Delete(&models.CartItem{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete cart item %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete cart item %d: %w", id, ErrNotFound)
	}
	return nil
}

// ─────────── Orders ───────────

// Checkout turns the user's cart items into order items on order and empties
// the cart in a single transaction. The customer fields of order must be set.
func (s *GormStore) Checkout(ctx context.Context, userID uint, order *models.Order) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Product").
			Where("user_id = ?", userID).
			Order("id").
			Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		fillOrder(order, userID, items, time.Now())
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return fmt.Errorf("checkout for user %d: %w", userID, translate(err))
	}
	return nil
}

// fillOrder copies cart items onto order as price snapshots.
func fillOrder(order *models.Order, userID uint, items []models.CartItem, now time.Time) {
	order.UserID = userID
	order.OrderRef = NewOrderRef(now)
	order.CreatedAt = now
	order.Items = make([]models.OrderItem, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Price:       item.Product.Price,
			Quantity:    item.Quantity,
		})
		total = total.Add(item.Subtotal())
	}
	order.Total = total
}

func (s *GormStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := s.conn(ctx).Preload("Items").Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *GormStore) OrderByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.conn(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, fmt.Errorf("order %d: %w", id, translate(err))
	}
	return &order, nil
}

func (s *GormStore) OrdersByEmail(ctx context.Context, email string) ([]models.Order, error) {
	var orders []models.Order
	if err := s.conn(ctx).Preload("Items").Where("email = ?", email).
		Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("orders for %q: %w", email, err)
	}
	return orders, nil
}

func (s *GormStore) Counts(ctx context.Context) (Counts, error) {
	var counts Counts
	if err := s.conn(ctx).Model(&models.User{}).Count(&counts.Users).Error; err != nil {
		return counts, fmt.Errorf("count users: %w", err)
	}
	if err := s.conn(ctx).Model(&models.Product{}).Count(&counts.Products).Error; err != nil {
		return counts, fmt.Errorf("count products: %w", err)
	}
	if err := s.conn(ctx).Model(&models.Order{}).Count(&counts.Orders).Error; err != nil {
		return counts, fmt.Errorf("count orders: %w", err)
	}
	return counts, nil
}

var _ Store = (*GormStore)(nil)
