// Package memory provides an in-memory Store for tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/AndreyPae/storefront/models"
	"github.com/AndreyPae/storefront/store"
	"github.com/shopspring/decimal"
)

// Store is an in-memory implementation of store.Store. Relations are kept as
// ids and hydrated on read so renames show up everywhere, like a join would.
type Store struct {
	mu sync.RWMutex

	users      map[uint]models.User
	carts      map[uint]models.Cart // keyed by user id
	categories map[uint]models.Category
	tags       map[uint]models.Tag
	products   map[uint]storedProduct
	cartItems  map[uint]models.CartItem
	orders     map[uint]models.Order

	nextID map[string]uint

	// Read paths only hold mu.RLock, so the injected error has its own lock.
	errMu   sync.Mutex
	nextErr error
}

type storedProduct struct {
	product     models.Product
	categoryIDs []uint
	tagIDs      []uint
}

func New() *Store {
	return &Store{
		users:      make(map[uint]models.User),
		carts:      make(map[uint]models.Cart),
		categories: make(map[uint]models.Category),
		tags:       make(map[uint]models.Tag),
		products:   make(map[uint]storedProduct),
		cartItems:  make(map[uint]models.CartItem),
		orders:     make(map[uint]models.Order),
		nextID:     make(map[string]uint),
	}
}

// FailNextCall makes the next store call fail with err, for testing error
// paths.
func (m *Store) FailNextCall(err error) {
	m.errMu.Lock()
	m.nextErr = err
	m.errMu.Unlock()
}

// checkError returns and clears any injected error.
func (m *Store) checkError() error {
	m.errMu.Lock()
	defer m.errMu.Unlock()
	err := m.nextErr
	m.nextErr = nil
	return err
}

func (m *Store) id(table string) uint {
	m.nextID[table]++
	return m.nextID[table]
}

func notFound(what string, key interface{}) error {
	return fmt.Errorf("%s %v: %w", what, key, store.ErrNotFound)
}

func sortedKeys[V any](in map[uint]V) []uint {
	keys := make([]uint, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ─────────── Users ───────────

func (m *Store) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError(); err != nil {
		return err
	}
	for _, u := range m.users {
		if u.Username == user.Username {
			return fmt.Errorf("create user: %w", store.ErrConflict)
		}
	}
	user.ID = m.id("users")
	user.CreatedAt = time.Now()
	user.Cart = models.Cart{ID: m.id("carts"), UserID: user.ID, CreatedAt: user.CreatedAt, UpdatedAt: user.CreatedAt}
	m.carts[user.ID] = user.Cart
	stored := *user
	stored.Cart = models.Cart{}
	m.users[user.ID] = stored
	return nil
}

// PutUser stores a user without creating a cart, as accounts made outside
// registration arrive.
func (m *Store) PutUser(user *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == 0 {
		user.ID = m.id("users")
	} else if user.ID > m.nextID["users"] {
		m.nextID["users"] = user.ID
	}
	m.users[user.ID] = *user
}

func (m *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError(); err != nil {
		return nil, err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	return &u, nil
}

func (m *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError(); err != nil {
		return nil, err
	}
	for _, u := range m.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, notFound("user", username)
}

// ─────────── Categories & tags ───────────

func (m *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError(); err != nil {
		return nil, err
	}
	categories := make([]models.Category, 0, len(m.categories))
	for _, id := range sortedKeys(m.categories) {
		categories = append(categories, m.categories[id])
	}
	return categories, nil
}

func (m *Store) CategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError(); err != nil {
		return nil, err
	}
	c, ok := m.categories[id]
	if !ok {
		return nil, notFound("category", id)
	}
	for _, pid := range sortedKeys(m.products) {
		sp := m.products[pid]
		if containsID(sp.categoryIDs, id) {
			c.Products = append(c.Products, m.hydrate(sp))
		}
	}
	return &c, nil
}

func (m *Store) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError(); err != nil {
		return nil, err
	}
	for _, id := range sortedKeys(m.categories) {
		if c := m.categories[id]; c.Slug == slug {
			return &c, nil
		}
	}
	return nil, notFound("category", slug)
}

func (m *Store) CategoriesByIDs(ctx context.Context, ids []uint) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError(); err != nil {
		return nil, err
	}
	return m.categoriesFor(ids), nil
}

func (m *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError(); err != nil {
		return err
	}
	category.Slug = models.Slugify(category.Name)
	for _, c := range m.categories {
		if c.Slug == category.Slug {
			return fmt.Errorf("create category: %w", store.ErrConflict)
		}
	}
	category.ID = m.id("categories")
	stored := *category
	stored.Products = nil
	m.categories[category.ID] = stored
	return nil
}

func (m *Store) UpdateCategory(ctx context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError(); err != nil {
		return err
	}
	if _, ok := m.categories[category.ID]; !ok {
		return notFound("category", category.ID)
	}
	category.Slug = models.Slugify(category.Name)
	for id, c := range m.categories {
		if id != category.ID && c.Slug == category.Slug {
			return fmt.Errorf("update category %d: %w", category.ID, store.ErrConflict)
		}
	}
	stored := *category
	stored.Products = nil
	m.categories[category.ID] = stored
	return nil
}

func (m *Store) DeleteCategory(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError(); err != nil {
		return err
	}
	if _, ok := m.categories[id]; !ok {
		return notFound("category", id)
	}
	delete(m.categories, id)
	for pid, sp := range m.products {
		sp.categoryIDs = removeID(sp.categoryIDs, id)
		m.products[pid] = sp
	}
	return nil
}

func (m *Store) ListTags(ctx context.Context) ([]models.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError(); err != nil {
		return nil, err
	}
	tags := make([]models.Tag, 0, len(m.tags))
	for _, id := range sortedKeys(m.tags) {
		tags = append(tags, m.tags[id])
	}
	return tags, nil
}

func (m *Store) TagBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError(); err != nil {
		return nil, err
	}
	for _, id := range sortedKeys(m.tags) {
		if t := m.tags[id]; t.Slug == slug {
			return &t, nil
		}
	}
	return nil, notFound("tag", slug)
}

func (m *Store) TagsByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError(); err != nil {
		return nil, err
	}
	return m.tagsFor(ids), nil
}

func (m *Store) CreateTag(ctx context.Context, tag *models.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError(); err != nil {
		return err
	}
	tag.Slug = models.Slugify(tag.Name)
	for _, t := range m.tags {
		if t.Name == tag.Name || t.Slug == tag.Slug {
			return fmt.Errorf("create tag: %w", store.ErrConflict)
		}
	}
	tag.ID = m.id("tags")
	m.tags[tag.ID] = *tag
	return nil
}

// ─────────── Products ───────────

func (m *Store) hydrate(sp storedProduct) models.Product {
	p := sp.product
	p.Categories = m.categoriesFor(sp.categoryIDs)
	p.Tags = m.tagsFor(sp.tagIDs)
	return p
}

func (m *Store) categoriesFor(ids []uint) []models.Category {
	out := []models.Category{}
	for _, id := range sortedIDs(ids) {
		if c, ok := m.categories[id]; ok {
			c.Products = nil
			out = append(out, c)
		}
	}
	return out
}

func (m *Store) tagsFor(ids []uint) []models.Tag {
	out := []models.Tag{}
	for _, id := range sortedIDs(ids) {
		if t, ok := m.tags[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

func (m *Store) ListProducts(ctx context.Context, filter store.ProductFilter) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError(); err != nil {
		return nil, err
	}
	products := []models.Product{}
	for _, id := range sortedKeys(m.products) {
		p := m.hydrate(m.products[id])
		if filter.Matches(p) {
			products = append(products, p)
		}
	}
	return products, nil
}

func (m *Store) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError(); err != nil {
		return nil, err
	}
	sp, ok := m.products[id]
	if !ok {
		return nil, notFound("product", id)
	}
	p := m.hydrate(sp)
	return &p, nil
}

func (m *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError(); err != nil {
		return err
	}
	now := time.Now()
	product.ID = m.id("products")
	product.CreatedAt, product.UpdatedAt = now, now
	m.products[product.ID] = stored(product)
	return nil
}

func (m *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError(); err != nil {
		return err
	}
	old, ok := m.products[product.ID]
	if !ok {
		return notFound("product", product.ID)
	}
	product.CreatedAt = old.product.CreatedAt
	product.UpdatedAt = time.Now()
	m.products[product.ID] = stored(product)
	return nil
}

func stored(product *models.Product) storedProduct {
	p := *product
	sp := storedProduct{categoryIDs: p.CategoryIDs(), tagIDs: p.TagIDs()}
	p.Categories, p.Tags = nil, nil
	sp.product = p
	return sp
}

// DeleteProduct removes the product and, like the foreign key cascade, the
// cart items that point at it.
func (m *Store) DeleteProduct(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError(); err != nil {
		return err
	}
	if _, ok := m.products[id]; !ok {
		return notFound("product", id)
	}
	delete(m.products, id)
	for iid, item := range m.cartItems {
		if item.ProductID == id {
			delete(m.cartItems, iid)
		}
	}
	return nil
}

// ─────────── Cart ───────────

func (m *Store) withProduct(item models.CartItem) models.CartItem {
	if sp, ok := m.products[item.ProductID]; ok {
		item.Product = m.hydrate(sp)
	}
	return item
}

// DeleteCart drops the user's cart row, leaving cart items in place.
func (m *Store) DeleteCart(userID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
}

func (m *Store) CartByUser(ctx context.Context, userID uint) (*models.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError(); err != nil {
		return nil, err
	}
	cart, ok := m.carts[userID]
	if !ok {
		return nil, notFound("cart of user", userID)
	}
	return &cart, nil
}

func (m *Store) CartItemsByUser(ctx context.Context, userID uint) ([]models.CartItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError(); err != nil {
		return nil, err
	}
	return m.itemsOf(userID), nil
}

func (m *Store) itemsOf(userID uint) []models.CartItem {
	items := []models.CartItem{}
	for _, id := range sortedKeys(m.cartItems) {
		if item := m.cartItems[id]; item.UserID == userID {
			items = append(items, m.withProduct(item))
		}
	}
	return items
}

func (m *Store) CartItemByID(ctx context.Context, id uint) (*models.CartItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError(); err != nil {
		return nil, err
	}
	item, ok := m.cartItems[id]
	if !ok {
		return nil, notFound("cart item", id)
	}
	item = m.withProduct(item)
	return &item, nil
}

func (m *Store) CartItemForUser(ctx context.Context, id, userID uint) (*models.CartItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError(); err != nil {
		return nil, err
	}
	item, ok := m.cartItems[id]
	if !ok || item.UserID != userID {
		return nil, notFound("cart item", id)
	}
	item = m.withProduct(item)
	return &item, nil
}

func (m *Store) CreateCartItem(ctx context.Context, item *models.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError(); err != nil {
		return err
	}
	if _, ok := m.products[item.ProductID]; !ok {
		return notFound("product", item.ProductID)
	}
	item.ID = m.id("cart_items")
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	stored := *item
	stored.Product = models.Product{}
	m.cartItems[item.ID] = stored
	return nil
}

func (m *Store) IncrementCartItem(ctx context.Context, userID, productID uint) (*models.CartItem, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError(); err != nil {
		return nil, false, err
	}
	for _, id := range sortedKeys(m.cartItems) {
		item := m.cartItems[id]
		if item.UserID == userID && item.ProductID == productID {
			item.Quantity++
			m.cartItems[id] = item
			return &item, false, nil
		}
	}
	if _, ok := m.products[productID]; !ok {
		return nil, false, notFound("product", productID)
	}
	item := models.CartItem{
		ID:        m.id("cart_items"),
		UserID:    userID,
		ProductID: productID,
		Quantity:  1,
		AddedAt:   time.Now(),
	}
	m.cartItems[item.ID] = item
	return &item, true, nil
}

func (m *Store) UpdateCartItem(ctx context.Context, item *models.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError(); err != nil {
		return err
	}
	current, ok := m.cartItems[item.ID]
	if !ok {
		return notFound("cart item", item.ID)
	}
	current.Quantity = item.Quantity
	current.Options = item.Options
	m.cartItems[item.ID] = current
	return nil
}

func (m *Store) DeleteCartItem(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError(); err != nil {
		return err
	}
	if _, ok := m.cartItems[id]; !ok {
		return notFound("cart item", id)
	}
	delete(m.cartItems, id)
	return nil
}

// ─────────── Orders ───────────

// Checkout is atomic under the store lock: either the order is stored and
// the cart emptied, or nothing changes.
func (m *Store) Checkout(ctx context.Context, userID uint, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError(); err != nil {
		return fmt.Errorf("checkout for user %d: %w", userID, err)
	}
	items := m.itemsOf(userID)
	if len(items) == 0 {
		return fmt.Errorf("checkout for user %d: %w", userID, store.ErrEmptyCart)
	}

	now := time.Now()
	order.ID = m.id("orders")
	order.UserID = userID
	order.OrderRef = store.NewOrderRef(now)
	order.CreatedAt = now
	order.Items = make([]models.OrderItem, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		order.Items = append(order.Items, models.OrderItem{
			ID:          m.id("order_items"),
			OrderID:     order.ID,
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Price:       item.Product.Price,
			Quantity:    item.Quantity,
		})
		total = total.Add(item.Subtotal())
	}
	order.Total = total
	m.orders[order.ID] = *order

	for _, item := range items {
		delete(m.cartItems, item.ID)
	}
	return nil
}

func (m *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError(); err != nil {
		return nil, err
	}
	return m.ordersWhere(func(models.Order) bool { return true }), nil
}

func (m *Store) OrderByID(ctx context.Context, id uint) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError(); err != nil {
		return nil, err
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, notFound("order", id)
	}
	return &o, nil
}

func (m *Store) OrdersByEmail(ctx context.Context, email string) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError(); err != nil {
		return nil, err
	}
	return m.ordersWhere(func(o models.Order) bool { return o.Email == email }), nil
}

// ordersWhere returns matching orders newest first.
func (m *Store) ordersWhere(keep func(models.Order) bool) []models.Order {
	orders := []models.Order{}
	keys := sortedKeys(m.orders)
	for i := len(keys) - 1; i >= 0; i-- {
		if o := m.orders[keys[i]]; keep(o) {
			orders = append(orders, o)
		}
	}
	return orders
}

func (m *Store) Counts(ctx context.Context) (store.Counts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError(); err != nil {
		return store.Counts{}, err
	}
	return store.Counts{
		Users:    int64(len(m.users)),
		Products: int64(len(m.products)),
		Orders:   int64(len(m.orders)),
	}, nil
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []uint, id uint) []uint {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func sortedIDs(ids []uint) []uint {
	out := append([]uint(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var _ store.Store = (*Store)(nil)
