package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/AndreyPae/storefront/models"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewGormStore(db), mock
}

func TestGormProductByIDNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE "products"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.ProductByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCreateCategoryConflict(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO "categories"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})

	err := s.CreateCategory(context.Background(), &models.Category{Name: "Kitchen"})
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCheckoutCommits(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "cart_items" WHERE user_id = \$1 ORDER BY id FOR UPDATE`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "product_id", "quantity"}).
			AddRow(1, 7, 10, 2).
			AddRow(2, 7, 11, 1))
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE "products"."id" IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "available"}).
			AddRow(10, "Mug", "10.00", true).
			AddRow(11, "Tea", "5.50", true))
	mock.ExpectQuery(`INSERT INTO "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
	mock.ExpectQuery(`INSERT INTO "order_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectExec(`DELETE FROM "cart_items" WHERE user_id = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	order := models.Order{Email: "ada@example.com", DeliveryMethod: models.DeliveryPost}
	require.NoError(t, s.Checkout(context.Background(), 7, &order))

	assert.EqualValues(t, 100, order.ID)
	assert.EqualValues(t, 7, order.UserID)
	assert.NotEmpty(t, order.OrderRef)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Mug", order.Items[0].ProductName)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("25.50")), order.Total.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCheckoutEmptyCartRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "cart_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "product_id", "quantity"}))
	mock.ExpectRollback()

	err := s.Checkout(context.Background(), 7, &models.Order{})
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCheckoutInsertFailureKeepsCart(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "cart_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "product_id", "quantity"}).AddRow(1, 7, 10, 1))
	mock.ExpectQuery(`SELECT \* FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price"}).AddRow(10, "Mug", "10.00"))
	mock.ExpectQuery(`INSERT INTO "orders"`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := s.Checkout(context.Background(), 7, &models.Order{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	// No DELETE was expected, so reaching one would fail the expectations.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUpdateCartItemMissing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE "cart_items" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateCartItem(context.Background(), &models.CartItem{ID: 5, Quantity: 2})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCounts(t *testing.T) {
	s, mock := newMockStore(t)

	for _, table := range []string{"users", "products", "orders"} {
		mock.ExpectQuery(`SELECT count\(\*\) FROM "` + table + `"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	}

	counts, err := s.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Counts{Users: 3, Products: 3, Orders: 3}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormListProductsCategoryAndMaxPrice(t *testing.T) {
	s, mock := newMockStore(t)
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE products\.id IN \(+SELECT .*product_id.* FROM "product_categories" ` +
		`JOIN categories ON categories\.id = product_categories\.category_id WHERE categories\.name = \$1\)+ ` +
		`AND products\.price <= \$2 ORDER BY products\.id`).
		WithArgs("X", "15").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "available"}).AddRow(1, "A", "10.00", true))
	mock.ExpectQuery(`FROM "product_categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "category_id"}).AddRow(1, 3))
	mock.ExpectQuery(`FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}).AddRow(3, "X", "x"))
	mock.ExpectQuery(`FROM "product_tags"`).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "tag_id"}).AddRow(1, 5))
	mock.ExpectQuery(`FROM "tags"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}).AddRow(5, "Sale", "sale"))

	ceiling := decimal.NewFromInt(15)
	products, err := s.ListProducts(context.Background(), ProductFilter{Category: "X", MaxPrice: &ceiling})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "A", products[0].Name)
	assert.Equal(t, []uint{3}, products[0].CategoryIDs())
	assert.Equal(t, []uint{5}, products[0].TagIDs())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormListProductsSearchAndAvailability(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE \(products\.name ILIKE \$1 OR products\.description ILIKE \$2\) ` +
		`AND products\.available = \$3 ORDER BY products\.id`).
		WithArgs("%lamp%", "%lamp%", true).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	available := true
	products, err := s.ListProducts(context.Background(), ProductFilter{Query: "lamp", Available: &available})
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}
