package forms

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formContext(t *testing.T, values url.Values) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c
}

func TestBindReportsFieldsByInputName(t *testing.T) {
	var form OrderForm
	errs := Bind(formContext(t, url.Values{
		"first_name":      {"Ada"},
		"email":           {"nope"},
		"delivery_method": {"drone"},
	}), &form)

	require.NotNil(t, errs)
	assert.Equal(t, "Enter a valid email address.", errs["email"])
	assert.Equal(t, "Select a valid choice.", errs["delivery_method"])
	assert.Equal(t, "This field is required.", errs["last_name"])
	assert.NotContains(t, errs, "first_name")
}

func TestBindAcceptsValidOrder(t *testing.T) {
	var form OrderForm
	errs := Bind(formContext(t, url.Values{
		"first_name": {"Ada"}, "last_name": {"Lovelace"}, "email": {"ada@example.com"},
		"phone_number": {"555"}, "address": {"1 Way"}, "city": {"London"},
		"postal_code": {"N1"}, "delivery_method": {"pickup"},
	}), &form)

	require.Nil(t, errs)
	order := form.Order()
	assert.Equal(t, "Lovelace", order.LastName)
	assert.EqualValues(t, "pickup", order.DeliveryMethod)
}

func TestRegisterFormValidate(t *testing.T) {
	assert.Nil(t, RegisterForm{Username: "alice", Password1: "correct-horse"}.Validate())
	assert.Contains(t, RegisterForm{Username: "alice", Password1: "123456789"}.Validate(), "password1")
	assert.Contains(t, RegisterForm{Username: "alice1234", Password1: "Alice1234"}.Validate(), "password1")
}

func TestCleanPrice(t *testing.T) {
	tests := []struct {
		raw     string
		ok      bool
		message string
	}{
		{"12.50", true, ""},
		{"0", true, ""},
		{" 3 ", true, ""},
		{"-1", false, "Ensure this value is greater than or equal to 0."},
		{"1.005", false, "Ensure that there are no more than 2 decimal places."},
		{"abc", false, "Enter a number."},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			price, errs := ProductForm{Price: tt.raw}.CleanPrice()
			if tt.ok {
				assert.Nil(t, errs)
				assert.True(t, price.Equal(decimal.RequireFromString(strings.TrimSpace(tt.raw))))
				return
			}
			assert.Equal(t, tt.message, errs["price"])
		})
	}
}

func TestAvailableOrKeepsCurrentWhenNotSent(t *testing.T) {
	no, yes := false, true
	assert.True(t, ProductForm{}.AvailableOr(true))
	assert.False(t, ProductForm{}.AvailableOr(false))
	assert.False(t, ProductForm{Available: &no}.AvailableOr(true))
	assert.True(t, ProductForm{Available: &yes}.AvailableOr(false))
}

func TestValidatePopulatedForm(t *testing.T) {
	form := ProductForm{Name: strings.Repeat("n", 201), Price: "1", Categories: []uint{1}}
	errs := Validate(&form)
	require.NotNil(t, errs)
	assert.Equal(t, "This field is required.", errs["description"])
	assert.Equal(t, "Ensure this value has at most 200 characters.", errs["name"])

	form = ProductForm{Name: "Mug", Description: "Big", Price: "1", Categories: []uint{1}}
	assert.Nil(t, Validate(&form))
}

func TestProductQueryFilter(t *testing.T) {
	f, errs := ProductQuery{Q: "  lamp ", Category: "X", MaxPrice: "15", Available: "true"}.Filter()
	require.Nil(t, errs)
	assert.Equal(t, "lamp", f.Query)
	assert.Equal(t, "X", f.Category)
	assert.Nil(t, f.MinPrice)
	require.NotNil(t, f.MaxPrice)
	assert.True(t, f.MaxPrice.Equal(decimal.NewFromInt(15)))
	require.NotNil(t, f.Available)
	assert.True(t, *f.Available)

	_, errs = ProductQuery{MinPrice: "x", MaxPrice: "y", Available: "maybe"}.Filter()
	assert.Len(t, errs, 3)
}

func TestErrors(t *testing.T) {
	errs := Errors{}
	assert.Nil(t, errs.OrNil())

	errs.Add("name", "first")
	errs.Add("name", "second")
	assert.Equal(t, "first", errs["name"])
	assert.Contains(t, errs.Error(), "name: first")
}
