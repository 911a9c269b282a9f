package productcontroller

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AndreyPae/storefront/models"
	"github.com/AndreyPae/storefront/store"
	"github.com/AndreyPae/storefront/store/memory"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func excelRouter(s *memory.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/export", ExportProductsToExcel(s))
	r.POST("/import", ImportProductsFromExcel(s))
	return r
}

func TestExportProducts(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	c := models.Category{Name: "Kitchen"}
	require.NoError(t, s.CreateCategory(ctx, &c))
	p := models.Product{Name: "Mug", Description: "Big", Price: decimal.RequireFromString("4.5"), Available: true, Categories: []models.Category{c}}
	require.NoError(t, s.CreateProduct(ctx, &p))

	w := httptest.NewRecorder()
	excelRouter(s).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "products.xlsx")

	file, err := xlsx.OpenBinary(w.Body.Bytes())
	require.NoError(t, err)
	rows := file.Sheets[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "CategoryIDs", rows[0].Cells[5].String())
	assert.Equal(t, "Mug", rows[1].Cells[1].String())
	assert.Equal(t, "4.50", rows[1].Cells[3].String())
	assert.Equal(t, "1", rows[1].Cells[5].String())
}

func TestImportProducts(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	c := models.Category{Name: "Kitchen"}
	require.NoError(t, s.CreateCategory(ctx, &c))
	existing := models.Product{Name: "Old", Price: decimal.NewFromInt(1), Available: true, Categories: []models.Category{c}}
	require.NoError(t, s.CreateProduct(ctx, &existing))

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	require.NoError(t, err)
	addRow := func(cells ...string) {
		row := sheet.AddRow()
		for _, v := range cells {
			row.AddCell().SetString(v)
		}
	}
	addRow(exportHeaders...)
	addRow("1", "Renamed", "Updated", "2.00", "false", "1", "")
	addRow("", "Teapot", "New", "12.00", "", "1", "")
	addRow("", "No category", "x", "1.00", "true", "", "")
	addRow("", "Bad price", "x", "-3", "true", "1", "")
	addRow("", "Missing category", "x", "1.00", "true", "99", "")
	addRow("", "NoDesc", "", "1.00", "true", "1", "")

	var xl bytes.Buffer
	require.NoError(t, file.Write(&xl))
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "products.xlsx")
	require.NoError(t, err)
	_, err = part.Write(xl.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	excelRouter(s).ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.EqualValues(t, 1, result["created_count"])
	assert.EqualValues(t, 1, result["updated_count"])
	assert.EqualValues(t, 4, result["skipped_count"])

	renamed, err := s.ProductByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", renamed.Name)
	assert.False(t, renamed.Available)

	products, err := s.ListProducts(ctx, store.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.True(t, products[1].Available, "blank availability defaults to true")
	for _, p := range products {
		assert.NotEqual(t, "NoDesc", p.Name)
	}
}

func TestImportKeepsAvailabilityWhenBlank(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	c := models.Category{Name: "Kitchen"}
	require.NoError(t, s.CreateCategory(ctx, &c))
	hidden := models.Product{Name: "Hidden", Description: "x", Price: decimal.NewFromInt(1), Categories: []models.Category{c}}
	require.NoError(t, s.CreateProduct(ctx, &hidden))

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	require.NoError(t, err)
	for _, cells := range [][]string{exportHeaders, {"1", "Hidden", "Renamed", "2.00", "", "1", ""}} {
		row := sheet.AddRow()
		for _, v := range cells {
			row.AddCell().SetString(v)
		}
	}
	w := postWorkbook(t, excelRouter(s), file)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got, err := s.ProductByID(ctx, hidden.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Description)
	assert.False(t, got.Available)
}

func postWorkbook(t *testing.T, r *gin.Engine, file *xlsx.File) *httptest.ResponseRecorder {
	t.Helper()
	var xl bytes.Buffer
	require.NoError(t, file.Write(&xl))
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "products.xlsx")
	require.NoError(t, err)
	_, err = part.Write(xl.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestImportRequiresFile(t *testing.T) {
	w := httptest.NewRecorder()
	excelRouter(memory.New()).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/import", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
