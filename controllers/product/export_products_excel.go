package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/AndreyPae/storefront/controllers/common"
	"github.com/AndreyPae/storefront/store"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

const timeLayout = "2006-01-02 15:04:05"

var exportHeaders = []string{
	"ID", "Name", "Description", "Price", "Available",
	"CategoryIDs", "TagIDs", "CreatedAt", "UpdatedAt",
}

func ExportProductsToExcel(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := s.ListProducts(c.Request.Context(), store.ProductFilter{})
		if err != nil {
			common.Fail(c, err, "products")
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		header := sheet.AddRow()
		for _, h := range exportHeaders {
			header.AddCell().SetString(h)
		}

		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().SetInt(int(p.ID))
			row.AddCell().SetString(p.Name)
			row.AddCell().SetString(p.Description)
			row.AddCell().SetString(p.Price.StringFixed(2))
			row.AddCell().SetString(strconv.FormatBool(p.Available))
			row.AddCell().SetString(joinIDs(p.CategoryIDs()))
			row.AddCell().SetString(joinIDs(p.TagIDs()))
			row.AddCell().SetString(p.CreatedAt.Format(timeLayout))
			row.AddCell().SetString(p.UpdatedAt.Format(timeLayout))
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}

func joinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}

func splitIDs(raw string) []uint {
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		if id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64); err == nil && id > 0 {
			ids = append(ids, uint(id))
		}
	}
	return ids
}
