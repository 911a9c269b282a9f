package productcontroller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/AndreyPae/storefront/forms"
	"github.com/AndreyPae/storefront/models"
	"github.com/AndreyPae/storefront/store"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tealeg/xlsx"
)

// ImportProductsFromExcel reads a sheet laid out like the export. Rows with an
// existing ID update that product, the rest are created. Rows that fail
// product validation are skipped.
func ImportProductsFromExcel(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		ctx := c.Request.Context()
		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]
			if row == nil {
				skippedCount++
				continue
			}
			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			form := forms.ProductForm{
				Name:        get(1),
				Description: get(2),
				Price:       get(3),
				Categories:  splitIDs(get(5)),
				Tags:        splitIDs(get(6)),
			}
			if v, err := strconv.ParseBool(get(4)); err == nil {
				form.Available = &v
			}
			if errs := forms.Validate(&form); errs != nil {
				logrus.WithField("row", i+1).WithField("fields", errs).Debug("import row skipped")
				skippedCount++
				continue
			}

			var existing *models.Product
			if id, err := strconv.ParseUint(get(0), 10, 64); err == nil && id > 0 {
				existing, err = s.ProductByID(ctx, uint(id))
				if err != nil && !errors.Is(err, store.ErrNotFound) {
					logrus.WithError(err).WithField("row", i+1).Error("import lookup failed")
					skippedCount++
					continue
				}
			}

			product := existing
			if product == nil {
				product = &models.Product{Available: true}
			}
			errs, err := applyForm(ctx, s, form, product)
			if err != nil || errs != nil {
				skippedCount++
				continue
			}

			if existing != nil {
				if err := s.UpdateProduct(ctx, product); err != nil {
					skippedCount++
					continue
				}
				updatedCount++
				continue
			}
			if err := s.CreateProduct(ctx, product); err != nil {
				skippedCount++
				continue
			}
			createdCount++
		}

		logrus.WithFields(logrus.Fields{
			"created": createdCount,
			"updated": updatedCount,
			"skipped": skippedCount,
		}).Info("product import finished")

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": createdCount,
			"updated_count": updatedCount,
			"skipped_count": skippedCount,
		})
	}
}
