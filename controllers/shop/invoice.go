package shopControllers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/julianhart/storefront-api/middleware"
	"github.com/julianhart/storefront-api/models"
	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"
)

// InvoiceFilename is the deterministic name an order's invoice is cached
// under and served as.
func InvoiceFilename(orderID uint) string {
	return fmt.Sprintf("invoice-%d.pdf", orderID)
}

// OrderTotalCents recomputes the order total from the embedded snapshots,
// never from live product prices.
func OrderTotalCents(order *models.Order) int64 {
	var total int64
	for _, item := range order.Items {
		total += int64(item.Quantity) * item.PriceCents
	}
	return total
}

// RenderInvoice writes the invoice PDF for order to w. The document is
// derived entirely from the order's embedded snapshots; live product data is
// never consulted, so historical prices stay accurate.
func RenderInvoice(order *models.Order, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "U", 26)
	pdf.Cell(0, 12, "Invoice")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 16)
	pdf.Cell(0, 8, "---------------------")
	pdf.Ln(10)

	for _, item := range order.Items {
		line := fmt.Sprintf("%s - %d x $%s", item.Title, item.Quantity, models.FormatCents(item.PriceCents))
		pdf.Cell(0, 8, line)
		pdf.Ln(9)
	}

	pdf.Cell(0, 8, "---------------------")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 20)
	pdf.Cell(0, 10, "Total Price: $"+models.FormatCents(OrderTotalCents(order)))

	return pdf.Output(w)
}

// GET /orders/:orderId/invoice
//
// The generated bytes fan out to two sinks in one pass: a durable copy under
// invoiceDir and the live response. The response does not wait for the file
// write; both sinks see identical content. A partial file left by a failed
// generation is just a cache miss on the next request.
func GetInvoice(db *gorm.DB, invoiceDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var order models.Order
		if err := db.Preload("Items").First(&order, "id = ?", c.Param("orderId")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No order found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}

		if order.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
			return
		}

		if err := os.MkdirAll(invoiceDir, 0o755); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare invoice storage"})
			return
		}

		invoiceName := InvoiceFilename(order.ID)
		file, err := os.Create(filepath.Join(invoiceDir, invoiceName))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store invoice"})
			return
		}
		defer file.Close()

		c.Header("Content-Type", "application/pdf")
		c.Header("Content-Disposition", `inline; filename="`+invoiceName+`"`)

		if err := RenderInvoice(&order, io.MultiWriter(file, c.Writer)); err != nil {
			log.Printf("❌ Invoice generation failed for order %d: %v", order.ID, err)
			c.Status(http.StatusInternalServerError)
			return
		}
	}
}
