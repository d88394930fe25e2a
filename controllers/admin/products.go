package adminControllers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/julianhart/storefront-api/middleware"
	"github.com/julianhart/storefront-api/models"
	"github.com/julianhart/storefront-api/utils"
	"gorm.io/gorm"
)

// validateProductForm applies the catalog form rules: title 3-50 characters,
// a parseable non-negative decimal price, description 3-400 characters. The
// returned message is user-facing; an empty message means the form is valid.
func validateProductForm(title, priceStr, description string) (priceCents int64, msg string) {
	if n := utf8.RuneCountInString(title); n < 3 || n > 50 {
		return 0, "Title must be between 3 and 50 characters"
	}
	cents, err := models.ParsePrice(priceStr)
	if err != nil {
		return 0, "Price must be a valid amount"
	}
	if n := utf8.RuneCountInString(description); n < 3 || n > 400 {
		return 0, "Description must be between 3 and 400 characters"
	}
	return cents, ""
}

// formEcho sends the submitted values back so the client can refill the form.
func formEcho(title, price, description string) gin.H {
	return gin.H{"title": title, "price": price, "description": description}
}

func isImageFilename(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

// saveProductImage stores the uploaded file under uploadDir and returns the
// public URL it will be served from.
func saveProductImage(c *gin.Context, uploadDir string) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", err
	}
	if !isImageFilename(file.Filename) {
		return "", errors.New("not an image")
	}

	// Prefix with a short random id so uploads never clobber each other.
	filename := uuid.NewString()[:8] + "_" + utils.SanitizeFilename(file.Filename)
	saveDir := filepath.Join(uploadDir, "products")
	if err := os.MkdirAll(saveDir, 0o755); err != nil {
		return "", err
	}
	if err := c.SaveUploadedFile(file, filepath.Join(saveDir, filename)); err != nil {
		return "", err
	}
	return "/uploads/products/" + filename, nil
}

// POST /admin/products
func CreateProduct(db *gorm.DB, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		title := strings.TrimSpace(c.PostForm("title"))
		priceStr := strings.TrimSpace(c.PostForm("price"))
		description := strings.TrimSpace(c.PostForm("description"))

		cents, msg := validateProductForm(title, priceStr, description)
		if msg != "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msg, "product": formEcho(title, priceStr, description)})
			return
		}

		imageURL, err := saveProductImage(c, uploadDir)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "Attached file is not an image",
				"product": formEcho(title, priceStr, description),
			})
			return
		}

		product := models.Product{
			Title:       title,
			Description: description,
			PriceCents:  cents,
			ImageURL:    imageURL,
			UserID:      userID,
		}
		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// PUT /admin/products/:id
func UpdateProduct(db *gorm.DB, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		if product.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
			return
		}

		title := strings.TrimSpace(c.PostForm("title"))
		priceStr := strings.TrimSpace(c.PostForm("price"))
		description := strings.TrimSpace(c.PostForm("description"))

		cents, msg := validateProductForm(title, priceStr, description)
		if msg != "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msg, "product": formEcho(title, priceStr, description)})
			return
		}

		// The image is optional on edit; replacing it removes the old file.
		if _, err := c.FormFile("image"); err == nil {
			imageURL, err := saveProductImage(c, uploadDir)
			if err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error":   "Attached file is not an image",
					"product": formEcho(title, priceStr, description),
				})
				return
			}
			if err := utils.DeleteFile(utils.ImageDiskPath(uploadDir, product.ImageURL)); err != nil {
				log.Printf("❌ Failed to remove replaced image %s: %v", product.ImageURL, err)
			}
			product.ImageURL = imageURL
		}

		product.Title = title
		product.PriceCents = cents
		product.Description = description
		if err := db.Save(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// DELETE /admin/products/:id
//
// Removes the row and its image file. Orders keep their embedded snapshots.
func DeleteProduct(db *gorm.DB, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}
		if product.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
			return
		}

		result := db.Where("id = ? AND user_id = ?", product.ID, userID).Delete(&models.Product{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}

		if err := utils.DeleteFile(utils.ImageDiskPath(uploadDir, product.ImageURL)); err != nil {
			log.Printf("❌ Failed to remove image for product %d: %v", product.ID, err)
		}
		c.JSON(http.StatusOK, gin.H{"message": "Success!"})
	}
}

// GET /admin/products
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var products []models.Product
		if err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
