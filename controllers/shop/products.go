package shopControllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/julianhart/storefront-api/models"
	"gorm.io/gorm"
)

// ItemsPerPage is the catalog page size.
const ItemsPerPage = 2

type ProductPage struct {
	Products        []models.Product `json:"products"`
	CurrentPage     int              `json:"current_page"`
	HasNextPage     bool             `json:"has_next_page"`
	HasPreviousPage bool             `json:"has_previous_page"`
	NextPage        int              `json:"next_page"`
	PreviousPage    int              `json:"previous_page"`
	LastPage        int              `json:"last_page"`
}

// PageOfProducts runs the paginated catalog query.
func PageOfProducts(db *gorm.DB, page int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := db.Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var products []models.Product
	if err := db.Order("created_at DESC, id DESC").
		Offset((page - 1) * ItemsPerPage).
		Limit(ItemsPerPage).
		Find(&products).Error; err != nil {
		return nil, err
	}

	return &ProductPage{
		Products:        products,
		CurrentPage:     page,
		HasNextPage:     int64(ItemsPerPage*page) < total,
		HasPreviousPage: page > 1,
		NextPage:        page + 1,
		PreviousPage:    page - 1,
		LastPage:        int(math.Ceil(float64(total) / float64(ItemsPerPage))),
	}, nil
}

// GET /products
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// A missing or non-numeric page falls back to the first page.
		page, err := strconv.Atoi(c.Query("page"))
		if err != nil || page < 1 {
			page = 1
		}

		result, err := PageOfProducts(db, page)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// GET /products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
