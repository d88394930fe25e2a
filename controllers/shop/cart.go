package shopControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/julianhart/storefront-api/middleware"
	"github.com/julianhart/storefront-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddToCart merges one unit of the product into the user's cart. The whole
// merge is a single upsert keyed on (cart_id, product_id), so two concurrent
// adds bump the quantity instead of racing into a duplicate row.
func AddToCart(db *gorm.DB, userID string, product models.Product) error {
	var cart models.Cart
	if err := db.FirstOrCreate(&cart, models.Cart{UserID: userID}).Error; err != nil {
		return err
	}

	item := models.CartItem{
		CartID:     cart.CartID,
		ProductID:  product.ID,
		Title:      product.Title,
		PriceCents: product.PriceCents,
		ImageURL:   product.ImageURL,
		Quantity:   1,
		AddedAt:    time.Now(),
	}
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("quantity + 1"),
			"added_at": time.Now(),
		}),
	}).Create(&item).Error
}

// RemoveFromCart deletes the cart entry for productID. Removing an id that
// is not in the cart is a no-op, not an error.
func RemoveFromCart(db *gorm.DB, userID string, productID uint) error {
	var cart models.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).
		Delete(&models.CartItem{}).Error
}

// ClearCart empties the cart wholesale. The materializer calls it inside the
// same transaction that persists the order.
func ClearCart(tx *gorm.DB, cartID uint) error {
	return tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// CartItemView is a cart entry joined against the live catalog for display.
type CartItemView struct {
	ProductID uint    `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url"`
	Quantity  int     `json:"quantity"`
}

// GetCartItems resolves each entry against the current catalog so the cart
// view shows up-to-date titles and prices. This display-time join is allowed
// to drift from the checkout price; billing always re-joins at purchase
// time. Entries whose product vanished fall back to the values captured when
// they were added.
func GetCartItems(db *gorm.DB, userID string) ([]CartItemView, error) {
	var cart models.Cart
	err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []CartItemView{}, nil
	}
	if err != nil {
		return nil, err
	}

	views := make([]CartItemView, 0, len(cart.Items))
	for _, item := range cart.Items {
		view := CartItemView{
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     float64(item.PriceCents) / 100,
			ImageURL:  item.ImageURL,
			Quantity:  item.Quantity,
		}
		var product models.Product
		if err := db.First(&product, "id = ?", item.ProductID).Error; err == nil {
			view.Title = product.Title
			view.Price = product.Price()
			view.ImageURL = product.ImageURL
		}
		views = append(views, view)
	}
	return views, nil
}

type AddToCartInput struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// POST /cart
func PostCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input AddToCartInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", input.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
			return
		}

		if err := AddToCart(db, userID, product); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
			return
		}

		items, err := GetCartItems(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// DELETE /cart/:product_id
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		productID, err := parseUint(c.Param("product_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}

		if err := RemoveFromCart(db, userID, productID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// GET /cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		items, err := GetCartItems(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}
