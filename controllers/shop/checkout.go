package shopControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/julianhart/storefront-api/middleware"
	"github.com/julianhart/storefront-api/models"
	"github.com/julianhart/storefront-api/payment"
	"github.com/julianhart/storefront-api/realtime"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrStaleCart means a cart entry references a product that no longer
	// exists; the checkout fails whole rather than silently dropping lines.
	ErrStaleCart = errors.New("cart references a product that no longer exists")
	ErrEmptyCart = errors.New("cart is empty")
)

// CheckoutLine pairs a product, priced at purchase time, with its quantity.
type CheckoutLine struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// BuildCheckout performs the purchase-time price join: every cart entry is
// resolved against the catalog and billed at its current price, whatever the
// cart view showed earlier. Totals are exact integer cent arithmetic.
func BuildCheckout(db *gorm.DB, userID string) ([]CheckoutLine, int64, error) {
	var cart models.Cart
	if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrEmptyCart
		}
		return nil, 0, err
	}
	if len(cart.Items) == 0 {
		return nil, 0, ErrEmptyCart
	}

	lines := make([]CheckoutLine, 0, len(cart.Items))
	var total int64
	for _, item := range cart.Items {
		var product models.Product
		if err := db.First(&product, "id = ?", item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, ErrStaleCart
			}
			return nil, 0, err
		}
		lines = append(lines, CheckoutLine{Product: product, Quantity: item.Quantity})
		total += int64(item.Quantity) * product.PriceCents
	}
	return lines, total, nil
}

// SessionCreator is the slice of the payment gateway the checkout needs.
type SessionCreator interface {
	CreateCheckoutSession(items []payment.LineItem, successURL, cancelURL string) (string, error)
}

// GET /checkout
func GetCheckout(db *gorm.DB, gateway SessionCreator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		lines, total, err := BuildCheckout(db, userID)
		switch {
		case errors.Is(err, ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			return
		case errors.Is(err, ErrStaleCart):
			c.JSON(http.StatusConflict, gin.H{"error": "Your cart has changed, please review it"})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare checkout"})
			return
		}

		items := make([]payment.LineItem, 0, len(lines))
		for _, line := range lines {
			items = append(items, payment.LineItem{
				Name:            line.Product.Title,
				Description:     line.Product.Description,
				UnitAmountCents: line.Product.PriceCents,
				Currency:        "usd",
				Quantity:        line.Quantity,
			})
		}

		base := requestBaseURL(c.Request)
		sessionID, err := gateway.CreateCheckoutSession(
			items,
			base+"/checkout/success?session_id={CHECKOUT_SESSION_ID}",
			base+"/checkout/cancel",
		)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create payment session"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"products":    lines,
			"total_cents": total,
			"total":       models.FormatCents(total),
			"session_id":  sessionID,
		})
	}
}

// MaterializeOrder converts the user's cart into a permanent order. The
// second price join happens here, independent of the one at session-create
// time. Order insert and cart clear run in one transaction, and the unique
// session id makes a replayed success callback return the existing order
// instead of creating a duplicate.
func MaterializeOrder(db *gorm.DB, userID, userEmail, sessionID string) (*models.Order, bool, error) {
	var existing models.Order
	err := db.Preload("Items").Where("checkout_session_id = ?", sessionID).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	var order models.Order
	created := false
	err = db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmptyCart
			}
			return err
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		var items []models.OrderItem
		var total int64
		for _, item := range cart.Items {
			var product models.Product
			if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrStaleCart
				}
				return err
			}
			items = append(items, models.OrderItem{
				ProductID:   product.ID,
				Title:       product.Title,
				Description: product.Description,
				PriceCents:  product.PriceCents,
				ImageURL:    product.ImageURL,
				Quantity:    item.Quantity,
			})
			total += int64(item.Quantity) * product.PriceCents
		}

		order = models.Order{
			UserID:            userID,
			UserEmail:         userEmail,
			CheckoutSessionID: sessionID,
			TotalCents:        total,
			Items:             items,
			CreatedAt:         time.Now(),
		}
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "checkout_session_id"}},
			DoNothing: true,
		}).Create(&order)
		if result.Error != nil {
			return result.Error
		}
		created = result.RowsAffected > 0

		// Clearing is idempotent, so it runs even when a concurrent request
		// won the insert above.
		return ClearCart(tx, cart.CartID)
	})
	if err != nil {
		return nil, false, err
	}

	if !created {
		if err := db.Preload("Items").Where("checkout_session_id = ?", sessionID).First(&existing).Error; err != nil {
			return nil, false, err
		}
		return &existing, false, nil
	}
	return &order, true, nil
}

// GET /checkout/success
func GetCheckoutSuccess(db *gorm.DB, feed *realtime.OrderFeed) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		sessionID := c.Query("session_id")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session id"})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
			return
		}

		order, created, err := MaterializeOrder(db, userID, user.Email, sessionID)
		switch {
		case errors.Is(err, ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			return
		case errors.Is(err, ErrStaleCart):
			c.JSON(http.StatusConflict, gin.H{"error": "Your cart has changed, please review it"})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
			return
		}

		if created {
			feed.Broadcast(order)
			c.JSON(http.StatusCreated, gin.H{"order": order})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

// GET /checkout/cancel
func GetCheckoutCancel(db *gorm.DB) gin.HandlerFunc {
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

// requestBaseURL rebuilds the externally visible scheme and host for the
// payment callback URLs.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}
	return scheme + "://" + r.Host
}
