package routes

import (
	"github.com/gin-gonic/gin"
	shopControllers "github.com/julianhart/storefront-api/controllers/shop"
	"github.com/julianhart/storefront-api/middleware"
	"gorm.io/gorm"
)

// SetupShopRoutes registers the storefront endpoints.
func SetupShopRoutes(r *gin.Engine, db *gorm.DB, deps Deps) {
	// Catalog browsing is public.
	r.GET("/", shopControllers.GetProducts(db))
	r.GET("/products", shopControllers.GetProducts(db))
	r.GET("/products/:id", shopControllers.GetProductByID(db))

	authed := r.Group("/")
	authed.Use(middleware.ValidateToken)
	{
		cartGroup := authed.Group("/cart")
		{
			cartGroup.GET("", shopControllers.GetCart(db))                          // GET /cart
			cartGroup.POST("", shopControllers.PostCart(db))                        // POST /cart
			cartGroup.DELETE("/:product_id", shopControllers.DeleteCartItem(db))    // DELETE /cart/:product_id
		}

		authed.GET("/checkout", shopControllers.GetCheckout(db, deps.Gateway))
		authed.GET("/checkout/success", shopControllers.GetCheckoutSuccess(db, deps.OrderFeed))
		authed.GET("/checkout/cancel", shopControllers.GetCheckoutCancel(db))

		authed.GET("/orders", shopControllers.GetOrders(db))
		authed.GET("/orders/:orderId/invoice", shopControllers.GetInvoice(db, deps.InvoiceDir))
	}
}
