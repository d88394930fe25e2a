package routes

import (
	"github.com/gin-gonic/gin"
	adminControllers "github.com/julianhart/storefront-api/controllers/admin"
	"github.com/julianhart/storefront-api/middleware"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers the "/admin/*" endpoints.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, deps Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateToken)
	{
		adminGroup.GET("/products", adminControllers.GetProducts(db))
		adminGroup.POST("/products", adminControllers.CreateProduct(db, deps.UploadDir))
		adminGroup.PUT("/products/:id", adminControllers.UpdateProduct(db, deps.UploadDir))
		adminGroup.DELETE("/products/:id", adminControllers.DeleteProduct(db, deps.UploadDir))
		adminGroup.GET("/products/export", adminControllers.ExportProducts(db))

		// Live feed of newly placed orders.
		adminGroup.GET("/orders/ws", deps.OrderFeed.Handler())
	}
}
