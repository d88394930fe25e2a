package routes

import (
	"github.com/gin-gonic/gin"
	shopControllers "github.com/julianhart/storefront-api/controllers/shop"
	"github.com/julianhart/storefront-api/mailer"
	"github.com/julianhart/storefront-api/realtime"
	"gorm.io/gorm"
)

// Deps carries the collaborators the handlers need besides the DB.
type Deps struct {
	Gateway    shopControllers.SessionCreator
	Mailer     *mailer.Mailer
	OrderFeed  *realtime.OrderFeed
	UploadDir  string
	InvoiceDir string
}

// SetupRoutes is the single entry-point that wires up Auth, Shop, and Admin
// route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, deps Deps) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, db, deps)

	// Storefront routes (catalog public, cart/checkout/orders JWT-protected)
	SetupShopRoutes(r, db, deps)

	// Admin routes (JWT-protected, ownership enforced per product)
	SetupAdminRoutes(r, db, deps)
}
