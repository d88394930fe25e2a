package routes

import (
	"github.com/gin-gonic/gin"
	authControllers "github.com/julianhart/storefront-api/controllers/auth"
	"gorm.io/gorm"
)

// SetupAuthRoutes registers signup, login and the password-reset flow.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB, deps Deps) {
	r.POST("/signup", authControllers.Signup(db, deps.Mailer))
	r.POST("/login", authControllers.Login(db))

	r.POST("/reset", authControllers.RequestPasswordReset(db, deps.Mailer))
	r.GET("/reset/:token", authControllers.GetResetToken(db))
	r.POST("/new-password", authControllers.PostNewPassword(db))
}
