package authControllers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/julianhart/storefront-api/mailer"
	"github.com/julianhart/storefront-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetTokenTTL = time.Hour

type ResetRequestInput struct {
	Email string `json:"email" binding:"required,email"`
}

// POST /reset
func RequestPasswordReset(db *gorm.DB, m *mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ResetRequestInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var user models.User
		if err := db.Where("email = ?", input.Email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No account with that email found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up account"})
			return
		}

		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate reset token"})
			return
		}
		token := hex.EncodeToString(buf)

		user.ResetToken = token
		user.ResetTokenExpiry = time.Now().Add(resetTokenTTL)
		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store reset token"})
			return
		}

		link := os.Getenv("BASE_URL") + "/reset/" + token
		m.SendAsync(user.Email, "Password reset",
			`<p>You requested a password reset.</p><p>Click this <a href="`+link+`">link</a> to set a new password.</p>`)
		c.JSON(http.StatusOK, gin.H{"message": "Reset mail sent"})
	}
}

// GET /reset/:token
func GetResetToken(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.Where("reset_token = ? AND reset_token_expiry > ?", c.Param("token"), time.Now()).
			First(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid or expired reset token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": user.ID, "token": c.Param("token")})
	}
}

type NewPasswordInput struct {
	UserID   string `json:"user_id" binding:"required"`
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// POST /new-password
func PostNewPassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input NewPasswordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var user models.User
		if err := db.Where("id = ? AND reset_token = ? AND reset_token_expiry > ?",
			input.UserID, input.Token, time.Now()).First(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid or expired reset token"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
			return
		}

		user.PasswordHash = string(hash)
		user.ResetToken = ""
		user.ResetTokenExpiry = time.Time{}
		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
	}
}
