package shopControllers

import (
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/julianhart/storefront-api/models"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: "irrelevant",
		Cart:         models.Cart{},
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, ownerID, title string, cents int64) models.Product {
	t.Helper()
	product := models.Product{
		Title:       title,
		Description: title + " description",
		PriceCents:  cents,
		ImageURL:    "/uploads/products/" + title + ".png",
		UserID:      ownerID,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

// authAs injects the user id the way ValidateToken does, so handlers can be
// exercised without minting tokens.
func authAs(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}
