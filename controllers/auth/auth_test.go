package authControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/julianhart/storefront-api/mailer"
	"github.com/julianhart/storefront-api/middleware"
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
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Cart{}, &models.CartItem{}))
	return db
}

func authRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	m := mailer.NewFromEnv()
	r.POST("/signup", Signup(db, m))
	r.POST("/login", Login(db))
	r.POST("/reset", RequestPasswordReset(db, m))
	r.GET("/reset/:token", GetResetToken(db))
	r.POST("/new-password", PostNewPassword(db))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignupCreatesUserWithEmptyCart(t *testing.T) {
	db := testDB(t)
	r := authRouter(db)

	w := postJSON(t, r, "/signup", gin.H{
		"email":            "new@example.com",
		"password":         "secret1",
		"confirm_password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user models.User
	require.NoError(t, db.Preload("Cart").Where("email = ?", "new@example.com").First(&user).Error)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotZero(t, user.Cart.CartID, "signup must provision a cart")

	// A second signup with the same email is rejected.
	w = postJSON(t, r, "/signup", gin.H{
		"email":            "new@example.com",
		"password":         "secret1",
		"confirm_password": "secret1",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSignupRejectsMismatchedPasswords(t *testing.T) {
	db := testDB(t)
	r := authRouter(db)

	w := postJSON(t, r, "/signup", gin.H{
		"email":            "new@example.com",
		"password":         "secret1",
		"confirm_password": "different",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestLoginIssuesUsableToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := testDB(t)
	r := authRouter(db)

	w := postJSON(t, r, "/signup", gin.H{
		"email":            "new@example.com",
		"password":         "secret1",
		"confirm_password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/login", gin.H{"email": "new@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token  string `json:"token"`
		UserID string `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	// The token passes the middleware and carries the user id.
	protected := gin.New()
	protected.GET("/whoami", middleware.ValidateToken, func(c *gin.Context) {
		id, ok := middleware.UserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), resp.UserID)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := testDB(t)
	r := authRouter(db)

	w := postJSON(t, r, "/signup", gin.H{
		"email":            "new@example.com",
		"password":         "secret1",
		"confirm_password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/login", gin.H{"email": "new@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, r, "/login", gin.H{"email": "nobody@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := testDB(t)
	r := authRouter(db)

	w := postJSON(t, r, "/signup", gin.H{
		"email":            "new@example.com",
		"password":         "secret1",
		"confirm_password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/reset", gin.H{"email": "new@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, db.Where("email = ?", "new@example.com").First(&user).Error)
	require.NotEmpty(t, user.ResetToken)
	assert.True(t, user.ResetTokenExpiry.After(time.Now()))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reset/"+user.ResetToken, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	w = postJSON(t, r, "/new-password", gin.H{
		"user_id":  user.ID,
		"token":    user.ResetToken,
		"password": "brand-new",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Old password no longer works, new one does, token is spent.
	w = postJSON(t, r, "/login", gin.H{"email": "new@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = postJSON(t, r, "/login", gin.H{"email": "new@example.com", "password": "brand-new"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, r, "/new-password", gin.H{
		"user_id":  user.ID,
		"token":    user.ResetToken,
		"password": "another",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResetUnknownEmail(t *testing.T) {
	db := testDB(t)
	r := authRouter(db)

	w := postJSON(t, r, "/reset", gin.H{"email": "ghost@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
