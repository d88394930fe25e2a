package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/julianhart/storefront-api/mailer"
	"github.com/julianhart/storefront-api/models"
	"github.com/julianhart/storefront-api/payment"
	"github.com/julianhart/storefront-api/realtime"
	"github.com/julianhart/storefront-api/routes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	log.Println("✅ Starting storefront...")

	// Load environment variables
	_ = godotenv.Load()

	// Init DB
	db := initDatabase()

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	gateway, err := payment.NewClientFromEnv()
	if err != nil {
		log.Fatalf("❌ Payment gateway setup failed: %v", err)
	}

	uploadDir := envOr("UPLOAD_DIR", "./uploads")
	invoiceDir := envOr("INVOICE_DIR", filepath.Join("data", "invoices"))

	// Gin setup
	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20 // 8 MB

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Serve uploaded product images
	r.Static("/uploads", uploadDir)

	routes.SetupRoutes(r, db, routes.Deps{
		Gateway:    gateway,
		Mailer:     mailer.NewFromEnv(),
		OrderFeed:  realtime.NewOrderFeed(),
		UploadDir:  uploadDir,
		InvoiceDir: invoiceDir,
	})

	// Evict cached invoices nightly at 3 AM; they regenerate on demand.
	go startInvoiceCacheCleanup(invoiceDir, 7*24*time.Hour, 3, 0)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Server running on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// initDatabase sets up the GORM DB connection
func initDatabase() *gorm.DB {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("❌ DB connection failed: %v", err)
		}
		return db
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Failed to connect DB: %v", err)
	}
	return db
}

// startInvoiceCacheCleanup removes cached invoice PDFs older than retention
// once a day at a fixed time. An invoice is always regenerable from its
// order, so eviction is safe.
func startInvoiceCacheCleanup(invoiceDir string, retention time.Duration, hour, min int) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}
		log.Printf("⏳ Next invoice cache cleanup at: %s", next.Format("2006-01-02 15:04:05"))
		time.Sleep(next.Sub(now))

		cleanupInvoiceCache(invoiceDir, retention)
	}
}

func cleanupInvoiceCache(invoiceDir string, retention time.Duration) {
	entries, err := os.ReadDir(invoiceDir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("❌ Failed to read invoice directory: %v", err)
		}
		return
	}

	cutoff := time.Now().Add(-retention)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "invoice-") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(invoiceDir, entry.Name())
			if err := os.Remove(path); err != nil {
				log.Printf("❌ Failed to evict cached invoice %s: %v", path, err)
			} else {
				log.Printf("🗑️ Evicted cached invoice: %s", path)
			}
		}
	}
}
