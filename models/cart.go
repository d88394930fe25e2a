package models

import "time"

type Cart struct {
	CartID    uint       `gorm:"primaryKey" json:"cart_id"`
	UserID    string     `gorm:"uniqueIndex" json:"user_id"` // Enforces ONE cart per user
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem holds one product reference plus the quantity. The composite
// unique index is what lets addToCart run as a single atomic upsert: a
// product can appear in a cart at most once.
type CartItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CartID     uint      `gorm:"index;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID  uint      `gorm:"uniqueIndex:idx_cart_product" json:"product_id"`
	Title      string    `json:"title"`
	PriceCents int64     `json:"price_cents"`
	ImageURL   string    `json:"image_url"`
	Quantity   int       `gorm:"not null;check:quantity >= 1" json:"quantity"`
	AddedAt    time.Time `json:"added_at"`
}
