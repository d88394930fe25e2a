package models

import "time"

// Order is the immutable record a cart is materialized into. It embeds a
// full copy of every purchased product, so later catalog edits or deletions
// never rewrite purchase history. The unique checkout session id keeps a
// replayed payment-success callback from creating a second order.
type Order struct {
	ID                uint        `gorm:"primaryKey" json:"id"`
	UserID            string      `gorm:"index;not null" json:"user_id"`
	UserEmail         string      `gorm:"not null" json:"user_email"`
	CheckoutSessionID string      `gorm:"uniqueIndex;not null" json:"checkout_session_id"`
	TotalCents        int64       `json:"total_cents"`
	Items             []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt         time.Time   `json:"created_at"`
}

// OrderItem is a write-once product snapshot taken at purchase time.
type OrderItem struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderID     uint   `gorm:"index" json:"order_id"`
	ProductID   uint   `json:"product_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	ImageURL    string `json:"image_url"`
	Quantity    int    `json:"quantity"`
}
