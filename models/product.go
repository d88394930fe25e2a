package models

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Product is a catalog entry owned by the admin that created it. Prices are
// stored as integer cents; floats appear only at the display boundary.
type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	PriceCents  int64     `gorm:"not null" json:"price_cents"`
	ImageURL    string    `gorm:"not null" json:"image_url"`
	UserID      string    `gorm:"index;not null" json:"user_id"` // owning admin
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Price returns the decimal display value of PriceCents.
func (p Product) Price() float64 {
	return float64(p.PriceCents) / 100
}

// ParsePrice converts a decimal form value like "12.99" into integer cents.
func ParsePrice(s string) (int64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	return int64(math.Round(f * 100)), nil
}

// FormatCents renders integer cents as a two-decimal string for display.
func FormatCents(cents int64) string {
	return strconv.FormatFloat(float64(cents)/100, 'f', 2, 64)
}
