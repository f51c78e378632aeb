package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products (CPU, GPU, Motherboard, ...).
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

// Product is a single component. Tier is 1 (entry) through 3 (high end);
// tiers 1 and 3 never share a build.
type Product struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CategoryID uint            `gorm:"not null;index" json:"category_id"`
	Category   *Category       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category,omitempty"`
	Brand      string          `gorm:"size:50;not null;index" json:"brand"`
	ModelName  string          `gorm:"size:100;not null" json:"model_name"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Tier       int             `gorm:"not null;index" json:"tier"`
	CreatedAt  time.Time       `json:"created_at"`
}

// DisplayName is "Brand ModelName".
func (p Product) DisplayName() string {
	return p.Brand + " " + p.ModelName
}
