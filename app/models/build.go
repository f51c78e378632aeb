package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Build is a user's named collection of components.
type Build struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	User   *User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name   string `gorm:"size:100;not null" json:"name"`

	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt stays nil until the first item change; list ordering falls
	// back to CreatedAt.
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`

	Items []BuildItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

// BuildItem is one product line in a build.
type BuildItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	BuildID   uint     `gorm:"not null;uniqueIndex:idx_build_product" json:"build_id"`
	Build     *Build   `gorm:"-:migration" json:"-"`
	ProductID uint     `gorm:"not null;uniqueIndex:idx_build_product;index" json:"product_id"`
	Product   *Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"product,omitempty"`
	Quantity  int      `gorm:"not null;default:1" json:"quantity"`
}

// Tiers is the sorted set of distinct tiers across the loaded items.
// Items without a loaded Product are skipped.
func (b Build) Tiers() []int {
	seen := map[int]bool{}
	out := []int{}
	for _, it := range b.Items {
		if it.Product == nil || seen[it.Product.Tier] {
			continue
		}
		seen[it.Product.Tier] = true
		out = append(out, it.Product.Tier)
	}
	sort.Ints(out)
	return out
}

// Total is Σ price × quantity over items with a loaded Product.
func (b Build) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range b.Items {
		if it.Product == nil {
			continue
		}
		total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// ItemCount is Σ quantity.
func (b Build) ItemCount() int {
	n := 0
	for _, it := range b.Items {
		n += it.Quantity
	}
	return n
}
