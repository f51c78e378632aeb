// Package resources renders models into API JSON.
package resources

import (
	"github.com/shashiranjanraj/pcbuilder/app/models"
	"github.com/shashiranjanraj/pcbuilder/pkg/resource"
	"github.com/shopspring/decimal"
)

func User(u models.User) resource.Map {
	return resource.Map{
		"id":         u.ID,
		"username":   u.Username,
		"role":       u.Role,
		"created_at": u.CreatedAt,
	}
}

func Category(c models.Category) resource.Map {
	return resource.Map{"id": c.ID, "name": c.Name}
}

func Product(p models.Product) resource.Map {
	m := resource.Map{
		"id":           p.ID,
		"category_id":  p.CategoryID,
		"brand":        p.Brand,
		"model_name":   p.ModelName,
		"display_name": p.DisplayName(),
		"price":        p.Price.StringFixed(2),
		"tier":         p.Tier,
	}
	if p.Category != nil {
		m["category"] = Category(*p.Category)
	}
	return m
}

func BuildItem(it models.BuildItem) resource.Map {
	m := resource.Map{
		"id":         it.ID,
		"build_id":   it.BuildID,
		"product_id": it.ProductID,
		"quantity":   it.Quantity,
	}
	if it.Product != nil {
		m["product"] = Product(*it.Product)
		m["line_total"] = it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))).StringFixed(2)
	}
	return m
}

// Build renders a build with its aggregates. activeID marks the session's
// current build; pass 0 when unknown.
func Build(activeID uint) resource.Transformer[models.Build] {
	return func(b models.Build) resource.Map {
		return resource.Map{
			"id":          b.ID,
			"name":        b.Name,
			"created_at":  b.CreatedAt,
			"updated_at":  b.UpdatedAt,
			"items":       resource.Many(b.Items, BuildItem),
			"item_count":  b.ItemCount(),
			"total_price": b.Total().StringFixed(2),
			"tiers":       b.Tiers(),
			"active":      activeID != 0 && b.ID == activeID,
		}
	}
}
