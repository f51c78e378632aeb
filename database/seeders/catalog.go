package seeders

import (
	"github.com/shashiranjanraj/pcbuilder/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	Register("catalog", seedCatalog)
}

type demoProduct struct {
	brand, model string
	price        string
	tier         int
}

// demoCatalog spans all three tiers in every category so the tier rule can
// be tried straight away.
var demoCatalog = []struct {
	category string
	products []demoProduct
}{
	{"CPU", []demoProduct{
		{"Intel", "Core i3-12100F", "89.99", 1},
		{"AMD", "Ryzen 5 7600", "199.00", 2},
		{"AMD", "Ryzen 9 7950X3D", "649.00", 3},
	}},
	{"GPU", []demoProduct{
		{"AMD", "Radeon RX 6600", "199.99", 1},
		{"NVIDIA", "GeForce RTX 4070", "549.00", 2},
		{"NVIDIA", "GeForce RTX 4090", "1599.00", 3},
	}},
	{"Motherboard", []demoProduct{
		{"ASRock", "B660M-HDV", "89.99", 1},
		{"MSI", "MAG B650 Tomahawk", "219.99", 2},
		{"ASUS", "ROG Crosshair X670E Hero", "699.99", 3},
	}},
	{"Memory", []demoProduct{
		{"Kingston", "Fury Beast 16GB DDR4-3200", "39.99", 1},
		{"Corsair", "Vengeance 32GB DDR5-6000", "109.99", 2},
		{"G.Skill", "Trident Z5 64GB DDR5-6400", "229.99", 3},
	}},
	{"Storage", []demoProduct{
		{"Crucial", "P3 1TB", "54.99", 1},
		{"Samsung", "990 EVO 2TB", "159.99", 2},
		{"Samsung", "990 Pro 4TB", "319.99", 3},
	}},
	{"Power Supply", []demoProduct{
		{"EVGA", "600 BR", "49.99", 1},
		{"Corsair", "RM850e", "119.99", 2},
		{"Seasonic", "Prime TX-1300", "379.99", 3},
	}},
	{"Case", []demoProduct{
		{"Zalman", "T6", "39.99", 1},
		{"Fractal Design", "North", "139.99", 2},
		{"Lian Li", "O11 Dynamic EVO XL", "229.99", 3},
	}},
}

func seedCatalog(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, group := range demoCatalog {
			cat := models.Category{Name: group.category}
			if err := tx.Where(models.Category{Name: group.category}).FirstOrCreate(&cat).Error; err != nil {
				return err
			}

			for _, dp := range group.products {
				p := models.Product{
					CategoryID: cat.ID,
					Brand:      dp.brand,
					ModelName:  dp.model,
					Price:      decimal.RequireFromString(dp.price),
					Tier:       dp.tier,
				}
				err := tx.Where("category_id = ? AND brand = ? AND model_name = ?", cat.ID, dp.brand, dp.model).
					FirstOrCreate(&p).Error
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
}
