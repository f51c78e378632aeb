package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/pcbuilder/app/models"
	"github.com/shashiranjanraj/pcbuilder/app/repositories"
	"github.com/shashiranjanraj/pcbuilder/pkg/cache"
	"github.com/shashiranjanraj/pcbuilder/pkg/collection"
	"github.com/shashiranjanraj/pcbuilder/pkg/orm"
	"github.com/shashiranjanraj/pcbuilder/pkg/storage"
	"github.com/shashiranjanraj/pcbuilder/pkg/validate"
	"github.com/shopspring/decimal"
)

// CatalogFile is the import/export document:
//
//	{"categories": [{"name": "CPU", "products": [{"brand": "AMD", ...}]}]}
type CatalogFile struct {
	Categories []CatalogCategory `json:"categories"`
}

type CatalogCategory struct {
	Name     string           `json:"name"`
	Products []CatalogProduct `json:"products"`
}

type CatalogProduct struct {
	Brand     string          `json:"brand" validate:"required,max=50"`
	ModelName string          `json:"model_name" validate:"required,max=100"`
	Price     decimal.Decimal `json:"price" validate:"gte=0,lte=999999"`
	Tier      int             `json:"tier" validate:"required,between=1,3"`
}

// ImportReport counts what an import changed.
type ImportReport struct {
	CategoriesCreated int `json:"categories_created"`
	ProductsCreated   int `json:"products_created"`
	ProductsUpdated   int `json:"products_updated"`
}

// CatalogIO moves the catalog between the database and a storage disk.
type CatalogIO struct {
	disk       storage.Disk
	categories *repositories.CategoryRepository
	products   *repositories.ProductRepository
}

func NewCatalogIO(disk storage.Disk) *CatalogIO {
	return &CatalogIO{
		disk:       disk,
		categories: repositories.NewCategoryRepository(),
		products:   repositories.NewProductRepository(),
	}
}

// Import upserts every category and product in the file at path. Products
// match on (category, brand, model name). The whole file applies or none of it.
func (c *CatalogIO) Import(ctx context.Context, path string) (ImportReport, error) {
	raw, err := c.disk.Get(ctx, path)
	if err != nil {
		return ImportReport{}, fmt.Errorf("catalog import: %w", err)
	}

	var file CatalogFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return ImportReport{}, fmt.Errorf("catalog import: decode %s: %w", path, err)
	}
	if err := file.validate(); err != nil {
		return ImportReport{}, err
	}

	var report ImportReport
	err = orm.Transaction(ctx, func(tx *orm.Query) error {
		cats := c.categories.WithTx(tx)
		prods := c.products.WithTx(tx)

		for _, fc := range file.Categories {
			cat, err := cats.FindByName(ctx, strings.TrimSpace(fc.Name))
			if errors.Is(err, repositories.ErrNotFound) {
				cat = models.Category{Name: strings.TrimSpace(fc.Name)}
				err = cats.Create(ctx, &cat)
				report.CategoriesCreated++
			}
			if err != nil {
				return err
			}

			for _, fp := range fc.Products {
				p := models.Product{
					CategoryID: cat.ID,
					Brand:      strings.TrimSpace(fp.Brand),
					ModelName:  strings.TrimSpace(fp.ModelName),
					Price:      fp.Price.Round(2),
					Tier:       fp.Tier,
				}

				existing, err := prods.FindByName(ctx, cat.ID, p.Brand, p.ModelName)
				switch {
				case err == nil:
					p.ID = existing.ID
					err = prods.Update(ctx, &p)
					report.ProductsUpdated++
				case errors.Is(err, repositories.ErrNotFound):
					err = prods.Create(ctx, &p)
					report.ProductsCreated++
				}
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return ImportReport{}, fmt.Errorf("catalog import: %w", err)
	}

	if err := cache.Forget(ctx, categoriesCacheKey); err != nil {
		return report, fmt.Errorf("catalog import: invalidate categories: %w", err)
	}
	return report, nil
}

// Export writes the current catalog to path and returns the product count.
func (c *CatalogIO) Export(ctx context.Context, path string) (int, error) {
	cats, err := c.categories.All(ctx)
	if err != nil {
		return 0, err
	}
	products, err := c.products.All(ctx)
	if err != nil {
		return 0, err
	}

	byCategory := collection.GroupBy(products, func(p models.Product) uint { return p.CategoryID })

	file := CatalogFile{Categories: make([]CatalogCategory, 0, len(cats))}
	for _, cat := range cats {
		file.Categories = append(file.Categories, CatalogCategory{
			Name: cat.Name,
			Products: collection.Map(byCategory[cat.ID], func(p models.Product) CatalogProduct {
				return CatalogProduct{Brand: p.Brand, ModelName: p.ModelName, Price: p.Price, Tier: p.Tier}
			}),
		})
	}

	raw, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return 0, err
	}
	if err := c.disk.Put(ctx, path, raw); err != nil {
		return 0, fmt.Errorf("catalog export: %w", err)
	}
	return len(products), nil
}

func (f CatalogFile) validate() error {
	errs := ValidationError{}
	for i, cat := range f.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			errs[fmt.Sprintf("categories.%d.name", i)] = "The name field is required."
		}
		for j, p := range cat.Products {
			for field, msg := range validate.Struct(p) {
				errs[fmt.Sprintf("categories.%d.products.%d.%s", i, j, field)] = msg
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
