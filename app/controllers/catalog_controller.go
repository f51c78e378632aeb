package controllers

import (
	"github.com/shashiranjanraj/pcbuilder/app/repositories"
	"github.com/shashiranjanraj/pcbuilder/app/resources"
	"github.com/shashiranjanraj/pcbuilder/app/services"
	"github.com/shashiranjanraj/pcbuilder/pkg/ctx"
	"github.com/shashiranjanraj/pcbuilder/pkg/resource"
)

type CatalogController struct {
	service *services.CatalogService
}

func NewCatalogController() *CatalogController {
	return &CatalogController{service: services.NewCatalogService()}
}

// filterFrom reads ?category_id, brand, tier, q, sort, page, per_page.
// Unknown sort keys fall back to the default order.
func filterFrom(c *ctx.Context) repositories.ProductFilter {
	return repositories.ProductFilter{
		CategoryID: c.QueryUint("category_id"),
		Brand:      c.Query("brand"),
		Tier:       c.QueryInt("tier", 0),
		Search:     c.Query("q"),
		Sort:       c.Query("sort"),
		Page:       c.QueryInt("page", 1),
		PerPage:    c.QueryInt("per_page", 0),
	}
}

// Products handles GET /api/products.
func (cc *CatalogController) Products(c *ctx.Context) {
	products, page, err := cc.service.ListProducts(c.Context(), filterFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.Paginated(resource.Many(products, resources.Product), page)
}

// Product handles GET /api/products/{id}.
func (cc *CatalogController) Product(c *ctx.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := cc.service.GetProduct(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.Product(p))
}

// Categories handles GET /api/categories.
func (cc *CatalogController) Categories(c *ctx.Context) {
	cats, err := cc.service.ListCategories(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resource.Many(cats, resources.Category))
}

// CategoryProducts handles GET /api/categories/{id}/products.
func (cc *CatalogController) CategoryProducts(c *ctx.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cat, products, page, err := cc.service.ListByCategory(c.Context(), id, filterFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]interface{}{
		"category":   resources.Category(cat),
		"items":      resource.Many(products, resources.Product),
		"pagination": page,
	})
}

// Brands handles GET /api/brands.
func (cc *CatalogController) Brands(c *ctx.Context) {
	brands, err := cc.service.ListBrands(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(brands)
}
