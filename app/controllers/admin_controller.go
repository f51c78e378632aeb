package controllers

import (
	"github.com/shashiranjanraj/pcbuilder/app/resources"
	"github.com/shashiranjanraj/pcbuilder/app/services"
	"github.com/shashiranjanraj/pcbuilder/pkg/ctx"
)

// AdminController manages the catalog. Every route is behind
// rbac.HasRole(models.RoleAdmin).
type AdminController struct {
	service *services.CatalogService
}

func NewAdminController() *AdminController {
	return &AdminController{service: services.NewCatalogService()}
}

func (ac *AdminController) StoreCategory(c *ctx.Context) {
	var in services.CategoryInput
	if !c.BindJSON(&in) {
		return
	}
	cat, err := ac.service.CreateCategory(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(resources.Category(cat))
}

func (ac *AdminController) UpdateCategory(c *ctx.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.CategoryInput
	if !c.BindJSON(&in) {
		return
	}
	cat, err := ac.service.UpdateCategory(c.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.Category(cat))
}

func (ac *AdminController) DestroyCategory(c *ctx.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ac.service.DeleteCategory(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}

func (ac *AdminController) StoreProduct(c *ctx.Context) {
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := ac.service.CreateProduct(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(resources.Product(p))
}

func (ac *AdminController) UpdateProduct(c *ctx.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := ac.service.UpdateProduct(c.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.Product(p))
}

func (ac *AdminController) DestroyProduct(c *ctx.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ac.service.DeleteProduct(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}
