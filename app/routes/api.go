// Package routes declares every HTTP endpoint. Route names feed route:list.
package routes

import (
	"fmt"

	"github.com/shashiranjanraj/pcbuilder/app/controllers"
	"github.com/shashiranjanraj/pcbuilder/app/listeners"
	"github.com/shashiranjanraj/pcbuilder/app/models"
	"github.com/shashiranjanraj/pcbuilder/app/schema"
	"github.com/shashiranjanraj/pcbuilder/app/services"
	"github.com/shashiranjanraj/pcbuilder/pkg/ctx"
	gqlhttp "github.com/shashiranjanraj/pcbuilder/pkg/graphql"
	"github.com/shashiranjanraj/pcbuilder/pkg/metrics"
	"github.com/shashiranjanraj/pcbuilder/pkg/middleware"
	"github.com/shashiranjanraj/pcbuilder/pkg/rbac"
	"github.com/shashiranjanraj/pcbuilder/pkg/router"
)

// RegisterAPI mounts the JSON API, /graphql and /metrics on r.
func RegisterAPI(r *router.Router) error {
	auth := controllers.NewAuthController()
	catalog := controllers.NewCatalogController()
	admin := controllers.NewAdminController()
	builds := controllers.NewBuildController()
	live := controllers.NewLiveController(listeners.Live)

	api := r.Group("/api")

	guest := api.Group("/auth", rbac.Guest)
	guest.Post("/register", "auth.register", ctx.Wrap(auth.Register))
	guest.Post("/login", "auth.login", ctx.Wrap(auth.Login))

	account := api.Group("/auth", middleware.RequireAuth)
	account.Post("/logout", "auth.logout", ctx.Wrap(auth.Logout))
	account.Get("/me", "auth.me", ctx.Wrap(auth.Me))

	api.Get("/products", "products.index", ctx.Wrap(catalog.Products))
	api.Get("/products/{id}", "products.show", ctx.Wrap(catalog.Product))
	api.Get("/categories", "categories.index", ctx.Wrap(catalog.Categories))
	api.Get("/categories/{id}/products", "categories.products", ctx.Wrap(catalog.CategoryProducts))
	api.Get("/brands", "brands.index", ctx.Wrap(catalog.Brands))

	a := api.Group("/admin", middleware.RequireAuth, rbac.HasRole(models.RoleAdmin))
	a.Post("/categories", "admin.categories.store", ctx.Wrap(admin.StoreCategory))
	a.Put("/categories/{id}", "admin.categories.update", ctx.Wrap(admin.UpdateCategory))
	a.Delete("/categories/{id}", "admin.categories.destroy", ctx.Wrap(admin.DestroyCategory))
	a.Post("/products", "admin.products.store", ctx.Wrap(admin.StoreProduct))
	a.Put("/products/{id}", "admin.products.update", ctx.Wrap(admin.UpdateProduct))
	a.Delete("/products/{id}", "admin.products.destroy", ctx.Wrap(admin.DestroyProduct))

	b := api.Group("/builds", middleware.RequireAuth)
	b.Post("/items", "builds.items.add", ctx.Wrap(builds.AddItem))
	b.Patch("/items/{itemID}", "builds.items.update", ctx.Wrap(builds.UpdateItem))
	b.Delete("/items/{itemID}", "builds.items.remove", ctx.Wrap(builds.RemoveItem))
	b.Get("/live", "builds.live", ctx.Wrap(live.Stream))
	b.Get("", "builds.index", ctx.Wrap(builds.Index))
	b.Post("", "builds.store", ctx.Wrap(builds.Store))
	b.Get("/{id}", "builds.show", ctx.Wrap(builds.Show))
	b.Patch("/{id}", "builds.update", ctx.Wrap(builds.Update))
	b.Delete("/{id}", "builds.destroy", ctx.Wrap(builds.Destroy))
	b.Post("/{id}/activate", "builds.activate", ctx.Wrap(builds.Activate))

	gql, err := schema.Catalog(services.NewCatalogService())
	if err != nil {
		return fmt.Errorf("routes: graphql schema: %w", err)
	}
	r.Handle("/graphql", "graphql", gqlhttp.Handler(gql))
	r.Handle("/metrics", "metrics", metrics.Handler())

	return nil
}
