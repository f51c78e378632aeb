// Package schema is the read-only GraphQL view of the catalog, served at
// /graphql by pkg/graphql.
//
//	{ products(tier: 3, sort: "price_desc", perPage: 5) { total items { brand modelName price } } }
package schema

import (
	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/pcbuilder/app/models"
	"github.com/shashiranjanraj/pcbuilder/app/repositories"
	"github.com/shashiranjanraj/pcbuilder/app/services"
	gqlhttp "github.com/shashiranjanraj/pcbuilder/pkg/graphql"
	"github.com/shashiranjanraj/pcbuilder/pkg/resource"
)

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"brand":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"modelName": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"price":     &graphql.Field{Type: graphql.NewNonNull(graphql.String), Description: "Decimal string, two places."},
		"tier":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"category":  &graphql.Field{Type: categoryType},
	},
})

var productPageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProductPage",
	Fields: graphql.Fields{
		"items":       &graphql.Field{Type: graphql.NewList(productType)},
		"total":       &graphql.Field{Type: graphql.Int},
		"perPage":     &graphql.Field{Type: graphql.Int},
		"currentPage": &graphql.Field{Type: graphql.Int},
		"lastPage":    &graphql.Field{Type: graphql.Int},
	},
})

func category(c models.Category) resource.Map {
	return resource.Map{"id": c.ID, "name": c.Name}
}

func product(p models.Product) resource.Map {
	m := resource.Map{
		"id":        p.ID,
		"brand":     p.Brand,
		"modelName": p.ModelName,
		"price":     p.Price.StringFixed(2),
		"tier":      p.Tier,
	}
	if p.Category != nil {
		m["category"] = category(*p.Category)
	}
	return m
}

func intArg(p graphql.ResolveParams, name string) int {
	n, _ := p.Args[name].(int)
	return n
}

func stringArg(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}

// Catalog builds the schema over svc.
func Catalog(svc *services.CatalogService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: productPageType,
				Args: graphql.FieldConfigArgument{
					"categoryId": &graphql.ArgumentConfig{Type: graphql.Int},
					"brand":      &graphql.ArgumentConfig{Type: graphql.String},
					"tier":       &graphql.ArgumentConfig{Type: graphql.Int},
					"q":          &graphql.ArgumentConfig{Type: graphql.String},
					"sort":       &graphql.ArgumentConfig{Type: graphql.String},
					"page":       &graphql.ArgumentConfig{Type: graphql.Int},
					"perPage":    &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					items, page, err := svc.ListProducts(p.Context, repositories.ProductFilter{
						CategoryID: uint(max(intArg(p, "categoryId"), 0)),
						Brand:      stringArg(p, "brand"),
						Tier:       intArg(p, "tier"),
						Search:     stringArg(p, "q"),
						Sort:       stringArg(p, "sort"),
						Page:       intArg(p, "page"),
						PerPage:    intArg(p, "perPage"),
					})
					if err != nil {
						return nil, err
					}
					return resource.Map{
						"items":       resource.Many(items, product),
						"total":       page.Total,
						"perPage":     page.PerPage,
						"currentPage": page.CurrentPage,
						"lastPage":    page.LastPage,
					}, nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := intArg(p, "id")
					if id <= 0 {
						return nil, services.ErrNotFound
					}
					prod, err := svc.GetProduct(p.Context, uint(id))
					if err != nil {
						return nil, err
					}
					return product(prod), nil
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					cats, err := svc.ListCategories(p.Context)
					if err != nil {
						return nil, err
					}
					return resource.Many(cats, category), nil
				},
			},
			"brands": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.ListBrands(p.Context)
				},
			},
		},
	})

	return gqlhttp.NewSchema(query)
}
