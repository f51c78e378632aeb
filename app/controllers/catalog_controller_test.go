package controllers_test

import (
	"net/http"
	"testing"

	"github.com/shashiranjanraj/pcbuilder/internal/testutil"
	"github.com/shashiranjanraj/pcbuilder/pkg/orm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productBody struct {
	ID          uint   `json:"id"`
	Brand       string `json:"brand"`
	DisplayName string `json:"display_name"`
	Price       string `json:"price"`
	Tier        int    `json:"tier"`
}

type page struct {
	Items      []productBody  `json:"items"`
	Pagination orm.Pagination `json:"pagination"`
}

func TestProductsFilterAndPaginate(t *testing.T) {
	w := newWorld(t)
	c := newClient(t, w.srv)

	code, env := c.do(http.MethodGet, "/api/products?tier=3", nil)
	require.Equal(t, http.StatusOK, code)
	got := decode[page](t, env.Data)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Nvidia RTX 4090", got.Items[0].DisplayName)
	assert.Equal(t, "1599.00", got.Items[0].Price)
	assert.Equal(t, int64(1), got.Pagination.Total)

	_, env = c.do(http.MethodGet, "/api/products?sort=price_desc&per_page=1&page=2", nil)
	got = decode[page](t, env.Data)
	require.Len(t, got.Items, 1)
	assert.Equal(t, w.tier1.ID, got.Items[0].ID)
	assert.Equal(t, 2, got.Pagination.LastPage)
}

func TestProductShow(t *testing.T) {
	w := newWorld(t)
	c := newClient(t, w.srv)

	code, env := c.do(http.MethodGet, path("/api/products/%d", w.tier1.ID), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "299.99", decode[productBody](t, env.Data).Price)

	code, _ = c.do(http.MethodGet, "/api/products/424242", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCategoryProducts(t *testing.T) {
	w := newWorld(t)
	other := testutil.Category(t, w.db, "PSU")
	testutil.Product(t, w.db, other, "Corsair", "RM750e", "99.99", 2)
	c := newClient(t, w.srv)

	code, env := c.do(http.MethodGet, path("/api/categories/%d/products", w.cat.ID), nil)
	require.Equal(t, http.StatusOK, code)
	body := decode[struct {
		Category struct {
			Name string `json:"name"`
		} `json:"category"`
		Items []productBody `json:"items"`
	}](t, env.Data)
	assert.Equal(t, "GPU", body.Category.Name)
	assert.Len(t, body.Items, 2)

	code, _ = c.do(http.MethodGet, "/api/categories/999/products", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCategoriesAndBrands(t *testing.T) {
	w := newWorld(t)
	testutil.Category(t, w.db, "CPU")
	c := newClient(t, w.srv)

	_, env := c.do(http.MethodGet, "/api/categories", nil)
	cats := decode[[]struct {
		Name string `json:"name"`
	}](t, env.Data)
	require.Len(t, cats, 2)
	assert.Equal(t, "CPU", cats[0].Name)

	_, env = c.do(http.MethodGet, "/api/brands", nil)
	assert.Equal(t, []string{"Nvidia"}, decode[[]string](t, env.Data))
}
