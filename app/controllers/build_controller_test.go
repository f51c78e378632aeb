package controllers_test

import (
	"net/http"
	"testing"

	"github.com/shashiranjanraj/pcbuilder/app/models"
	"github.com/shashiranjanraj/pcbuilder/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRoutesRequireLogin(t *testing.T) {
	w := newWorld(t)
	c := newClient(t, w.srv)

	code, _ := c.do(http.MethodGet, "/api/builds", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = c.do(http.MethodPost, "/api/builds/items", map[string]uint{"product_id": w.tier1.ID})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAddItemCreatesActiveBuildAndFlashes(t *testing.T) {
	w := newWorld(t)
	c := newClient(t, w.srv)
	c.login(w.user.Username)

	code, env := c.do(http.MethodPost, "/api/builds/items", map[string]uint{"product_id": w.tier1.ID})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, "Product added to your build!", env.Message)

	b := decode[buildBody](t, env.Data)
	assert.True(t, b.Active)
	assert.Equal(t, 1, b.ItemCount)
	assert.Equal(t, "299.99", b.TotalPrice)
	assert.Equal(t, []int{1}, b.Tiers)

	// Second add lands in the session's build and bumps the quantity.
	code, env = c.do(http.MethodPost, "/api/builds/items", map[string]uint{"product_id": w.tier1.ID})
	require.Equal(t, http.StatusOK, code)
	again := decode[buildBody](t, env.Data)
	assert.Equal(t, b.ID, again.ID)
	require.Len(t, again.Items, 1)
	assert.Equal(t, 2, again.Items[0].Quantity)
	assert.Equal(t, "599.98", again.Items[0].LineTotal)

	code, env = c.do(http.MethodGet, "/api/builds", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Product added to your build!", env.Message)
	list := decode[[]buildBody](t, env.Data)
	require.Len(t, list, 1)
	assert.True(t, list[0].Active)

	_, env = c.do(http.MethodGet, "/api/builds", nil)
	assert.Empty(t, env.Message)
}

func TestAddItemTierConflict(t *testing.T) {
	w := newWorld(t)
	c := newClient(t, w.srv)
	c.login(w.user.Username)

	code, _ := c.do(http.MethodPost, "/api/builds/items", map[string]uint{"product_id": w.tier1.ID})
	require.Equal(t, http.StatusOK, code)

	code, env := c.do(http.MethodPost, "/api/builds/items", map[string]uint{"product_id": w.tier3.ID})
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, env.Message, "Tier 3")
	assert.Contains(t, env.Message, "Tier 1")

	var n int64
	require.NoError(t, w.db.Model(&models.BuildItem{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestAddItemUnknownProduct(t *testing.T) {
	w := newWorld(t)
	c := newClient(t, w.srv)
	c.login(w.user.Username)

	code, _ := c.do(http.MethodPost, "/api/builds/items", map[string]uint{"product_id": 9999})
	assert.Equal(t, http.StatusNotFound, code)

	var n int64
	require.NoError(t, w.db.Model(&models.Build{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestAddItemValidatesBody(t *testing.T) {
	w := newWorld(t)
	c := newClient(t, w.srv)
	c.login(w.user.Username)

	code, env := c.do(http.MethodPost, "/api/builds/items", map[string]uint{})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "product_id")
}

func TestActivateThenDeleteClearsPointer(t *testing.T) {
	w := newWorld(t)
	c := newClient(t, w.srv)
	c.login(w.user.Username)

	code, env := c.do(http.MethodPost, "/api/builds", map[string]string{"name": "Gaming"})
	require.Equal(t, http.StatusCreated, code)
	gaming := decode[buildBody](t, env.Data)
	code, env = c.do(http.MethodPost, "/api/builds", map[string]string{"name": "Office"})
	require.Equal(t, http.StatusCreated, code)
	office := decode[buildBody](t, env.Data)

	code, env = c.do(http.MethodPost, path("/api/builds/%d/activate", gaming.ID), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Now building: Gaming", env.Message)
	assert.True(t, decode[buildBody](t, env.Data).Active)

	_, env = c.do(http.MethodPost, "/api/builds/items", map[string]uint{"product_id": w.tier1.ID})
	assert.Equal(t, gaming.ID, decode[buildBody](t, env.Data).ID)

	code, _ = c.do(http.MethodDelete, path("/api/builds/%d", gaming.ID), nil)
	require.Equal(t, http.StatusNoContent, code)

	// With the pointer gone the most recent remaining build is used.
	_, env = c.do(http.MethodPost, "/api/builds/items", map[string]uint{"product_id": w.tier3.ID})
	assert.Equal(t, office.ID, decode[buildBody](t, env.Data).ID)
}

func TestBuildsOfAnotherUserAreNotFound(t *testing.T) {
	w := newWorld(t)
	b := testutil.Build(t, w.db, w.admin, "Theirs")
	it := testutil.Item(t, w.db, b, w.tier1, 1)

	c := newClient(t, w.srv)
	c.login(w.user.Username)

	code, _ := c.do(http.MethodGet, path("/api/builds/%d", b.ID), nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = c.do(http.MethodPatch, path("/api/builds/%d", b.ID), map[string]string{"name": "Mine"})
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = c.do(http.MethodDelete, path("/api/builds/items/%d", it.ID), nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = c.do(http.MethodGet, "/api/builds/abc", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUpdateAndRemoveItem(t *testing.T) {
	w := newWorld(t)
	b := testutil.Build(t, w.db, w.user, "Main")
	it := testutil.Item(t, w.db, b, w.tier1, 1)

	c := newClient(t, w.srv)
	c.login(w.user.Username)

	code, env := c.do(http.MethodPatch, path("/api/builds/items/%d", it.ID), map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, code, env.Message)
	got := decode[buildBody](t, env.Data)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 1, got.Items[0].Quantity)

	code, env = c.do(http.MethodPatch, path("/api/builds/items/%d", it.ID), map[string]int{"quantity": 3})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3, decode[buildBody](t, env.Data).ItemCount)

	code, env = c.do(http.MethodDelete, path("/api/builds/items/%d", it.ID), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[buildBody](t, env.Data).Items)
}

func TestRenameBuild(t *testing.T) {
	w := newWorld(t)
	b := testutil.Build(t, w.db, w.user, "Main")
	c := newClient(t, w.srv)
	c.login(w.user.Username)

	code, env := c.do(http.MethodPatch, path("/api/builds/%d", b.ID), map[string]string{"name": "Streaming rig"})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, "Streaming rig", decode[buildBody](t, env.Data).Name)
}
