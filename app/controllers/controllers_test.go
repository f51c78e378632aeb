package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shashiranjanraj/pcbuilder/app/models"
	"github.com/shashiranjanraj/pcbuilder/app/routes"
	"github.com/shashiranjanraj/pcbuilder/internal/testutil"
	"github.com/shashiranjanraj/pcbuilder/pkg/middleware"
	"github.com/shashiranjanraj/pcbuilder/pkg/router"
	"github.com/shashiranjanraj/pcbuilder/pkg/session"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type buildBody struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	ItemCount  int    `json:"item_count"`
	TotalPrice string `json:"total_price"`
	Tiers      []int  `json:"tiers"`
	Active     bool   `json:"active"`
	Items      []struct {
		ID        uint   `json:"id"`
		ProductID uint   `json:"product_id"`
		Quantity  int    `json:"quantity"`
		LineTotal string `json:"line_total"`
	} `json:"items"`
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	r := router.New()
	r.Use(session.Middleware(session.Options{CookieName: "sid", TTL: time.Hour, Path: "/", HTTPOnly: true}))
	r.Use(middleware.Authenticate)
	require.NoError(t, routes.RegisterAPI(r))

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	return srv
}

// client keeps cookies between calls, like a browser.
type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T, srv *httptest.Server) *client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, base: srv.URL, http: &http.Client{Jar: jar}}
}

func (c *client) do(method, path string, body interface{}) (int, envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()

	var env envelope
	if res.StatusCode != http.StatusNoContent {
		require.NoError(c.t, json.NewDecoder(res.Body).Decode(&env))
	}
	return res.StatusCode, env
}

func (c *client) login(username string) {
	c.t.Helper()
	code, env := c.do(http.MethodPost, "/api/auth/login", map[string]string{"username": username, "password": "secret123"})
	require.Equal(c.t, http.StatusOK, code, env.Message)
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type world struct {
	db    *gorm.DB
	srv   *httptest.Server
	user  models.User
	admin models.User
	cat   models.Category
	tier1 models.Product
	tier3 models.Product
}

func newWorld(t *testing.T) *world {
	db := testutil.DB(t)
	cat := testutil.Category(t, db, "GPU")
	return &world{
		db:    db,
		srv:   newServer(t),
		user:  testutil.User(t, db, "builder", models.RoleUser),
		admin: testutil.User(t, db, "admin01", models.RoleAdmin),
		cat:   cat,
		tier1: testutil.Product(t, db, cat, "Nvidia", "RTX 4060", "299.99", 1),
		tier3: testutil.Product(t, db, cat, "Nvidia", "RTX 4090", "1599.00", 3),
	}
}

func path(format string, args ...interface{}) string { return fmt.Sprintf(format, args...) }
