// Package testutil sets up the throwaway state package tests run against: a
// migrated in-memory SQLite database installed as database.DB, an empty
// cache, no event listeners, and a few fixture builders.
package testutil

import (
	"context"
	"testing"

	"github.com/shashiranjanraj/pcbuilder/app/models"
	"github.com/shashiranjanraj/pcbuilder/pkg/auth"
	"github.com/shashiranjanraj/pcbuilder/pkg/cache"
	"github.com/shashiranjanraj/pcbuilder/pkg/database"
	"github.com/shashiranjanraj/pcbuilder/pkg/event"
	"github.com/shashiranjanraj/pcbuilder/pkg/migration"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	_ "github.com/shashiranjanraj/pcbuilder/database/migrations"
)

// DB opens and migrates a fresh database and swaps it in for the test.
func DB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to ":memory:" is a separate database.
	sqlDB.SetMaxOpenConns(1)

	_, err = migration.New(db, nil).Run()
	require.NoError(t, err)

	prev := database.DB
	database.DB = db
	cache.Flush()
	event.Flush()

	t.Cleanup(func() {
		database.DB = prev
		cache.Flush()
		event.Flush()
		_ = sqlDB.Close()
	})
	return db
}

// User inserts an account with password "secret123".
func User(t *testing.T, db *gorm.DB, username, role string) models.User {
	t.Helper()
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	u := models.User{Username: username, PasswordHash: hash, Role: role}
	require.NoError(t, db.WithContext(context.Background()).Create(&u).Error)
	return u
}

func Category(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()
	c := models.Category{Name: name}
	require.NoError(t, db.Create(&c).Error)
	return c
}

// Product inserts a product of the given tier priced at price.
func Product(t *testing.T, db *gorm.DB, cat models.Category, brand, model string, price string, tier int) models.Product {
	t.Helper()
	p := models.Product{
		CategoryID: cat.ID,
		Brand:      brand,
		ModelName:  model,
		Price:      decimal.RequireFromString(price),
		Tier:       tier,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

// Build inserts an empty build for user.
func Build(t *testing.T, db *gorm.DB, user models.User, name string) models.Build {
	t.Helper()
	b := models.Build{UserID: user.ID, Name: name}
	require.NoError(t, db.Create(&b).Error)
	return b
}

// Item inserts a build line directly, bypassing the tier rule.
func Item(t *testing.T, db *gorm.DB, b models.Build, p models.Product, qty int) models.BuildItem {
	t.Helper()
	it := models.BuildItem{BuildID: b.ID, ProductID: p.ID, Quantity: qty}
	require.NoError(t, db.Create(&it).Error)
	return it
}
