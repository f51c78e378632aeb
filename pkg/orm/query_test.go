package orm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shashiranjanraj/pcbuilder/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID    uint
	Name  string
	Price int
}

func setupDB(t *testing.T) {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&widget{}))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		_ = sqlDB.Close()
	})
}

func TestNormalizePage(t *testing.T) {
	cases := []struct{ page, per, wantPage, wantPer int }{
		{0, 0, 1, DefaultPerPage},
		{-3, 5, 1, 5},
		{2, 500, 2, MaxPerPage},
		{4, 10, 4, 10},
	}
	for _, c := range cases {
		p, pp := NormalizePage(c.page, c.per)
		assert.Equal(t, c.wantPage, p)
		assert.Equal(t, c.wantPer, pp)
	}
}

func TestNewPaginationLastPage(t *testing.T) {
	assert.Equal(t, 1, NewPagination(0, 1, 20).LastPage)
	assert.Equal(t, 1, NewPagination(20, 1, 20).LastPage)
	assert.Equal(t, 2, NewPagination(21, 1, 20).LastPage)
}

func TestPaginate(t *testing.T) {
	setupDB(t)
	ctx := context.Background()

	for i := 1; i <= 7; i++ {
		require.NoError(t, DB().WithContext(ctx).Create(&widget{Name: fmt.Sprintf("w%d", i), Price: i * 10}))
	}

	var page []widget
	meta, err := DB().WithContext(ctx).Model(&widget{}).
		Where("price > ?", 10).
		Paginate(2, 4, "price DESC", &page)
	require.NoError(t, err)

	assert.Equal(t, int64(6), meta.Total)
	assert.Equal(t, 2, meta.LastPage)
	require.Len(t, page, 2)
	assert.Equal(t, 30, page[0].Price)
	assert.Equal(t, 20, page[1].Price)
}

func TestTransactionRollsBack(t *testing.T) {
	setupDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := Transaction(ctx, func(tx *Query) error {
		require.NoError(t, tx.Create(&widget{Name: "ghost"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int64
	require.NoError(t, DB().Model(&widget{}).Count(&n))
	assert.Zero(t, n)
}

func TestFirstMissIsNotFound(t *testing.T) {
	setupDB(t)

	var w widget
	err := DB().Where("id = ?", 99).First(&w)
	assert.True(t, IsNotFound(err))
}
