package migration

import (
	"bytes"
	"testing"

	"github.com/shashiranjanraj/pcbuilder/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type gadget struct {
	ID   uint
	Name string
}

type createGadgets struct{}

func (createGadgets) Up(db *gorm.DB) error   { return db.AutoMigrate(&gadget{}) }
func (createGadgets) Down(db *gorm.DB) error { return db.Migrator().DropTable(&gadget{}) }

func TestRunStatusRollback(t *testing.T) {
	saved := registry
	registry = nil
	t.Cleanup(func() { registry = saved })
	Register("2024_01_01_000001_create_gadgets_table", createGadgets{})

	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	var out bytes.Buffer
	r := New(db, &out)

	n, err := r.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, db.Migrator().HasTable(&gadget{}))
	assert.Contains(t, out.String(), "Migrated:  2024_01_01_000001_create_gadgets_table")

	n, err = r.Run()
	require.NoError(t, err)
	assert.Zero(t, n)

	st, err := r.Status()
	require.NoError(t, err)
	require.Len(t, st, 1)
	assert.True(t, st[0].Ran)
	assert.Equal(t, 1, st[0].Batch)

	n, err = r.Rollback()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, db.Migrator().HasTable(&gadget{}))

	st, err = r.Status()
	require.NoError(t, err)
	assert.False(t, st[0].Ran)
}
