package migrations

import (
	"github.com/shashiranjanraj/pcbuilder/app/models"
	"github.com/shashiranjanraj/pcbuilder/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("2026_01_01_000002_create_catalog_tables", &createCatalogTables{})
}

// categories, then products with a RESTRICT key back to them.
type createCatalogTables struct{}

func (createCatalogTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{}, &models.Product{})
}

func (createCatalogTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Product{}, &models.Category{})
}
