package migrations

import (
	"github.com/shashiranjanraj/pcbuilder/app/models"
	"github.com/shashiranjanraj/pcbuilder/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("2026_01_01_000003_create_builds_tables", &createBuildsTables{})
}

// builds and build_items migrate together so the items table is created
// with its cascade key to builds.
type createBuildsTables struct{}

func (createBuildsTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Build{}, &models.BuildItem{})
}

func (createBuildsTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.BuildItem{}, &models.Build{})
}
