package migrations

import (
	"github.com/shashiranjanraj/pcbuilder/app/models"
	"github.com/shashiranjanraj/pcbuilder/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("2026_01_01_000001_create_users_table", &createUsersTable{})
}

type createUsersTable struct{}

func (createUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (createUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.User{})
}
