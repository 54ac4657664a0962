package database

import (
	"go-office-inventory/internal/model"

	"gorm.io/gorm"
)

// Migrate creates or updates the schema. Order matters for the foreign keys.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Item{},
		&model.Transaction{},
	)
}
