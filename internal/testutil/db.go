// Package testutil provides an in-memory store with the production schema for package tests.
package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"go-office-inventory/internal/config"
	"go-office-inventory/internal/model"
	"go-office-inventory/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory SQLite database, migrated and with foreign keys enforced.
// A single connection serializes transactions the way row locks would.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         database.NewGormLogger("silent"),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// SeedUser inserts an active user whose password equals its username
func SeedUser(t *testing.T, db *gorm.DB, username string, role model.Role) *model.User {
	t.Helper()

	user := &model.User{
		FullName: "User " + username,
		Username: username,
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, user.SetPassword(username))
	require.NoError(t, db.Create(user).Error)
	return user
}

func SeedCategory(t *testing.T, db *gorm.DB, name string) *model.Category {
	t.Helper()

	category := &model.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

// SeedItem inserts an item directly, bypassing the transaction log
func SeedItem(t *testing.T, db *gorm.DB, sku string, quantity, threshold int, categoryID *uuid.UUID) *model.Item {
	t.Helper()

	item := &model.Item{
		SKU:               sku,
		Name:              "Item " + sku,
		CategoryID:        categoryID,
		CurrentQuantity:   quantity,
		LowStockThreshold: threshold,
		UnitOfMeasurement: "pcs",
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

// Quantity reads current_quantity straight from the store
func Quantity(t *testing.T, db *gorm.DB, itemID uuid.UUID) int {
	t.Helper()

	var item model.Item
	require.NoError(t, db.First(&item, "id = ?", itemID).Error)
	return item.CurrentQuantity
}

// TransactionCount counts log rows for one item
func TransactionCount(t *testing.T, db *gorm.DB, itemID uuid.UUID) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&model.Transaction{}).Where("item_id = ?", itemID).Count(&count).Error)
	return count
}

// NewPostgresDB connects to TEST_DATABASE_URL with a real pool, or skips the test.
// Callers clean up the rows they create.
func NewPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.Connect(config.DatabaseConfig{
		URL:             dsn,
		MaxOpenConns:    16,
		MaxIdleConns:    4,
		ConnMaxLifetime: time.Minute,
		LogLevel:        "silent",
	}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
