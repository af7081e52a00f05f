// Package testdb opens migrated in-memory SQLite databases for tests.
package testdb

import (
	"testing"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/models/migrations"
	"github.com/glebarez/sqlite"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a fresh database. It is pinned to one connection because
// every SQLite :memory: connection is a separate database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrations.AutoMigrate(db))
	return db
}

func SeedProduct(t testing.TB, db *gorm.DB, id uint, title, category, basePrice string) models.Product {
	t.Helper()

	product := models.Product{
		ID:          id,
		Title:       title,
		Slug:        slug.Make(title),
		Description: "About " + title,
		Category:    category,
		ImageURL:    "/images/" + slug.Make(title) + ".jpg",
		BasePrice:   decimal.RequireFromString(basePrice),
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func SeedReview(t testing.TB, db *gorm.DB, productID uint, stars int) models.Review {
	t.Helper()

	review := models.Review{ProductID: productID, Username: "shopper", Title: "Review", Comment: "Looks fine", Stars: stars}
	require.NoError(t, db.Create(&review).Error)
	return review
}
