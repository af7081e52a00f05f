package seeders

import (
	"fmt"
	"math/rand"

	"github.com/Rakhulsr/go-storefront/app/db/fakers"
	"github.com/Rakhulsr/go-storefront/app/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBSeed fills an empty catalog with count fake products and their reviews.
// A catalog that already has products is left alone.
func DBSeed(db *gorm.DB, count int, seed int64, log *zap.Logger) (int, error) {
	var existing int64
	if err := db.Model(&models.Product{}).Count(&existing).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if existing > 0 {
		log.Info("catalog already seeded", zap.Int64("products", existing))
		return 0, nil
	}

	rng := rand.New(rand.NewSource(seed))
	products := make([]*models.Product, 0, count)
	for i := 1; i <= count; i++ {
		products = append(products, fakers.ProductFaker(rng, uint(i)))
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, p := range products {
			if err := tx.Create(p).Error; err != nil {
				return fmt.Errorf("failed to seed product %d: %w", p.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info("catalog seeded", zap.Int("products", len(products)))
	return len(products), nil
}
